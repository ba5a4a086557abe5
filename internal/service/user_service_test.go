package service

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"projectshelf/internal/auth"
	"projectshelf/internal/domain"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestUserService(t *testing.T) (UserService, *memUsers, *auth.TokenManager) {
	t.Helper()
	tokens, err := auth.NewTokenManager("test-secret", 0)
	require.NoError(t, err)
	users := newMemUsers()
	return NewUserService(users, tokens, bcrypt.MinCost, quietLogger()), users, tokens
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, users, _ := newTestUserService(t)
	ctx := context.Background()

	pub, err := svc.Register(ctx, RegisterInput{UserName: " alice ", Email: "a@x.com", Password: "p"})
	require.NoError(t, err)
	assert.Equal(t, "alice", pub.UserName)
	assert.NotEmpty(t, pub.ID)

	stored, err := users.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "p", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("p")))
}

func TestRegisterConflicts(t *testing.T) {
	svc, _, _ := newTestUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{UserName: "alice", Email: "a@x.com", Password: "p"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{UserName: "someone", Email: "a@x.com", Password: "q"})
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, "Email already exists", domain.MessageOf(err, ""))

	_, err = svc.Register(ctx, RegisterInput{UserName: "alice", Email: "b@x.com", Password: "q"})
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, "Username already exists", domain.MessageOf(err, ""))
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newTestUserService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   RegisterInput
	}{
		{name: "missing user name", in: RegisterInput{Email: "a@x.com", Password: "p"}},
		{name: "missing email", in: RegisterInput{UserName: "a", Password: "p"}},
		{name: "malformed email", in: RegisterInput{UserName: "a", Email: "not-an-email", Password: "p"}},
		{name: "display name email", in: RegisterInput{UserName: "a", Email: "A <a@x.com>", Password: "p"}},
		{name: "missing password", in: RegisterInput{UserName: "a", Email: "a@x.com"}},
		{name: "reserved user name", in: RegisterInput{UserName: "Portfolio", Email: "a@x.com", Password: "p"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestLogin(t *testing.T) {
	svc, users, tokens := newTestUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{UserName: "alice", Email: "a@x.com", Password: "p"})
	require.NoError(t, err)
	stored, err := users.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)

	res, err := svc.Login(ctx, "a@x.com", "p")
	require.NoError(t, err)
	assert.Equal(t, stored.ID, res.User.ID)

	claims, err := tokens.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, claims.UserID)
	assert.Equal(t, "alice", claims.UserName)
}

func TestLoginFailures(t *testing.T) {
	svc, _, _ := newTestUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{UserName: "alice", Email: "a@x.com", Password: "p"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "nobody@x.com", "p")
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "This EmailId is not registered", domain.MessageOf(err, ""))

	_, err = svc.Login(ctx, "a@x.com", "wrong")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, "Incorrect Password", domain.MessageOf(err, ""))
}

func TestGetByID(t *testing.T) {
	svc, _, _ := newTestUserService(t)
	ctx := context.Background()

	pub, err := svc.Register(ctx, RegisterInput{UserName: "alice", Email: "a@x.com", Password: "p", Role: "designer"})
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, pub.ID)
	require.NoError(t, err)
	assert.Equal(t, "designer", got.Role)

	_, err = svc.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
