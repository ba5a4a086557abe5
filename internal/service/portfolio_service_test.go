package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projectshelf/internal/domain"
)

func newTestPortfolioService(t *testing.T) (PortfolioService, *memUsers, *memPortfolios) {
	t.Helper()
	users := newMemUsers()
	portfolios := newMemPortfolios(users)
	return NewPortfolioService(portfolios, users, quietLogger()), users, portfolios
}

func seedUser(t *testing.T, users *memUsers, name string) *domain.User {
	t.Helper()
	u := &domain.User{UserName: name, Email: name + "@x.com", PasswordHash: "h"}
	_, err := users.Create(context.Background(), u)
	require.NoError(t, err)
	return u
}

func TestCreateDerivesSlugAndDefaults(t *testing.T) {
	svc, users, _ := newTestPortfolioService(t)
	alice := seedUser(t, users, "alice")

	p, err := svc.Create(context.Background(), alice.ID, PortfolioInput{Title: "My Cool Project!", Overview: "<p>hi</p>"})
	require.NoError(t, err)
	assert.Equal(t, "my-cool-project", p.Slug)
	assert.Equal(t, domain.ThemeClassic, p.Theme)
	assert.Equal(t, alice.ID, p.UserID)
}

func TestCreateSlugConflict(t *testing.T) {
	svc, users, _ := newTestPortfolioService(t)
	alice := seedUser(t, users, "alice")
	bob := seedUser(t, users, "bob")
	ctx := context.Background()

	_, err := svc.Create(ctx, alice.ID, PortfolioInput{Title: "My Cool Project!", Overview: "o"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, bob.ID, PortfolioInput{Title: "  my cool -- project ", Overview: "o"})
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, "Title already exists. Choose a different title.", domain.MessageOf(err, ""))
}

func TestCreateLostRaceIsConflict(t *testing.T) {
	svc, users, portfolios := newTestPortfolioService(t)
	alice := seedUser(t, users, "alice")
	portfolios.createErr = domain.E(domain.KindConflict, "Title already exists. Choose a different title.")

	_, err := svc.Create(context.Background(), alice.ID, PortfolioInput{Title: "Race", Overview: "o"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreateValidation(t *testing.T) {
	svc, users, _ := newTestPortfolioService(t)
	alice := seedUser(t, users, "alice")

	tests := []struct {
		name string
		in   PortfolioInput
	}{
		{name: "blank title", in: PortfolioInput{Title: "  ", Overview: "o"}},
		{name: "blank overview", in: PortfolioInput{Title: "t"}},
		{name: "unknown theme", in: PortfolioInput{Title: "t", Overview: "o", Theme: "neon"}},
		{name: "title without alphanumerics", in: PortfolioInput{Title: "!!!", Overview: "o"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), alice.ID, tt.in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestUpdateKeepsSlugAndEnforcesOwner(t *testing.T) {
	svc, users, _ := newTestPortfolioService(t)
	alice := seedUser(t, users, "alice")
	mallory := seedUser(t, users, "mallory")
	ctx := context.Background()

	p, err := svc.Create(ctx, alice.ID, PortfolioInput{Title: "Original", Overview: "o"})
	require.NoError(t, err)

	title := "Renamed"
	_, err = svc.Update(ctx, mallory.ID, p.ID, domain.PortfolioPatch{Title: &title})
	require.ErrorIs(t, err, domain.ErrNotFound)

	updated, err := svc.Update(ctx, alice.ID, p.ID, domain.PortfolioPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "original", updated.Slug)

	_, err = svc.Update(ctx, alice.ID, "missing", domain.PortfolioPatch{Title: &title})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	bad := domain.Theme("neon")
	_, err = svc.Update(ctx, alice.ID, p.ID, domain.PortfolioPatch{Theme: &bad})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDeleteEnforcesOwner(t *testing.T) {
	svc, users, _ := newTestPortfolioService(t)
	alice := seedUser(t, users, "alice")
	mallory := seedUser(t, users, "mallory")
	ctx := context.Background()

	p, err := svc.Create(ctx, alice.ID, PortfolioInput{Title: "Mine", Overview: "o"})
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(ctx, mallory.ID, p.ID), domain.ErrNotFound)
	require.NoError(t, svc.Delete(ctx, alice.ID, p.ID))
	require.ErrorIs(t, svc.Delete(ctx, alice.ID, p.ID), domain.ErrNotFound)

	_, err = svc.Get(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetByOwnerNameAndSlug(t *testing.T) {
	svc, users, _ := newTestPortfolioService(t)
	alice := seedUser(t, users, "alice")
	seedUser(t, users, "bob")
	ctx := context.Background()

	p, err := svc.Create(ctx, alice.ID, PortfolioInput{Title: "My Cool Project!", Overview: "o"})
	require.NoError(t, err)

	got, owner, err := svc.GetByOwnerNameAndSlug(ctx, "alice", "My-Cool-Project")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, domain.Owner{ID: alice.ID, UserName: "alice"}, owner)

	_, _, err = svc.GetByOwnerNameAndSlug(ctx, "nobody", "my-cool-project")
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "User not found", domain.MessageOf(err, ""))

	_, _, err = svc.GetByOwnerNameAndSlug(ctx, "bob", "my-cool-project")
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "Portfolio not found", domain.MessageOf(err, ""))
}

func TestListings(t *testing.T) {
	svc, users, _ := newTestPortfolioService(t)
	alice := seedUser(t, users, "alice")
	bob := seedUser(t, users, "bob")
	ctx := context.Background()

	for _, title := range []string{"One", "Two"} {
		_, err := svc.Create(ctx, alice.ID, PortfolioInput{Title: title, Overview: "o", Tools: []string{"go"}})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, bob.ID, PortfolioInput{Title: "Three", Overview: "o"})
	require.NoError(t, err)

	mine, err := svc.ListByOwner(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "Two", mine[0].Title)

	all, err := svc.ListPublic(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	for _, s := range all {
		assert.NotEmpty(t, s.Owner.UserName)
	}
}
