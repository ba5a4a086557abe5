package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"projectshelf/internal/domain"
	"projectshelf/internal/repository"
)

// reservedUserNames are first path segments owned by other routes; a user with
// one of these names could never be reached at /:userName/:slug.
var reservedUserNames = map[string]struct{}{
	"auth":           {},
	"portfolio":      {},
	"metrics":        {},
	"all-portfolios": {},
	"healthz":        {},
	"debug":          {},
}

// TokenIssuer mints bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID, userName string) (string, error)
}

// RegisterInput carries the registration form.
type RegisterInput struct {
	UserName string
	Email    string
	Password string
	Role     string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token string
	User  *domain.PublicUser
}

// UserService describes user lifecycle operations.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.PublicUser, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	GetByID(ctx context.Context, id string) (*domain.PublicUser, error)
}

type userService struct {
	users      repository.UserRepository
	tokens     TokenIssuer
	bcryptCost int
	logger     *logrus.Logger
}

func NewUserService(users repository.UserRepository, tokens TokenIssuer, bcryptCost int, logger *logrus.Logger) UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &userService{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*domain.PublicUser, error) {
	userName := strings.TrimSpace(in.UserName)
	email := strings.TrimSpace(in.Email)
	role := strings.TrimSpace(in.Role)

	if userName == "" {
		return nil, domain.E(domain.KindValidation, "userName is required")
	}
	if email == "" {
		return nil, domain.E(domain.KindValidation, "email is required")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, domain.E(domain.KindValidation, "email is invalid")
	}
	if in.Password == "" {
		return nil, domain.E(domain.KindValidation, "password is required")
	}
	if _, reserved := reservedUserNames[strings.ToLower(userName)]; reserved {
		return nil, domain.E(domain.KindValidation, fmt.Sprintf("userName %q is reserved", userName))
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, domain.E(domain.KindConflict, "Email already exists")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if _, err := s.users.GetByUserName(ctx, userName); err == nil {
		return nil, domain.E(domain.KindConflict, "Username already exists")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		UserName:     userName,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"user_id": user.ID, "user_name": user.UserName}).Info("user registered")
	return user.Public(), nil
}

func (s *userService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.E(domain.KindValidation, "email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.E(domain.KindNotFound, "This EmailId is not registered")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.Wrap(domain.KindUnauthorized, "Incorrect Password", err)
	}

	token, err := s.tokens.Issue(user.ID, user.UserName)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{Token: token, User: user.Public()}, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.PublicUser, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}
