package repository

import (
	"context"

	"projectshelf/internal/domain"
)

// UserRepository defines persistence operations for User entities.
// Create reports a duplicate userName or email as domain.ErrConflict.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (string, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUserName(ctx context.Context, userName string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}
