package repository

import (
	"context"

	"movie-catalog/internal/domain"
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	// Exists reports whether a user with the exact username or the
	// exact email is already registered.
	Exists(ctx context.Context, username, email string) (bool, error)
}
