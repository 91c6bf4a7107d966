package repository

import (
	"context"

	"movie-catalog/internal/domain"
)

// MovieRepository defines persistence operations for Movie entities.
type MovieRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, movie *domain.Movie) error
	Get(ctx context.Context, id string) (*domain.Movie, error)
	// List returns all movies in insertion order.
	List(ctx context.Context) ([]domain.Movie, error)
	// Update persists every mutable field of the movie. The creator
	// column is never part of the update.
	Update(ctx context.Context, movie *domain.Movie) error
	// Delete removes the movie. Deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error
}
