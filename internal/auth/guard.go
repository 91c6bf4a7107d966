// Package auth decides whether a caller may act on a movie. Ownership
// is checked against storage on every request; client-supplied creator
// data is never trusted.
package auth

import (
	"context"

	"movie-catalog/internal/domain"
	"movie-catalog/internal/repository"
	"movie-catalog/internal/session"
)

type Guard struct {
	movies repository.MovieRepository
}

func NewGuard(movies repository.MovieRepository) *Guard {
	return &Guard{movies: movies}
}

// RequireOwner loads the movie and verifies the caller owns it. The
// existence check comes first so a missing movie answers the same way
// for everyone. The loaded movie is returned so callers don't look it
// up again.
func (g *Guard) RequireOwner(ctx context.Context, identity *session.Identity, movieID string) (*domain.Movie, error) {
	movie, err := g.movies.Get(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if identity == nil || movie.CreatedBy != identity.UserID {
		return nil, domain.ErrForbidden
	}
	return movie, nil
}
