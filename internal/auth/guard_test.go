package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-catalog/internal/domain"
	"movie-catalog/internal/session"
)

type fakeMovieRepo struct {
	movies map[string]domain.Movie
}

func (f *fakeMovieRepo) Init(context.Context) error { return nil }

func (f *fakeMovieRepo) Create(_ context.Context, movie *domain.Movie) error {
	f.movies[movie.ID] = *movie
	return nil
}

func (f *fakeMovieRepo) Get(_ context.Context, id string) (*domain.Movie, error) {
	m, ok := f.movies[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &m, nil
}

func (f *fakeMovieRepo) List(context.Context) ([]domain.Movie, error) { return nil, nil }

func (f *fakeMovieRepo) Update(_ context.Context, movie *domain.Movie) error {
	f.movies[movie.ID] = *movie
	return nil
}

func (f *fakeMovieRepo) Delete(_ context.Context, id string) error {
	delete(f.movies, id)
	return nil
}

func newGuard() *Guard {
	return NewGuard(&fakeMovieRepo{movies: map[string]domain.Movie{
		"m1": {ID: "m1", Name: "Dune", CreatedBy: 1},
	}})
}

func TestRequireOwner_Owner(t *testing.T) {
	g := newGuard()

	movie, err := g.RequireOwner(context.Background(), &session.Identity{UserID: 1}, "m1")
	require.NoError(t, err)
	require.NotNil(t, movie)
	assert.Equal(t, "Dune", movie.Name)
}

func TestRequireOwner_NonOwner(t *testing.T) {
	g := newGuard()

	_, err := g.RequireOwner(context.Background(), &session.Identity{UserID: 2}, "m1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRequireOwner_Anonymous(t *testing.T) {
	g := newGuard()

	_, err := g.RequireOwner(context.Background(), nil, "m1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// A missing movie answers not-found for everyone, owner or not, so
// the response never hints at whether the id exists.
func TestRequireOwner_MissingBeforeForbidden(t *testing.T) {
	g := newGuard()

	for _, identity := range []*session.Identity{nil, {UserID: 1}, {UserID: 2}} {
		_, err := g.RequireOwner(context.Background(), identity, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}
}
