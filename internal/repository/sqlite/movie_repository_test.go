package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-catalog/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, NewUserRepository(db).Init(ctx))
	require.NoError(t, NewMovieRepository(db).Init(ctx))
	return db
}

func seedUser(t *testing.T, db *sql.DB, username string) int64 {
	t.Helper()
	id, err := NewUserRepository(db).Create(context.Background(), &domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	})
	require.NoError(t, err)
	return id
}

func sampleMovie(creator int64) *domain.Movie {
	return &domain.Movie{
		ID:          uuid.NewString(),
		Name:        "Dune",
		Description: "desert planet",
		Year:        2021,
		Genres:      []string{"Sci-Fi", "Adventure"},
		Rating:      8.5,
		CreatedBy:   creator,
	}
}

func TestMovieRepository_RoundTrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewMovieRepository(db)
	creator := seedUser(t, db, "alice")

	movie := sampleMovie(creator)
	require.NoError(t, repo.Create(context.Background(), movie))

	got, err := repo.Get(context.Background(), movie.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Name)
	assert.Equal(t, 2021, got.Year)
	assert.Equal(t, []string{"Sci-Fi", "Adventure"}, got.Genres)
	assert.Equal(t, 8.5, got.Rating)
	assert.Equal(t, creator, got.CreatedBy)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestMovieRepository_ListKeepsInsertionOrder(t *testing.T) {
	db := openTestDB(t)
	repo := NewMovieRepository(db)
	creator := seedUser(t, db, "alice")

	first := sampleMovie(creator)
	second := sampleMovie(creator)
	second.Name = "Arrival"
	require.NoError(t, repo.Create(context.Background(), first))
	require.NoError(t, repo.Create(context.Background(), second))

	movies, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, "Dune", movies[0].Name)
	assert.Equal(t, "Arrival", movies[1].Name)
}

func TestMovieRepository_UpdateLeavesCreator(t *testing.T) {
	db := openTestDB(t)
	repo := NewMovieRepository(db)
	creator := seedUser(t, db, "alice")

	movie := sampleMovie(creator)
	require.NoError(t, repo.Create(context.Background(), movie))

	movie.Name = "Dune: Part Two"
	movie.Year = 2024
	require.NoError(t, repo.Update(context.Background(), movie))

	got, err := repo.Get(context.Background(), movie.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune: Part Two", got.Name)
	assert.Equal(t, creator, got.CreatedBy)
}

func TestMovieRepository_UpdateMissing(t *testing.T) {
	db := openTestDB(t)
	repo := NewMovieRepository(db)

	movie := sampleMovie(seedUser(t, db, "alice"))
	err := repo.Update(context.Background(), movie)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMovieRepository_DeleteAbsentIsFine(t *testing.T) {
	db := openTestDB(t)
	repo := NewMovieRepository(db)
	creator := seedUser(t, db, "alice")

	movie := sampleMovie(creator)
	require.NoError(t, repo.Create(context.Background(), movie))
	require.NoError(t, repo.Delete(context.Background(), movie.ID))
	require.NoError(t, repo.Delete(context.Background(), movie.ID))

	_, err := repo.Get(context.Background(), movie.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepository_Exists(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	seedUser(t, db, "alice")

	byUsername, err := repo.Exists(context.Background(), "alice", "other@example.com")
	require.NoError(t, err)
	assert.True(t, byUsername)

	byEmail, err := repo.Exists(context.Background(), "other", "alice@example.com")
	require.NoError(t, err)
	assert.True(t, byEmail)

	// exact match only, case matters
	cased, err := repo.Exists(context.Background(), "Alice", "ALICE@example.com")
	require.NoError(t, err)
	assert.False(t, cased)

	free, err := repo.Exists(context.Background(), "bob", "bob@example.com")
	require.NoError(t, err)
	assert.False(t, free)
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	seedUser(t, db, "alice")

	_, err := repo.Create(context.Background(), &domain.User{
		Username:     "alice",
		Email:        "second@example.com",
		PasswordHash: "x",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
