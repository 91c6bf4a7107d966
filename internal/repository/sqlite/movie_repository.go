package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"movie-catalog/internal/domain"
	"movie-catalog/internal/repository"
)

const createMoviesTable = `
CREATE TABLE IF NOT EXISTS movies (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL,
	year INTEGER NOT NULL,
	genres TEXT NOT NULL,
	rating REAL NOT NULL,
	poster_url TEXT NOT NULL DEFAULT '',
	created_by INTEGER NOT NULL REFERENCES users(id),
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

type MovieRepository struct {
	db *sql.DB
}

func NewMovieRepository(db *sql.DB) repository.MovieRepository {
	return &MovieRepository{db: db}
}

func (r *MovieRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createMoviesTable); err != nil {
		return fmt.Errorf("create movies table: %w", err)
	}
	return nil
}

func (r *MovieRepository) Create(ctx context.Context, movie *domain.Movie) error {
	now := time.Now().UTC()
	movie.CreatedAt = now
	movie.UpdatedAt = now

	genres, err := json.Marshal(movie.Genres)
	if err != nil {
		return fmt.Errorf("encode genres: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `
INSERT INTO movies (id, name, description, year, genres, rating, poster_url, created_by, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		movie.ID,
		movie.Name,
		movie.Description,
		movie.Year,
		string(genres),
		movie.Rating,
		movie.PosterURL,
		movie.CreatedBy,
		movie.CreatedAt,
		movie.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert movie: %w", err)
	}
	return nil
}

func (r *MovieRepository) Get(ctx context.Context, id string) (*domain.Movie, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, name, description, year, genres, rating, poster_url, created_by, created_at, updated_at
FROM movies
WHERE id = ?`,
		id,
	)
	return scanMovie(row)
}

func (r *MovieRepository) List(ctx context.Context) ([]domain.Movie, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, description, year, genres, rating, poster_url, created_by, created_at, updated_at
FROM movies
ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer rows.Close()

	var movies []domain.Movie
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, *movie)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}
	return movies, nil
}

func (r *MovieRepository) Update(ctx context.Context, movie *domain.Movie) error {
	movie.UpdatedAt = time.Now().UTC()

	genres, err := json.Marshal(movie.Genres)
	if err != nil {
		return fmt.Errorf("encode genres: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE movies
SET name = ?, description = ?, year = ?, genres = ?, rating = ?, poster_url = ?, updated_at = ?
WHERE id = ?`,
		movie.Name,
		movie.Description,
		movie.Year,
		string(genres),
		movie.Rating,
		movie.PosterURL,
		movie.UpdatedAt,
		movie.ID,
	)
	if err != nil {
		return fmt.Errorf("update movie: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update movie rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MovieRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	return nil
}

func scanMovie(row interface {
	Scan(dest ...any) error
}) (*domain.Movie, error) {
	var (
		movie  domain.Movie
		genres string
	)
	if err := row.Scan(
		&movie.ID,
		&movie.Name,
		&movie.Description,
		&movie.Year,
		&genres,
		&movie.Rating,
		&movie.PosterURL,
		&movie.CreatedBy,
		&movie.CreatedAt,
		&movie.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan movie: %w", err)
	}
	if err := json.Unmarshal([]byte(genres), &movie.Genres); err != nil {
		return nil, fmt.Errorf("decode genres: %w", err)
	}
	return &movie, nil
}
