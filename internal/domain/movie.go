package domain

import "time"

// Movie is a catalog entry. CreatedBy references the user that
// submitted it and is never reassigned after creation.
type Movie struct {
	ID          string
	Name        string
	Description string
	Year        int
	Genres      []string
	Rating      float64
	PosterURL   string
	CreatedBy   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MovieWithCreator pairs a movie with its creator's username for
// listing pages.
type MovieWithCreator struct {
	Movie
	CreatorName string
}
