package service

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"movie-catalog/internal/domain"
	"movie-catalog/internal/repository"
)

// MovieInput carries the raw form values of a create or edit
// submission. Numeric fields stay strings until validation.
type MovieInput struct {
	Name        string
	Description string
	Year        string
	Genres      string
	Rating      string
	PosterURL   string
}

// MovieService coordinates the movie lifecycle and listing queries.
type MovieService interface {
	Create(ctx context.Context, input MovieInput, creatorID int64) (*domain.Movie, error)
	Update(ctx context.Context, movie *domain.Movie, input MovieInput) (*domain.Movie, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*domain.Movie, error)
	List(ctx context.Context, filter string) ([]domain.Movie, error)
	ListWithCreators(ctx context.Context, filter string) ([]domain.MovieWithCreator, error)
	CreatorName(ctx context.Context, movie *domain.Movie) (string, error)
}

type movieService struct {
	movies repository.MovieRepository
	users  repository.UserRepository
}

func NewMovieService(movies repository.MovieRepository, users repository.UserRepository) MovieService {
	return &movieService{
		movies: movies,
		users:  users,
	}
}

type movieFields struct {
	name        string
	description string
	year        int
	genres      []string
	rating      float64
	posterURL   string
}

// parseFields validates every field and collects all failures so the
// form can show them in one response.
func parseFields(input MovieInput) (movieFields, []string) {
	var (
		fields   movieFields
		messages []string
	)

	fields.name = strings.TrimSpace(input.Name)
	if fields.name == "" {
		messages = append(messages, "Name is required.")
	}

	fields.description = strings.TrimSpace(input.Description)
	if fields.description == "" {
		messages = append(messages, "Description is required.")
	}

	year, err := strconv.Atoi(strings.TrimSpace(input.Year))
	if err != nil {
		messages = append(messages, "Valid year is required.")
	} else {
		fields.year = year
	}

	fields.genres = splitGenres(input.Genres)
	if len(fields.genres) == 0 {
		messages = append(messages, "At least one genre is required.")
	}

	rating, err := strconv.ParseFloat(strings.TrimSpace(input.Rating), 64)
	switch {
	case err != nil || math.IsNaN(rating) || math.IsInf(rating, 0):
		messages = append(messages, "Valid rating is required.")
	case rating < 0 || rating > 10:
		messages = append(messages, "Rating must be between 0 and 10.")
	default:
		fields.rating = rating
	}

	fields.posterURL = strings.TrimSpace(input.PosterURL)

	return fields, messages
}

func splitGenres(raw string) []string {
	var genres []string
	for _, token := range strings.Split(raw, ",") {
		if token = strings.TrimSpace(token); token != "" {
			genres = append(genres, token)
		}
	}
	return genres
}

func (s *movieService) Create(ctx context.Context, input MovieInput, creatorID int64) (*domain.Movie, error) {
	fields, messages := parseFields(input)
	if len(messages) > 0 {
		return nil, &domain.ValidationError{Messages: messages}
	}

	movie := &domain.Movie{
		ID:          uuid.NewString(),
		Name:        fields.name,
		Description: fields.description,
		Year:        fields.year,
		Genres:      fields.genres,
		Rating:      fields.rating,
		PosterURL:   fields.posterURL,
		CreatedBy:   creatorID,
	}
	if err := s.movies.Create(ctx, movie); err != nil {
		return nil, err
	}
	return movie, nil
}

func (s *movieService) Update(ctx context.Context, movie *domain.Movie, input MovieInput) (*domain.Movie, error) {
	fields, messages := parseFields(input)
	if len(messages) > 0 {
		return nil, &domain.ValidationError{Messages: messages}
	}

	// ID and CreatedBy stay as loaded, whatever the form carried
	updated := *movie
	updated.Name = fields.name
	updated.Description = fields.description
	updated.Year = fields.year
	updated.Genres = fields.genres
	updated.Rating = fields.rating
	updated.PosterURL = fields.posterURL

	if err := s.movies.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *movieService) Delete(ctx context.Context, id string) error {
	return s.movies.Delete(ctx, id)
}

func (s *movieService) Get(ctx context.Context, id string) (*domain.Movie, error) {
	return s.movies.Get(ctx, id)
}

func (s *movieService) List(ctx context.Context, filter string) ([]domain.Movie, error) {
	movies, err := s.movies.List(ctx)
	if err != nil {
		return nil, err
	}

	filter = strings.TrimSpace(filter)
	if filter == "" {
		return movies, nil
	}

	matched := movies[:0:0]
	for _, movie := range movies {
		if matchesFilter(movie, filter) {
			matched = append(matched, movie)
		}
	}
	return matched, nil
}

func (s *movieService) ListWithCreators(ctx context.Context, filter string) ([]domain.MovieWithCreator, error) {
	movies, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	names := map[int64]string{}
	out := make([]domain.MovieWithCreator, 0, len(movies))
	for _, movie := range movies {
		name, ok := names[movie.CreatedBy]
		if !ok {
			name, err = s.CreatorName(ctx, &movie)
			if err != nil {
				return nil, err
			}
			names[movie.CreatedBy] = name
		}
		out = append(out, domain.MovieWithCreator{Movie: movie, CreatorName: name})
	}
	return out, nil
}

func (s *movieService) CreatorName(ctx context.Context, movie *domain.Movie) (string, error) {
	user, err := s.users.GetByID(ctx, movie.CreatedBy)
	if err != nil {
		return "", err
	}
	return user.Username, nil
}

// matchesFilter applies the listing filter: a case-insensitive literal
// substring match on name, description, or any genre, or an exact
// year/rating match when the filter is numeric. No pattern syntax.
func matchesFilter(movie domain.Movie, filter string) bool {
	needle := strings.ToLower(filter)

	if strings.Contains(strings.ToLower(movie.Name), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(movie.Description), needle) {
		return true
	}
	for _, genre := range movie.Genres {
		if strings.Contains(strings.ToLower(genre), needle) {
			return true
		}
	}

	if n, err := strconv.ParseFloat(filter, 64); err == nil {
		if float64(movie.Year) == n || movie.Rating == n {
			return true
		}
	}
	return false
}
