// Package http wires the catalog routes. Handlers resolve identity
// through middleware, run the guard before any mutation, and hand
// results to the renderer; failed submissions re-render with the
// caller's input preserved.
package http

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"movie-catalog/internal/auth"
	"movie-catalog/internal/domain"
	"movie-catalog/internal/flash"
	"movie-catalog/internal/service"
	"movie-catalog/internal/session"
	"movie-catalog/internal/storage"
	"movie-catalog/internal/view"
)

const posterURLTTL = 15 * time.Minute

// Handler wires HTTP routes to domain services.
type Handler struct {
	log      *logrus.Logger
	users    service.UserService
	movies   service.MovieService
	sessions *session.Manager
	guard    *auth.Guard
	render   view.Renderer
	posters  storage.Service // nil when no bucket is configured
}

func NewHandler(
	log *logrus.Logger,
	users service.UserService,
	movies service.MovieService,
	sessions *session.Manager,
	guard *auth.Guard,
	render view.Renderer,
	posters storage.Service,
) *Handler {
	return &Handler{
		log:      log,
		users:    users,
		movies:   movies,
		sessions: sessions,
		guard:    guard,
		render:   render,
		posters:  posters,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(h.identity())

	router.GET("/", h.home)
	router.GET("/register", h.registerForm)
	router.POST("/register", h.register)
	router.GET("/login", h.loginForm)
	router.POST("/login", h.login)
	router.GET("/logout", h.logout)

	movies := router.Group("/movies")
	movies.GET("", h.listMovies)
	movies.GET("/:id", h.showMovie)

	owned := movies.Group("")
	owned.Use(h.requireAuth())
	owned.GET("/new", h.newMovieForm)
	owned.POST("", h.createMovie)
	owned.GET("/:id/edit", h.editMovieForm)
	owned.PUT("/:id", h.updateMovie)
	owned.DELETE("/:id", h.deleteMovie)
}

// renderPage fills the ambient view context (identity, pending flash)
// and writes the page.
func (h *Handler) renderPage(c *gin.Context, status int, page string, data view.Data) {
	data.CurrentUser = currentIdentity(c)
	data.Flash = flash.Take(c.Writer, c.Request)

	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := h.render.Render(c.Writer, page, data); err != nil {
		h.log.WithError(err).WithField("page", page).Error("render page")
	}
}

// failRedirect logs the underlying error and sends the caller on with
// a generic notice. Storage detail never reaches the response.
func (h *Handler) failRedirect(c *gin.Context, err error, notice, location string) {
	h.log.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
	flash.Error(c.Writer, notice)
	c.Redirect(http.StatusFound, location)
}

// ---- home & listing ----

func (h *Handler) home(c *gin.Context) {
	h.renderListing(c, "home", "Home")
}

func (h *Handler) listMovies(c *gin.Context) {
	h.renderListing(c, "movies/index", "Movies")
}

func (h *Handler) renderListing(c *gin.Context, page, title string) {
	search := c.Query("search")
	movies, err := h.movies.ListWithCreators(c.Request.Context(), search)
	if err != nil {
		h.log.WithError(err).Error("list movies")
		h.renderPage(c, http.StatusInternalServerError, page, view.Data{
			Title:  title,
			Search: search,
			Errors: []string{"Something went wrong."},
		})
		return
	}

	h.renderPage(c, http.StatusOK, page, view.Data{
		Title:  title,
		Search: search,
		Movies: movies,
	})
}

// ---- registration & login ----

func (h *Handler) registerForm(c *gin.Context) {
	h.renderPage(c, http.StatusOK, "auth/register", view.Data{
		Title: "Register",
		Old:   map[string]string{},
	})
}

func (h *Handler) register(c *gin.Context) {
	username := c.PostForm("username")
	email := c.PostForm("email")
	password := c.PostForm("password")
	confirm := c.PostForm("confirmPassword")

	_, err := h.users.Register(c.Request.Context(), username, email, password, confirm)
	if ve, ok := domain.AsValidation(err); ok {
		h.renderPage(c, http.StatusBadRequest, "auth/register", view.Data{
			Title:  "Register",
			Errors: ve.Messages,
			Old:    map[string]string{"username": username, "email": email},
		})
		return
	}
	if err != nil {
		h.failRedirect(c, err, "Error during registration.", "/register")
		return
	}

	flash.Success(c.Writer, "Registration successful. Please log in.")
	c.Redirect(http.StatusFound, "/login")
}

func (h *Handler) loginForm(c *gin.Context) {
	h.renderPage(c, http.StatusOK, "auth/login", view.Data{
		Title: "Log in",
		Old:   map[string]string{},
	})
}

func (h *Handler) login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	if username == "" || password == "" {
		h.renderPage(c, http.StatusBadRequest, "auth/login", view.Data{
			Title:  "Log in",
			Errors: []string{"Both username and password are required."},
			Old:    map[string]string{"username": username},
		})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), username, password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		h.renderPage(c, http.StatusBadRequest, "auth/login", view.Data{
			Title:  "Log in",
			Errors: []string{"Invalid username or password."},
			Old:    map[string]string{"username": username},
		})
		return
	}
	if err != nil {
		h.failRedirect(c, err, "Error logging in.", "/login")
		return
	}

	if err := h.sessions.Create(c.Request.Context(), c.Writer, user); err != nil {
		h.failRedirect(c, err, "Error logging in.", "/login")
		return
	}

	flash.Success(c.Writer, fmt.Sprintf("Welcome back, %s!", user.Username))
	c.Redirect(http.StatusFound, "/movies")
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.sessions.Destroy(c.Request.Context(), c.Writer, c.Request); err != nil {
		h.log.WithError(err).Warn("destroy session")
	}
	c.Redirect(http.StatusFound, "/")
}

// ---- movie lifecycle ----

func (h *Handler) newMovieForm(c *gin.Context) {
	h.renderPage(c, http.StatusOK, "movies/new", view.Data{
		Title: "Add a movie",
		Old:   map[string]string{},
	})
}

func (h *Handler) createMovie(c *gin.Context) {
	identity := currentIdentity(c)
	input := movieInput(c)

	location, err := h.storePoster(c, &input)
	if err != nil {
		h.failRedirect(c, err, "Error adding movie.", "/movies/new")
		return
	}

	_, err = h.movies.Create(c.Request.Context(), input, identity.UserID)
	if ve, ok := domain.AsValidation(err); ok {
		h.discardPoster(c, location)
		h.renderPage(c, http.StatusBadRequest, "movies/new", view.Data{
			Title:  "Add a movie",
			Errors: ve.Messages,
			Old:    movieOld(input),
		})
		return
	}
	if err != nil {
		h.discardPoster(c, location)
		h.failRedirect(c, err, "Error adding movie.", "/movies/new")
		return
	}

	flash.Success(c.Writer, "Movie added successfully.")
	c.Redirect(http.StatusFound, "/movies")
}

func (h *Handler) showMovie(c *gin.Context) {
	movie, err := h.movies.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, domain.ErrNotFound) {
		flash.Error(c.Writer, "Movie not found.")
		c.Redirect(http.StatusFound, "/movies")
		return
	}
	if err != nil {
		h.failRedirect(c, err, "Something went wrong.", "/movies")
		return
	}

	creator, err := h.movies.CreatorName(c.Request.Context(), movie)
	if err != nil {
		h.log.WithError(err).WithField("movie", movie.ID).Warn("resolve creator name")
	}

	h.renderPage(c, http.StatusOK, "movies/show", view.Data{
		Title:       movie.Name,
		Movie:       movie,
		CreatorName: creator,
		PosterSrc:   h.posterSrc(c, movie),
	})
}

func (h *Handler) editMovieForm(c *gin.Context) {
	movie, ok := h.requireOwner(c)
	if !ok {
		return
	}

	h.renderPage(c, http.StatusOK, "movies/edit", view.Data{
		Title: "Edit " + movie.Name,
		Movie: movie,
		Old:   movieToOld(movie),
	})
}

func (h *Handler) updateMovie(c *gin.Context) {
	movie, ok := h.requireOwner(c)
	if !ok {
		return
	}

	input := movieInput(c)
	location, err := h.storePoster(c, &input)
	if err != nil {
		h.failRedirect(c, err, "Error updating movie.", "/movies")
		return
	}

	updated, err := h.movies.Update(c.Request.Context(), movie, input)
	if ve, ok := domain.AsValidation(err); ok {
		h.discardPoster(c, location)
		h.renderPage(c, http.StatusBadRequest, "movies/edit", view.Data{
			Title:  "Edit " + movie.Name,
			Movie:  movie,
			Errors: ve.Messages,
			Old:    movieOld(input),
		})
		return
	}
	if err != nil {
		h.discardPoster(c, location)
		h.failRedirect(c, err, "Error updating movie.", "/movies")
		return
	}

	if movie.PosterURL != updated.PosterURL {
		h.discardPoster(c, movie.PosterURL)
	}

	flash.Success(c.Writer, "Movie updated.")
	c.Redirect(http.StatusFound, "/movies/"+updated.ID)
}

func (h *Handler) deleteMovie(c *gin.Context) {
	movie, ok := h.requireOwner(c)
	if !ok {
		return
	}

	if err := h.movies.Delete(c.Request.Context(), movie.ID); err != nil {
		h.failRedirect(c, err, "Error deleting movie.", "/movies")
		return
	}
	h.discardPoster(c, movie.PosterURL)

	flash.Success(c.Writer, "Movie deleted.")
	c.Redirect(http.StatusFound, "/movies")
}

// requireOwner runs the guard and translates its failures into the
// flash-and-redirect flow. Not-found and forbidden both land the
// caller back on the listing.
func (h *Handler) requireOwner(c *gin.Context) (*domain.Movie, bool) {
	movie, err := h.guard.RequireOwner(c.Request.Context(), currentIdentity(c), c.Param("id"))
	switch {
	case errors.Is(err, domain.ErrNotFound):
		flash.Error(c.Writer, "Movie not found.")
	case errors.Is(err, domain.ErrForbidden):
		flash.Error(c.Writer, "You are not allowed to edit/delete this movie.")
	case err != nil:
		h.log.WithError(err).WithField("movie", c.Param("id")).Error("ownership check")
		flash.Error(c.Writer, "Something went wrong.")
	default:
		return movie, true
	}
	c.Redirect(http.StatusFound, "/movies")
	c.Abort()
	return nil, false
}

// ---- form plumbing ----

func movieInput(c *gin.Context) service.MovieInput {
	return service.MovieInput{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Year:        c.PostForm("year"),
		Genres:      c.PostForm("genres"),
		Rating:      c.PostForm("rating"),
		PosterURL:   c.PostForm("posterUrl"),
	}
}

func movieOld(input service.MovieInput) map[string]string {
	return map[string]string{
		"name":        input.Name,
		"description": input.Description,
		"year":        input.Year,
		"genres":      input.Genres,
		"rating":      input.Rating,
		"posterUrl":   input.PosterURL,
	}
}

func movieToOld(movie *domain.Movie) map[string]string {
	return map[string]string{
		"name":        movie.Name,
		"description": movie.Description,
		"year":        fmt.Sprintf("%d", movie.Year),
		"genres":      strings.Join(movie.Genres, ", "),
		"rating":      strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.1f", movie.Rating), "0"), "."),
		"posterUrl":   movie.PosterURL,
	}
}

// ---- posters ----

// storePoster uploads a submitted poster file, when object storage is
// configured, and points the input at the stored location. Returns
// the location so callers can discard it if the submission fails.
func (h *Handler) storePoster(c *gin.Context, input *service.MovieInput) (string, error) {
	if h.posters == nil {
		return "", nil
	}

	file, header, err := c.Request.FormFile("poster")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", fmt.Errorf("read poster upload: %w", err)
	}
	defer file.Close()

	location, err := h.posters.UploadPoster(
		c.Request.Context(),
		posterKey(header),
		file,
		header.Header.Get("Content-Type"),
	)
	if err != nil {
		return "", err
	}

	input.PosterURL = location
	return location, nil
}

func posterKey(header *multipart.FileHeader) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
}

// discardPoster best-effort removes an uploaded poster that its movie
// no longer references.
func (h *Handler) discardPoster(c *gin.Context, location string) {
	if h.posters == nil || !storage.IsLocation(location) {
		return
	}
	if err := h.posters.DeletePoster(c.Request.Context(), location); err != nil {
		h.log.WithError(err).WithField("location", location).Warn("discard poster")
	}
}

// posterSrc resolves a stored poster reference to something a browser
// can fetch. Plain URLs pass through untouched.
func (h *Handler) posterSrc(c *gin.Context, movie *domain.Movie) string {
	if !storage.IsLocation(movie.PosterURL) {
		return movie.PosterURL
	}
	if h.posters == nil {
		return ""
	}
	url, err := h.posters.PosterURL(c.Request.Context(), movie.PosterURL, posterURLTTL)
	if err != nil {
		h.log.WithError(err).WithField("movie", movie.ID).Warn("presign poster url")
		return ""
	}
	return url
}
