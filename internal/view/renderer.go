// Package view renders the HTML surface. The Renderer interface keeps
// presentation swappable; the rest of the app only hands it a page
// name and a data context.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"movie-catalog/internal/domain"
	"movie-catalog/internal/flash"
	"movie-catalog/internal/session"
)

//go:embed templates
var templateFS embed.FS

// Data is the context handed to every page.
type Data struct {
	Title       string
	CurrentUser *session.Identity
	Flash       *flash.Message
	Errors      []string
	Old         map[string]string
	Search      string
	Movies      []domain.MovieWithCreator
	Movie       *domain.Movie
	CreatorName string
	PosterSrc   string
}

// Renderer renders a named page with its data context.
type Renderer interface {
	Render(w io.Writer, page string, data Data) error
}

var pages = []string{
	"home",
	"auth/register",
	"auth/login",
	"movies/index",
	"movies/new",
	"movies/edit",
	"movies/show",
}

// TemplateRenderer serves the embedded html/template pages.
type TemplateRenderer struct {
	templates map[string]*template.Template
}

func NewTemplateRenderer() (*TemplateRenderer, error) {
	funcs := template.FuncMap{
		"joinGenres": func(genres []string) string {
			return strings.Join(genres, ", ")
		},
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := template.New("layout.tmpl").Funcs(funcs).ParseFS(
			templateFS,
			"templates/layout.tmpl",
			"templates/"+page+".tmpl",
		)
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", page, err)
		}
		templates[page] = t
	}

	return &TemplateRenderer{templates: templates}, nil
}

func (r *TemplateRenderer) Render(w io.Writer, page string, data Data) error {
	t, ok := r.templates[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	if err := t.ExecuteTemplate(w, "layout.tmpl", data); err != nil {
		return fmt.Errorf("render page %s: %w", page, err)
	}
	return nil
}

var _ Renderer = (*TemplateRenderer)(nil)
