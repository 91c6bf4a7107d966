package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"movie-catalog/internal/domain"
)

const CookieName = "catalog_session"

// Manager issues, resolves, and destroys sessions. Resolution never
// errors for anonymous callers; absence of identity is a normal state.
type Manager struct {
	store  Store
	ttl    time.Duration
	secure bool
}

func NewManager(store Store, ttl time.Duration, secure bool) *Manager {
	return &Manager{
		store:  store,
		ttl:    ttl,
		secure: secure,
	}
}

// generateID returns 256 bits of entropy, URL-safe encoded.
func generateID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("session: generate id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Create binds a fresh opaque token to the user's identity snapshot
// and issues the session cookie.
func (m *Manager) Create(ctx context.Context, w http.ResponseWriter, user *domain.User) error {
	id, err := generateID()
	if err != nil {
		return err
	}

	s := Session{
		ID: id,
		Identity: Identity{
			UserID:   user.ID,
			Username: user.Username,
			Email:    user.Email,
		},
		ExpiresAt: time.Now().Add(m.ttl),
	}
	if err := m.store.Create(ctx, s); err != nil {
		return fmt.Errorf("session: store: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.ID,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Resolve returns the identity bound to the request's session cookie,
// or nil for anonymous callers. Expired sessions are removed on sight.
func (m *Manager) Resolve(ctx context.Context, r *http.Request) (*Identity, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	s, err := m.store.Get(ctx, cookie.Value)
	if err != nil {
		return nil, fmt.Errorf("session: load: %w", err)
	}
	if s == nil {
		return nil, nil
	}
	if time.Now().After(s.ExpiresAt) {
		_ = m.store.Delete(ctx, cookie.Value)
		return nil, nil
	}

	identity := s.Identity
	return &identity, nil
}

// Destroy invalidates the request's session, if any, and clears the
// cookie. Destroying a missing session is not an error.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		if err := m.store.Delete(ctx, cookie.Value); err != nil {
			return fmt.Errorf("session: delete: %w", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
