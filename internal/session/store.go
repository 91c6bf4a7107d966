package session

import (
	"context"
	"time"
)

// Identity is the authenticated user snapshot bound to a session.
// It carries identity only, never authorization state.
type Identity struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Session binds an opaque token to an identity snapshot with an
// absolute expiry.
type Session struct {
	ID        string    `json:"id"`
	Identity  Identity  `json:"identity"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store defines how sessions are stored and retrieved. A missing
// session is (nil, nil), not an error.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}
