package domain

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden indicates the caller is authenticated but not the owner.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidCredentials is returned for any failed login attempt.
	// It deliberately does not distinguish unknown users from wrong
	// passwords.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ValidationError carries every failing field message from a single
// submission so callers can render them all at once.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, " ")
}

// AsValidation unwraps err into a *ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
