package domain

import "time"

// User represents a registered account. Identity fields are fixed at
// registration; there is no update or delete path for users.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
