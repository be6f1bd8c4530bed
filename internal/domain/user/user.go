package user

import (
	"errors"
	"time"
)

var (
	// ErrEmailTaken is returned by repositories when a user with the same
	// email already exists. The check-then-insert sequence is not atomic,
	// two concurrent registrations can still slip past it (see DESIGN.md).
	ErrEmailTaken = errors.New("email already taken")

	ErrNotFound = errors.New("user not found")
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	CreatedOn    time.Time `json:"created_on"`
	LastUpdate   time.Time `json:"last_update"`
}

// Summary is the shape returned to callers after login; it deliberately
// carries no password hash.
type Summary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (u User) Summary() Summary {
	return Summary{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}
