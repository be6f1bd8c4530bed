package note

import (
	"errors"
	"time"
)

// ErrNotFound covers both "no such note" and "note owned by someone else".
// Every lookup is scoped by (id, user_id), so the two cases are deliberately
// indistinguishable to callers.
var ErrNotFound = errors.New("note not found")

type Note struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CreatedOn  time.Time `json:"created_on"`
	LastUpdate time.Time `json:"last_update"`
}

type CreateNoteRequest struct {
	Title   string `json:"title" binding:"required,min=1,max=200"`
	Content string `json:"content" binding:"required,max=20000"`
}

// a full update payload, same shape as create.
type UpdateNoteRequest struct {
	Title   string `json:"title" binding:"required,min=1,max=200"`
	Content string `json:"content" binding:"required,max=20000"`
}
