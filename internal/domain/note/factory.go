package note

import (
	"time"

	"github.com/google/uuid"
)

func NewFromCreateRequest(userID string, req CreateNoteRequest) Note {
	now := time.Now().UTC()

	return Note{
		ID:         uuid.NewString(),
		UserID:     userID,
		Title:      req.Title,
		Content:    req.Content,
		CreatedOn:  now,
		LastUpdate: now,
	}
}
