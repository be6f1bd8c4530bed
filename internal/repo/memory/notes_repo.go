package memory

import (
	"context"
	"sync"
	"time"

	"github.com/geocoder89/notehub/internal/domain/note"
)

// NotesRepo keeps notes in insertion order so repeated lists over unchanged
// data come back in a stable order, matching the postgres repo.
type NotesRepo struct {
	mu    sync.RWMutex
	items []note.Note
}

func NewNotesRepo() *NotesRepo {
	return &NotesRepo{
		items: make([]note.Note, 0),
	}
}

func (r *NotesRepo) Create(_ context.Context, userID string, req note.CreateNoteRequest) (note.Note, error) {
	n := note.NewFromCreateRequest(userID, req)

	r.mu.Lock()
	r.items = append(r.items, n)
	r.mu.Unlock()

	return n, nil
}

func (r *NotesRepo) ListByUser(_ context.Context, userID string) ([]note.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	output := make([]note.Note, 0)

	for _, n := range r.items {
		if n.UserID == userID {
			output = append(output, n)
		}
	}

	return output, nil
}

func (r *NotesRepo) GetByID(_ context.Context, userID, id string) (note.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, n := range r.items {
		if n.ID == id && n.UserID == userID {
			return n, nil
		}
	}

	return note.Note{}, note.ErrNotFound
}

func (r *NotesRepo) Update(_ context.Context, userID, id string, req note.UpdateNoteRequest) (note.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, n := range r.items {
		if n.ID == id && n.UserID == userID {
			n.Title = req.Title
			n.Content = req.Content
			n.LastUpdate = time.Now().UTC()
			r.items[i] = n

			return n, nil
		}
	}

	return note.Note{}, note.ErrNotFound
}

func (r *NotesRepo) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, n := range r.items {
		if n.ID == id && n.UserID == userID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}

	return note.ErrNotFound
}
