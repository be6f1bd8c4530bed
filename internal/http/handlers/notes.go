package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/notehub/internal/cache"
	"github.com/geocoder89/notehub/internal/config"
	"github.com/geocoder89/notehub/internal/domain/note"
	"github.com/geocoder89/notehub/internal/http/middlewares"
	"github.com/geocoder89/notehub/internal/observability"
	"github.com/gin-gonic/gin"
)

// NoteStore is the per-user note storage contract. Every method takes the
// authenticated user id; there is deliberately no lookup by note id alone.
type NoteStore interface {
	ListByUser(ctx context.Context, userID string) ([]note.Note, error)
	Create(ctx context.Context, userID string, req note.CreateNoteRequest) (note.Note, error)
	GetByID(ctx context.Context, userID, id string) (note.Note, error)
	Update(ctx context.Context, userID, id string, req note.UpdateNoteRequest) (note.Note, error)
	Delete(ctx context.Context, userID, id string) error
}

type NotesHandler struct {
	repo    NoteStore
	cache   cache.Store
	metrics *observability.Prom
}

func NewNotesHandler(repo NoteStore, c cache.Store, metrics *observability.Prom) *NotesHandler {
	return &NotesHandler{
		repo:    repo,
		cache:   c,
		metrics: metrics,
	}
}

func (h *NotesHandler) ListNotes(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	key := cache.NotesListKey(userID)

	if h.cache != nil {
		if body, hit := h.cache.Get(cctx, key); hit {
			if h.metrics != nil {
				h.metrics.CacheHit()
			}
			ctx.Data(http.StatusOK, "application/json; charset=utf-8", body)
			return
		}

		if h.metrics != nil {
			h.metrics.CacheMiss()
		}
	}

	notes, err := h.repo.ListByUser(cctx, userID)

	if err != nil {
		RespondInternal(ctx, "Could not list notes")
		return
	}

	body, err := json.Marshal(gin.H{"notes": notes})

	if err != nil {
		RespondInternal(ctx, "Could not list notes")
		return
	}

	if h.cache != nil {
		h.cache.Set(cctx, key, body)
	}

	ctx.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

func (h *NotesHandler) CreateNote(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	var req note.CreateNoteRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	n, err := h.repo.Create(cctx, userID, req)

	if err != nil {
		RespondInternal(ctx, "Could not create note")
		return
	}

	h.invalidateList(cctx, userID)

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Note created successfully",
		"id":      n.ID,
	})
}

func (h *NotesHandler) GetNote(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	n, err := h.repo.GetByID(cctx, userID, ctx.Param("id"))

	if err != nil {
		if errors.Is(err, note.ErrNotFound) {
			RespondNotFound(ctx, "Note not found")
			return
		}
		RespondInternal(ctx, "Could not fetch note")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, n)
}

func (h *NotesHandler) UpdateNote(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	var req note.UpdateNoteRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	_, err := h.repo.Update(cctx, userID, ctx.Param("id"), req)

	if err != nil {
		if errors.Is(err, note.ErrNotFound) {
			RespondNotFound(ctx, "Note not found")
			return
		}
		RespondInternal(ctx, "Could not update note")
		return
	}

	h.invalidateList(cctx, userID)

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Note updated successfully",
	})
}

func (h *NotesHandler) DeleteNote(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.repo.Delete(cctx, userID, ctx.Param("id"))

	if err != nil {
		if errors.Is(err, note.ErrNotFound) {
			RespondNotFound(ctx, "Note not found")
			return
		}
		RespondInternal(ctx, "Could not delete note")
		return
	}

	h.invalidateList(cctx, userID)

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Note deleted successfully",
	})
}

func (h *NotesHandler) invalidateList(ctx context.Context, userID string) {
	if h.cache != nil {
		h.cache.Delete(ctx, cache.NotesListKey(userID))
	}
}
