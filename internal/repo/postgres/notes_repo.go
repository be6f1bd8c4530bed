package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/notehub/internal/domain/note"
	"github.com/geocoder89/notehub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NotesRepo scopes every lookup and mutation by (id, user_id). That compound
// predicate is the only access control in the system, so no query here may
// ever match on id alone.
type NotesRepo struct {
	pool    *pgxpool.Pool
	metrics *observability.Prom
}

func NewNotesRepo(pool *pgxpool.Pool, metrics *observability.Prom) *NotesRepo {
	return &NotesRepo{pool: pool, metrics: metrics}
}

func (r *NotesRepo) observe(op string, fn func() error) error {
	if r.metrics == nil {
		return fn()
	}

	return r.metrics.ObserveDB(op, fn)
}

func (r *NotesRepo) Create(ctx context.Context, userID string, req note.CreateNoteRequest) (note.Note, error) {
	n := note.NewFromCreateRequest(userID, req)

	err := r.observe("notes.create", func() error {
		_, execErr := r.pool.Exec(
			ctx,
			`INSERT INTO notes(id, user_id, title, content, created_on, last_update)
			 VALUES($1, $2, $3, $4, $5, $6)`,
			n.ID, n.UserID, n.Title, n.Content, n.CreatedOn, n.LastUpdate,
		)
		return execErr
	})

	if err != nil {
		return note.Note{}, err
	}

	return n, nil
}

func (r *NotesRepo) ListByUser(ctx context.Context, userID string) ([]note.Note, error) {
	output := make([]note.Note, 0)

	err := r.observe("notes.list", func() error {
		rows, qErr := r.pool.Query(
			ctx,
			`SELECT id, user_id, title, content, created_on, last_update
			 FROM notes
			 WHERE user_id = $1
			 ORDER BY created_on ASC, id ASC`,
			userID,
		)

		if qErr != nil {
			return qErr
		}

		defer rows.Close()

		for rows.Next() {
			var n note.Note

			if scanErr := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.CreatedOn, &n.LastUpdate); scanErr != nil {
				return scanErr
			}

			output = append(output, n)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}

func (r *NotesRepo) GetByID(ctx context.Context, userID, id string) (note.Note, error) {
	var n note.Note

	err := r.observe("notes.get", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT id, user_id, title, content, created_on, last_update
			 FROM notes
			 WHERE id = $1 AND user_id = $2`,
			id, userID,
		).Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.CreatedOn, &n.LastUpdate)
	})

	if err != nil {
		// a note owned by someone else reads the same as a missing one
		if errors.Is(err, pgx.ErrNoRows) {
			return note.Note{}, note.ErrNotFound
		}

		return note.Note{}, err
	}

	return n, nil
}

func (r *NotesRepo) Update(ctx context.Context, userID, id string, req note.UpdateNoteRequest) (note.Note, error) {
	var n note.Note

	err := r.observe("notes.update", func() error {
		return r.pool.QueryRow(
			ctx,
			`UPDATE notes
				SET title = $3,
						content = $4,
						last_update = NOW()
			WHERE id = $1 AND user_id = $2
			RETURNING id, user_id, title, content, created_on, last_update`,
			id,
			userID,
			req.Title,
			req.Content,
		).Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.CreatedOn, &n.LastUpdate)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return note.Note{}, note.ErrNotFound
		}

		return note.Note{}, err
	}

	return n, nil
}

func (r *NotesRepo) Delete(ctx context.Context, userID, id string) error {
	var affected int64

	err := r.observe("notes.delete", func() error {
		tag, execErr := r.pool.Exec(
			ctx,
			`DELETE FROM notes WHERE id = $1 AND user_id = $2`,
			id, userID,
		)

		if execErr != nil {
			return execErr
		}

		affected = tag.RowsAffected()
		return nil
	})

	if err != nil {
		return err
	}

	if affected == 0 {
		return note.ErrNotFound
	}

	return nil
}
