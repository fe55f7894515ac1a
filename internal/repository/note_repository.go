package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/teamline/unibox/internal/models"
)

type noteRepository struct {
	db *sqlx.DB
}

func NewNoteRepository(db *sqlx.DB) NoteRepository {
	return &noteRepository{
		db: db,
	}
}

func (r *noteRepository) Create(ctx context.Context, contactID, authorID, body string, visibility models.NoteVisibility) (*models.Note, error) {
	query := `
		INSERT INTO notes (id, contact_id, author_id, body, visibility, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	now := time.Now()
	n := &models.Note{
		ID:         uuid.New().String(),
		ContactID:  contactID,
		AuthorID:   authorID,
		Body:       body,
		Visibility: visibility,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := r.db.ExecContext(ctx, query, n.ID, n.ContactID, n.AuthorID, n.Body, n.Visibility, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	return n, nil
}

// ListByContact returns public notes plus the viewer's own private notes.
func (r *noteRepository) ListByContact(ctx context.Context, contactID, viewerID string) ([]*models.Note, error) {
	query := `
		SELECT id, contact_id, author_id, body, visibility, created_at, updated_at
		FROM notes
		WHERE contact_id = $1 AND (visibility = $2 OR author_id = $3)
		ORDER BY created_at DESC
	`

	var notes []*models.Note
	err := r.db.SelectContext(ctx, &notes, query, contactID, models.NoteVisibilityPublic, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	return notes, nil
}

// Update rewrites the note body. Only the author may edit a note.
func (r *noteRepository) Update(ctx context.Context, id, authorID, body string) (*models.Note, error) {
	query := `
		UPDATE notes
		SET body = $3, updated_at = $4
		WHERE id = $1 AND author_id = $2
		RETURNING id, contact_id, author_id, body, visibility, created_at, updated_at
	`

	var n models.Note
	err := r.db.GetContext(ctx, &n, query, id, authorID, body, time.Now())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	return &n, nil
}

func (r *noteRepository) Delete(ctx context.Context, id, authorID string) error {
	query := `DELETE FROM notes WHERE id = $1 AND author_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, authorID)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
