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

type contactRepository struct {
	db *sqlx.DB
}

func NewContactRepository(db *sqlx.DB) ContactRepository {
	return &contactRepository{
		db: db,
	}
}

func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func (r *contactRepository) Create(ctx context.Context, name, phone, email string) (*models.Contact, error) {
	query := `
		INSERT INTO contacts (id, name, phone, email, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	c := &models.Contact{
		ID:        uuid.New().String(),
		Name:      nullable(name),
		Phone:     nullable(phone),
		Email:     nullable(email),
		CreatedAt: time.Now(),
	}

	_, err := r.db.ExecContext(ctx, query, c.ID, c.Name, c.Phone, c.Email, c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	return c, nil
}

func (r *contactRepository) GetByID(ctx context.Context, id string) (*models.Contact, error) {
	query := `SELECT id, name, phone, email, created_at FROM contacts WHERE id = $1`

	var c models.Contact
	err := r.db.GetContext(ctx, &c, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	return &c, nil
}

// FindByPhone returns the first contact with the given phone number. Phone is
// not unique in the schema, so this mirrors a findFirst rather than a lookup
// by key.
func (r *contactRepository) FindByPhone(ctx context.Context, phone string) (*models.Contact, error) {
	query := `SELECT id, name, phone, email, created_at FROM contacts WHERE phone = $1 ORDER BY created_at ASC LIMIT 1`

	var c models.Contact
	err := r.db.GetContext(ctx, &c, query, phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find contact by phone: %w", err)
	}

	return &c, nil
}

func (r *contactRepository) List(ctx context.Context, limit int) ([]*models.Contact, error) {
	query := `SELECT id, name, phone, email, created_at FROM contacts ORDER BY created_at DESC LIMIT $1`

	var contacts []*models.Contact
	err := r.db.SelectContext(ctx, &contacts, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	return contacts, nil
}

func (r *contactRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM contacts WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
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
