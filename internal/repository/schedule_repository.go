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

type scheduleRepository struct {
	db *sqlx.DB
}

func NewScheduleRepository(db *sqlx.DB) ScheduleRepository {
	return &scheduleRepository{
		db: db,
	}
}

// Create inserts a new pending scheduled message. Validation of the schedule
// time and contact existence happens in the service layer.
func (r *scheduleRepository) Create(ctx context.Context, contactID, body string, channel models.Channel, scheduledAt time.Time) (*models.ScheduledMessage, error) {
	query := `
		INSERT INTO scheduled_messages (id, contact_id, channel, body, scheduled_at, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	m := &models.ScheduledMessage{
		ID:          uuid.New().String(),
		ContactID:   contactID,
		Channel:     channel,
		Body:        body,
		ScheduledAt: scheduledAt,
		Status:      models.ScheduleStatusPending,
		CreatedAt:   time.Now(),
	}

	_, err := r.db.ExecContext(ctx, query, m.ID, m.ContactID, m.Channel, m.Body, m.ScheduledAt, m.Status, m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduled message: %w", err)
	}

	return m, nil
}

// GetByID returns a single scheduled message.
func (r *scheduleRepository) GetByID(ctx context.Context, id string) (*models.ScheduledMessage, error) {
	query := `
		SELECT id, contact_id, channel, body, scheduled_at, status, created_at, sent_at
		FROM scheduled_messages
		WHERE id = $1
	`

	var m models.ScheduledMessage
	err := r.db.GetContext(ctx, &m, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get scheduled message: %w", err)
	}

	return &m, nil
}

// List returns scheduled messages ordered by scheduled time, soonest first,
// optionally filtered by status.
func (r *scheduleRepository) List(ctx context.Context, status *models.ScheduleStatus) ([]*models.ScheduledMessage, error) {
	query := `
		SELECT id, contact_id, channel, body, scheduled_at, status, created_at, sent_at
		FROM scheduled_messages
	`
	args := []interface{}{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY scheduled_at ASC`

	var messages []*models.ScheduledMessage
	err := r.db.SelectContext(ctx, &messages, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled messages: %w", err)
	}

	return messages, nil
}

// dueRow flattens the schedule/contact join for sqlx scanning.
type dueRow struct {
	models.ScheduledMessage
	ContactName  sql.NullString `db:"contact_name"`
	ContactPhone sql.NullString `db:"contact_phone"`
	ContactEmail sql.NullString `db:"contact_email"`
}

// FindDuePending retrieves pending records whose scheduled_at has passed,
// joined with their contact, oldest first.
func (r *scheduleRepository) FindDuePending(ctx context.Context, now time.Time, limit int) ([]*models.ScheduledMessage, error) {
	query := `
		SELECT s.id, s.contact_id, s.channel, s.body, s.scheduled_at, s.status, s.created_at, s.sent_at,
		       c.name AS contact_name, c.phone AS contact_phone, c.email AS contact_email
		FROM scheduled_messages s
		JOIN contacts c ON c.id = s.contact_id
		WHERE s.status = $1 AND s.scheduled_at <= $2
		ORDER BY s.scheduled_at ASC
		LIMIT $3
	`

	var rows []dueRow
	err := r.db.SelectContext(ctx, &rows, query, models.ScheduleStatusPending, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find due scheduled messages: %w", err)
	}

	messages := make([]*models.ScheduledMessage, 0, len(rows))
	for i := range rows {
		m := rows[i].ScheduledMessage
		m.Contact = &models.Contact{
			ID:    m.ContactID,
			Name:  rows[i].ContactName,
			Phone: rows[i].ContactPhone,
			Email: rows[i].ContactEmail,
		}
		messages = append(messages, &m)
	}

	return messages, nil
}

// UpdateStatus applies a conditional status transition. The WHERE clause keys
// on the expected current status so a concurrent transition loses cleanly
// with ErrInvalidState instead of overwriting.
func (r *scheduleRepository) UpdateStatus(ctx context.Context, id string, from, to models.ScheduleStatus, sentAt *time.Time) error {
	query := `
		UPDATE scheduled_messages
		SET status = $3,
		    sent_at = $4
		WHERE id = $1 AND status = $2
	`

	var sent sql.NullTime
	if sentAt != nil && to == models.ScheduleStatusSent {
		sent = sql.NullTime{Time: *sentAt, Valid: true}
	}

	res, err := r.db.ExecContext(ctx, query, id, from, to, sent)
	if err != nil {
		return fmt.Errorf("failed to update schedule status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrInvalidState
	}

	return nil
}
