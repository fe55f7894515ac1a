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

type messageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) MessageRepository {
	return &messageRepository{
		db: db,
	}
}

func (r *messageRepository) create(ctx context.Context, contactID string, senderID sql.NullString, body string, channel models.Channel, direction models.Direction) (*models.Message, error) {
	query := `
		INSERT INTO messages (id, contact_id, sender_id, body, channel, direction, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	m := &models.Message{
		ID:        uuid.New().String(),
		ContactID: contactID,
		SenderID:  senderID,
		Body:      body,
		Channel:   channel,
		Direction: direction,
		Read:      direction == models.DirectionOutbound,
		CreatedAt: time.Now(),
	}

	_, err := r.db.ExecContext(ctx, query, m.ID, m.ContactID, m.SenderID, m.Body, m.Channel, m.Direction, m.Read, m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	return m, nil
}

// CreateOutbound records a message sent to a contact. senderID is empty for
// dispatcher-originated sends, which have no acting user.
func (r *messageRepository) CreateOutbound(ctx context.Context, contactID, senderID, body string, channel models.Channel) (*models.Message, error) {
	var sender sql.NullString
	if senderID != "" {
		sender = sql.NullString{String: senderID, Valid: true}
	}
	return r.create(ctx, contactID, sender, body, channel, models.DirectionOutbound)
}

// CreateInbound records a message received from a contact.
func (r *messageRepository) CreateInbound(ctx context.Context, contactID, body string, channel models.Channel) (*models.Message, error) {
	return r.create(ctx, contactID, sql.NullString{}, body, channel, models.DirectionInbound)
}

// ListByContact returns the most recent messages for a contact, newest first.
func (r *messageRepository) ListByContact(ctx context.Context, contactID string, limit int) ([]*models.Message, error) {
	query := `
		SELECT id, contact_id, sender_id, body, channel, direction, media_url, read, created_at
		FROM messages
		WHERE contact_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	var messages []*models.Message
	err := r.db.SelectContext(ctx, &messages, query, contactID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	return messages, nil
}

// MarkRead flags an inbound message as read.
func (r *messageRepository) MarkRead(ctx context.Context, id string) error {
	query := `UPDATE messages SET read = TRUE WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
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

// CountByChannel returns message volume per channel for the analytics view.
func (r *messageRepository) CountByChannel(ctx context.Context) (map[models.Channel]int64, error) {
	query := `SELECT channel, COUNT(*) AS count FROM messages GROUP BY channel`

	rows := []struct {
		Channel models.Channel `db:"channel"`
		Count   int64          `db:"count"`
	}{}

	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return map[models.Channel]int64{}, nil
		}
		return nil, fmt.Errorf("failed to count messages by channel: %w", err)
	}

	counts := make(map[models.Channel]int64, len(rows))
	for _, row := range rows {
		counts[row.Channel] = row.Count
	}

	return counts, nil
}
