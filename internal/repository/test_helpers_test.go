package repository_test

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/teamline/unibox/internal/models"
)

func insertTestContact(db *sqlx.DB, name, phone string) (string, error) {
	id := uuid.New().String()
	query := `
		INSERT INTO contacts (id, name, phone, created_at)
		VALUES ($1, $2, NULLIF($3, ''), NOW())
	`

	if _, err := db.Exec(query, id, name, phone); err != nil {
		return "", fmt.Errorf("failed to insert test contact: %w", err)
	}

	return id, nil
}

func insertTestSchedule(db *sqlx.DB, contactID string, channel models.Channel, status models.ScheduleStatus, scheduledAt time.Time, sentAt *time.Time) (string, error) {
	id := uuid.New().String()
	query := `
		INSERT INTO scheduled_messages (id, contact_id, channel, body, scheduled_at, status, created_at, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), $7)
	`

	if _, err := db.Exec(query, id, contactID, channel, "test body", scheduledAt, status, sentAt); err != nil {
		return "", fmt.Errorf("failed to insert test schedule: %w", err)
	}

	return id, nil
}

func scheduleStatus(db *sqlx.DB, id string) (models.ScheduleStatus, error) {
	var status models.ScheduleStatus
	if err := db.Get(&status, "SELECT status FROM scheduled_messages WHERE id = $1", id); err != nil {
		return "", fmt.Errorf("failed to read schedule status: %w", err)
	}
	return status, nil
}
