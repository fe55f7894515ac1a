package repository

import (
	"context"
	"time"

	"github.com/teamline/unibox/internal/models"
)

// Repository interface defines all repository operations.
type Repository interface {
	// Ping checks database connectivity
	Ping() error

	Contact() ContactRepository
	Message() MessageRepository
	Schedule() ScheduleRepository
	Note() NoteRepository
}

// ScheduleRepository defines scheduled-message operations. Status writes are
// conditional on the current status so a dispatch run and a concurrent cancel
// cannot clobber each other.
type ScheduleRepository interface {
	Create(ctx context.Context, contactID, body string, channel models.Channel, scheduledAt time.Time) (*models.ScheduledMessage, error)
	GetByID(ctx context.Context, id string) (*models.ScheduledMessage, error)
	List(ctx context.Context, status *models.ScheduleStatus) ([]*models.ScheduledMessage, error)

	// FindDuePending returns pending records whose scheduled_at has passed,
	// oldest first, with the contact row joined, capped at limit.
	FindDuePending(ctx context.Context, now time.Time, limit int) ([]*models.ScheduledMessage, error)

	// UpdateStatus transitions a record from one status to another. It returns
	// ErrInvalidState when the record is not currently in the from status.
	// sentAt is persisted only on transitions to SENT.
	UpdateStatus(ctx context.Context, id string, from, to models.ScheduleStatus, sentAt *time.Time) error
}

// MessageRepository defines inbox message operations.
type MessageRepository interface {
	CreateOutbound(ctx context.Context, contactID, senderID, body string, channel models.Channel) (*models.Message, error)
	CreateInbound(ctx context.Context, contactID, body string, channel models.Channel) (*models.Message, error)
	ListByContact(ctx context.Context, contactID string, limit int) ([]*models.Message, error)
	MarkRead(ctx context.Context, id string) error
	CountByChannel(ctx context.Context) (map[models.Channel]int64, error)
}

// ContactRepository defines contact operations.
type ContactRepository interface {
	Create(ctx context.Context, name, phone, email string) (*models.Contact, error)
	GetByID(ctx context.Context, id string) (*models.Contact, error)
	FindByPhone(ctx context.Context, phone string) (*models.Contact, error)
	List(ctx context.Context, limit int) ([]*models.Contact, error)
	Delete(ctx context.Context, id string) error
}

// NoteRepository defines contact note operations.
type NoteRepository interface {
	Create(ctx context.Context, contactID, authorID, body string, visibility models.NoteVisibility) (*models.Note, error)
	ListByContact(ctx context.Context, contactID, viewerID string) ([]*models.Note, error)
	Update(ctx context.Context, id, authorID, body string) (*models.Note, error)
	Delete(ctx context.Context, id, authorID string) error
}
