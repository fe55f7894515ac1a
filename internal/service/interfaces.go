package service

import (
	"context"
	"time"

	"github.com/teamline/unibox/internal/models"
)

// DispatchService runs dispatch cycles over due scheduled messages.
type DispatchService interface {
	// RunCycle executes one dispatch cycle against the wall clock.
	RunCycle(ctx context.Context) error

	// DispatchDue executes one dispatch cycle with an explicit notion of now.
	DispatchDue(ctx context.Context, now time.Time) error

	GetCircuitBreakerStatus() (state BreakerState, requests uint32, failures uint32)
}

// ScheduleService owns the scheduled-message API surface.
type ScheduleService interface {
	Schedule(ctx context.Context, req ScheduleRequest) (*models.ScheduledMessage, error)
	Cancel(ctx context.Context, id string) error
	List(ctx context.Context, filter StatusFilter) (*ScheduleListResponse, error)
}

// MessageService owns the immediate send path and inbox reads.
type MessageService interface {
	SendNow(ctx context.Context, req SendRequest) (*models.Message, error)
	ReceiveInbound(ctx context.Context, from, body string, channel models.Channel) (*models.Message, error)
	ListByContact(ctx context.Context, contactID string, limit int) ([]*models.Message, error)
	MarkRead(ctx context.Context, id string) error
	ChannelCounts(ctx context.Context) (map[models.Channel]int64, error)
}

// ContactService owns contact CRUD.
type ContactService interface {
	Create(ctx context.Context, name, phone, email string) (*models.Contact, error)
	Get(ctx context.Context, id string) (*models.Contact, error)
	List(ctx context.Context, limit int) ([]*models.Contact, error)
	Delete(ctx context.Context, id string) error
}

// NoteService owns collaborative contact notes.
type NoteService interface {
	Create(ctx context.Context, contactID, authorID, body string, visibility models.NoteVisibility) (*models.Note, error)
	ListByContact(ctx context.Context, contactID, viewerID string) ([]*models.Note, error)
	Update(ctx context.Context, id, authorID, body string) (*models.Note, error)
	Delete(ctx context.Context, id, authorID string) error
}

// DispatcherControl starts and stops the dispatch loop.
type DispatcherControl interface {
	Start() error
	Stop() error
	IsRunning() bool
}

// HealthService reports component health.
type HealthService interface {
	GetHealth() *HealthStatus
}
