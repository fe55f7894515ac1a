package models

import (
	"database/sql"
	"strings"
	"time"
)

// ScheduleStatus is the lifecycle state of a scheduled message.
// Transitions are one-directional: PENDING may move to SENT or CANCELLED,
// both of which are terminal.
type ScheduleStatus string

const (
	ScheduleStatusPending   ScheduleStatus = "PENDING"
	ScheduleStatusSent      ScheduleStatus = "SENT"
	ScheduleStatusCancelled ScheduleStatus = "CANCELLED"
)

// ParseScheduleStatus normalizes a user-supplied status filter value.
func ParseScheduleStatus(s string) (ScheduleStatus, bool) {
	switch ScheduleStatus(strings.ToUpper(s)) {
	case ScheduleStatusPending:
		return ScheduleStatusPending, true
	case ScheduleStatusSent:
		return ScheduleStatusSent, true
	case ScheduleStatusCancelled:
		return ScheduleStatusCancelled, true
	}
	return "", false
}

// ScheduledMessage represents a message queued for a future send.
// scheduled_at is immutable after creation; there is no reschedule operation.
type ScheduledMessage struct {
	ID          string         `db:"id" json:"id"`
	ContactID   string         `db:"contact_id" json:"contact_id"`
	Channel     Channel        `db:"channel" json:"channel"`
	Body        string         `db:"body" json:"body"`
	ScheduledAt time.Time      `db:"scheduled_at" json:"scheduled_at"`
	Status      ScheduleStatus `db:"status" json:"status"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	SentAt      sql.NullTime   `db:"sent_at" json:"sent_at,omitempty"`

	// Contact is populated by queries that join the contact row,
	// in particular the due-record scan.
	Contact *Contact `db:"-" json:"contact,omitempty"`
}

// Due reports whether the record is eligible for the next dispatch cycle.
func (m *ScheduledMessage) Due(now time.Time) bool {
	return m.Status == ScheduleStatusPending && !m.ScheduledAt.After(now)
}

// Upcoming reports whether a pending record is still scheduled in the future
// relative to render time. A pending record whose scheduled_at has passed but
// which the dispatcher has not picked up yet is pending-but-not-upcoming.
func (m *ScheduledMessage) Upcoming(now time.Time) bool {
	return m.Status == ScheduleStatusPending && m.ScheduledAt.After(now)
}
