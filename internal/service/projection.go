package service

import (
	"time"

	"github.com/teamline/unibox/internal/models"
)

// StatusFilter selects which scheduled messages a listing shows.
type StatusFilter string

const (
	FilterAll       StatusFilter = "all"
	FilterPending   StatusFilter = "pending"
	FilterSent      StatusFilter = "sent"
	FilterCancelled StatusFilter = "cancelled"
)

// ParseStatusFilter maps a query value onto a filter, defaulting to all.
func ParseStatusFilter(s string) StatusFilter {
	switch StatusFilter(s) {
	case FilterPending, FilterSent, FilterCancelled:
		return StatusFilter(s)
	default:
		return FilterAll
	}
}

// Status returns the schedule status a non-all filter selects.
func (f StatusFilter) Status() (models.ScheduleStatus, bool) {
	switch f {
	case FilterPending:
		return models.ScheduleStatusPending, true
	case FilterSent:
		return models.ScheduleStatusSent, true
	case FilterCancelled:
		return models.ScheduleStatusCancelled, true
	default:
		return "", false
	}
}

// ScheduleSummary is the per-status count block shown above the schedule list.
type ScheduleSummary struct {
	Pending   int `json:"pending"`
	Sent      int `json:"sent"`
	Cancelled int `json:"cancelled"`
}

// ScheduleView is a ScheduledMessage annotated for display.
type ScheduleView struct {
	*models.ScheduledMessage

	// Upcoming is true for pending records still scheduled in the future.
	// A pending record whose time has passed but which the dispatcher has
	// not picked up yet shows as pending-but-not-upcoming.
	Upcoming bool `json:"upcoming"`
}

// FilterSchedules returns the records matching the filter, preserving order.
func FilterSchedules(records []*models.ScheduledMessage, filter StatusFilter) []*models.ScheduledMessage {
	status, ok := filter.Status()
	if !ok {
		return records
	}

	filtered := make([]*models.ScheduledMessage, 0, len(records))
	for _, r := range records {
		if r.Status == status {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// Summarize counts records per status.
func Summarize(records []*models.ScheduledMessage) ScheduleSummary {
	var summary ScheduleSummary
	for _, r := range records {
		switch r.Status {
		case models.ScheduleStatusPending:
			summary.Pending++
		case models.ScheduleStatusSent:
			summary.Sent++
		case models.ScheduleStatusCancelled:
			summary.Cancelled++
		}
	}
	return summary
}

// ProjectSchedules builds display views for a set of records at render time.
func ProjectSchedules(records []*models.ScheduledMessage, now time.Time) []ScheduleView {
	views := make([]ScheduleView, 0, len(records))
	for _, r := range records {
		views = append(views, ScheduleView{
			ScheduledMessage: r,
			Upcoming:         r.Upcoming(now),
		})
	}
	return views
}
