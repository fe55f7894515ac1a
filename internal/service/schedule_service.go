package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/teamline/unibox/internal/models"
	"github.com/teamline/unibox/internal/repository"
)

// ScheduleRequest is a validated create-schedule payload.
type ScheduleRequest struct {
	ContactID   string
	Body        string
	Channel     models.Channel
	ScheduledAt time.Time
}

// ScheduleListResponse carries the filtered views plus the summary counts.
type ScheduleListResponse struct {
	Schedules []ScheduleView  `json:"schedules"`
	Summary   ScheduleSummary `json:"summary"`
}

type scheduleService struct {
	repo   repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewScheduleService(repo repository.Repository, logger *zap.Logger) ScheduleService {
	return &scheduleService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Schedule validates and creates a pending scheduled message. The scheduled
// time must be strictly in the future and the contact must exist; records
// never enter PENDING otherwise.
func (s *scheduleService) Schedule(ctx context.Context, req ScheduleRequest) (*models.ScheduledMessage, error) {
	if req.Body == "" {
		return nil, validationErr("body", "must not be empty")
	}
	if !req.ScheduledAt.After(s.now()) {
		return nil, validationErr("scheduled_at", "must be in the future")
	}

	contact, err := s.repo.Contact().GetByID(ctx, req.ContactID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to look up contact: %w", err)
	}

	scheduled, err := s.repo.Schedule().Create(ctx, contact.ID, req.Body, req.Channel, req.ScheduledAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}

	scheduled.Contact = contact

	s.logger.Info("Scheduled message created",
		zap.String("scheduleID", scheduled.ID),
		zap.String("contactID", contact.ID),
		zap.String("channel", string(req.Channel)),
		zap.Time("scheduledAt", req.ScheduledAt))

	return scheduled, nil
}

// Cancel transitions a pending schedule to cancelled. Terminal records are
// left untouched; the conditional update loses to a concurrent dispatch.
func (s *scheduleService) Cancel(ctx context.Context, id string) error {
	err := s.repo.Schedule().UpdateStatus(ctx, id, models.ScheduleStatusPending, models.ScheduleStatusCancelled, nil)
	if err == nil {
		s.logger.Info("Scheduled message cancelled", zap.String("scheduleID", id))
		return nil
	}

	if !errors.Is(err, repository.ErrInvalidState) {
		return fmt.Errorf("failed to cancel schedule: %w", err)
	}

	// Distinguish a missing record from one that already reached a terminal
	// status, so the caller gets the right error.
	if _, getErr := s.repo.Schedule().GetByID(ctx, id); getErr != nil {
		if errors.Is(getErr, repository.ErrNotFound) {
			return ErrScheduleNotFound
		}
		return fmt.Errorf("failed to look up schedule: %w", getErr)
	}

	return ErrNotPending
}

// List returns filtered schedule views plus counts over the whole set.
func (s *scheduleService) List(ctx context.Context, filter StatusFilter) (*ScheduleListResponse, error) {
	records, err := s.repo.Schedule().List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}

	return &ScheduleListResponse{
		Schedules: ProjectSchedules(FilterSchedules(records, filter), s.now()),
		Summary:   Summarize(records),
	}, nil
}
