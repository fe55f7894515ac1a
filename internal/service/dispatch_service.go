package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/teamline/unibox/internal/config"
	"github.com/teamline/unibox/internal/models"
	"github.com/teamline/unibox/internal/realtime"
	"github.com/teamline/unibox/internal/repository"
	"github.com/teamline/unibox/internal/sender"
)

type dispatchService struct {
	repo           repository.Repository
	sender         sender.Sender
	publisher      realtime.Publisher
	redisClient    *redis.Client
	circuitBreaker *CircuitBreaker
	batchSize      int
	logger         *zap.Logger
}

func NewDispatchService(
	cfg *config.Config,
	repo repository.Repository,
	snd sender.Sender,
	publisher realtime.Publisher,
	redisClient *redis.Client,
	logger *zap.Logger,
) DispatchService {
	return &dispatchService{
		repo:           repo,
		sender:         snd,
		publisher:      publisher,
		redisClient:    redisClient,
		circuitBreaker: NewCircuitBreaker(&cfg.Twilio.CircuitBreaker, logger),
		batchSize:      cfg.Dispatcher.BatchSize,
		logger:         logger,
	}
}

// RunCycle executes one dispatch cycle against the wall clock.
func (s *dispatchService) RunCycle(ctx context.Context) error {
	return s.DispatchDue(ctx, time.Now())
}

// DispatchDue fetches due pending records and attempts to send each one.
// Per-record failures never abort the rest of the batch; only a failed due
// query is cycle-fatal, and the next firing simply tries again.
func (s *dispatchService) DispatchDue(ctx context.Context, now time.Time) error {
	dispatchCyclesTotal.Inc()
	timer := prometheus.NewTimer(dispatchCycleDuration)
	defer timer.ObserveDuration()

	due, err := s.repo.Schedule().FindDuePending(ctx, now, s.batchSize)
	if err != nil {
		s.logger.Error("Failed to query due scheduled messages", zap.Error(err))
		return fmt.Errorf("failed to query due scheduled messages: %w", err)
	}

	if len(due) == 0 {
		s.logger.Info("No scheduled messages due", zap.Time("now", now))
		return nil
	}

	s.logger.Info("Processing due scheduled messages",
		zap.Int("count", len(due)),
		zap.Time("now", now))

	for _, msg := range due {
		s.dispatchOne(ctx, msg)
	}

	return nil
}

// dispatchOne drives a single record through eligibility, send, and the
// status transition. Outcomes are isolated per record.
func (s *dispatchService) dispatchOne(ctx context.Context, msg *models.ScheduledMessage) {
	if !s.eligible(msg) {
		s.cancelIneligible(ctx, msg)
		return
	}

	var providerRef string
	err := s.circuitBreaker.Execute(ctx, func() error {
		ref, sendErr := s.sender.Send(ctx, msg.Contact.Phone.String, msg.Body, msg.Channel)
		providerRef = ref
		return sendErr
	})
	if err != nil {
		// The record stays PENDING and is retried on the next cycle.
		dispatchRecordsTotal.WithLabelValues(outcomeFailed, string(msg.Channel)).Inc()
		s.logger.Error("Failed to send scheduled message, will retry",
			zap.String("scheduleID", msg.ID),
			zap.String("channel", string(msg.Channel)),
			zap.Error(err))
		s.publishFailure(ctx, msg, err)
		return
	}

	s.recordSent(ctx, msg, providerRef)
}

// eligible checks the record has the minimum data for a send attempt.
func (s *dispatchService) eligible(msg *models.ScheduledMessage) bool {
	return msg.Contact != nil && msg.Contact.HasPhone() && msg.Channel.Dispatchable()
}

// cancelIneligible discards a record that can never be sent as configured.
// No send is attempted and no outbound message is written.
func (s *dispatchService) cancelIneligible(ctx context.Context, msg *models.ScheduledMessage) {
	err := s.repo.Schedule().UpdateStatus(ctx, msg.ID, models.ScheduleStatusPending, models.ScheduleStatusCancelled, nil)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidState) {
			// A concurrent cancel got there first; nothing left to do.
			s.logger.Warn("Ineligible record already left pending state", zap.String("scheduleID", msg.ID))
			return
		}
		s.logger.Error("Failed to cancel ineligible scheduled message",
			zap.String("scheduleID", msg.ID),
			zap.Error(err))
		return
	}

	dispatchRecordsTotal.WithLabelValues(outcomeCancelled, string(msg.Channel)).Inc()
	s.logger.Warn("Cancelled ineligible scheduled message",
		zap.String("scheduleID", msg.ID),
		zap.String("channel", string(msg.Channel)),
		zap.Bool("hasPhone", msg.Contact != nil && msg.Contact.HasPhone()))
}

// recordSent persists the evidence of a successful send. The outbound message
// row is written before the status flip: if the process dies between the two
// writes, the retried cycle produces a duplicate message row rather than a
// SENT record with no trace of what went out.
func (s *dispatchService) recordSent(ctx context.Context, msg *models.ScheduledMessage, providerRef string) {
	outbound, err := s.repo.Message().CreateOutbound(ctx, msg.ContactID, "", msg.Body, msg.Channel)
	if err != nil {
		// Leave the record PENDING; the next cycle retries the whole send.
		dispatchRecordsTotal.WithLabelValues(outcomeFailed, string(msg.Channel)).Inc()
		s.logger.Error("Sent but failed to record outbound message, will retry",
			zap.String("scheduleID", msg.ID),
			zap.String("providerRef", providerRef),
			zap.Error(err))
		return
	}

	sentAt := time.Now()
	err = s.repo.Schedule().UpdateStatus(ctx, msg.ID, models.ScheduleStatusPending, models.ScheduleStatusSent, &sentAt)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidState) {
			// A concurrent cancel won the race after the provider accepted the
			// send. The conditional update must not overwrite it.
			s.logger.Warn("Record cancelled concurrently after send",
				zap.String("scheduleID", msg.ID),
				zap.String("providerRef", providerRef))
			return
		}
		s.logger.Error("Failed to mark scheduled message sent",
			zap.String("scheduleID", msg.ID),
			zap.Error(err))
		return
	}

	s.cacheProviderRef(ctx, msg.ID, providerRef)

	if err := s.publisher.Publish(ctx, realtime.ChannelInbox, realtime.EventScheduleSent, outbound); err != nil {
		s.logger.Warn("Failed to publish dispatch event",
			zap.String("scheduleID", msg.ID),
			zap.Error(err))
	}

	dispatchRecordsTotal.WithLabelValues(outcomeSent, string(msg.Channel)).Inc()
	s.logger.Info("Scheduled message sent",
		zap.String("scheduleID", msg.ID),
		zap.String("messageID", outbound.ID),
		zap.String("providerRef", providerRef),
		zap.String("circuitBreakerState", string(s.circuitBreaker.GetState())))
}

// publishFailure tells inbox clients a scheduled send failed and will be
// retried, mirroring the schedule:sent event on the success path.
func (s *dispatchService) publishFailure(ctx context.Context, msg *models.ScheduledMessage, sendErr error) {
	payload := map[string]string{
		"schedule_id": msg.ID,
		"contact_id":  msg.ContactID,
		"channel":     string(msg.Channel),
		"error":       sendErr.Error(),
	}
	if err := s.publisher.Publish(ctx, realtime.ChannelInbox, realtime.EventScheduleFailed, payload); err != nil {
		s.logger.Warn("Failed to publish dispatch event",
			zap.String("scheduleID", msg.ID),
			zap.Error(err))
	}
}

// cacheProviderRef keeps the provider reference reachable for a day so
// support tooling can correlate provider callbacks with schedules.
func (s *dispatchService) cacheProviderRef(ctx context.Context, scheduleID, providerRef string) {
	if s.redisClient == nil || providerRef == "" {
		return
	}

	key := fmt.Sprintf("schedule:%s:provider_ref", scheduleID)
	if err := s.redisClient.Set(ctx, key, providerRef, 24*time.Hour).Err(); err != nil {
		s.logger.Warn("Failed to cache provider reference",
			zap.String("scheduleID", scheduleID),
			zap.Error(err))
	}
}

func (s *dispatchService) GetCircuitBreakerStatus() (state BreakerState, requests uint32, failures uint32) {
	state = s.circuitBreaker.GetState()
	requests, failures = s.circuitBreaker.GetCounts()
	return
}
