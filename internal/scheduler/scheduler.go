package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CycleFunc is one unit of periodic work, usually a dispatch cycle.
type CycleFunc func(context.Context) error

// Scheduler runs a cycle immediately on start and then once per interval.
// Cycles execute on a single goroutine, so an overrunning cycle delays the
// next firing instead of overlapping it; two cycles can never process the
// same record concurrently.
type Scheduler struct {
	logger    *zap.Logger
	interval  time.Duration
	cycle     CycleFunc
	stopCh    chan struct{}
	doneCh    chan struct{}
	isRunning bool
	mu        sync.RWMutex
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(logger *zap.Logger, interval time.Duration, cycle CycleFunc) *Scheduler {
	return &Scheduler{
		logger:   logger,
		interval: interval,
		cycle:    cycle,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return ErrSchedulerAlreadyRunning
	}

	s.isRunning = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})

	go s.run(ctx)

	s.logger.Info("Scheduler started", zap.Duration("interval", s.interval))
	return nil
}

// Stop halts the scheduler. An in-flight cycle finishes before Stop returns.
// Flipping isRunning and closing stopCh happen under the same lock, so of any
// number of concurrent Stop calls exactly one closes the channel; the rest
// get ErrSchedulerNotRunning.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.isRunning = false
	close(s.stopCh)
	done := s.doneCh
	s.mu.Unlock()

	<-done

	s.logger.Info("Scheduler stopped")
	return nil
}

// IsRunning returns whether the scheduler is currently running.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// run executes the scheduler loop
func (s *Scheduler) run(ctx context.Context) {
	defer close(s.doneCh)
	defer func() {
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
	}()

	// One cycle fires immediately on start
	s.runCycle(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler context canceled")
			return
		case <-s.stopCh:
			s.logger.Info("Scheduler stop signal received")
			return
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

// runCycle executes one cycle with a deadline so a stalled transport call
// cannot block the loop past the next firing.
func (s *Scheduler) runCycle(ctx context.Context) {
	start := time.Now()

	cycleCtx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	if err := s.cycle(cycleCtx); err != nil {
		s.logger.Error("Cycle failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return
	}

	s.logger.Debug("Cycle completed", zap.Duration("elapsed", time.Since(start)))
}
