package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/teamline/unibox/internal/config"
	"github.com/teamline/unibox/internal/scheduler"
)

type dispatcherControl struct {
	scheduler *scheduler.Scheduler
	dispatch  DispatchService
	logger    *zap.Logger
}

// NewDispatcherControl wires the dispatch service into the interval
// scheduler. One cycle runs immediately on Start, then once per interval.
func NewDispatcherControl(
	cfg *config.Config,
	dispatch DispatchService,
	logger *zap.Logger,
) DispatcherControl {
	interval := time.Duration(cfg.Dispatcher.IntervalSeconds) * time.Second

	ctl := &dispatcherControl{
		dispatch: dispatch,
		logger:   logger,
	}

	ctl.scheduler = scheduler.NewScheduler(logger, interval, ctl.runCycle)
	return ctl
}

func (c *dispatcherControl) Start() error {
	return c.scheduler.Start(context.Background())
}

func (c *dispatcherControl) Stop() error {
	return c.scheduler.Stop()
}

func (c *dispatcherControl) IsRunning() bool {
	return c.scheduler.IsRunning()
}

func (c *dispatcherControl) runCycle(ctx context.Context) error {
	return c.dispatch.RunCycle(ctx)
}
