// Package scheduler refreshes the report on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Refresher computes the report of the current store content.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler manages the scheduled report refreshes.
type Scheduler struct {
	cron    *cron.Cron
	target  Refresher
	spec    string
	timeout time.Duration
	logger  *zap.Logger
}

// New returns a scheduler refreshing target on spec, a standard cron
// expression or a descriptor like "@every 15m".
func New(spec string, target Refresher, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:    cron.New(),
		target:  target,
		spec:    spec,
		timeout: 2 * time.Minute,
		logger:  logger,
	}
}

// Start schedules the refresh and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.spec))
	if _, err := s.cron.AddFunc(s.spec, s.refresh); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", s.spec, err)
	}
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running refresh.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	if err := s.target.Refresh(ctx); err != nil {
		s.logger.Error("failed to refresh report", zap.Error(err))
		return
	}
	s.logger.Debug("report refreshed", zap.Duration("duration", time.Since(start)))
}
