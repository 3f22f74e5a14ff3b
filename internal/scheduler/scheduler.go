package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RefreshFunc re-runs the configured scenarios and rewrites their output
// files. Scenarios inside a refresh run sequentially.
type RefreshFunc func(ctx context.Context) error

// Scheduler periodically refreshes scenario outputs in serve mode so the
// flat files track input-table edits (price feed updates, requirement
// changes) without manual re-runs.
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	refresh  RefreshFunc
	logger   *zap.Logger
}

// New creates a scheduler for the given cron schedule and timezone.
func New(schedule, timezone string, refresh RefreshFunc, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, err
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		schedule: schedule,
		refresh:  refresh,
		logger:   logger,
	}, nil
}

// Start registers the refresh job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.run); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", zap.String("schedule", s.schedule))
	return nil
}

// Stop stops the cron loop.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) run() {
	s.logger.Info("refreshing scenario outputs")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.refresh(ctx); err != nil {
		s.logger.Error("scenario refresh failed", zap.Error(err))
		return
	}
	s.logger.Info("scenario outputs refreshed")
}
