package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

const advanceTimeout = 20 * time.Second

// LifecycleScheduler periodically advances approved events from upcoming to
// live to completed.
type LifecycleScheduler struct {
	sched  gocron.Scheduler
	events EventService
	logger *slog.Logger
}

func NewLifecycleScheduler(events EventService, interval time.Duration, logger *slog.Logger) (*LifecycleScheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	s := &LifecycleScheduler{sched: sched, events: events, logger: logger}
	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.runOnce),
		gocron.WithName("event-lifecycle"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("failed to schedule lifecycle job: %w", err)
	}
	return s, nil
}

func (s *LifecycleScheduler) Start() {
	s.sched.Start()
}

func (s *LifecycleScheduler) Shutdown() error {
	return s.sched.Shutdown()
}

func (s *LifecycleScheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), advanceTimeout)
	defer cancel()

	changed, err := s.events.AdvanceStatuses(ctx)
	if err != nil {
		s.logger.Error("Scheduler: status update failed", slog.Any("error", err))
		return
	}
	if changed > 0 {
		s.logger.Info("Scheduler: event statuses advanced", slog.Int("changed", changed))
	}
}
