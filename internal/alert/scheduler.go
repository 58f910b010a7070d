package alert

import (
	"context"
	"log/slog"
	"time"
)

// Scheduler drives the evaluator: one run shortly after process start (so
// dependent services finish initializing first), then a fixed cadence.
type Scheduler struct {
	evaluator    *Evaluator
	interval     time.Duration
	startupDelay time.Duration
	logger       *slog.Logger
}

// NewScheduler creates a scheduler. Zero interval or delay fall back to the
// package defaults.
func NewScheduler(evaluator *Evaluator, interval, startupDelay time.Duration, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	if startupDelay <= 0 {
		startupDelay = DefaultStartupDelay
	}
	return &Scheduler{
		evaluator:    evaluator,
		interval:     interval,
		startupDelay: startupDelay,
		logger:       logger,
	}
}

// Run blocks until ctx is cancelled. Shutdown is clean: no new ticks are
// issued, and an in-flight evaluation pass runs to completion.
// Intended to be called with `go`.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("alert scheduler started",
		"interval", s.interval, "startup_delay", s.startupDelay)

	select {
	case <-time.After(s.startupDelay):
		s.evaluator.EvaluateAll(ctx)
	case <-ctx.Done():
		s.logger.Info("alert scheduler stopped")
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.evaluator.EvaluateAll(ctx)
		case <-ctx.Done():
			s.logger.Info("alert scheduler stopped")
			return
		}
	}
}
