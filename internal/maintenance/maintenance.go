// Package maintenance runs periodic background tasks as Go tickers: stale
// subscription purging and sensor reading retention. All scheduled work is
// driven from Go since the API is already a persistent, long-running service
// (required for LISTEN/NOTIFY).
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/SULDev2024/ICPAIR/internal/reading"
	"github.com/SULDev2024/ICPAIR/internal/subscription"
)

// Config controls maintenance task intervals and retention horizons. Zero
// interval disables a task.
type Config struct {
	PurgeInterval        time.Duration // stale disabled subscriptions
	StaleSubscriptionAge time.Duration
	RetentionInterval    time.Duration // old sensor readings
	ReadingRetention     time.Duration
}

// DefaultConfig returns sensible production defaults.
func DefaultConfig() Config {
	return Config{
		PurgeInterval:        24 * time.Hour,
		StaleSubscriptionAge: 6 * 30 * 24 * time.Hour,
		RetentionInterval:    1 * time.Hour,
		ReadingRetention:     90 * 24 * time.Hour,
	}
}

// Start launches all configured maintenance tickers. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, subs *subscription.Registry, readings *reading.Store, cfg Config, logger *slog.Logger) {
	logger.Info("maintenance tickers started",
		"purge", cfg.PurgeInterval,
		"retention", cfg.RetentionInterval)

	tickers := make([]*time.Ticker, 0, 2)
	defer func() {
		for _, t := range tickers {
			t.Stop()
		}
	}()

	if cfg.PurgeInterval > 0 {
		t := time.NewTicker(cfg.PurgeInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() {
			n, err := subs.PurgeStaleDisabled(ctx, cfg.StaleSubscriptionAge)
			if err != nil {
				logger.Warn("subscription purge failed", "error", err)
			} else if n > 0 {
				logger.Info("purged stale subscriptions", "count", n)
			}
		})
	}

	if cfg.RetentionInterval > 0 {
		t := time.NewTicker(cfg.RetentionInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() {
			n, err := readings.PurgeOlderThan(ctx, time.Now().Add(-cfg.ReadingRetention))
			if err != nil {
				logger.Warn("reading retention failed", "error", err)
			} else if n > 0 {
				logger.Info("purged old readings", "count", n)
			}
		})
	}

	<-ctx.Done()
	logger.Info("maintenance tickers stopped")
}

func runLoop(ctx context.Context, ch <-chan time.Time, fn func()) {
	for {
		select {
		case <-ch:
			fn()
		case <-ctx.Done():
			return
		}
	}
}
