package alert

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SULDev2024/ICPAIR/internal/push"
)

// ReadingSource supplies the latest reading per district. A (nil, nil)
// return means no data is available for the district — expected during
// startup and sensor outages, not an error.
type ReadingSource interface {
	Latest(ctx context.Context, district string) (*Reading, error)
}

// SubscriberStore is the slice of the subscription registry the evaluator
// needs: enabled recipients per district and hard-removal of dead tokens.
type SubscriberStore interface {
	FindByScope(ctx context.Context, scope string) ([]string, error)
	DeleteMany(ctx context.Context, addresses []string) (int64, error)
}

// Evaluator runs the alerting pipeline over the fixed district set. All
// collaborators are injected so tests can substitute fakes.
type Evaluator struct {
	readings    ReadingSource
	subs        SubscriberStore
	ledger      Ledger
	gateway     push.Gateway
	districts   []string
	sendTimeout time.Duration
	logger      *slog.Logger
}

// NewEvaluator creates an evaluator. sendTimeout bounds each push gateway
// call; zero means DefaultSendTimeout.
func NewEvaluator(
	readings ReadingSource,
	subs SubscriberStore,
	ledger Ledger,
	gateway push.Gateway,
	districts []string,
	sendTimeout time.Duration,
	logger *slog.Logger,
) *Evaluator {
	if sendTimeout <= 0 {
		sendTimeout = DefaultSendTimeout
	}
	return &Evaluator{
		readings:    readings,
		subs:        subs,
		ledger:      ledger,
		gateway:     gateway,
		districts:   districts,
		sendTimeout: sendTimeout,
		logger:      logger,
	}
}

// EvaluateAll runs one evaluation pass over every district. A failure in
// one district is logged and contained; the rest still evaluate. Returns
// the events for districts where an alert was sent.
func (e *Evaluator) EvaluateAll(ctx context.Context) []Event {
	var events []Event
	for _, district := range e.districts {
		ev, err := e.EvaluateDistrict(ctx, district)
		if err != nil {
			e.logger.Error("district evaluation failed", "district", district, "error", err)
			continue
		}
		if ev != nil {
			events = append(events, *ev)
		}
	}
	return events
}

// EvaluateDistrict runs the pipeline for a single district. Returns nil
// when no alert was warranted (no data, acceptable air, cooldown active, or
// no subscribers) — none of those mutate any state. The cooldown is
// recorded once a delivery attempt was made, regardless of per-token
// failures, so a flapping sensor cannot cause an alert storm.
func (e *Evaluator) EvaluateDistrict(ctx context.Context, district string) (*Event, error) {
	now := time.Now()

	reading, err := e.readings.Latest(ctx, district)
	if err != nil {
		return nil, fmt.Errorf("latest reading: %w", err)
	}
	if reading == nil {
		e.logger.Debug("no reading available", "district", district)
		return nil, nil
	}

	sev, ok := Classify(reading.PM25, reading.PM10)
	if !ok {
		return nil, nil
	}

	suppressed, err := e.ledger.IsSuppressed(ctx, district, now)
	if err != nil {
		return nil, fmt.Errorf("cooldown check: %w", err)
	}
	if suppressed {
		e.logger.Info("cooldown active, skipping alert", "district", district)
		return nil, nil
	}

	tokens, err := e.subs.FindByScope(ctx, district)
	if err != nil {
		return nil, fmt.Errorf("load subscribers: %w", err)
	}
	if len(tokens) == 0 {
		e.logger.Debug("no subscribers", "district", district)
		return nil, nil
	}

	n := BuildNotification(district, reading.PM25, reading.PM10, sev)

	sendCtx, cancel := context.WithTimeout(ctx, e.sendTimeout)
	report, err := e.gateway.SendBulk(sendCtx, tokens, n.Title, n.Body, n.Data)
	cancel()
	if err != nil {
		// Whole-batch transport failure: nothing was attempted per token,
		// so no cooldown and no registry mutation. The next tick retries.
		return nil, fmt.Errorf("push fan-out: %w", err)
	}

	if len(report.InvalidTokens) > 0 {
		deleted, err := e.subs.DeleteMany(ctx, report.InvalidTokens)
		if err != nil {
			e.logger.Warn("invalid token cleanup failed", "district", district, "error", err)
		} else {
			e.logger.Info("reclaimed invalid tokens", "district", district, "count", deleted)
		}
	}

	if err := e.ledger.Record(ctx, district, now); err != nil {
		e.logger.Warn("cooldown record failed", "district", district, "error", err)
	}

	ev := &Event{
		District:      district,
		Level:         sev.Level,
		PM25:          reading.PM25,
		PM10:          reading.PM10,
		Recipients:    len(tokens),
		Delivered:     report.SuccessCount,
		Failed:        report.FailureCount,
		InvalidTokens: report.InvalidTokens,
	}
	e.logger.Info("alert sent",
		"district", district,
		"level", sev.Level.Label(),
		"pm25", reading.PM25,
		"pm10", reading.PM10,
		"delivered", ev.Delivered,
		"failed", ev.Failed,
		"invalid", len(ev.InvalidTokens))
	return ev, nil
}
