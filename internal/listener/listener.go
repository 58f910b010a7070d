// Package listener provides a Postgres LISTEN/NOTIFY consumer for immediate
// alert evaluation. It holds a dedicated pgx connection (not from the pool)
// listening on the `reading_received` channel.
//
// When a sensor reading is ingested, the reading store fires pg_notify and
// this consumer evaluates the affected district right away instead of
// waiting for the next scheduler tick. The cooldown ledger keeps repeated
// readings from turning into repeated alerts.
package listener

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/SULDev2024/ICPAIR/internal/alert"
	"github.com/SULDev2024/ICPAIR/internal/reading"
)

const (
	reconnectBackoff = 5 * time.Second
	maxReconnect     = 30 * time.Second
)

// ReadingEvent is the JSON payload from pg_notify('reading_received', ...).
type ReadingEvent struct {
	District string  `json:"district"`
	PM25     float64 `json:"pm25"`
	PM10     float64 `json:"pm10"`
}

// Start opens a dedicated connection and listens on the reading_received
// channel. It reconnects automatically on connection loss. Blocks until ctx
// is cancelled. Intended to be called with `go`.
func Start(ctx context.Context, dbURL string, evaluator *alert.Evaluator, logger *slog.Logger) {
	backoff := reconnectBackoff

	for {
		err := listenLoop(ctx, dbURL, evaluator, logger)
		if ctx.Err() != nil {
			logger.Info("reading listener stopped (context cancelled)")
			return
		}

		logger.Error("reading listener disconnected, reconnecting...",
			"error", err, "backoff", backoff)

		select {
		case <-time.After(backoff):
			backoff = min(backoff*2, maxReconnect)
		case <-ctx.Done():
			return
		}
	}
}

// listenLoop runs a single listen session. Returns when the connection drops
// or the context is cancelled.
func listenLoop(ctx context.Context, dbURL string, evaluator *alert.Evaluator, logger *slog.Logger) error {
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	_, err = conn.Exec(ctx, "LISTEN "+reading.NotifyChannel)
	if err != nil {
		return fmt.Errorf("LISTEN %s: %w", reading.NotifyChannel, err)
	}
	logger.Info("reading listener connected", "channel", reading.NotifyChannel)

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}

		var event ReadingEvent
		if err := json.Unmarshal([]byte(notification.Payload), &event); err != nil {
			logger.Warn("failed to parse reading event",
				"payload", notification.Payload, "error", err)
			continue
		}
		if event.District == "" {
			continue
		}

		if _, err := evaluator.EvaluateDistrict(ctx, event.District); err != nil {
			logger.Error("listener-triggered evaluation failed",
				"district", event.District, "error", err)
		}
	}
}
