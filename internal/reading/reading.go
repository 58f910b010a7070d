// Package reading stores sensor-reported PM measurements per district and
// serves the "latest reading" lookups the alerting core evaluates against.
package reading

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/SULDev2024/ICPAIR/internal/alert"
)

// NotifyChannel is the pg_notify channel fired on every ingested reading.
// The listener package consumes it for immediate evaluation.
const NotifyChannel = "reading_received"

// DB is the slice of pgxpool.Pool the store needs.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Store is the Postgres-backed reading repository. It implements
// alert.ReadingSource.
type Store struct {
	db DB
}

// NewStore creates a reading store.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

// Latest returns the most recent reading for a district, or (nil, nil) when
// the district has no data yet — a gap, not an error.
func (s *Store) Latest(ctx context.Context, district string) (*alert.Reading, error) {
	r := alert.Reading{District: district}
	err := s.db.QueryRow(ctx, "latest_reading", district).Scan(&r.PM25, &r.PM10, &r.ObservedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest reading %q: %w", district, err)
	}
	return &r, nil
}

// Insert stores a reading and notifies listeners so the district can be
// evaluated without waiting for the next scheduler tick.
func (s *Store) Insert(ctx context.Context, district string, pm25, pm10 float64, observedAt time.Time) error {
	if observedAt.IsZero() {
		observedAt = time.Now()
	}
	_, err := s.db.Exec(ctx, "insert_reading", district, pm25, pm10, observedAt)
	if err != nil {
		return fmt.Errorf("insert reading: %w", err)
	}

	payload, err := json.Marshal(map[string]any{
		"district": district,
		"pm25":     pm25,
		"pm10":     pm10,
	})
	if err != nil {
		return fmt.Errorf("encode notify payload: %w", err)
	}
	if _, err := s.db.Exec(ctx, "SELECT pg_notify($1, $2)", NotifyChannel, string(payload)); err != nil {
		return fmt.Errorf("notify %s: %w", NotifyChannel, err)
	}
	return nil
}

// PurgeOlderThan removes readings past the retention horizon. The alerting
// core only ever needs the latest row per district; history retention is a
// storage concern.
func (s *Store) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, "DELETE FROM air_quality_readings WHERE observed_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge readings: %w", err)
	}
	return tag.RowsAffected(), nil
}
