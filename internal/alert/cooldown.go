package alert

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Ledger tracks the last alert time per district and suppresses repeats
// inside the cooldown window. Districts are independent keys; stale entries
// are harmless (bounded by the fixed district set), so no sweep is needed.
type Ledger interface {
	// IsSuppressed reports whether an alert for scope was recorded within
	// the cooldown window before now.
	IsSuppressed(ctx context.Context, scope string, now time.Time) (bool, error)
	// Record sets the last alert time for scope to now, overwriting any
	// prior value.
	Record(ctx context.Context, scope string, now time.Time) error
}

// --------------------------------------------------------------------------
// In-memory ledger
// --------------------------------------------------------------------------

// MemoryLedger is a process-local Ledger. Cooldown state is lost on restart,
// which can re-alert after a crash — acceptable for development, tests, and
// single-instance deployments that tolerate one extra alert.
type MemoryLedger struct {
	mu     sync.Mutex
	window time.Duration
	last   map[string]time.Time
}

// NewMemoryLedger creates an in-memory ledger with the given window.
func NewMemoryLedger(window time.Duration) *MemoryLedger {
	return &MemoryLedger{
		window: window,
		last:   make(map[string]time.Time),
	}
}

func (l *MemoryLedger) IsSuppressed(_ context.Context, scope string, now time.Time) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	t, ok := l.last[scope]
	return ok && now.Sub(t) < l.window, nil
}

func (l *MemoryLedger) Record(_ context.Context, scope string, now time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.last[scope] = now
	return nil
}

// --------------------------------------------------------------------------
// Postgres ledger
// --------------------------------------------------------------------------

// cooldownDB is the slice of pgxpool.Pool the Postgres ledger needs.
type cooldownDB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresLedger stores last-alert times in the alert_cooldowns table, so
// cooldown survives process restarts and alert storms after a crash are
// avoided.
type PostgresLedger struct {
	db     cooldownDB
	window time.Duration
}

// NewPostgresLedger creates a durable ledger backed by alert_cooldowns.
func NewPostgresLedger(db cooldownDB, window time.Duration) *PostgresLedger {
	return &PostgresLedger{db: db, window: window}
}

func (l *PostgresLedger) IsSuppressed(ctx context.Context, scope string, now time.Time) (bool, error) {
	var last time.Time
	err := l.db.QueryRow(ctx,
		"SELECT last_alert_at FROM alert_cooldowns WHERE scope = $1", scope).Scan(&last)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cooldown lookup %q: %w", scope, err)
	}
	return now.Sub(last) < l.window, nil
}

func (l *PostgresLedger) Record(ctx context.Context, scope string, now time.Time) error {
	_, err := l.db.Exec(ctx, `
		INSERT INTO alert_cooldowns (scope, last_alert_at)
		VALUES ($1, $2)
		ON CONFLICT (scope) DO UPDATE SET last_alert_at = EXCLUDED.last_alert_at`,
		scope, now)
	if err != nil {
		return fmt.Errorf("cooldown record %q: %w", scope, err)
	}
	return nil
}

// --------------------------------------------------------------------------
// Redis ledger
// --------------------------------------------------------------------------

const redisCooldownPrefix = "alert:cooldown:"

// RedisLedger keys cooldown state by district with a TTL equal to the
// window — expiry is the suppression boundary. Survives API restarts as
// long as Redis does.
type RedisLedger struct {
	client *redis.Client
	window time.Duration
}

// NewRedisLedger creates a Redis-backed ledger with the given window.
func NewRedisLedger(client *redis.Client, window time.Duration) *RedisLedger {
	return &RedisLedger{client: client, window: window}
}

func (l *RedisLedger) IsSuppressed(ctx context.Context, scope string, _ time.Time) (bool, error) {
	n, err := l.client.Exists(ctx, redisCooldownPrefix+scope).Result()
	if err != nil {
		return false, fmt.Errorf("cooldown lookup %q: %w", scope, err)
	}
	return n > 0, nil
}

func (l *RedisLedger) Record(ctx context.Context, scope string, now time.Time) error {
	err := l.client.Set(ctx, redisCooldownPrefix+scope, now.UTC().Format(time.RFC3339), l.window).Err()
	if err != nil {
		return fmt.Errorf("cooldown record %q: %w", scope, err)
	}
	return nil
}
