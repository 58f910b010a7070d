// Package db provides a pgxpool-based connection pool with prepared statement
// registration and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SULDev2024/ICPAIR/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// registerPreparedStatements registers all statements the API and alerting
// layers use. Prepared statements eliminate parse overhead on every request.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Subscriptions
		"upsert_subscription": `
			INSERT INTO notification_subscriptions (id, owner, fcm_token, district, enabled)
			VALUES ($1, $2, $3, $4, true)
			ON CONFLICT (fcm_token) DO UPDATE
			SET district = EXCLUDED.district, enabled = true, updated_at = NOW()
			RETURNING id, owner, fcm_token, district, enabled, created_at, updated_at`,
		"find_subscription": `
			SELECT id, owner, fcm_token, district, enabled, created_at, updated_at
			FROM notification_subscriptions WHERE fcm_token = $1`,
		"find_subscribers_by_district": `
			SELECT fcm_token FROM notification_subscriptions
			WHERE district = $1 AND enabled = true`,
		"disable_subscription": `
			UPDATE notification_subscriptions
			SET enabled = false, updated_at = NOW() WHERE fcm_token = $1`,
		"delete_subscriptions": `
			DELETE FROM notification_subscriptions WHERE fcm_token = ANY($1)`,
		"purge_stale_subscriptions": `
			DELETE FROM notification_subscriptions
			WHERE enabled = false AND updated_at < $1`,

		// Readings
		"latest_reading": `
			SELECT pm25, pm10, observed_at FROM air_quality_readings
			WHERE district = $1 ORDER BY observed_at DESC LIMIT 1`,
		"insert_reading": `
			INSERT INTO air_quality_readings (district, pm25, pm10, observed_at)
			VALUES ($1, $2, $3, $4)`,

		// Districts
		"list_districts":  "SELECT id, name FROM districts ORDER BY name",
		"upsert_district": "INSERT INTO districts (name) VALUES ($1) ON CONFLICT (name) DO NOTHING",
		"find_district":   "SELECT id, name FROM districts WHERE name = $1",

		// Complaints
		"insert_complaint": `
			INSERT INTO complaints (id, title, category, description, name, email, district_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING created_at`,
		"list_complaints": `
			SELECT c.id, c.title, c.category, c.description, c.name, c.email, d.name, c.created_at
			FROM complaints c JOIN districts d ON d.id = c.district_id
			ORDER BY c.created_at DESC`,

		// Sensor catalog
		"list_catalog": `
			SELECT id, name, model, description, price, in_stock
			FROM sensor_catalog ORDER BY name`,
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
