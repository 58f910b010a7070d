package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the slice of pgxpool.Pool the registry needs. Satisfied by
// pgxmock in tests.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Registry is the Postgres-backed subscription store. All statements are
// single-row atomic; no multi-row transactions are needed.
type Registry struct {
	db     DB
	logger *slog.Logger
}

// NewRegistry creates a registry over the given database handle.
func NewRegistry(db DB, logger *slog.Logger) *Registry {
	return &Registry{db: db, logger: logger}
}

// Upsert creates a subscription for address, or updates the existing row's
// scope and re-enables it. Owner is kept from the original row on update.
func (r *Registry) Upsert(ctx context.Context, address, scope string, owner *string) (*Subscription, error) {
	if address == "" {
		return nil, &ValidationError{Field: "address", Reason: "must not be empty"}
	}
	if scope == "" {
		return nil, &ValidationError{Field: "scope", Reason: "must not be empty"}
	}

	var s Subscription
	err := r.db.QueryRow(ctx, "upsert_subscription", uuid.New(), owner, address, scope).Scan(
		&s.ID, &s.Owner, &s.Address, &s.Scope, &s.Enabled, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert subscription: %w", err)
	}
	return &s, nil
}

// Disable flips enabled off for the matching row. Unknown addresses are a
// logged no-op — unsubscribe is idempotent.
func (r *Registry) Disable(ctx context.Context, address string) error {
	if address == "" {
		return &ValidationError{Field: "address", Reason: "must not be empty"}
	}
	tag, err := r.db.Exec(ctx, "disable_subscription", address)
	if err != nil {
		return fmt.Errorf("disable subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Warn("unsubscribe for unknown address")
	}
	return nil
}

// FindByScope returns the addresses of all enabled subscriptions for scope.
func (r *Registry) FindByScope(ctx context.Context, scope string) ([]string, error) {
	rows, err := r.db.Query(ctx, "find_subscribers_by_district", scope)
	if err != nil {
		return nil, fmt.Errorf("find subscribers: %w", err)
	}
	defer rows.Close()

	var addresses []string
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, fmt.Errorf("scan subscriber: %w", err)
		}
		addresses = append(addresses, a)
	}
	return addresses, rows.Err()
}

// FindByAddress returns the subscription for address, or ErrNotFound.
func (r *Registry) FindByAddress(ctx context.Context, address string) (*Subscription, error) {
	var s Subscription
	err := r.db.QueryRow(ctx, "find_subscription", address).Scan(
		&s.ID, &s.Owner, &s.Address, &s.Scope, &s.Enabled, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find subscription: %w", err)
	}
	return &s, nil
}

// DeleteMany hard-removes the rows for the given addresses and returns the
// number actually deleted. Addresses without a row are a no-op.
func (r *Registry) DeleteMany(ctx context.Context, addresses []string) (int64, error) {
	if len(addresses) == 0 {
		return 0, nil
	}
	tag, err := r.db.Exec(ctx, "delete_subscriptions", addresses)
	if err != nil {
		return 0, fmt.Errorf("delete subscriptions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// PurgeStaleDisabled removes rows disabled for longer than olderThan.
// Retention policy, invoked by maintenance and the admin cleanup endpoint.
func (r *Registry) PurgeStaleDisabled(ctx context.Context, olderThan time.Duration) (int64, error) {
	tag, err := r.db.Exec(ctx, "purge_stale_subscriptions", time.Now().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("purge stale subscriptions: %w", err)
	}
	return tag.RowsAffected(), nil
}
