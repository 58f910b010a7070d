// Package district stores the monitored city districts. The set is fixed by
// configuration; the table exists so complaints can reference districts by
// id and the frontend can list them.
package district

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// District is one monitored city district.
type District struct {
	ID   int
	Name string
}

// ErrNotFound is returned when a district name does not resolve.
var ErrNotFound = errors.New("district not found")

type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Store is the Postgres-backed district repository.
type Store struct {
	db DB
}

// NewStore creates a district store.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

// List returns all districts ordered by name.
func (s *Store) List(ctx context.Context) ([]District, error) {
	rows, err := s.db.Query(ctx, "list_districts")
	if err != nil {
		return nil, fmt.Errorf("list districts: %w", err)
	}
	defer rows.Close()

	var districts []District
	for rows.Next() {
		var d District
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, fmt.Errorf("scan district: %w", err)
		}
		districts = append(districts, d)
	}
	return districts, rows.Err()
}

// FindByName resolves a district by exact name.
func (s *Store) FindByName(ctx context.Context, name string) (*District, error) {
	var d District
	err := s.db.QueryRow(ctx, "find_district", name).Scan(&d.ID, &d.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find district %q: %w", name, err)
	}
	return &d, nil
}

// Seed inserts any missing districts from names. Idempotent.
func (s *Store) Seed(ctx context.Context, names []string) error {
	for _, name := range names {
		if _, err := s.db.Exec(ctx, "upsert_district", name); err != nil {
			return fmt.Errorf("seed district %q: %w", name, err)
		}
	}
	return nil
}
