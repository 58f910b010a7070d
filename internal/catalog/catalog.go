// Package catalog serves the sensor storefront listing.
package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Sensor is one storefront item.
type Sensor struct {
	ID          int
	Name        string
	Model       string
	Description string
	Price       float64
	InStock     bool
}

type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Store is the Postgres-backed catalog repository.
type Store struct {
	db DB
}

// NewStore creates a catalog store.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

// List returns the full catalog ordered by name.
func (s *Store) List(ctx context.Context) ([]Sensor, error) {
	rows, err := s.db.Query(ctx, "list_catalog")
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	defer rows.Close()

	var sensors []Sensor
	for rows.Next() {
		var item Sensor
		if err := rows.Scan(&item.ID, &item.Name, &item.Model,
			&item.Description, &item.Price, &item.InStock); err != nil {
			return nil, fmt.Errorf("scan catalog item: %w", err)
		}
		sensors = append(sensors, item)
	}
	return sensors, rows.Err()
}
