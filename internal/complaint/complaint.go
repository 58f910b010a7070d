// Package complaint stores citizen pollution complaints with field-level
// validation.
package complaint

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/SULDev2024/ICPAIR/internal/district"
)

// Complaint is a citizen report about a local pollution source.
type Complaint struct {
	ID          uuid.UUID
	Title       string
	Category    string
	Description string
	Name        string
	Email       string
	District    string
	CreatedAt   time.Time
}

// Input is the submitted complaint form.
type Input struct {
	Title       string
	Category    string
	Description string
	Name        string
	Email       string
	District    string
}

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Validate returns a field→reason map; empty means the input is acceptable.
// The district is validated separately since it needs a lookup.
func (in Input) Validate() map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(in.Title) == "" {
		errs["title"] = "Title is required"
	}
	if strings.TrimSpace(in.Category) == "" {
		errs["category"] = "Category is required"
	}
	if strings.TrimSpace(in.Description) == "" {
		errs["description"] = "Description is required"
	}
	if strings.TrimSpace(in.Name) == "" {
		errs["name"] = "Name is required"
	}
	switch {
	case strings.TrimSpace(in.Email) == "":
		errs["email"] = "Email is required"
	case !emailPattern.MatchString(in.Email):
		errs["email"] = "Invalid email format"
	}
	return errs
}

type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is the Postgres-backed complaint repository.
type Store struct {
	db        DB
	districts *district.Store
}

// NewStore creates a complaint store.
func NewStore(db DB, districts *district.Store) *Store {
	return &Store{db: db, districts: districts}
}

// Create persists a validated complaint. The caller is expected to have run
// Input.Validate first; the district is resolved here and yields
// district.ErrNotFound when unknown.
func (s *Store) Create(ctx context.Context, in Input) (*Complaint, error) {
	d, err := s.districts.FindByName(ctx, in.District)
	if err != nil {
		return nil, err
	}

	c := &Complaint{
		ID:          uuid.New(),
		Title:       in.Title,
		Category:    in.Category,
		Description: in.Description,
		Name:        in.Name,
		Email:       in.Email,
		District:    d.Name,
	}
	err = s.db.QueryRow(ctx, "insert_complaint",
		c.ID, c.Title, c.Category, c.Description, c.Name, c.Email, d.ID,
	).Scan(&c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert complaint: %w", err)
	}
	return c, nil
}

// List returns all complaints, newest first.
func (s *Store) List(ctx context.Context) ([]Complaint, error) {
	rows, err := s.db.Query(ctx, "list_complaints")
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	defer rows.Close()

	var complaints []Complaint
	for rows.Next() {
		var c Complaint
		if err := rows.Scan(&c.ID, &c.Title, &c.Category, &c.Description,
			&c.Name, &c.Email, &c.District, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan complaint: %w", err)
		}
		complaints = append(complaints, c)
	}
	return complaints, rows.Err()
}
