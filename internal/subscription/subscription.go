// Package subscription is the durable registry of push-alert subscriptions:
// one row per device token, carrying the district of interest and an enabled
// flag. Re-subscribing with a known token updates the row instead of
// duplicating it; tokens the push transport reports as permanently dead are
// hard-deleted by the alerting core.
package subscription

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Subscription is one device's alert preference.
type Subscription struct {
	ID        uuid.UUID
	Owner     *string // optional user reference; nil for anonymous subscriptions
	Address   string  // device push token, unique
	Scope     string  // district name
	Enabled   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ErrNotFound is returned by lookups for unknown addresses.
var ErrNotFound = errors.New("subscription not found")

// ValidationError reports a malformed field on a write operation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
