// Package alert is the air-quality alerting core: a periodic evaluator that
// classifies the latest PM readings per district, consults a per-district
// cooldown ledger, fans an alert out to push subscribers, and reclaims
// permanently invalid device tokens.
//
// Pipeline per district: fetch latest reading → classify severity → cooldown
// check → load subscribers → push fan-out → reclaim invalid tokens → record
// cooldown. Failures in one district never abort the others.
package alert

import "time"

// --------------------------------------------------------------------------
// Defaults
// --------------------------------------------------------------------------

const (
	DefaultCooldownWindow = 1 * time.Hour
	DefaultCheckInterval  = 5 * time.Minute
	DefaultStartupDelay   = 5 * time.Second
	DefaultSendTimeout    = 10 * time.Second
)

// --------------------------------------------------------------------------
// Types
// --------------------------------------------------------------------------

// Reading is the latest measured PM pair for a district, supplied by an
// external reading source (sensor ingestion owns the storage).
type Reading struct {
	District   string
	PM25       float64
	PM10       float64
	ObservedAt time.Time
}

// Event is the outcome of one evaluation pass for one district. Transient;
// produced for logs and tests, never persisted.
type Event struct {
	District      string
	Level         Level
	PM25          float64
	PM10          float64
	Recipients    int
	Delivered     int
	Failed        int
	InvalidTokens []string
}
