// Package push defines the delivery-channel capability the alerting core
// depends on, plus the FCM-backed production implementation. The gateway
// contract separates permanently invalid device tokens (reclaim the
// subscription) from transient delivery failures (retry on the next tick).
package push

import "context"

// Report is the per-batch delivery outcome. InvalidTokens lists tokens the
// transport reported as permanently dead — unregistered or malformed — and
// which will never succeed again. Transient failures only increment
// FailureCount.
type Report struct {
	SuccessCount  int
	FailureCount  int
	InvalidTokens []string
}

// Gateway delivers a notification to a set of device tokens. An empty token
// list must return a zero Report without touching the network. A non-nil
// error means the whole batch could not be attempted (transport down,
// credentials broken) and must never be read as "all tokens invalid".
type Gateway interface {
	SendBulk(ctx context.Context, tokens []string, title, body string, data map[string]string) (*Report, error)
}
