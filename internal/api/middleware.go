package api

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/SULDev2024/ICPAIR/internal/api/respond"
	"github.com/SULDev2024/ICPAIR/internal/config"
)

// TimingMiddleware adds X-Process-Time header to all responses.
func TimingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		elapsed := time.Since(start)
		w.Header().Set("X-Process-Time", fmt.Sprintf("%.2fms", float64(elapsed.Microseconds())/1000.0))
	})
}

// clientLimiters tracks one token bucket per client IP. Entries idle longer
// than idleEvictAfter are dropped by a background sweep, so the map stays
// bounded under IP churn (subscription and reading submissions come from
// many short-lived mobile clients).
type clientLimiters struct {
	mu      sync.Mutex
	clients map[string]*clientEntry
	limit   rate.Limit
	burst   int
}

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const (
	idleEvictAfter = 10 * time.Minute
	evictSweep     = 5 * time.Minute
)

func newClientLimiters(requestsPerWindow int, window time.Duration) *clientLimiters {
	cl := &clientLimiters{
		clients: make(map[string]*clientEntry),
		limit:   rate.Limit(float64(requestsPerWindow) / window.Seconds()),
		burst:   max(requestsPerWindow/2, 1),
	}
	go cl.evictLoop()
	return cl
}

func (cl *clientLimiters) allow(ip string) bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	e, ok := cl.clients[ip]
	if !ok {
		e = &clientEntry{limiter: rate.NewLimiter(cl.limit, cl.burst)}
		cl.clients[ip] = e
	}
	e.lastSeen = time.Now()
	return e.limiter.Allow()
}

func (cl *clientLimiters) evictLoop() {
	ticker := time.NewTicker(evictSweep)
	defer ticker.Stop()
	for range ticker.C {
		cl.evictIdle(time.Now().Add(-idleEvictAfter))
	}
}

func (cl *clientLimiters) evictIdle(cutoff time.Time) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	for ip, e := range cl.clients {
		if e.lastSeen.Before(cutoff) {
			delete(cl.clients, ip)
		}
	}
}

// RateLimitMiddleware limits requests per client IP using the configured
// window. Rejections carry a Retry-After derived from the window.
func RateLimitMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	limiters := newClientLimiters(cfg.RateLimitRequests, cfg.RateLimitWindow)
	retryAfter := strconv.Itoa(int(cfg.RateLimitWindow.Seconds()))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil || ip == "" {
				ip = r.RemoteAddr
			}

			if !limiters.allow(ip) {
				w.Header().Set("Retry-After", retryAfter)
				respond.WriteError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
