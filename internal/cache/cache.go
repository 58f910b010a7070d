// Package cache is the in-memory response cache for the read-mostly public
// endpoints (districts, catalog, forecast). Entries hold the marshaled JSON
// body plus a weak ETag so handlers can serve 304s to polling frontends.
package cache

import (
	"crypto/md5"
	"fmt"
	"sync"
	"time"
)

// TTLs per endpoint class.
const (
	TTLDistricts = 24 * time.Hour   // fixed set, changes only on redeploy
	TTLCatalog   = 1 * time.Hour    // storefront edits are rare
	TTLForecast  = 30 * time.Minute // heuristic is date-deterministic
)

const sweepInterval = 5 * time.Minute

type entry struct {
	body    []byte
	etag    string
	staleAt time.Time
}

// Stats is the snapshot served by the cache health endpoint.
type Stats struct {
	Enabled bool `json:"enabled"`
	Total   int  `json:"total_keys"`
	Active  int  `json:"active_keys"`
	Expired int  `json:"expired_keys"`
}

// Cache is a thread-safe TTL cache keyed by endpoint. A disabled cache
// still computes ETags so conditional requests keep working.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	enabled bool
}

// New creates a cache. Pass enabled=false for a pass-through cache.
func New(enabled bool) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		enabled: enabled,
	}
	if enabled {
		go c.sweepLoop()
	}
	return c
}

// Get returns the cached body and ETag for key, or ok=false on a miss or
// expired entry.
func (c *Cache) Get(key string) (body []byte, etag string, ok bool) {
	if !c.enabled {
		return nil, "", false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, exists := c.entries[key]
	if !exists || time.Now().After(e.staleAt) {
		return nil, "", false
	}
	return e.body, e.etag, true
}

// Set stores body under key for ttl and returns its ETag.
func (c *Cache) Set(key string, body []byte, ttl time.Duration) string {
	etag := ComputeETag(body)
	if !c.enabled {
		return etag
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{
		body:    body,
		etag:    etag,
		staleAt: time.Now().Add(ttl),
	}
	return etag
}

// Invalidate drops key immediately. Used when an admin write changes data
// an endpoint serves from cache.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Snapshot returns current cache statistics.
func (c *Cache) Snapshot() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := time.Now()
	s := Stats{Enabled: c.enabled, Total: len(c.entries)}
	for _, e := range c.entries {
		if now.Before(e.staleAt) {
			s.Active++
		}
	}
	s.Expired = s.Total - s.Active
	return s
}

func (c *Cache) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for range ticker.C {
		c.sweep(time.Now())
	}
}

func (c *Cache) sweep(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if now.After(e.staleAt) {
			delete(c.entries, key)
		}
	}
}

// ComputeETag generates a weak ETag from a response body.
func ComputeETag(body []byte) string {
	hash := md5.Sum(body)
	return fmt.Sprintf(`W/"%x"`, hash[:8])
}

// CheckETagMatch reports whether an If-None-Match header matches etag.
func CheckETagMatch(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" {
		return false
	}
	if ifNoneMatch == "*" {
		return true
	}
	return ifNoneMatch == etag
}
