// Package handler provides HTTP handlers for all API endpoints. Handlers
// query Postgres through the domain stores and delegate alerting to the
// push gateway and subscription registry.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SULDev2024/ICPAIR/internal/api/respond"
	"github.com/SULDev2024/ICPAIR/internal/cache"
	"github.com/SULDev2024/ICPAIR/internal/catalog"
	"github.com/SULDev2024/ICPAIR/internal/complaint"
	"github.com/SULDev2024/ICPAIR/internal/config"
	"github.com/SULDev2024/ICPAIR/internal/db"
	"github.com/SULDev2024/ICPAIR/internal/district"
	"github.com/SULDev2024/ICPAIR/internal/push"
	"github.com/SULDev2024/ICPAIR/internal/reading"
	"github.com/SULDev2024/ICPAIR/internal/subscription"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	pool       *db.Pool
	cache      *cache.Cache
	cfg        *config.Config
	subs       *subscription.Registry
	gateway    push.Gateway
	readings   *reading.Store
	complaints *complaint.Store
	districts  *district.Store
	catalog    *catalog.Store
	logger     *slog.Logger
}

// Deps bundles the collaborators a Handler needs.
type Deps struct {
	Pool       *db.Pool
	Cache      *cache.Cache
	Config     *config.Config
	Registry   *subscription.Registry
	Gateway    push.Gateway
	Readings   *reading.Store
	Complaints *complaint.Store
	Districts  *district.Store
	Catalog    *catalog.Store
	Logger     *slog.Logger
}

// New creates a Handler with shared dependencies.
func New(d Deps) *Handler {
	return &Handler{
		pool:       d.Pool,
		cache:      d.Cache,
		cfg:        d.Config,
		subs:       d.Registry,
		gateway:    d.Gateway,
		readings:   d.Readings,
		complaints: d.Complaints,
		districts:  d.Districts,
		catalog:    d.Catalog,
		logger:     d.Logger,
	}
}

// Root serves API info at /.
// @Summary API root info
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "ICPAIR API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if err := h.pool.HealthCheck(r.Context()); err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Snapshot(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// knownDistrict reports whether name is in the configured district set.
func (h *Handler) knownDistrict(name string) bool {
	for _, d := range h.cfg.Districts {
		if d == name {
			return true
		}
	}
	return false
}
