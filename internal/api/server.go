package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/SULDev2024/ICPAIR/internal/api/handler"
	"github.com/SULDev2024/ICPAIR/internal/config"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(h *handler.Handler, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg))
	}

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
		r.Get("/cache", h.HealthCheckCache)
	})

	// Swagger UI
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Push alert subscriptions
		r.Route("/subscriptions", func(r chi.Router) {
			r.Post("/", h.Subscribe)
			r.Post("/unsubscribe", h.Unsubscribe)
			r.Get("/preferences", h.Preferences)
			r.Delete("/cleanup", h.CleanupSubscriptions)
		})

		// Administrative alert trigger
		r.Post("/alerts/send", h.SendAlert)

		// Sensor readings
		r.Route("/readings", func(r chi.Router) {
			r.Post("/", h.SubmitReading)
			r.Get("/latest", h.LatestReading)
		})

		// Forecast
		r.Post("/forecast", h.Forecast)

		// Complaints
		r.Route("/complaints", func(r chi.Router) {
			r.Post("/", h.CreateComplaint)
			r.Get("/", h.ListComplaints)
		})

		// Districts
		r.Get("/districts", h.ListDistricts)

		// Sensor storefront
		r.Get("/catalog", h.ListCatalog)
	})

	return r
}
