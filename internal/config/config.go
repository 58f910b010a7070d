// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/aqmctl.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// District registry — the fixed set of monitored Almaty districts, with the
// per-district baselines the forecast heuristic uses.
// --------------------------------------------------------------------------

type DistrictConfig struct {
	Name         string
	BaselinePM25 float64
	BaselinePM10 float64
	Variation    float64
}

var DistrictRegistry = map[string]DistrictConfig{
	"Alatau":    {Name: "Alatau", BaselinePM25: 50, BaselinePM10: 70, Variation: 15},
	"Almaly":    {Name: "Almaly", BaselinePM25: 65, BaselinePM10: 75, Variation: 18},
	"Auezov":    {Name: "Auezov", BaselinePM25: 75, BaselinePM10: 85, Variation: 20},
	"Bostandyk": {Name: "Bostandyk", BaselinePM25: 55, BaselinePM10: 60, Variation: 12},
	"Medeu":     {Name: "Medeu", BaselinePM25: 48, BaselinePM10: 55, Variation: 10},
	"Nauryzbay": {Name: "Nauryzbay", BaselinePM25: 70, BaselinePM10: 80, Variation: 18},
	"Turksib":   {Name: "Turksib", BaselinePM25: 85, BaselinePM10: 95, Variation: 22},
	"Zhetysu":   {Name: "Zhetysu", BaselinePM25: 80, BaselinePM10: 90, Variation: 20},
}

// DefaultDistricts is the registry's key set in stable order.
var DefaultDistricts = []string{
	"Alatau", "Almaly", "Auezov", "Bostandyk",
	"Medeu", "Nauryzbay", "Turksib", "Zhetysu",
}

// IsKnownDistrict reports whether name is a monitored district.
func IsKnownDistrict(name string) bool {
	_, ok := DistrictRegistry[name]
	return ok
}

// --------------------------------------------------------------------------
// Table names — single source of truth, matches schema.sql
// --------------------------------------------------------------------------

const (
	SubscriptionsTable = "notification_subscriptions"
	ReadingsTable      = "air_quality_readings"
	CooldownsTable     = "alert_cooldowns"
	ComplaintsTable    = "complaints"
	DistrictsTable     = "districts"
	CatalogTable       = "sensor_catalog"
)

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Database
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Alerting
	Districts       []string
	CooldownWindow  time.Duration
	CheckInterval   time.Duration
	StartupDelay    time.Duration
	SendTimeout     time.Duration
	CooldownBackend string // memory, postgres, redis

	// Push delivery
	FCMCredentialsFile string
	FrontendURL        string // web push click-through link

	// Redis (cooldown backend)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Retention
	StaleSubscriptionAge time.Duration
	ReadingRetention     time.Duration

	// Cache
	CacheEnabled bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	dbURL := envOr("DATABASE_URL", "")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set")
	}

	return &Config{
		DatabaseURL:    dbURL,
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 5005)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		Districts:       envList("DISTRICTS", DefaultDistricts),
		CooldownWindow:  envDuration("ALERT_COOLDOWN_WINDOW", time.Hour),
		CheckInterval:   envDuration("ALERT_CHECK_INTERVAL", 5*time.Minute),
		StartupDelay:    envDuration("ALERT_STARTUP_DELAY", 5*time.Second),
		SendTimeout:     envDuration("ALERT_SEND_TIMEOUT", 10*time.Second),
		CooldownBackend: envOr("COOLDOWN_BACKEND", "postgres"),

		FCMCredentialsFile: envOr("FIREBASE_CREDENTIALS_FILE", ""),
		FrontendURL:        envOr("FRONTEND_URL", "http://localhost:3000"),

		RedisAddr:     envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword: envOr("REDIS_PASSWORD", ""),
		RedisDB:       envInt("REDIS_DB", 0),

		StaleSubscriptionAge: envDuration("STALE_SUBSCRIPTION_AGE", 6*30*24*time.Hour),
		ReadingRetention:     envDuration("READING_RETENTION", 90*24*time.Hour),

		CacheEnabled: envBool("CACHE_ENABLED", true),
	}, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
