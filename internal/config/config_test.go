package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := Load()
	require.Error(t, err)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/icpair_test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5005, cfg.APIPort)
	assert.Equal(t, "postgres", cfg.CooldownBackend)
	assert.Equal(t, time.Hour, cfg.CooldownWindow)
	assert.Equal(t, 5*time.Minute, cfg.CheckInterval)
	assert.Equal(t, 5*time.Second, cfg.StartupDelay)
	assert.Equal(t, DefaultDistricts, cfg.Districts)
	assert.True(t, cfg.CacheEnabled)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/icpair_test")
	t.Setenv("ALERT_COOLDOWN_WINDOW", "30m")
	t.Setenv("COOLDOWN_BACKEND", "redis")
	t.Setenv("DISTRICTS", "Medeu, Turksib")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.CooldownWindow)
	assert.Equal(t, "redis", cfg.CooldownBackend)
	assert.Equal(t, []string{"Medeu", "Turksib"}, cfg.Districts)
	assert.True(t, cfg.IsProduction())
}

func TestIsKnownDistrict(t *testing.T) {
	assert.True(t, IsKnownDistrict("Medeu"))
	assert.False(t, IsKnownDistrict("medeu"), "registry lookups are case-sensitive")
	assert.False(t, IsKnownDistrict("Gotham"))
}

func TestDistrictRegistryMatchesDefaultList(t *testing.T) {
	assert.Len(t, DefaultDistricts, len(DistrictRegistry))
	for _, name := range DefaultDistricts {
		assert.Contains(t, DistrictRegistry, name)
	}
}
