package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_LoadRateLimitConfig_Defaults(t *testing.T) {
	cfg := LoadRateLimitConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 60, cfg.Capacity)
	assert.Equal(t, 1, cfg.RefillTokens)
	assert.Equal(t, time.Second, cfg.RefillInterval)
	assert.Equal(t, "ip_user_route", cfg.KeyStrategy)
	assert.Equal(t, "rl", cfg.Prefix)
	// TTL never drops below several refill intervals.
	assert.GreaterOrEqual(t, cfg.TTL, 5*cfg.RefillInterval)
}

func Test_LoadRateLimitConfig_Overrides(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "10")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s") // below the clamp

	cfg := LoadRateLimitConfig()
	assert.Equal(t, 10, cfg.Capacity)
	assert.Equal(t, 2*time.Second, cfg.RefillInterval)
	assert.Equal(t, 10*time.Second, cfg.TTL) // clamped to 5 intervals
}

func Test_LoadRateLimitConfig_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "lots")
	t.Setenv("RATE_LIMIT_ENABLED", "maybe")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "soon")

	cfg := LoadRateLimitConfig()
	assert.Equal(t, 60, cfg.Capacity)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, time.Second, cfg.RefillInterval)
}

func Test_LoadCacheConfig(t *testing.T) {
	cfg := LoadCacheConfig()
	assert.True(t, cfg.Enabled)
	assert.True(t, cfg.Methods["GET"])
	assert.False(t, cfg.Methods["POST"])
	assert.Equal(t, 30*time.Second, cfg.TTL)

	t.Setenv("CACHE_METHODS", "get, head")
	cfg = LoadCacheConfig()
	assert.True(t, cfg.Methods["GET"])
	assert.True(t, cfg.Methods["HEAD"])
}

func Test_envBool(t *testing.T) {
	t.Setenv("X_BOOL", "on")
	assert.True(t, envBool("X_BOOL", false))
	t.Setenv("X_BOOL", "OFF")
	assert.False(t, envBool("X_BOOL", true))
	t.Setenv("X_BOOL", "nonsense")
	assert.True(t, envBool("X_BOOL", true))
}
