package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_USER", "booking")
	t.Setenv("DB_NAME", "grounds")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "30")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "3306", cfg.DBPort)
	assert.Equal(t, 30*time.Minute, cfg.AccessTTL())
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "INR", cfg.Currency)
	assert.False(t, cfg.IsProd())
}

func TestLoad_RequiresSecrets(t *testing.T) {
	t.Setenv("DB_USER", "booking")
	t.Setenv("DB_NAME", "grounds")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsBcryptCost(t *testing.T) {
	t.Setenv("DB_USER", "booking")
	t.Setenv("DB_NAME", "grounds")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("BCRYPT_COST", "2")

	_, err := Load()
	assert.ErrorContains(t, err, "BCRYPT_COST")
}

func TestRateLimitNormalize(t *testing.T) {
	cfg := RateLimitConfig{Burst: 10, RefillEvery: 2 * time.Second, TTL: time.Second}.normalize()
	assert.Equal(t, 10, cfg.Capacity)
	assert.Equal(t, 1, cfg.RefillTokens)
	assert.Equal(t, 2*time.Second, cfg.RefillInterval)
	assert.Equal(t, 10*time.Second, cfg.TTL)

	cfg = RateLimitConfig{}.normalize()
	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, time.Second, cfg.RefillInterval)
}

func TestLoadCacheConfig(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")
	cfg, err := LoadCacheConfig()
	require.NoError(t, err)
	assert.True(t, cfg.Methods["GET"])
	assert.True(t, cfg.Methods["HEAD"])
	assert.False(t, cfg.Methods["POST"])
}

func TestRedisAddress(t *testing.T) {
	assert.Equal(t, "cache:6380", RedisConfig{Host: "cache", Port: "6380", Addr: "x:1"}.Address())
	assert.Equal(t, "x:1", RedisConfig{Addr: "x:1"}.Address())
}
