package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("BCRYPT_COST", "")
	t.Setenv("SEED_ON_START", "")
	t.Setenv("POST_CACHE_TTL", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "memory", cfg.CacheType)
	assert.Equal(t, "http://localhost:3000", cfg.CORSOrigin)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.True(t, cfg.SeedOnStart)
	assert.Equal(t, 5*time.Minute, cfg.PostCacheTTL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("SEED_ON_START", "false")
	t.Setenv("POST_CACHE_TTL", "30s")
	t.Setenv("CORS_ORIGIN", "https://blog.example.com")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 4, cfg.BcryptCost)
	assert.False(t, cfg.SeedOnStart)
	assert.Equal(t, 30*time.Second, cfg.PostCacheTTL)
	assert.Equal(t, "https://blog.example.com", cfg.CORSOrigin)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("BCRYPT_COST", "high")
	t.Setenv("SEED_ON_START", "maybe")
	t.Setenv("POST_CACHE_TTL", "-1m")

	cfg := Load()

	assert.Equal(t, 12, cfg.BcryptCost)
	assert.True(t, cfg.SeedOnStart)
	assert.Equal(t, 5*time.Minute, cfg.PostCacheTTL)
}
