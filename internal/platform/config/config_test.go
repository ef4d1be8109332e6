package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.NotEmpty(t, cfg.JWTSigningKey)
	assert.Equal(t, 30*time.Minute, cfg.CatalogCacheTTL)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.Equal(t, 5*time.Second, cfg.Redis.DialTimeout)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DENTOPS_ADDR", ":9999")
	t.Setenv("DENTOPS_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("DENTOPS_REDIS_POOL_SIZE", "25")
	t.Setenv("DENTOPS_CATALOG_CACHE_TTL", "5m")

	cfg := FromEnv()
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, 25, cfg.Redis.PoolSize)
	assert.Equal(t, 5*time.Minute, cfg.CatalogCacheTTL)
}

func TestFromEnvIgnoresMalformedValues(t *testing.T) {
	t.Setenv("DENTOPS_REDIS_POOL_SIZE", "lots")
	t.Setenv("DENTOPS_CATALOG_CACHE_TTL", "soon")

	cfg := FromEnv()
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.Equal(t, 30*time.Minute, cfg.CatalogCacheTTL)
}
