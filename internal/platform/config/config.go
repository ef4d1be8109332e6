package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string

	// PostgresURL points at the lab database holding product extraction
	// definitions. Empty disables the Postgres source.
	PostgresURL string

	Redis RedisConfig

	// CatalogCacheTTL bounds how long cached extraction catalogs are
	// trusted.
	CatalogCacheTTL time.Duration
}

// RedisConfig holds the optional Redis catalog cache settings.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays
// lean.
func FromEnv() Server {
	addr := os.Getenv("DENTOPS_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default - override in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:          addr,
		JWTSigningKey: jwtSigningKey,
		PostgresURL:   os.Getenv("DENTOPS_POSTGRES_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("DENTOPS_REDIS_URL"),
			PoolSize:     envInt("DENTOPS_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("DENTOPS_REDIS_MIN_IDLE", 2),
			DialTimeout:  envDuration("DENTOPS_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("DENTOPS_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("DENTOPS_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		CatalogCacheTTL: envDuration("DENTOPS_CATALOG_CACHE_TTL", 30*time.Minute),
	}
}

func envInt(name string, fallback int) int {
	if raw := os.Getenv(name); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}

func envDuration(name string, fallback time.Duration) time.Duration {
	if raw := os.Getenv(name); raw != "" {
		if v, err := time.ParseDuration(raw); err == nil {
			return v
		}
	}
	return fallback
}
