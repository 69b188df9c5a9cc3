package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

// Store backend names accepted in STORE_BACKEND.
const (
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type AppConfig struct {
	ListenAddr string
	AdminAddr  string

	StoreBackend string
	RedisURL     string
	DatabaseURL  string

	CatalogPath string

	// MatchSeed pins the per-session shuffle RNG; 0 means seed from
	// crypto/rand at session creation. Intended for tests only.
	MatchSeed int64

	SessionGCDelayMS int
	MaxConnections   int
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		ListenAddr:       ":4000",
		AdminAddr:        "",
		StoreBackend:     "redis",
		SessionGCDelayMS: 500,
		MaxConnections:   500,
	}

	if v := strings.TrimSpace(os.Getenv("LISTEN_ADDR")); v != "" {
		cfg.ListenAddr = v
	}
	cfg.AdminAddr = strings.TrimSpace(os.Getenv("ADMIN_ADDR"))

	if v := strings.TrimSpace(os.Getenv("STORE_BACKEND")); v != "" {
		cfg.StoreBackend = strings.ToLower(v)
	}
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.CatalogPath = strings.TrimSpace(os.Getenv("CATALOG_PATH"))

	if v := strings.TrimSpace(os.Getenv("MATCH_SEED")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.MatchSeed = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("SESSION_GC_DELAY_MS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.SessionGCDelayMS = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("MAX_CONNECTIONS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxConnections = n
		}
	}

	switch cfg.StoreBackend {
	case BackendRedis:
		if cfg.RedisURL == "" {
			return nil, errors.New("REDIS_URL is required for the redis store backend")
		}
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is required for the postgres store backend")
		}
	case BackendMemory:
		// volatile backend, nothing to validate
	default:
		return nil, errors.New("STORE_BACKEND must be one of redis, postgres, memory")
	}

	return cfg, nil
}
