// Package store persists users, decks and collections behind a key-value
// port. Three backends exist: redis (default), postgres, and an in-process
// map for tests and single-node play.
package store

import (
	"context"
	"fmt"

	"github.com/bayou-games/bayou-bonanza/internal/config"
)

// User is an account record. Rating is the stored Elo value (offset removed).
type User struct {
	Username string `json:"username"`
	Rating   int    `json:"rating"`
}

// Store is the persistence port used by the session layer. Lookups return
// (nil, nil) when the key does not exist.
type Store interface {
	GetUser(ctx context.Context, username string) (*User, error)
	PutUser(ctx context.Context, u *User) error
	GetDeck(ctx context.Context, username string) ([]int, error)
	SaveDeck(ctx context.Context, username string, deck []int) error
	GetCollection(ctx context.Context, username string) ([]int, error)
	SaveCollection(ctx context.Context, username string, cards []int) error
	Close() error
}

// Open builds the backend selected by cfg.StoreBackend.
func Open(cfg *config.AppConfig) (Store, error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		return NewRedisStore(cfg.RedisURL)
	case config.BackendPostgres:
		return NewPostgresStore(cfg.DatabaseURL)
	case config.BackendMemory:
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("store: unknown backend %q", cfg.StoreBackend)
}
