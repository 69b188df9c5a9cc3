package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps every record under a bb: prefixed key as JSON. Records
// have no TTL; accounts outlive sessions.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(redisURL string) (*RedisStore, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("REDIS_URL required for redis store")
	}
	opts, err := parseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{rdb: rdb}, nil
}

// NewRedisStoreWithClient wires an existing client, used by tests against
// miniredis.
func NewRedisStoreWithClient(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func keyUser(name string) string       { return "bb:user:" + strings.TrimSpace(name) }
func keyDeck(name string) string       { return "bb:deck:" + strings.TrimSpace(name) }
func keyCollection(name string) string { return "bb:collection:" + strings.TrimSpace(name) }

func (s *RedisStore) getJSON(ctx context.Context, key string, out any) (bool, error) {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, err
	}
	return true, nil
}

func (s *RedisStore) setJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, raw, 0).Err()
}

func (s *RedisStore) GetUser(ctx context.Context, username string) (*User, error) {
	var u User
	ok, err := s.getJSON(ctx, keyUser(username), &u)
	if err != nil || !ok {
		return nil, err
	}
	return &u, nil
}

func (s *RedisStore) PutUser(ctx context.Context, u *User) error {
	return s.setJSON(ctx, keyUser(u.Username), u)
}

func (s *RedisStore) GetDeck(ctx context.Context, username string) ([]int, error) {
	var deck []int
	ok, err := s.getJSON(ctx, keyDeck(username), &deck)
	if err != nil || !ok {
		return nil, err
	}
	return deck, nil
}

func (s *RedisStore) SaveDeck(ctx context.Context, username string, deck []int) error {
	return s.setJSON(ctx, keyDeck(username), deck)
}

func (s *RedisStore) GetCollection(ctx context.Context, username string) ([]int, error) {
	var cards []int
	ok, err := s.getJSON(ctx, keyCollection(username), &cards)
	if err != nil || !ok {
		return nil, err
	}
	return cards, nil
}

func (s *RedisStore) SaveCollection(ctx context.Context, username string, cards []int) error {
	return s.setJSON(ctx, keyCollection(username), cards)
}

func (s *RedisStore) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

func parseRedisURL(raw string) (*redis.Options, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	db := 0
	if p := strings.TrimPrefix(u.Path, "/"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			db = n
		}
	}
	pass, _ := u.User.Password()
	return &redis.Options{Addr: u.Host, Password: pass, DB: db}, nil
}
