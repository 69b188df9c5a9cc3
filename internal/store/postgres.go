package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore maps the key-value port onto three single-key tables with
// upsert writes. Decks and collections are stored as JSON text.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	s := &PostgresStore{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			username TEXT PRIMARY KEY,
			rating INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS decks (
			username TEXT PRIMARY KEY,
			deck TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS collections (
			username TEXT PRIMARY KEY,
			cards TEXT NOT NULL
		)`,
	}
	for _, q := range stmts {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) GetUser(ctx context.Context, username string) (*User, error) {
	u := &User{Username: username}
	err := s.db.QueryRowContext(ctx,
		`SELECT rating FROM users WHERE username = $1`, username).Scan(&u.Rating)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *PostgresStore) PutUser(ctx context.Context, u *User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, rating) VALUES ($1, $2)
		 ON CONFLICT (username) DO UPDATE SET rating = EXCLUDED.rating`,
		u.Username, u.Rating)
	return err
}

func (s *PostgresStore) getCards(ctx context.Context, q, username string) ([]int, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, q, username).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cards []int
	if err := json.Unmarshal([]byte(raw), &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

func (s *PostgresStore) putCards(ctx context.Context, q, username string, cards []int) error {
	raw, err := json.Marshal(cards)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, q, username, string(raw))
	return err
}

func (s *PostgresStore) GetDeck(ctx context.Context, username string) ([]int, error) {
	return s.getCards(ctx, `SELECT deck FROM decks WHERE username = $1`, username)
}

func (s *PostgresStore) SaveDeck(ctx context.Context, username string, deck []int) error {
	return s.putCards(ctx,
		`INSERT INTO decks (username, deck) VALUES ($1, $2)
		 ON CONFLICT (username) DO UPDATE SET deck = EXCLUDED.deck`,
		username, deck)
}

func (s *PostgresStore) GetCollection(ctx context.Context, username string) ([]int, error) {
	return s.getCards(ctx, `SELECT cards FROM collections WHERE username = $1`, username)
}

func (s *PostgresStore) SaveCollection(ctx context.Context, username string, cards []int) error {
	return s.putCards(ctx,
		`INSERT INTO collections (username, cards) VALUES ($1, $2)
		 ON CONFLICT (username) DO UPDATE SET cards = EXCLUDED.cards`,
		username, cards)
}

func (s *PostgresStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
