package store

import (
	"context"
	"sync"
)

// MemoryStore is the volatile backend for tests and single-node play.
type MemoryStore struct {
	mu          sync.RWMutex
	users       map[string]User
	decks       map[string][]int
	collections map[string][]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[string]User),
		decks:       make(map[string][]int),
		collections: make(map[string][]int),
	}
}

func (s *MemoryStore) GetUser(_ context.Context, username string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *MemoryStore) PutUser(_ context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.Username] = *u
	return nil
}

func (s *MemoryStore) GetDeck(_ context.Context, username string) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	deck, ok := s.decks[username]
	if !ok {
		return nil, nil
	}
	out := make([]int, len(deck))
	copy(out, deck)
	return out, nil
}

func (s *MemoryStore) SaveDeck(_ context.Context, username string, deck []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]int, len(deck))
	copy(cp, deck)
	s.decks[username] = cp
	return nil
}

func (s *MemoryStore) GetCollection(_ context.Context, username string) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cards, ok := s.collections[username]
	if !ok {
		return nil, nil
	}
	out := make([]int, len(cards))
	copy(out, cards)
	return out, nil
}

func (s *MemoryStore) SaveCollection(_ context.Context, username string, cards []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]int, len(cards))
	copy(cp, cards)
	s.collections[username] = cp
	return nil
}

func (s *MemoryStore) Close() error { return nil }
