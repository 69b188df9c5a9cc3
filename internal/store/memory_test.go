package store

import (
	"context"
	"testing"

	"github.com/bayou-games/bayou-bonanza/internal/config"
)

func TestMemoryStoreIsolation(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	deck := []int{1, 2, 3}
	if err := s.SaveDeck(ctx, "gator", deck); err != nil {
		t.Fatal(err)
	}
	deck[0] = 99

	got, err := s.GetDeck(ctx, "gator")
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != 1 {
		t.Errorf("stored deck aliased the caller's slice: %v", got)
	}
	got[1] = 99
	again, _ := s.GetDeck(ctx, "gator")
	if again[1] != 2 {
		t.Errorf("returned deck aliased the stored slice: %v", again)
	}
}

func TestMemoryStoreMissingKeys(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if u, err := s.GetUser(ctx, "ghost"); err != nil || u != nil {
		t.Errorf("missing user = %v, %v", u, err)
	}
	if d, err := s.GetDeck(ctx, "ghost"); err != nil || d != nil {
		t.Errorf("missing deck = %v, %v", d, err)
	}
	if c, err := s.GetCollection(ctx, "ghost"); err != nil || c != nil {
		t.Errorf("missing collection = %v, %v", c, err)
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	s, err := Open(&config.AppConfig{StoreBackend: config.BackendMemory})
	if err != nil {
		t.Fatalf("Open memory: %v", err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("Open returned %T", s)
	}
	if _, err := Open(&config.AppConfig{StoreBackend: "etcd"}); err == nil {
		t.Error("unknown backend accepted")
	}
}
