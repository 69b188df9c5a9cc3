package msgcat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbeddedDefaults(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, key := range []string{
		"login.malformed", "login.db_unavailable",
		"move.invalid", "move.not_your_turn",
		"deck.invalid", "deck.saved",
		"error.internal", "error.game_over", "error.no_session",
	} {
		if got := c.Get(key); got == key || got == "" {
			t.Errorf("key %q unresolved (got %q)", key, got)
		}
	}
}

func TestGetFallsBackToKey(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatal(err)
	}
	if got := c.Get("no.such.key"); got != "no.such.key" {
		t.Errorf("fallback = %q", got)
	}
}

func TestRender(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatal(err)
	}
	out, err := c.Render("match.started", map[string]string{"P1": "gator", "P2": "heron"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "gator") || !strings.Contains(out, "heron") {
		t.Errorf("rendered %q", out)
	}
	if _, err := c.Render("match.started", map[string]string{"P1": "gator"}); err == nil {
		t.Error("missing template datum accepted")
	}
	if _, err := c.Render("no.such.key", nil); err == nil {
		t.Error("unknown key rendered")
	}
}

func TestOverrideDirectory(t *testing.T) {
	dir := t.TempDir()
	body := "move:\n  invalid: \"Nope.\"\nextra:\n  hello: \"Howdy.\"\n"
	if err := os.WriteFile(filepath.Join(dir, "10-custom.yaml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := New(dir)
	if err != nil {
		t.Fatalf("New with overrides: %v", err)
	}
	if got := c.Get("move.invalid"); got != "Nope." {
		t.Errorf("override not applied: %q", got)
	}
	if got := c.Get("extra.hello"); got != "Howdy." {
		t.Errorf("new key not loaded: %q", got)
	}
	// Untouched keys keep their defaults.
	if got := c.Get("deck.saved"); got != "Deck saved." {
		t.Errorf("default clobbered: %q", got)
	}
}

func TestBadOverrideDirFails(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("missing override dir accepted")
	}
}
