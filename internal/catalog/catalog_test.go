package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEmbeddedDefaults(t *testing.T) {
	cat, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tom, ok := cat.Stats("TinkeringTom")
	if !ok {
		t.Fatal("TinkeringTom missing")
	}
	if !tom.IsVictoryPiece {
		t.Error("TinkeringTom not flagged as the victory piece")
	}

	belle, ok := cat.Stats("BoilerBelle")
	if !ok {
		t.Fatal("BoilerBelle missing")
	}
	if !belle.IsRanged || belle.Cooldown != 1 {
		t.Errorf("BoilerBelle ranged=%v cooldown=%d", belle.IsRanged, belle.Cooldown)
	}

	sentroid, ok := cat.Stats("Sentroid")
	if !ok {
		t.Fatal("Sentroid missing")
	}
	var forward, capture bool
	for _, rule := range sentroid.MovementRules {
		forward = forward || rule.IsPawnForward
		capture = capture || rule.IsPawnCapture
	}
	if !forward || !capture {
		t.Errorf("Sentroid pawn flags: forward=%v capture=%v", forward, capture)
	}
}

func TestCardLookup(t *testing.T) {
	cat, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cat.Card(0); ok {
		t.Error("card id 0 resolved")
	}
	if _, ok := cat.Card(len(cat.Cards()) + 1); ok {
		t.Error("out-of-range card id resolved")
	}
	card, ok := cat.Card(1)
	if !ok || card.ID != 1 || card.PieceTypeName == "" {
		t.Errorf("card 1 = %+v", card)
	}
	if _, ok := cat.Stats(card.PieceTypeName); !ok {
		t.Errorf("card 1 names unknown type %q", card.PieceTypeName)
	}
}

func TestStarterDeckIsLegal(t *testing.T) {
	cat, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	deck := cat.StarterDeck()
	if len(deck) != 20 {
		t.Fatalf("starter deck has %d cards", len(deck))
	}
	counts := map[int]int{}
	for _, id := range deck {
		counts[id]++
		card, ok := cat.Card(id)
		if !ok {
			t.Fatalf("starter deck references unknown card %d", id)
		}
		stats, _ := cat.Stats(card.PieceTypeName)
		if stats.IsVictoryPiece {
			t.Errorf("starter deck contains victory card %d", id)
		}
	}
	for id, n := range counts {
		if n > 3 {
			t.Errorf("card %d appears %d times", id, n)
		}
	}
}

func TestStarterCollectionExcludesVictoryPieces(t *testing.T) {
	cat, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range cat.StarterCollection() {
		card, _ := cat.Card(id)
		stats, _ := cat.Stats(card.PieceTypeName)
		if stats.IsVictoryPiece {
			t.Fatalf("collection grants victory card %d", id)
		}
	}
}

func TestLoadRejectsBrokenFiles(t *testing.T) {
	dir := t.TempDir()

	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("missing file accepted")
	}
	if _, err := Load(write("garbage.json", "{not json")); err == nil {
		t.Error("malformed json accepted")
	}
	if _, err := Load(write("empty.json", "[]")); err == nil {
		t.Error("empty catalog accepted")
	}
	none := `[{"typeName":"X","cardType":"SPELL_CARD","movementRules":[],"influenceRules":[]}]`
	if _, err := Load(write("nopieces.json", none)); err == nil {
		t.Error("catalog without PIECE_CARD entries accepted")
	}
	dup := `[
	  {"typeName":"X","cardType":"PIECE_CARD","attack":1,"health":1,"movementRules":[],"influenceRules":[]},
	  {"typeName":"X","cardType":"PIECE_CARD","attack":1,"health":1,"movementRules":[],"influenceRules":[]}
	]`
	if _, err := Load(write("dup.json", dup)); err == nil {
		t.Error("duplicate typeName accepted")
	}
}
