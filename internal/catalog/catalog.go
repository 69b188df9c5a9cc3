package catalog

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

//go:embed pieces.json
var defaultFiles embed.FS

// Offset is a relative board displacement in PLAYER_ONE's frame of reference.
type Offset struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rule describes one movement or influence pattern of a piece archetype.
type Rule struct {
	IsPawnForward bool     `json:"isPawnForward,omitempty"`
	IsPawnCapture bool     `json:"isPawnCapture,omitempty"`
	CanJump       bool     `json:"canJump"`
	MaxRange      int      `json:"maxRange"`
	RelativeMoves []Offset `json:"relativeMoves"`
}

// PieceStats is an immutable piece archetype loaded from the definition file.
type PieceStats struct {
	TypeName       string `json:"typeName"`
	Symbol         string `json:"symbol"`
	Attack         int    `json:"attack"`
	Health         int    `json:"health"`
	CardType       string `json:"cardType"`
	IsRanged       bool   `json:"isRanged,omitempty"`
	IsVictoryPiece bool   `json:"victoryPiece,omitempty"`
	Cooldown       int    `json:"cooldown,omitempty"`
	SteamCost      int    `json:"steamCost,omitempty"`
	Rarity         string `json:"rarity,omitempty"`
	MovementRules  []Rule `json:"movementRules"`
	InfluenceRules []Rule `json:"influenceRules"`
}

// Card is a playable card derived from a PIECE_CARD catalog entry. IDs are
// assigned by load order starting at 1.
type Card struct {
	ID            int
	Name          string
	SteamCost     int
	Rarity        string
	PieceTypeName string
}

// Catalog is the shared read-only piece and card definition set. Safe for
// concurrent reads after Load.
type Catalog struct {
	byName map[string]*PieceStats
	cards  []*Card
}

// Load reads piece definitions from path, or from the embedded defaults when
// path is empty. Entries whose cardType is not PIECE_CARD are skipped. An
// empty result is an error; callers treat it as fatal.
func Load(path string) (*Catalog, error) {
	var raw []byte
	var err error
	if path == "" {
		raw, err = fs.ReadFile(defaultFiles, "pieces.json")
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read piece definitions: %w", err)
	}

	var defs []PieceStats
	if err := json.Unmarshal(raw, &defs); err != nil {
		return nil, fmt.Errorf("parse piece definitions: %w", err)
	}

	c := &Catalog{byName: make(map[string]*PieceStats)}
	for i := range defs {
		def := defs[i]
		if def.CardType != "PIECE_CARD" {
			continue
		}
		if def.TypeName == "" {
			return nil, fmt.Errorf("piece definition %d has no typeName", i)
		}
		if _, dup := c.byName[def.TypeName]; dup {
			return nil, fmt.Errorf("duplicate piece type %q", def.TypeName)
		}
		c.byName[def.TypeName] = &def
		c.cards = append(c.cards, &Card{
			ID:            len(c.cards) + 1,
			Name:          def.TypeName,
			SteamCost:     def.SteamCost,
			Rarity:        def.Rarity,
			PieceTypeName: def.TypeName,
		})
	}
	if len(c.byName) == 0 {
		return nil, errors.New("no PIECE_CARD definitions loaded")
	}
	return c, nil
}

// Stats returns the archetype for typeName. Missing lookups are not errors.
func (c *Catalog) Stats(typeName string) (*PieceStats, bool) {
	s, ok := c.byName[typeName]
	return s, ok
}

// Card returns the card catalog entry for id.
func (c *Catalog) Card(id int) (*Card, bool) {
	if id < 1 || id > len(c.cards) {
		return nil, false
	}
	return c.cards[id-1], true
}

// Cards returns all card entries in id order.
func (c *Catalog) Cards() []*Card { return c.cards }

// StarterDeck builds the 20-card deck granted to new users: three copies of
// each non-victory card in id order until the deck is full.
func (c *Catalog) StarterDeck() []int {
	deck := make([]int, 0, 20)
	for copies := 0; copies < 3 && len(deck) < 20; copies++ {
		for _, card := range c.cards {
			if len(deck) == 20 {
				break
			}
			stats, ok := c.Stats(card.PieceTypeName)
			if !ok || stats.IsVictoryPiece {
				continue
			}
			deck = append(deck, card.ID)
		}
	}
	return deck
}

// StarterCollection grants three copies of every non-victory card.
func (c *Catalog) StarterCollection() []int {
	coll := make([]int, 0, 3*len(c.cards))
	for _, card := range c.cards {
		stats, ok := c.Stats(card.PieceTypeName)
		if !ok || stats.IsVictoryPiece {
			continue
		}
		for i := 0; i < 3; i++ {
			coll = append(coll, card.ID)
		}
	}
	return coll
}
