package game

import (
	"errors"
	"math/rand"
)

// Card-play failures, surfaced to the session as CardPlayRejected.
var (
	ErrNotYourTurn       = errors.New("not your turn")
	ErrInvalidIndex      = errors.New("invalid hand index")
	ErrInsufficientSteam = errors.New("insufficient steam")
	ErrInvalidPlacement  = errors.New("invalid placement")
	ErrUnknownPieceType  = errors.New("unknown piece type")
)

// ErrInvalidDeck rejects decks that break the 20-card / 3-copy rule.
var ErrInvalidDeck = errors.New("invalid deck")

// ValidateDeck enforces deck legality for play: exactly DeckSize cards and at
// most MaxCopies of any single card id.
func ValidateDeck(cards []int) error {
	if len(cards) != DeckSize {
		return ErrInvalidDeck
	}
	counts := make(map[int]int, len(cards))
	for _, id := range cards {
		counts[id]++
		if counts[id] > MaxCopies {
			return ErrInvalidDeck
		}
	}
	return nil
}

func shuffle(rng *rand.Rand, cards []int) {
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

// drawOne moves the top deck card into the hand, reshuffling the discard into
// the deck when it runs dry. Returns false when no card is available.
func drawOne(rng *rand.Rand, p *PlayerState) bool {
	if len(p.Hand) >= HandLimit {
		return false
	}
	if len(p.Deck) == 0 {
		if len(p.Discard) == 0 {
			return false
		}
		p.Deck = append(p.Deck, p.Discard...)
		p.Discard = p.Discard[:0]
		shuffle(rng, p.Deck)
	}
	card := p.Deck[0]
	p.Deck = p.Deck[1:]
	p.Hand = append(p.Hand, card)
	return true
}

// drawUpTo tops the hand up to n cards.
func drawUpTo(rng *rand.Rand, p *PlayerState, n int) {
	for len(p.Hand) < n {
		if !drawOne(rng, p) {
			return
		}
	}
}
