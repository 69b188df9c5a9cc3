package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"

	"github.com/bayou-games/bayou-bonanza/internal/catalog"
)

// Rules is the authoritative rules facade for one session. It owns the
// deterministic shuffle RNG; everything else it touches lives in the State.
// Not safe for concurrent use; the session serializes access.
type Rules struct {
	cat *catalog.Catalog
	rng *rand.Rand
}

// NewRules builds a facade over the shared catalog. seed pins the shuffle
// RNG for tests; pass 0 to seed from crypto/rand.
func NewRules(cat *catalog.Catalog, seed int64) *Rules {
	if seed == 0 {
		var b [8]byte
		if _, err := crand.Read(b[:]); err == nil {
			seed = int64(binary.BigEndian.Uint64(b[:]))
		}
		if seed == 0 {
			seed = 1
		}
	}
	return &Rules{cat: cat, rng: rand.New(rand.NewSource(seed))}
}

// Catalog exposes the shared piece catalog to collaborators (codec, session).
func (r *Rules) Catalog() *catalog.Catalog { return r.cat }

var backRankLayout = []string{
	"Rustbucket", "CopperheadCroaker", "Mudskipper", "ScarlettGlumpkin",
	"TinkeringTom", "Mudskipper", "CopperheadCroaker", "Rustbucket",
}

// InitializeGame validates both decks, seeds the default board, shuffles and
// deals the opening hands. PLAYER_ONE starts in the PLAY phase of turn 1.
func (r *Rules) InitializeGame(deck1, deck2 []int) (*State, error) {
	if err := ValidateDeck(deck1); err != nil {
		return nil, fmt.Errorf("player one deck: %w", err)
	}
	if err := ValidateDeck(deck2); err != nil {
		return nil, fmt.Errorf("player two deck: %w", err)
	}

	s := NewState()
	if err := r.setupBoard(s.Board); err != nil {
		return nil, err
	}

	for side, deck := range [2][]int{PlayerOne: deck1, PlayerTwo: deck2} {
		p := s.Player(Side(side))
		p.Deck = append(p.Deck, deck...)
		shuffle(r.rng, p.Deck)
		drawUpTo(r.rng, p, TurnDrawUpTo)
	}

	RecomputeInfluence(s.Board)
	return s, nil
}

func (r *Rules) setupBoard(b *Board) error {
	place := func(typeName string, side Side, pos Position) error {
		stats, ok := r.cat.Stats(typeName)
		if !ok {
			return fmt.Errorf("starting layout references unknown piece type %q", typeName)
		}
		b.Place(NewPiece(stats, side, pos), pos)
		return nil
	}
	for x, typeName := range backRankLayout {
		if err := place(typeName, PlayerTwo, Position{X: x, Y: 0}); err != nil {
			return err
		}
		if err := place(typeName, PlayerOne, Position{X: x, Y: 7}); err != nil {
			return err
		}
	}
	for x := 0; x < BoardSize; x++ {
		if err := place(PromotingTypeName, PlayerTwo, Position{X: x, Y: 1}); err != nil {
			return err
		}
		if err := place(PromotingTypeName, PlayerOne, Position{X: x, Y: 6}); err != nil {
			return err
		}
	}
	return nil
}

// ProcessMove validates and executes a move for the active player. Invalid
// moves leave the state untouched. A terminal outcome freezes the turn; any
// other success hands the turn over.
func (r *Rules) ProcessMove(s *State, m Move) MoveOutcome {
	if s.Over() || s.Phase != PhasePlay {
		return MoveInvalid
	}
	rule, ok := validateMove(r.cat, s, m)
	if !ok {
		return MoveInvalid
	}
	outcome := executeMove(r.cat, s, m, rule)
	if outcome != MoveInvalid {
		r.advanceTurn(s)
	}
	return outcome
}

// ValidateMove answers whether m would be accepted, with no side effects.
func (r *Rules) ValidateMove(s *State, m Move) bool {
	if s.Over() || s.Phase != PhasePlay {
		return false
	}
	_, ok := validateMove(r.cat, s, m)
	return ok
}

// PlayCard spends steam to place a new piece from the hand. All validation
// precedes any mutation; a successful play ends the turn.
func (r *Rules) PlayCard(s *State, side Side, handIndex int, target Position) error {
	if s.Over() || s.Phase != PhasePlay || side != s.Active {
		return ErrNotYourTurn
	}
	p := s.Player(side)
	if handIndex < 0 || handIndex >= len(p.Hand) {
		return ErrInvalidIndex
	}
	card, ok := r.cat.Card(p.Hand[handIndex])
	if !ok {
		return ErrUnknownPieceType
	}
	stats, ok := r.cat.Stats(card.PieceTypeName)
	if !ok {
		return ErrUnknownPieceType
	}
	if p.Steam < card.SteamCost {
		return ErrInsufficientSteam
	}
	if !target.OnBoard() || !HomeRows(side, target.Y) || s.Board.PieceAt(target) != nil {
		return ErrInvalidPlacement
	}

	p.Steam -= card.SteamCost
	id := p.Hand[handIndex]
	p.Hand = append(p.Hand[:handIndex], p.Hand[handIndex+1:]...)
	s.Board.Place(NewPiece(stats, side, target), target)
	p.Discard = append(p.Discard, id)

	RecomputeInfluence(s.Board)
	r.advanceTurn(s)
	return nil
}

// EndTurn passes without acting. Returns false when side may not act.
func (r *Rules) EndTurn(s *State, side Side) bool {
	if s.Over() || s.Phase != PhasePlay || side != s.Active {
		return false
	}
	r.advanceTurn(s)
	return true
}

// IsGameOver reports whether the session reached a terminal result.
func (r *Rules) IsGameOver(s *State) bool { return s.Over() }

// ValidMovesForActivePlayer enumerates every move the validator accepts for
// the side to act, including one variant per legal promotion type.
func (r *Rules) ValidMovesForActivePlayer(s *State) []Move {
	var moves []Move
	for _, pc := range s.Board.Pieces(s.Active) {
		for y := 0; y < BoardSize; y++ {
			for x := 0; x < BoardSize; x++ {
				m := Move{From: pc.Pos, To: Position{X: x, Y: y}}
				if promotionPending(pc, m.To, s.Board.PieceAt(m.To)) {
					for _, card := range r.cat.Cards() {
						stats, ok := r.cat.Stats(card.PieceTypeName)
						if !ok || stats.IsVictoryPiece {
							continue
						}
						pm := m
						pm.PromotionType = stats.TypeName
						if _, ok := validateMove(r.cat, s, pm); ok {
							moves = append(moves, pm)
						}
					}
					continue
				}
				if _, ok := validateMove(r.cat, s, m); ok {
					moves = append(moves, m)
				}
			}
		}
	}
	return moves
}
