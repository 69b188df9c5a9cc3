package game

import (
	"testing"

	"github.com/bayou-games/bayou-bonanza/internal/catalog"
)

func mustCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load("")
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}
	return cat
}

func mustStats(t *testing.T, cat *catalog.Catalog, name string) *catalog.PieceStats {
	t.Helper()
	stats, ok := cat.Stats(name)
	if !ok {
		t.Fatalf("unknown piece type %q", name)
	}
	return stats
}

func place(t *testing.T, cat *catalog.Catalog, s *State, name string, side Side, x, y int) *Piece {
	t.Helper()
	pc := NewPiece(mustStats(t, cat, name), side, Position{X: x, Y: y})
	if !s.Board.Place(pc, Position{X: x, Y: y}) {
		t.Fatalf("place %s at (%d,%d): square occupied", name, x, y)
	}
	return pc
}

func newGame(t *testing.T, seed int64) (*Rules, *State) {
	t.Helper()
	cat := mustCatalog(t)
	r := NewRules(cat, seed)
	s, err := r.InitializeGame(cat.StarterDeck(), cat.StarterDeck())
	if err != nil {
		t.Fatalf("InitializeGame: %v", err)
	}
	return r, s
}

func TestInitializeGameSetsOpeningState(t *testing.T) {
	_, s := newGame(t, 42)

	if s.Active != PlayerOne || s.Phase != PhasePlay || s.TurnNumber != 1 {
		t.Fatalf("opening state: active=%v phase=%v turn=%d", s.Active, s.Phase, s.TurnNumber)
	}
	for side := PlayerOne; side <= PlayerTwo; side++ {
		p := s.Player(side)
		if len(p.Hand) != TurnDrawUpTo {
			t.Errorf("side %v hand size = %d, want %d", side, len(p.Hand), TurnDrawUpTo)
		}
		if len(p.Deck) != DeckSize-TurnDrawUpTo {
			t.Errorf("side %v deck size = %d, want %d", side, len(p.Deck), DeckSize-TurnDrawUpTo)
		}
		if p.Steam != 0 {
			t.Errorf("side %v opening steam = %d, want 0", side, p.Steam)
		}
	}

	// Sixteen pieces per side: eight Sentroids and the full back rank.
	for side := PlayerOne; side <= PlayerTwo; side++ {
		if n := len(s.Board.Pieces(side)); n != 16 {
			t.Errorf("side %v piece count = %d, want 16", side, n)
		}
	}
	tom := s.Board.PieceAt(Position{X: 4, Y: 0})
	if tom == nil || tom.Stats.TypeName != "TinkeringTom" || tom.Side != PlayerTwo {
		t.Errorf("expected PLAYER_TWO TinkeringTom at (4,0), got %+v", tom)
	}
}

func TestInitializeGameRejectsBadDecks(t *testing.T) {
	cat := mustCatalog(t)
	r := NewRules(cat, 1)
	short := []int{1, 2, 3}
	if _, err := r.InitializeGame(short, cat.StarterDeck()); err == nil {
		t.Fatal("short deck accepted")
	}
	four := make([]int, DeckSize)
	for i := range four {
		four[i] = 1 + i%5
	}
	// 20 cards over 5 ids means one id exceeds 3 copies.
	if _, err := r.InitializeGame(cat.StarterDeck(), four); err == nil {
		t.Fatal("deck with 4 copies accepted")
	}
}

func TestDeterministicShuffle(t *testing.T) {
	_, s1 := newGame(t, 42)
	_, s2 := newGame(t, 42)

	for side := PlayerOne; side <= PlayerTwo; side++ {
		a, b := s1.Player(side), s2.Player(side)
		if !equalInts(a.Hand, b.Hand) || !equalInts(a.Deck, b.Deck) {
			t.Fatalf("side %v: same seed produced different deals", side)
		}
	}

	_, s3 := newGame(t, 43)
	if equalInts(s1.Player(PlayerOne).Hand, s3.Player(PlayerOne).Hand) &&
		equalInts(s1.Player(PlayerOne).Deck, s3.Player(PlayerOne).Deck) {
		t.Fatal("different seeds produced the identical deal")
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestOpeningSentroidPush(t *testing.T) {
	r, s := newGame(t, 42)

	outcome := r.ProcessMove(s, Move{From: Position{X: 0, Y: 6}, To: Position{X: 0, Y: 5}})
	if outcome != MoveSuccess {
		t.Fatalf("outcome = %v, want success", outcome)
	}
	if pc := s.Board.PieceAt(Position{X: 0, Y: 5}); pc == nil || pc.Stats.TypeName != "Sentroid" || !pc.HasMoved {
		t.Errorf("expected moved Sentroid at (0,5), got %+v", pc)
	}
	if s.Board.PieceAt(Position{X: 0, Y: 6}) != nil {
		t.Error("(0,6) still occupied")
	}
	if s.Active != PlayerTwo || s.TurnNumber != 2 {
		t.Errorf("after move: active=%v turn=%d, want player_two turn 2", s.Active, s.TurnNumber)
	}
}

func TestMovingOpponentPieceIsRejected(t *testing.T) {
	r, s := newGame(t, 42)

	outcome := r.ProcessMove(s, Move{From: Position{X: 4, Y: 0}, To: Position{X: 4, Y: 2}})
	if outcome != MoveInvalid {
		t.Fatalf("outcome = %v, want invalid", outcome)
	}
	if s.Active != PlayerOne || s.TurnNumber != 1 {
		t.Errorf("rejected move advanced the turn: active=%v turn=%d", s.Active, s.TurnNumber)
	}
	if s.Board.PieceAt(Position{X: 4, Y: 0}) == nil {
		t.Error("piece vanished from (4,0)")
	}
}

func TestVictoryPieceCapture(t *testing.T) {
	cat := mustCatalog(t)
	r := NewRules(cat, 1)
	s := NewState()
	attacker := place(t, cat, s, "ScarlettGlumpkin", PlayerOne, 4, 4)
	tom := place(t, cat, s, "TinkeringTom", PlayerTwo, 4, 5)
	tom.CurrentHealth = attacker.Stats.Attack
	RecomputeInfluence(s.Board)

	outcome := r.ProcessMove(s, Move{From: Position{X: 4, Y: 4}, To: Position{X: 4, Y: 5}})
	if outcome != MoveKingCaptured {
		t.Fatalf("outcome = %v, want king_captured", outcome)
	}
	if s.Result != ResultPlayerOneWin || s.Phase != PhaseGameOver {
		t.Errorf("result=%v phase=%v, want player one win and game over", s.Result, s.Phase)
	}
	if pc := s.Board.PieceAt(Position{X: 4, Y: 5}); pc != attacker {
		t.Error("attacker did not advance onto the victory piece's square")
	}
	// Terminal state rejects everything.
	if out := r.ProcessMove(s, Move{From: Position{X: 4, Y: 5}, To: Position{X: 4, Y: 6}}); out != MoveInvalid {
		t.Errorf("post-game move outcome = %v, want invalid", out)
	}
}

func TestStunTimeline(t *testing.T) {
	cat := mustCatalog(t)
	r := NewRules(cat, 1)
	s := NewState()
	rust := place(t, cat, s, "Rustbucket", PlayerOne, 4, 4)
	tom := place(t, cat, s, "TinkeringTom", PlayerTwo, 4, 5)
	RecomputeInfluence(s.Board)

	if out := r.ProcessMove(s, Move{From: Position{X: 4, Y: 4}, To: Position{X: 4, Y: 5}}); out != MoveSuccess {
		t.Fatalf("attack outcome = %v, want success", out)
	}
	if tom.CurrentHealth != tom.Stats.Health-rust.Stats.Attack {
		t.Errorf("defender health = %d", tom.CurrentHealth)
	}
	// PLAYER_TWO's DRAW already ran, wearing the defender's stun from 2 to 1.
	if tom.StunRemaining != 1 || rust.StunRemaining != 1 {
		t.Fatalf("after attack: defender stun=%d attacker stun=%d, want 1 and 1", tom.StunRemaining, rust.StunRemaining)
	}
	// The stunned defender cannot act.
	if out := r.ProcessMove(s, Move{From: Position{X: 4, Y: 5}, To: Position{X: 4, Y: 6}}); out != MoveInvalid {
		t.Errorf("stunned piece moved: %v", out)
	}

	if !r.EndTurn(s, PlayerTwo) {
		t.Fatal("player two could not pass")
	}
	if rust.StunRemaining != 0 || tom.StunRemaining != 1 {
		t.Errorf("after player one's draw: attacker stun=%d defender stun=%d, want 0 and 1", rust.StunRemaining, tom.StunRemaining)
	}
	if !r.EndTurn(s, PlayerOne) {
		t.Fatal("player one could not pass")
	}
	if tom.StunRemaining != 0 {
		t.Errorf("after player two's draw: defender stun=%d, want 0", tom.StunRemaining)
	}
}

func TestRangedAttackerStaysPut(t *testing.T) {
	cat := mustCatalog(t)
	r := NewRules(cat, 1)
	s := NewState()
	belle := place(t, cat, s, "BoilerBelle", PlayerOne, 4, 4)
	croaker := place(t, cat, s, "CopperheadCroaker", PlayerTwo, 4, 5)
	croaker.CurrentHealth = belle.Stats.Attack
	RecomputeInfluence(s.Board)

	outcome := r.ProcessMove(s, Move{From: Position{X: 4, Y: 4}, To: Position{X: 4, Y: 5}})
	if outcome != MovePieceDestroyed {
		t.Fatalf("outcome = %v, want piece_destroyed", outcome)
	}
	if s.Board.PieceAt(Position{X: 4, Y: 4}) != belle {
		t.Error("ranged attacker left its square")
	}
	if s.Board.PieceAt(Position{X: 4, Y: 5}) != nil {
		t.Error("target square not cleared")
	}
	if !belle.HasMoved {
		t.Error("ranged attack did not latch hasMoved")
	}
}

func TestMeleeSlideBounceBack(t *testing.T) {
	cat := mustCatalog(t)
	r := NewRules(cat, 1)
	s := NewState()
	sg := place(t, cat, s, "ScarlettGlumpkin", PlayerOne, 4, 4)
	golem := place(t, cat, s, "GumboGolem", PlayerTwo, 4, 1)
	RecomputeInfluence(s.Board)

	outcome := r.ProcessMove(s, Move{From: Position{X: 4, Y: 4}, To: Position{X: 4, Y: 1}})
	if outcome != MoveSuccess {
		t.Fatalf("outcome = %v, want success", outcome)
	}
	if golem.CurrentHealth != golem.Stats.Health-sg.Stats.Attack {
		t.Errorf("defender health = %d", golem.CurrentHealth)
	}
	if s.Board.PieceAt(Position{X: 4, Y: 2}) != sg {
		t.Error("attacker did not advance to the square before the defender")
	}
	if s.Board.PieceAt(Position{X: 4, Y: 4}) != nil {
		t.Error("attacker still on its origin square")
	}
}

func TestAdjacentMeleeSurvivorDoesNotMove(t *testing.T) {
	cat := mustCatalog(t)
	r := NewRules(cat, 1)
	s := NewState()
	sg := place(t, cat, s, "ScarlettGlumpkin", PlayerOne, 4, 4)
	place(t, cat, s, "GumboGolem", PlayerTwo, 4, 3)
	RecomputeInfluence(s.Board)

	if out := r.ProcessMove(s, Move{From: Position{X: 4, Y: 4}, To: Position{X: 4, Y: 3}}); out != MoveSuccess {
		t.Fatalf("outcome = %v, want success", out)
	}
	if s.Board.PieceAt(Position{X: 4, Y: 4}) != sg {
		t.Error("adjacent attacker moved despite the defender surviving")
	}
}

func TestSlideBlockedByInterveningPiece(t *testing.T) {
	cat := mustCatalog(t)
	r := NewRules(cat, 1)
	s := NewState()
	place(t, cat, s, "Rustbucket", PlayerOne, 0, 7)
	place(t, cat, s, "GumboGolem", PlayerOne, 0, 4)
	RecomputeInfluence(s.Board)

	if out := r.ProcessMove(s, Move{From: Position{X: 0, Y: 7}, To: Position{X: 0, Y: 3}}); out != MoveInvalid {
		t.Fatalf("slide through a blocker succeeded: %v", out)
	}
	// Up to the blocker is fine.
	if out := r.ProcessMove(s, Move{From: Position{X: 0, Y: 7}, To: Position{X: 0, Y: 5}}); out != MoveSuccess {
		t.Fatalf("slide short of the blocker failed: %v", out)
	}
}

func TestPawnForwardCannotCapture(t *testing.T) {
	cat := mustCatalog(t)
	r := NewRules(cat, 1)
	s := NewState()
	place(t, cat, s, "Sentroid", PlayerOne, 3, 4)
	place(t, cat, s, "GumboGolem", PlayerTwo, 3, 3)
	place(t, cat, s, "GumboGolem", PlayerTwo, 4, 3)
	RecomputeInfluence(s.Board)

	if out := r.ProcessMove(s, Move{From: Position{X: 3, Y: 4}, To: Position{X: 3, Y: 3}}); out != MoveInvalid {
		t.Fatalf("pawn forward onto an occupied square succeeded: %v", out)
	}
	if out := r.ProcessMove(s, Move{From: Position{X: 3, Y: 4}, To: Position{X: 4, Y: 3}}); out != MoveSuccess {
		t.Fatalf("pawn diagonal capture failed: %v", out)
	}
}

func TestPawnDiagonalNeedsTarget(t *testing.T) {
	cat := mustCatalog(t)
	r := NewRules(cat, 1)
	s := NewState()
	place(t, cat, s, "Sentroid", PlayerOne, 3, 4)
	RecomputeInfluence(s.Board)

	if out := r.ProcessMove(s, Move{From: Position{X: 3, Y: 4}, To: Position{X: 4, Y: 3}}); out != MoveInvalid {
		t.Fatalf("pawn capture onto an empty square succeeded: %v", out)
	}
}

func TestPromotionOnBackRank(t *testing.T) {
	cat := mustCatalog(t)
	r := NewRules(cat, 1)
	s := NewState()
	place(t, cat, s, "Sentroid", PlayerOne, 0, 1)
	RecomputeInfluence(s.Board)

	// No promotion type: rejected before any mutation.
	if out := r.ProcessMove(s, Move{From: Position{X: 0, Y: 1}, To: Position{X: 0, Y: 0}}); out != MoveInvalid {
		t.Fatalf("promotion without a type succeeded: %v", out)
	}
	// Victory pieces are not a legal promotion target.
	mv := Move{From: Position{X: 0, Y: 1}, To: Position{X: 0, Y: 0}, PromotionType: "TinkeringTom"}
	if out := r.ProcessMove(s, mv); out != MoveInvalid {
		t.Fatalf("promotion to a victory piece succeeded: %v", out)
	}
	if s.Active != PlayerOne || s.TurnNumber != 1 {
		t.Fatal("rejected promotion advanced the turn")
	}

	mv.PromotionType = "ScarlettGlumpkin"
	if out := r.ProcessMove(s, mv); out != MoveSuccess {
		t.Fatalf("promotion failed: %v", out)
	}
	pc := s.Board.PieceAt(Position{X: 0, Y: 0})
	if pc == nil || pc.Stats.TypeName != "ScarlettGlumpkin" || pc.Side != PlayerOne || !pc.HasMoved {
		t.Errorf("promoted piece = %+v", pc)
	}
	if pc != nil && pc.CurrentHealth != pc.Stats.Health {
		t.Errorf("promoted piece health = %d, want full %d", pc.CurrentHealth, pc.Stats.Health)
	}
}

func TestPromotionViaCapture(t *testing.T) {
	cat := mustCatalog(t)
	r := NewRules(cat, 1)
	s := NewState()
	place(t, cat, s, "Sentroid", PlayerOne, 0, 1)
	victim := place(t, cat, s, "CopperheadCroaker", PlayerTwo, 1, 0)
	victim.CurrentHealth = 1
	RecomputeInfluence(s.Board)

	mv := Move{From: Position{X: 0, Y: 1}, To: Position{X: 1, Y: 0}, PromotionType: "Rustbucket"}
	if out := r.ProcessMove(s, mv); out != MovePieceDestroyed {
		t.Fatalf("outcome = %v, want piece_destroyed", out)
	}
	pc := s.Board.PieceAt(Position{X: 1, Y: 0})
	if pc == nil || pc.Stats.TypeName != "Rustbucket" {
		t.Errorf("expected promoted Rustbucket on (1,0), got %+v", pc)
	}
}

func TestEndTurnAwardsSteam(t *testing.T) {
	cat := mustCatalog(t)
	r := NewRules(cat, 1)
	s := NewState()
	place(t, cat, s, "Rustbucket", PlayerOne, 0, 0)
	RecomputeInfluence(s.Board)

	if r.EndTurn(s, PlayerTwo) {
		t.Fatal("player two passed out of turn")
	}
	if !r.EndTurn(s, PlayerOne) {
		t.Fatal("player one could not pass")
	}
	// PLAYER_TWO controls nothing: base income only.
	if got := s.Player(PlayerTwo).Steam; got != 1 {
		t.Errorf("player two steam = %d, want 1", got)
	}
	if !r.EndTurn(s, PlayerTwo) {
		t.Fatal("player two could not pass")
	}
	// The lone Rustbucket projects onto 14 uncontested squares.
	if got := s.Player(PlayerOne).Steam; got != 15 {
		t.Errorf("player one steam = %d, want 15", got)
	}
	if s.TurnNumber != 3 {
		t.Errorf("turn number = %d, want 3", s.TurnNumber)
	}
}

func TestValidMovesForActivePlayer(t *testing.T) {
	r, s := newGame(t, 42)

	moves := r.ValidMovesForActivePlayer(s)
	if len(moves) == 0 {
		t.Fatal("no legal moves in the opening position")
	}
	found := false
	for _, m := range moves {
		if !r.ValidateMove(s, m) {
			t.Errorf("enumerated move %+v fails validation", m)
		}
		if m.From == (Position{X: 0, Y: 6}) && m.To == (Position{X: 0, Y: 5}) {
			found = true
		}
	}
	if !found {
		t.Error("opening Sentroid push missing from enumeration")
	}
}

func TestValidMovesIncludePromotionVariants(t *testing.T) {
	cat := mustCatalog(t)
	r := NewRules(cat, 1)
	s := NewState()
	place(t, cat, s, "Sentroid", PlayerOne, 0, 1)
	RecomputeInfluence(s.Board)

	moves := r.ValidMovesForActivePlayer(s)
	types := map[string]bool{}
	for _, m := range moves {
		if m.To == (Position{X: 0, Y: 0}) {
			if m.PromotionType == "" {
				t.Error("promotion square enumerated without a promotion type")
			}
			types[m.PromotionType] = true
		}
	}
	if len(types) == 0 {
		t.Fatal("no promotion variants enumerated")
	}
	if types["TinkeringTom"] {
		t.Error("victory piece offered as a promotion variant")
	}
}
