package game

import "github.com/bayou-games/bayou-bonanza/internal/catalog"

// Move is a proposed piece action. Only From, To and the promotion fields
// travel over the wire; the executor re-resolves the piece by From on every
// use instead of carrying a back-reference.
type Move struct {
	From          Position
	To            Position
	PromotionType string
}

// IsPromotion reports whether the move names a promotion target.
func (m Move) IsPromotion() bool { return m.PromotionType != "" }

// MoveOutcome is the domain-valued result of the executor.
type MoveOutcome uint8

const (
	MoveInvalid MoveOutcome = iota
	MoveSuccess
	MovePieceDestroyed
	MoveKingCaptured
)

func (o MoveOutcome) String() string {
	switch o {
	case MoveSuccess:
		return "success"
	case MovePieceDestroyed:
		return "piece_destroyed"
	case MoveKingCaptured:
		return "king_captured"
	}
	return "invalid_move"
}

// PromotingTypeName is the pawn analog that promotes on the back rank.
const PromotingTypeName = "Sentroid"

// validateMove runs the full validation chain without mutating state. It
// returns the movement rule that reaches the target when the move is legal.
func validateMove(cat *catalog.Catalog, s *State, m Move) (*catalog.Rule, bool) {
	if !m.From.OnBoard() {
		return nil, false
	}
	pc := s.Board.PieceAt(m.From)
	if pc == nil {
		return nil, false
	}
	if pc.Side != s.Active {
		return nil, false
	}
	if pc.StunRemaining > 0 {
		return nil, false
	}
	if !m.To.OnBoard() || m.To == m.From {
		return nil, false
	}
	tgt := s.Board.PieceAt(m.To)
	if tgt != nil && tgt.Side == pc.Side {
		return nil, false
	}
	rule := reachableRule(s.Board, pc, m.To)
	if rule == nil {
		return nil, false
	}
	if promotionPending(pc, m.To, tgt) {
		promo, ok := cat.Stats(m.PromotionType)
		if !ok || promo.IsVictoryPiece {
			return nil, false
		}
	}
	return rule, true
}

// promotionPending reports whether a successful execution would leave the
// mover on the opponent's back rank, which requires a valid promotion type
// before any mutation happens.
func promotionPending(pc *Piece, to Position, tgt *Piece) bool {
	if pc.Stats.TypeName != PromotingTypeName {
		return false
	}
	if to.Y != BackRank(pc.Side) {
		return false
	}
	// A ranged attacker stays put, so capturing onto the rank never lands it.
	return tgt == nil || !pc.Stats.IsRanged
}

// reachableRule finds the first movement rule under which pc reaches to,
// honoring jump, range and the pawn specializations.
func reachableRule(b *Board, pc *Piece, to Position) *catalog.Rule {
	for i := range pc.Stats.MovementRules {
		rule := &pc.Stats.MovementRules[i]
		for _, off := range rule.RelativeMoves {
			dx, dy := Orient(off, pc.Side)
			if rule.MaxRange <= 1 || rule.CanJump {
				if pc.Pos.Add(dx, dy) == to && pawnFlagsAllow(rule, b, pc, to) {
					return rule
				}
				continue
			}
			for step := 1; step <= rule.MaxRange; step++ {
				dst := pc.Pos.Add(dx*step, dy*step)
				if !dst.OnBoard() {
					break
				}
				if dst == to {
					if pawnFlagsAllow(rule, b, pc, to) {
						return rule
					}
					break
				}
				if b.At(dst).Piece != nil {
					break
				}
			}
		}
	}
	return nil
}

func pawnFlagsAllow(rule *catalog.Rule, b *Board, pc *Piece, to Position) bool {
	tgt := b.PieceAt(to)
	if rule.IsPawnForward && tgt != nil {
		return false
	}
	if rule.IsPawnCapture && (tgt == nil || tgt.Side == pc.Side) {
		return false
	}
	return true
}

// executeMove applies a validated move. rule is the movement rule returned by
// validateMove for the same (state, move) pair.
func executeMove(cat *catalog.Catalog, s *State, m Move, rule *catalog.Rule) MoveOutcome {
	pc := s.Board.PieceAt(m.From)
	tgt := s.Board.PieceAt(m.To)

	if tgt == nil {
		moved := s.Board.ExtractPiece(m.From)
		s.Board.Place(moved, m.To)
		moved.HasMoved = true
		promoteIfEligible(cat, s.Board, moved, m.PromotionType)
		RecomputeInfluence(s.Board)
		return MoveSuccess
	}

	tgt.CurrentHealth -= pc.Stats.Attack

	if tgt.CurrentHealth > 0 {
		tgt.StunRemaining = 2
		if pc.Stats.Cooldown > 0 {
			pc.StunRemaining = pc.Stats.Cooldown
		}
		pc.HasMoved = true
		if !pc.Stats.IsRanged && !rule.CanJump {
			// Failed melee slide: advance to the square just before the
			// defender when the slide covered more than one step.
			if dx, dy, steps := slideDirection(m.From, m.To); steps > 1 {
				back := m.To.Add(-dx, -dy)
				if s.Board.PieceAt(back) == nil {
					moved := s.Board.ExtractPiece(m.From)
					s.Board.Place(moved, back)
				}
			}
		}
		RecomputeInfluence(s.Board)
		return MoveSuccess
	}

	victory := tgt.Stats.IsVictoryPiece
	s.Board.RemovePiece(m.To)
	if !pc.Stats.IsRanged {
		moved := s.Board.ExtractPiece(m.From)
		s.Board.Place(moved, m.To)
	}
	pc.HasMoved = true

	if victory {
		s.SetResult(WinFor(pc.Side))
		RecomputeInfluence(s.Board)
		return MoveKingCaptured
	}
	promoteIfEligible(cat, s.Board, pc, m.PromotionType)
	RecomputeInfluence(s.Board)
	return MovePieceDestroyed
}

// promoteIfEligible replaces a pawn analog that reached the opponent's back
// rank with a fresh piece of the requested type. Validation already vetted
// the type name.
func promoteIfEligible(cat *catalog.Catalog, b *Board, pc *Piece, promotionType string) {
	if pc.Stats.TypeName != PromotingTypeName || pc.Pos.Y != BackRank(pc.Side) {
		return
	}
	stats, ok := cat.Stats(promotionType)
	if !ok || stats.IsVictoryPiece {
		return
	}
	pos := pc.Pos
	b.RemovePiece(pos)
	promoted := NewPiece(stats, pc.Side, pos)
	promoted.HasMoved = true
	b.Place(promoted, pos)
}

// slideDirection reduces the displacement to a unit step and its length by
// dividing through gcd(|dx|, |dy|).
func slideDirection(from, to Position) (dx, dy, steps int) {
	dx, dy = to.X-from.X, to.Y-from.Y
	g := gcd(abs(dx), abs(dy))
	if g == 0 {
		return 0, 0, 0
	}
	return dx / g, dy / g, g
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
