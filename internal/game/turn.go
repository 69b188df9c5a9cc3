package game

// startTurn runs the DRAW step for the new active player: stun wears off,
// steam is awarded from board control, the hand is topped up, and play opens.
func (r *Rules) startTurn(s *State) {
	side := s.Active
	s.Phase = PhaseDraw

	for _, pc := range s.Board.Pieces(side) {
		if pc.StunRemaining > 0 {
			pc.StunRemaining--
		}
	}

	s.Player(side).Steam += 1 + ControlledSquares(s.Board, side)
	drawUpTo(r.rng, s.Player(side), TurnDrawUpTo)

	RecomputeInfluence(s.Board)
	s.Phase = PhasePlay
}

// advanceTurn runs the END step after a successful action and hands the turn
// to the opponent, whose DRAW step follows immediately.
func (r *Rules) advanceTurn(s *State) {
	if s.Over() {
		return
	}
	s.TurnNumber++
	s.Active = s.Active.Opponent()
	r.startTurn(s)
}
