package game

// RecomputeInfluence rebuilds every square's influence counters from scratch.
// Influence is derived state; the full recompute keeps the counters exactly
// equal to the sum of all pieces' rule contributions after any mutation.
func RecomputeInfluence(b *Board) {
	for i := range b.squares {
		b.squares[i].Influence[PlayerOne] = 0
		b.squares[i].Influence[PlayerTwo] = 0
	}
	b.ForEachPiece(func(pc *Piece) {
		if pc.Side != PlayerOne && pc.Side != PlayerTwo {
			return
		}
		for _, rule := range pc.Stats.InfluenceRules {
			for _, off := range rule.RelativeMoves {
				dx, dy := Orient(off, pc.Side)
				if rule.MaxRange <= 1 || rule.CanJump {
					dst := pc.Pos.Add(dx, dy)
					if dst.OnBoard() {
						b.At(dst).Influence[pc.Side]++
					}
					continue
				}
				// Sliding rule: credit each traversed square, the first
				// blocker included, then stop.
				for step := 1; step <= rule.MaxRange; step++ {
					dst := pc.Pos.Add(dx*step, dy*step)
					if !dst.OnBoard() {
						break
					}
					b.At(dst).Influence[pc.Side]++
					if b.At(dst).Piece != nil {
						break
					}
				}
			}
		}
	})
}

// ControlledSquares counts the squares whose influence favors side.
func ControlledSquares(b *Board, side Side) int {
	n := 0
	for i := range b.squares {
		if b.squares[i].ControlledBy() == side {
			n++
		}
	}
	return n
}
