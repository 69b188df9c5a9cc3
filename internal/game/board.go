package game

// Square holds at most one piece plus the per-side influence counters derived
// from every piece on the board.
type Square struct {
	Piece     *Piece
	Influence [2]int
}

// ControlledBy derives the controlling side from the influence counters.
func (sq *Square) ControlledBy() Side {
	switch {
	case sq.Influence[PlayerOne] > sq.Influence[PlayerTwo]:
		return PlayerOne
	case sq.Influence[PlayerTwo] > sq.Influence[PlayerOne]:
		return PlayerTwo
	}
	return Neutral
}

// Board is the 8x8 grid in row-major order. It exclusively owns every piece
// placed on it; moves always go through ExtractPiece then Place.
type Board struct {
	squares [BoardSize * BoardSize]Square
}

func NewBoard() *Board { return &Board{} }

func (b *Board) At(p Position) *Square {
	return &b.squares[p.Y*BoardSize+p.X]
}

// PieceAt returns the piece on p, or nil when p is empty or off-board.
func (b *Board) PieceAt(p Position) *Piece {
	if !p.OnBoard() {
		return nil
	}
	return b.At(p).Piece
}

// Place puts pc on pos. The square must be empty; callers extract first.
func (b *Board) Place(pc *Piece, pos Position) bool {
	if !pos.OnBoard() || b.At(pos).Piece != nil {
		return false
	}
	pc.Pos = pos
	b.At(pos).Piece = pc
	return true
}

// ExtractPiece transfers ownership of the piece on pos out of the square.
func (b *Board) ExtractPiece(pos Position) *Piece {
	if !pos.OnBoard() {
		return nil
	}
	sq := b.At(pos)
	pc := sq.Piece
	sq.Piece = nil
	return pc
}

// RemovePiece destroys the piece on pos, if any.
func (b *Board) RemovePiece(pos Position) {
	if pos.OnBoard() {
		b.At(pos).Piece = nil
	}
}

// ForEachPiece visits every piece on the board in row-major order.
func (b *Board) ForEachPiece(fn func(*Piece)) {
	for i := range b.squares {
		if pc := b.squares[i].Piece; pc != nil {
			fn(pc)
		}
	}
}

// Pieces returns all pieces belonging to side in row-major order.
func (b *Board) Pieces(side Side) []*Piece {
	var out []*Piece
	b.ForEachPiece(func(pc *Piece) {
		if pc.Side == side {
			out = append(out, pc)
		}
	})
	return out
}
