package game

import "github.com/bayou-games/bayou-bonanza/internal/catalog"

// Side identifies a player. Ordinals are part of the wire format.
type Side uint8

const (
	PlayerOne Side = iota
	PlayerTwo
	Neutral
)

func (s Side) Opponent() Side {
	switch s {
	case PlayerOne:
		return PlayerTwo
	case PlayerTwo:
		return PlayerOne
	}
	return Neutral
}

func (s Side) String() string {
	switch s {
	case PlayerOne:
		return "player_one"
	case PlayerTwo:
		return "player_two"
	}
	return "neutral"
}

// Phase is the per-session turn machine state.
type Phase uint8

const (
	PhaseDraw Phase = iota
	PhasePlay
	PhaseGameOver
)

// Result is the match outcome.
type Result uint8

const (
	ResultInProgress Result = iota
	ResultPlayerOneWin
	ResultPlayerTwoWin
	ResultDraw
)

// WinFor maps a side to the result declaring it the winner.
func WinFor(s Side) Result {
	if s == PlayerOne {
		return ResultPlayerOneWin
	}
	return ResultPlayerTwoWin
}

// Position is a board coordinate, 0 <= X,Y < BoardSize.
type Position struct {
	X int
	Y int
}

const BoardSize = 8

func (p Position) OnBoard() bool {
	return p.X >= 0 && p.X < BoardSize && p.Y >= 0 && p.Y < BoardSize
}

func (p Position) Add(dx, dy int) Position { return Position{X: p.X + dx, Y: p.Y + dy} }

// BackRank is the opponent's home edge a pawn-like piece promotes on.
func BackRank(s Side) int {
	if s == PlayerOne {
		return 0
	}
	return BoardSize - 1
}

// HomeRows reports whether y is one of the two rows closest to s, the only
// legal rows for piece-card placement.
func HomeRows(s Side, y int) bool {
	if s == PlayerOne {
		return y == 6 || y == 7
	}
	return y == 0 || y == 1
}

// Piece is a runtime piece instance. Stats are shared and immutable; the
// square holding the piece owns it.
type Piece struct {
	Stats         *catalog.PieceStats
	Side          Side
	Pos           Position
	CurrentHealth int
	HasMoved      bool
	StunRemaining int
}

// NewPiece spawns a full-health piece for side at pos.
func NewPiece(stats *catalog.PieceStats, side Side, pos Position) *Piece {
	return &Piece{Stats: stats, Side: side, Pos: pos, CurrentHealth: stats.Health}
}

// Orient maps a rule offset from PLAYER_ONE's frame into side's frame. The
// vertical component flips for PLAYER_TWO.
func Orient(off catalog.Offset, side Side) (dx, dy int) {
	if side == PlayerTwo {
		return off.X, -off.Y
	}
	return off.X, off.Y
}
