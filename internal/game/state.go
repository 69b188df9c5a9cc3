package game

// PlayerState is one player's card economy: deck drawn from the front,
// hand capped at HandLimit, discard refilled into the deck when it runs dry.
type PlayerState struct {
	Deck    []int
	Hand    []int
	Discard []int
	Steam   int
}

const (
	HandLimit    = 7
	TurnDrawUpTo = 5
	DeckSize     = 20
	MaxCopies    = 3
)

// State aggregates everything both clients must agree on byte for byte.
type State struct {
	Board      *Board
	Players    [2]PlayerState
	Active     Side
	Phase      Phase
	Result     Result
	TurnNumber int
}

func NewState() *State {
	s := &State{
		Board:      NewBoard(),
		Active:     PlayerOne,
		Phase:      PhasePlay,
		Result:     ResultInProgress,
		TurnNumber: 1,
	}
	for i := range s.Players {
		s.Players[i].Deck = []int{}
		s.Players[i].Hand = []int{}
		s.Players[i].Discard = []int{}
	}
	return s
}

// Player returns the card state for side.
func (s *State) Player(side Side) *PlayerState { return &s.Players[side] }

// SetResult records the outcome. Any terminal result forces GAME_OVER.
func (s *State) SetResult(r Result) {
	s.Result = r
	if r != ResultInProgress {
		s.Phase = PhaseGameOver
	}
}

// Over reports whether the match has ended.
func (s *State) Over() bool { return s.Result != ResultInProgress }
