package server

import (
	"sync"

	"github.com/google/uuid"

	"github.com/bayou-games/bayou-bonanza/internal/game"
	"github.com/bayou-games/bayou-bonanza/internal/wire"
)

// seat pins one player slot to a username for the session's lifetime. The
// conn pointer is nil while that player is disconnected; reconnection swaps
// in the new socket without touching game state.
type seat struct {
	username string
	conn     *Conn
}

// Session is one live match. All access to state and seats goes through mu;
// the hub's lock order is connection registry, then session registry, then
// this lock, and no handler holds two at once.
type Session struct {
	ID uuid.UUID

	mu    sync.Mutex
	rules *game.Rules
	state *game.State
	seats [2]seat

	finished bool
}

func newSession(rules *game.Rules, state *game.State, p1, p2 *Conn) *Session {
	s := &Session{ID: uuid.New(), rules: rules, state: state}
	s.seats[game.PlayerOne] = seat{username: p1.username, conn: p1}
	s.seats[game.PlayerTwo] = seat{username: p2.username, conn: p2}
	return s
}

// seatFor returns the side bound to username, or Neutral.
func (s *Session) seatFor(username string) game.Side {
	for side := range s.seats {
		if s.seats[side].username == username {
			return game.Side(side)
		}
	}
	return game.Neutral
}

// rebind attaches a fresh connection to username's seat. Caller holds mu.
func (s *Session) rebind(side game.Side, c *Conn) {
	if old := s.seats[side].conn; old != nil && old != c {
		old.unbind()
	}
	s.seats[side].conn = c
}

// detach clears the seat bound to c, keeping it open for reconnection.
// Caller holds mu.
func (s *Session) detach(c *Conn) {
	for side := range s.seats {
		if s.seats[side].conn == c {
			s.seats[side].conn = nil
		}
	}
}

// broadcast sends msg to both connected seats. Caller holds mu.
func (s *Session) broadcast(msg wire.Message) {
	for side := range s.seats {
		if c := s.seats[side].conn; c != nil {
			c.send(msg)
		}
	}
}
