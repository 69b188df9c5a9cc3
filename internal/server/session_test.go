package server

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bayou-games/bayou-bonanza/internal/catalog"
	"github.com/bayou-games/bayou-bonanza/internal/config"
	"github.com/bayou-games/bayou-bonanza/internal/game"
	"github.com/bayou-games/bayou-bonanza/internal/msgcat"
	"github.com/bayou-games/bayou-bonanza/internal/store"
)

func newBareHub(t *testing.T) (*Hub, store.Store) {
	t.Helper()
	cat, err := catalog.Load("")
	if err != nil {
		t.Fatal(err)
	}
	msgs, err := msgcat.New("")
	if err != nil {
		t.Fatal(err)
	}
	cfg := &config.AppConfig{
		StoreBackend:     config.BackendMemory,
		MatchSeed:        1,
		SessionGCDelayMS: 10,
		MaxConnections:   16,
	}
	st := store.NewMemoryStore()
	return NewHub(cfg, st, cat, msgs), st
}

func seedSession(t *testing.T, hub *Hub) *Session {
	t.Helper()
	ctx := context.Background()
	for _, name := range []string{"gator", "heron"} {
		if err := hub.st.PutUser(ctx, &store.User{Username: name, Rating: 0}); err != nil {
			t.Fatal(err)
		}
	}

	rules := game.NewRules(hub.cat, 1)
	state, err := rules.InitializeGame(hub.cat.StarterDeck(), hub.cat.StarterDeck())
	if err != nil {
		t.Fatal(err)
	}
	sess := &Session{ID: uuid.New(), rules: rules, state: state}
	sess.seats[game.PlayerOne] = seat{username: "gator"}
	sess.seats[game.PlayerTwo] = seat{username: "heron"}

	hub.sessMu.Lock()
	hub.sessions[sess.ID] = sess
	hub.sessMu.Unlock()
	return sess
}

func TestFinishSessionUpdatesRatingsAndCollects(t *testing.T) {
	hub, st := newBareHub(t)
	sess := seedSession(t, hub)

	sess.mu.Lock()
	sess.state.SetResult(game.ResultPlayerOneWin)
	hub.finishSession(sess)
	sess.mu.Unlock()

	ctx := context.Background()
	winner, err := st.GetUser(ctx, "gator")
	if err != nil || winner == nil {
		t.Fatalf("winner: %v, %v", winner, err)
	}
	if winner.Rating != 16 {
		t.Errorf("winner rating = %d, want 16", winner.Rating)
	}
	loser, _ := st.GetUser(ctx, "heron")
	if loser.Rating != 0 {
		t.Errorf("loser rating = %d, want 0 after clamp", loser.Rating)
	}

	deadline := time.Now().Add(2 * time.Second)
	for hub.Snapshot().Sessions != 0 {
		if time.Now().After(deadline) {
			t.Fatal("finished session never collected")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestFinishSessionIsIdempotent(t *testing.T) {
	hub, st := newBareHub(t)
	sess := seedSession(t, hub)

	sess.mu.Lock()
	sess.state.SetResult(game.ResultPlayerTwoWin)
	hub.finishSession(sess)
	hub.finishSession(sess)
	sess.mu.Unlock()

	u, _ := st.GetUser(context.Background(), "heron")
	if u.Rating != 16 {
		t.Errorf("double finish applied the rating twice: %d", u.Rating)
	}
}

func TestSeatLookupAndDetach(t *testing.T) {
	hub, _ := newBareHub(t)
	sess := seedSession(t, hub)

	if side := sess.seatFor("gator"); side != game.PlayerOne {
		t.Errorf("gator seat = %v", side)
	}
	if side := sess.seatFor("heron"); side != game.PlayerTwo {
		t.Errorf("heron seat = %v", side)
	}
	if side := sess.seatFor("stranger"); side != game.Neutral {
		t.Errorf("stranger seat = %v", side)
	}

	c := &Conn{hub: hub, side: game.PlayerOne}
	sess.mu.Lock()
	sess.rebind(game.PlayerOne, c)
	if sess.seats[game.PlayerOne].conn != c {
		t.Error("rebind did not attach the connection")
	}
	sess.detach(c)
	if sess.seats[game.PlayerOne].conn != nil {
		t.Error("detach left the seat bound")
	}
	sess.mu.Unlock()
}
