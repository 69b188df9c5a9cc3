// Package server binds the wire protocol to the rules engine: websocket
// accept, login, matchmaking, per-session dispatch, reconnection and the
// post-game rating write.
package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/bayou-games/bayou-bonanza/internal/catalog"
	"github.com/bayou-games/bayou-bonanza/internal/config"
	"github.com/bayou-games/bayou-bonanza/internal/game"
	"github.com/bayou-games/bayou-bonanza/internal/msgcat"
	"github.com/bayou-games/bayou-bonanza/internal/obslog"
	"github.com/bayou-games/bayou-bonanza/internal/rating"
	"github.com/bayou-games/bayou-bonanza/internal/store"
	"github.com/bayou-games/bayou-bonanza/internal/wire"
)

const storeTimeout = 5 * time.Second

// Hub owns the connection registry, the matchmaking queue and the session
// registry. Lock order: connMu, then sessMu, then a session's own lock;
// nothing holds two of them at the same time.
type Hub struct {
	cfg   *config.AppConfig
	st    store.Store
	cat   *catalog.Catalog
	codec *wire.Codec
	msgs  *msgcat.Catalog

	upgrader websocket.Upgrader

	connMu sync.Mutex
	conns  map[*Conn]struct{}
	queue  []*Conn

	sessMu   sync.Mutex
	sessions map[uuid.UUID]*Session
}

// Stats is the admin-endpoint snapshot.
type Stats struct {
	Connections int `json:"connections"`
	Queued      int `json:"queued"`
	Sessions    int `json:"sessions"`
}

func NewHub(cfg *config.AppConfig, st store.Store, cat *catalog.Catalog, msgs *msgcat.Catalog) *Hub {
	return &Hub{
		cfg:   cfg,
		st:    st,
		cat:   cat,
		codec: wire.NewCodec(cat),
		msgs:  msgs,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		conns:    make(map[*Conn]struct{}),
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Snapshot reports current registry sizes.
func (h *Hub) Snapshot() Stats {
	h.connMu.Lock()
	conns, queued := len(h.conns), len(h.queue)
	h.connMu.Unlock()
	h.sessMu.Lock()
	sessions := len(h.sessions)
	h.sessMu.Unlock()
	return Stats{Connections: conns, Queued: queued, Sessions: sessions}
}

// ServeHTTP upgrades the request and runs the connection's read loop until
// the socket dies.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.connMu.Lock()
	full := len(h.conns) >= h.cfg.MaxConnections
	h.connMu.Unlock()
	if full {
		http.Error(w, "server full", http.StatusServiceUnavailable)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		obslog.L().Warn("websocket upgrade", zap.Error(err))
		return
	}
	c := newConn(h, ws)

	h.connMu.Lock()
	h.conns[c] = struct{}{}
	h.connMu.Unlock()
	obslog.L().Info("client connected", zap.String("remote", ws.RemoteAddr().String()))

	h.readLoop(c)
	h.dropConn(c)
}

func (h *Hub) readLoop(c *Conn) {
	for {
		kind, data, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		if kind != websocket.BinaryMessage {
			continue
		}
		payload, err := wire.ReadFrame(bytes.NewReader(data))
		if err != nil {
			obslog.L().Warn("bad frame", zap.String("user", c.username), zap.Error(err))
			continue
		}
		msg, err := h.codec.Decode(payload)
		if err != nil {
			if errors.Is(err, wire.ErrUnknownTag) {
				obslog.L().Warn("unknown message tag", zap.String("user", c.username), zap.Error(err))
				continue
			}
			obslog.L().Warn("decode message", zap.String("user", c.username), zap.Error(err))
			c.send(wire.ErrorMessage{Message: h.msgs.Get("error.internal")})
			continue
		}
		h.dispatch(c, msg)
	}
}

func (h *Hub) dispatch(c *Conn, msg wire.Message) {
	switch m := msg.(type) {
	case wire.UserLogin:
		h.handleLogin(c, m.Username)
	case wire.RequestMatchmaking:
		h.handleMatchmaking(c)
	case wire.MoveToServer:
		h.handleMove(c, m.Move)
	case wire.CardPlayToServer:
		h.handleCardPlay(c, m)
	case wire.EndTurn:
		h.handleEndTurn(c)
	case wire.SaveDeck:
		h.handleSaveDeck(c, m.Deck)
	default:
		// Server-to-client tags arriving inbound are protocol misuse but
		// not fatal.
		obslog.L().Warn("unexpected inbound message",
			zap.String("user", c.username),
			zap.String("type", msg.Type().String()))
	}
}

func storeCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeTimeout)
}

func validUsername(name string) bool {
	if len(name) == 0 || len(name) > 32 {
		return false
	}
	for _, r := range name {
		if r < 0x21 || r == 0x7f {
			return false
		}
	}
	return true
}

func (h *Hub) handleLogin(c *Conn, username string) {
	if !validUsername(username) {
		c.send(wire.ErrorMessage{Message: h.msgs.Get("login.malformed")})
		return
	}

	ctx, cancel := storeCtx()
	defer cancel()

	u, err := h.st.GetUser(ctx, username)
	if err != nil {
		obslog.L().Error("load user", zap.String("user", username), zap.Error(err))
		c.send(wire.ErrorMessage{Message: h.msgs.Get("login.db_unavailable")})
		return
	}
	if u == nil {
		u = &store.User{Username: username, Rating: 0}
		if err := h.st.PutUser(ctx, u); err != nil {
			obslog.L().Error("create user", zap.String("user", username), zap.Error(err))
			c.send(wire.ErrorMessage{Message: h.msgs.Get("login.db_unavailable")})
			return
		}
		if err := h.st.SaveDeck(ctx, username, h.cat.StarterDeck()); err != nil {
			obslog.L().Error("seed starter deck", zap.String("user", username), zap.Error(err))
		}
		if err := h.st.SaveCollection(ctx, username, h.cat.StarterCollection()); err != nil {
			obslog.L().Error("seed starter collection", zap.String("user", username), zap.Error(err))
		}
	}

	deck, err := h.st.GetDeck(ctx, username)
	if err != nil {
		obslog.L().Error("load deck", zap.String("user", username), zap.Error(err))
	}
	if game.ValidateDeck(deck) != nil {
		deck = h.cat.StarterDeck()
	}
	collection, err := h.st.GetCollection(ctx, username)
	if err != nil {
		obslog.L().Error("load collection", zap.String("user", username), zap.Error(err))
	}
	if len(collection) == 0 {
		collection = h.cat.StarterCollection()
	}

	c.loggedIn = true
	c.username = username
	c.rating = u.Rating
	c.deck = deck
	c.collection = collection
	obslog.L().Info("login", zap.String("user", username), zap.Int("rating", u.Rating))

	c.send(wire.DeckData{Deck: deck})
	c.send(wire.CardCollectionData{Cards: collection})

	if h.tryReconnect(c) {
		return
	}
	h.tryMatch()
}

// tryReconnect rebinds c to a live session one of whose seats carries c's
// username. Returns true when a rebind happened.
func (h *Hub) tryReconnect(c *Conn) bool {
	h.sessMu.Lock()
	var target *Session
	var side game.Side
	for _, sess := range h.sessions {
		if s := sess.seatFor(c.username); s != game.Neutral {
			target, side = sess, s
			break
		}
	}
	h.sessMu.Unlock()
	if target == nil {
		return false
	}

	target.mu.Lock()
	defer target.mu.Unlock()
	if target.finished || target.state.Over() {
		return false
	}
	target.rebind(side, c)
	c.bind(target, side)
	obslog.L().Info("reconnected",
		zap.String("user", c.username),
		zap.String("session", target.ID.String()),
		zap.String("side", side.String()))
	c.send(wire.PlayerAssignment{Side: side})
	c.send(wire.GameStateUpdate{State: target.state})
	return true
}

func (h *Hub) handleMatchmaking(c *Conn) {
	if !c.loggedIn {
		c.send(wire.ErrorMessage{Message: h.msgs.Get("error.not_logged_in")})
		return
	}
	if sess, _ := c.binding(); sess != nil {
		return
	}

	h.connMu.Lock()
	queued := false
	for _, q := range h.queue {
		if q == c {
			queued = true
			break
		}
	}
	if !queued {
		h.queue = append(h.queue, c)
	}
	h.connMu.Unlock()

	c.send(wire.WaitingForOpponent{})
	h.tryMatch()
}

// tryMatch pairs the first two queued connections into a fresh session.
func (h *Hub) tryMatch() {
	h.connMu.Lock()
	if len(h.queue) < 2 {
		h.connMu.Unlock()
		return
	}
	p1, p2 := h.queue[0], h.queue[1]
	h.queue = append([]*Conn{}, h.queue[2:]...)
	h.connMu.Unlock()

	rules := game.NewRules(h.cat, h.cfg.MatchSeed)
	state, err := rules.InitializeGame(p1.deck, p2.deck)
	if err != nil {
		obslog.L().Error("initialize game", zap.Error(err))
		p1.send(wire.ErrorMessage{Message: h.msgs.Get("error.internal")})
		p2.send(wire.ErrorMessage{Message: h.msgs.Get("error.internal")})
		return
	}

	sess := newSession(rules, state, p1, p2)
	h.sessMu.Lock()
	h.sessions[sess.ID] = sess
	h.sessMu.Unlock()

	p1.bind(sess, game.PlayerOne)
	p2.bind(sess, game.PlayerTwo)

	obslog.L().Info("match started",
		zap.String("session", sess.ID.String()),
		zap.String("player_one", p1.username),
		zap.String("player_two", p2.username))

	start := wire.GameStart{
		Player1Name:   p1.username,
		Player1Rating: p1.rating,
		Player2Name:   p2.username,
		Player2Rating: p2.rating,
		State:         state,
	}
	sess.mu.Lock()
	p1.send(wire.PlayerAssignment{Side: game.PlayerOne})
	p2.send(wire.PlayerAssignment{Side: game.PlayerTwo})
	sess.broadcast(start)
	sess.mu.Unlock()
}

func (h *Hub) handleMove(c *Conn, mv game.Move) {
	sess, side := c.binding()
	if sess == nil {
		c.send(wire.ErrorMessage{Message: h.msgs.Get("error.no_session")})
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.state.Over() {
		c.send(wire.ErrorMessage{Message: h.msgs.Get("error.game_over")})
		return
	}
	if side != sess.state.Active {
		c.send(wire.MoveRejected{Reason: h.msgs.Get("move.not_your_turn")})
		return
	}

	outcome := sess.rules.ProcessMove(sess.state, mv)
	if outcome == game.MoveInvalid {
		c.send(wire.MoveRejected{Reason: h.msgs.Get("move.invalid")})
		return
	}
	obslog.L().Debug("move applied",
		zap.String("session", sess.ID.String()),
		zap.String("user", c.username),
		zap.String("outcome", outcome.String()))
	sess.broadcast(wire.GameStateUpdate{State: sess.state})
	if sess.state.Over() {
		h.finishSession(sess)
	}
}

func (h *Hub) handleCardPlay(c *Conn, m wire.CardPlayToServer) {
	sess, side := c.binding()
	if sess == nil {
		c.send(wire.ErrorMessage{Message: h.msgs.Get("error.no_session")})
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.state.Over() {
		c.send(wire.ErrorMessage{Message: h.msgs.Get("error.game_over")})
		return
	}
	if err := sess.rules.PlayCard(sess.state, side, m.CardIndex, m.Target); err != nil {
		obslog.L().Debug("card play rejected",
			zap.String("session", sess.ID.String()),
			zap.String("user", c.username),
			zap.Error(err))
		c.send(wire.CardPlayRejected{})
		return
	}
	sess.broadcast(wire.GameStateUpdate{State: sess.state})
}

func (h *Hub) handleEndTurn(c *Conn) {
	sess, side := c.binding()
	if sess == nil {
		c.send(wire.ErrorMessage{Message: h.msgs.Get("error.no_session")})
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if !sess.rules.EndTurn(sess.state, side) {
		c.send(wire.MoveRejected{Reason: h.msgs.Get("move.not_your_turn")})
		return
	}
	sess.broadcast(wire.GameStateUpdate{State: sess.state})
}

func (h *Hub) handleSaveDeck(c *Conn, deck []int) {
	if !c.loggedIn {
		c.send(wire.ErrorMessage{Message: h.msgs.Get("error.not_logged_in")})
		return
	}
	if err := game.ValidateDeck(deck); err != nil {
		c.send(wire.ErrorMessage{Message: h.msgs.Get("deck.invalid")})
		return
	}
	for _, id := range deck {
		if _, ok := h.cat.Card(id); !ok {
			c.send(wire.ErrorMessage{Message: h.msgs.Get("deck.invalid")})
			return
		}
	}

	ctx, cancel := storeCtx()
	defer cancel()
	if err := h.st.SaveDeck(ctx, c.username, deck); err != nil {
		obslog.L().Error("save deck", zap.String("user", c.username), zap.Error(err))
		c.send(wire.ErrorMessage{Message: h.msgs.Get("error.internal")})
		return
	}
	c.deck = append([]int{}, deck...)
	c.send(wire.DeckSaved{})
}

// finishSession applies the Elo update and schedules the session's removal.
// Caller holds sess.mu.
func (h *Hub) finishSession(sess *Session) {
	if sess.finished {
		return
	}
	sess.finished = true

	scores := [2]float64{rating.Draw, rating.Draw}
	switch sess.state.Result {
	case game.ResultPlayerOneWin:
		scores = [2]float64{rating.Win, rating.Loss}
	case game.ResultPlayerTwoWin:
		scores = [2]float64{rating.Loss, rating.Win}
	}

	ctx, cancel := storeCtx()
	defer cancel()
	var old [2]int
	for side := range sess.seats {
		u, err := h.st.GetUser(ctx, sess.seats[side].username)
		if err != nil || u == nil {
			obslog.L().Error("load user for rating", zap.String("user", sess.seats[side].username), zap.Error(err))
			return
		}
		old[side] = u.Rating
	}
	for side := range sess.seats {
		updated := rating.Update(old[side], old[1-side], scores[side])
		u := &store.User{Username: sess.seats[side].username, Rating: updated}
		if err := h.st.PutUser(ctx, u); err != nil {
			obslog.L().Error("save rating", zap.String("user", u.Username), zap.Error(err))
			continue
		}
		if c := sess.seats[side].conn; c != nil {
			c.rating = updated
		}
	}

	obslog.L().Info("match finished",
		zap.String("session", sess.ID.String()),
		zap.String("result", resultLabel(sess.state.Result)))

	// Delay removal so in-flight sends to both clients drain first.
	delay := time.Duration(h.cfg.SessionGCDelayMS) * time.Millisecond
	id := sess.ID
	time.AfterFunc(delay, func() { h.removeSession(id) })
}

func (h *Hub) removeSession(id uuid.UUID) {
	h.sessMu.Lock()
	sess, ok := h.sessions[id]
	if ok {
		delete(h.sessions, id)
	}
	h.sessMu.Unlock()
	if !ok {
		return
	}
	sess.mu.Lock()
	for side := range sess.seats {
		if c := sess.seats[side].conn; c != nil {
			c.unbind()
			sess.seats[side].conn = nil
		}
	}
	sess.mu.Unlock()
	obslog.L().Debug("session removed", zap.String("session", id.String()))
}

// dropConn unregisters a dead connection. Its seat stays open so the player
// can reconnect into the same match.
func (h *Hub) dropConn(c *Conn) {
	h.connMu.Lock()
	delete(h.conns, c)
	for i, q := range h.queue {
		if q == c {
			h.queue = append(h.queue[:i], h.queue[i+1:]...)
			break
		}
	}
	h.connMu.Unlock()

	if sess, _ := c.binding(); sess != nil {
		sess.mu.Lock()
		sess.detach(c)
		sess.mu.Unlock()
	}
	c.unbind()
	_ = c.ws.Close()
	obslog.L().Info("client disconnected", zap.String("user", c.username))
}

func resultLabel(r game.Result) string {
	switch r {
	case game.ResultPlayerOneWin:
		return "player_one_win"
	case game.ResultPlayerTwoWin:
		return "player_two_win"
	case game.ResultDraw:
		return "draw"
	}
	return "in_progress"
}
