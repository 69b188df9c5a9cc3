package server

import (
	"bytes"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/bayou-games/bayou-bonanza/internal/game"
	"github.com/bayou-games/bayou-bonanza/internal/obslog"
	"github.com/bayou-games/bayou-bonanza/internal/wire"
)

// Conn is one client socket plus its login-scoped identity. The hub mutates
// identity fields only from the connection's own read loop, so they need no
// lock; writeMu serializes frame writes from the read loop and broadcasts.
type Conn struct {
	hub *Hub
	ws  *websocket.Conn

	writeMu sync.Mutex

	loggedIn   bool
	username   string
	rating     int
	deck       []int
	collection []int

	// mu guards the session binding, which reconnection rebinds from
	// another connection's read loop.
	mu      sync.Mutex
	side    game.Side
	session *Session
}

func newConn(hub *Hub, ws *websocket.Conn) *Conn {
	return &Conn{hub: hub, ws: ws, side: game.Neutral}
}

// send frames msg and writes it as one binary websocket message. Write
// failures are logged and otherwise ignored; the read loop notices the dead
// socket and unregisters.
func (c *Conn) send(msg wire.Message) {
	var buf bytes.Buffer
	if err := c.hub.codec.WriteFrame(&buf, msg); err != nil {
		obslog.L().Error("encode frame", zap.String("type", msg.Type().String()), zap.Error(err))
		return
	}
	c.writeMu.Lock()
	err := c.ws.WriteMessage(websocket.BinaryMessage, buf.Bytes())
	c.writeMu.Unlock()
	if err != nil {
		obslog.L().Debug("write frame",
			zap.String("user", c.username),
			zap.String("type", msg.Type().String()),
			zap.Error(err))
	}
}

func (c *Conn) bind(sess *Session, side game.Side) {
	c.mu.Lock()
	c.session = sess
	c.side = side
	c.mu.Unlock()
}

func (c *Conn) binding() (*Session, game.Side) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session, c.side
}

func (c *Conn) unbind() {
	c.mu.Lock()
	c.session = nil
	c.side = game.Neutral
	c.mu.Unlock()
}
