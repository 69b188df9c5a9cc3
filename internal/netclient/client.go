// Package netclient is the headless protocol client used by the CLI and by
// integration tests. It speaks the same framed codec as the server.
package netclient

import (
	"bytes"
	"context"
	"fmt"

	"nhooyr.io/websocket"

	"github.com/bayou-games/bayou-bonanza/internal/catalog"
	"github.com/bayou-games/bayou-bonanza/internal/wire"
)

type Client struct {
	ws    *websocket.Conn
	codec *wire.Codec
}

// Dial connects to a server websocket endpoint, e.g. ws://host:4000/ws.
func Dial(ctx context.Context, url string, cat *catalog.Catalog) (*Client, error) {
	ws, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	ws.SetReadLimit(wire.MaxFrameSize + 8)
	return &Client{ws: ws, codec: wire.NewCodec(cat)}, nil
}

// Send frames msg and writes it as one binary websocket message.
func (c *Client) Send(ctx context.Context, msg wire.Message) error {
	var buf bytes.Buffer
	if err := c.codec.WriteFrame(&buf, msg); err != nil {
		return err
	}
	return c.ws.Write(ctx, websocket.MessageBinary, buf.Bytes())
}

// Recv blocks for the next server message. Non-binary messages are skipped.
func (c *Client) Recv(ctx context.Context) (wire.Message, error) {
	for {
		kind, data, err := c.ws.Read(ctx)
		if err != nil {
			return nil, err
		}
		if kind != websocket.MessageBinary {
			continue
		}
		payload, err := wire.ReadFrame(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return c.codec.Decode(payload)
	}
}

// RecvUntil reads until a message of type want arrives, discarding others.
func (c *Client) RecvUntil(ctx context.Context, want wire.MessageType) (wire.Message, error) {
	for {
		msg, err := c.Recv(ctx)
		if err != nil {
			return nil, err
		}
		if msg.Type() == want {
			return msg, nil
		}
	}
}

func (c *Client) Close() error {
	return c.ws.Close(websocket.StatusNormalClosure, "bye")
}
