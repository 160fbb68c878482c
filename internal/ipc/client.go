package ipc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// ErrRequestFailed wraps the error text of an unsuccessful response.
var ErrRequestFailed = errors.New("request failed")

// clientReadLimit allows full workspace snapshots in one message.
const clientReadLimit = 32 << 20

// Client is a connection to a running WM.
type Client struct {
	conn *websocket.Conn
}

// Dial connects to the IPC server at addr, a host:port or ws:// URL.
func Dial(ctx context.Context, addr string) (*Client, error) {
	u := addr
	if !strings.HasPrefix(u, "ws://") && !strings.HasPrefix(u, "wss://") {
		u = "ws://" + u
	}
	conn, _, err := websocket.Dial(ctx, u, nil)
	if err != nil {
		return nil, fmt.Errorf("connect to %s (is the window manager running?): %w", addr, err)
	}
	conn.SetReadLimit(clientReadLimit)
	return &Client{conn: conn}, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "")
}

// Request sends msg and waits for its response. Event messages arriving
// in between are skipped. An unsuccessful response is returned together
// with an error wrapping ErrRequestFailed.
func (c *Client) Request(ctx context.Context, msg string) (Message, error) {
	if err := c.Send(ctx, msg); err != nil {
		return Message{}, err
	}
	for {
		m, err := c.Next(ctx)
		if err != nil {
			return Message{}, err
		}
		if m.MessageType != TypeClientResponse {
			continue
		}
		if !m.Success {
			text := "unknown error"
			if m.Error != nil {
				text = *m.Error
			}
			return m, fmt.Errorf("%w: %s", ErrRequestFailed, text)
		}
		return m, nil
	}
}

// Send writes msg without waiting for a response.
func (c *Client) Send(ctx context.Context, msg string) error {
	if err := c.conn.Write(ctx, websocket.MessageText, []byte(msg)); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// Next reads the next message of any type.
func (c *Client) Next(ctx context.Context) (Message, error) {
	var m Message
	if err := wsjson.Read(ctx, c.conn, &m); err != nil {
		return Message{}, fmt.Errorf("read message: %w", err)
	}
	return m, nil
}
