package ws

import (
	"context"
	"time"

	"github.com/coder/websocket"
)

const (
	sendBufferSize = 16
	pingInterval   = 30 * time.Second
)

// Client represents a single WebSocket connection belonging to an
// authenticated user.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	admin    bool
	families map[int64]struct{}
}

// NewClient creates a Client scoped to the given family ids. A client
// for a system admin sees every family. The family set is a snapshot
// taken at connect time: a membership granted mid-connection is not
// visible until the client reconnects.
func NewClient(hub *Hub, conn *websocket.Conn, familyIDs []int64, admin bool) *Client {
	families := make(map[int64]struct{}, len(familyIDs))
	for _, id := range familyIDs {
		families[id] = struct{}{}
	}
	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		admin:    admin,
		families: families,
	}
}

// CanSee reports whether this client should receive messages for the
// given family.
func (c *Client) CanSee(familyID int64) bool {
	if c.admin {
		return true
	}
	_, ok := c.families[familyID]
	return ok
}

// Run registers the client, starts the write pump, and runs the read
// pump. It blocks until the connection is closed, then unregisters.
func (c *Client) Run(ctx context.Context) {
	c.hub.Register(c)
	defer c.hub.Unregister(c)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go c.writePump(ctx)
	c.readPump(ctx)
}

// readPump reads and discards all incoming messages. It returns on
// error (connection close), which triggers cleanup.
func (c *Client) readPump(ctx context.Context) {
	for {
		_, _, err := c.conn.Read(ctx)
		if err != nil {
			return
		}
	}
}

// writePump drains the send channel and writes messages to the
// WebSocket. It also sends periodic pings to detect stale connections.
func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				// Hub closed the channel; connection is done
				return
			}
			if err := c.conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
