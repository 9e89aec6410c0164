package hub

import (
	"time"

	"github.com/gofiber/websocket/v2"
)

// Dashboard clients only send pongs and the occasional close, so reads are
// capped small. A client that misses pongs for pongWait is dropped.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4 << 10
	sendQueue      = 256
)

// Client is one dashboard websocket. The hub owns its send queue.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan Message
}

// NewClient creates a client and registers it with the hub. initial
// messages are queued ahead of any broadcast.
func NewClient(hub *Hub, conn *websocket.Conn, initial ...Message) (*Client, error) {
	client := &Client{
		hub:  hub,
		conn: conn,
		send: make(chan Message, sendQueue+len(initial)),
	}
	for _, m := range initial {
		client.send <- m
	}
	select {
	case hub.register <- client:
		return client, nil
	case <-hub.done:
		return nil, ErrClosed
	}
}

// Run starts the client's read and write pumps and blocks until the
// connection closes. Call it from the websocket handler.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump discards input and unregisters the client once the read fails.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump owns all writes: queued messages and keepalive pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(message.frameType(), message.Data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
