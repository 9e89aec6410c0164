package sensor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/teslashibe/go-kiosk/internal/log"
	"github.com/teslashibe/go-kiosk/pkg/protocol"
)

// Client dials a sensor bridge and reads protocol messages from it.
type Client struct {
	url         string
	dialTimeout time.Duration
	logger      *slog.Logger

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewClient creates a dialing Source for the bridge at url.
func NewClient(url string, dialTimeout time.Duration, logger *slog.Logger) *Client {
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}
	return &Client{
		url:         url,
		dialTimeout: dialTimeout,
		logger:      log.Or(logger).With("component", "sensor-client"),
	}
}

// Connect implements Source.
func (c *Client) Connect(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: c.dialTimeout,
	}

	dialCtx, cancel := context.WithTimeout(ctx, c.dialTimeout)
	defer cancel()

	conn, _, err := dialer.DialContext(dialCtx, c.url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.url, err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	c.logger.Info("connected to sensor bridge", "url", c.url)
	return nil
}

// Run implements Source. Malformed messages are logged and skipped.
func (c *Client) Run(ctx context.Context, sink Sink) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrNotStarted
	}

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}

		msg, err := protocol.ParseMessage(data)
		if err != nil {
			c.logger.Warn("invalid sensor message", "error", err)
			continue
		}

		reply, err := Apply(msg, sink)
		if err != nil {
			if errors.Is(err, ErrBadFrame) {
				c.logger.Warn("dropped sensor frame", "type", msg.Type, "error", err)
				continue
			}
			return err
		}
		if reply != nil {
			if err := c.send(reply); err != nil {
				c.logger.Warn("reply failed", "error", err)
			}
		}
	}
}

func (c *Client) send(msg *protocol.Message) error {
	data, err := msg.Bytes()
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return ErrNotStarted
	}
	c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Close implements Source.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}
