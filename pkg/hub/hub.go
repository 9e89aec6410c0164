package hub

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/teslashibe/go-kiosk/internal/log"
)

// ErrClosed is returned when registering with a hub that has stopped.
var ErrClosed = errors.New("hub closed")

// Hub maintains the set of active clients and broadcasts messages to them
type Hub struct {
	// Name for logging
	name   string
	logger *slog.Logger

	// Registered clients
	clients map[*Client]struct{}
	mu      sync.RWMutex

	// Inbound messages to broadcast
	broadcast chan Message

	// Register and unregister requests from clients
	register   chan *Client
	unregister chan *Client

	// Closed when Run returns
	done    chan struct{}
	running atomic.Bool
	dropped atomic.Uint64
}

// New creates a new Hub
func New(name string, logger *slog.Logger) *Hub {
	return &Hub{
		name:       name,
		logger:     log.Or(logger).With("component", "hub", "stream", name),
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run is the hub's main loop. It returns when ctx is done, after closing
// every client's send queue.
func (h *Hub) Run(ctx context.Context) {
	h.running.Store(true)
	defer func() {
		h.running.Store(false)
		h.mu.Lock()
		for c := range h.clients {
			delete(h.clients, c)
			close(c.send)
		}
		h.mu.Unlock()
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("client connected", "clients", count)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("client disconnected", "clients", count)

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Too slow to keep up; drop it.
					close(client.send)
					delete(h.clients, client)
					h.dropped.Add(1)
					h.logger.Warn("dropped slow client")
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast sends a message to all connected clients. It never blocks; a
// full queue drops the message.
func (h *Hub) Broadcast(msg Message) {
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Debug("broadcast queue full, dropping message")
	}
}

// BroadcastJSON encodes and broadcasts a JSON message
func (h *Hub) BroadcastJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.Broadcast(NewJSONMessage(data))
	return nil
}

// BroadcastBinary broadcasts binary data such as JPEG frames
func (h *Hub) BroadcastBinary(data []byte) {
	h.Broadcast(NewBinaryMessage(data))
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Dropped returns how many slow clients were disconnected.
func (h *Hub) Dropped() uint64 { return h.dropped.Load() }

// IsRunning returns whether the hub is running
func (h *Hub) IsRunning() bool {
	return h.running.Load()
}

// Name returns the stream name.
func (h *Hub) Name() string { return h.name }
