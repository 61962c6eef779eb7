// Package websocket streams tool invocation activity to connected
// observers. Events carry names and outcomes only, never payloads or
// tokens.
package websocket

import (
	"context"
	"net/http"
	"sync"
	"time"

	"dex-mcp-server/internal/logging"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ActivityEvent is one broadcast invocation event
type ActivityEvent struct {
	Type       string    `json:"type"` // tool, resource, prompt, connection
	Name       string    `json:"name"`
	Chain      string    `json:"chain,omitempty"`
	Success    bool      `json:"success"`
	ErrorCode  string    `json:"error_code,omitempty"`
	DurationMs int64     `json:"duration_ms,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Client is one connected observer
type Client struct {
	ID   string
	conn *websocket.Conn
	send chan ActivityEvent
	hub  *Hub

	mu     sync.Mutex
	closed bool
}

func (c *Client) safeClose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		close(c.send)
		c.closed = true
	}
}

// Hub manages observer connections and fans out activity events
type Hub struct {
	logger logging.Logger

	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan ActivityEvent
	done       chan struct{}
	mutex      sync.RWMutex
}

// NewHub creates an activity hub
func NewHub(logger logging.Logger) *Hub {
	return &Hub{
		logger:     logger.WithComponent("ws-hub"),
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan ActivityEvent, 256),
		done:       make(chan struct{}),
	}
}

// Run drives the hub until the context is canceled
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		h.mutex.Lock()
		for client := range h.clients {
			client.safeClose()
			_ = client.conn.Close()
		}
		h.clients = make(map[*Client]bool)
		h.mutex.Unlock()
	}()

	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.Info("observer connected", "client_id", client.ID, "total", total)

			client.send <- ActivityEvent{
				Type:      "connection",
				Name:      "connected",
				Success:   true,
				Timestamp: time.Now().UTC(),
			}

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.safeClose()
			}
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.Info("observer disconnected", "client_id", client.ID, "total", total)

		case event := <-h.broadcast:
			h.mutex.RLock()
			for client := range h.clients {
				select {
				case client.send <- event:
				default:
					// Slow observer, drop it rather than stall the hub
					go func(c *Client) {
						select {
						case h.unregister <- c:
						case <-h.done:
						}
					}(client)
				}
			}
			h.mutex.RUnlock()

		case <-ctx.Done():
			return
		}
	}
}

// Broadcast publishes an event to all observers. Never blocks.
func (h *Hub) Broadcast(event ActivityEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("activity broadcast buffer full, dropping event", "name", event.Name)
	}
}

// ClientCount returns the number of connected observers
func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The MCP surface has its own auth; observers share it
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// ServeHTTP upgrades the connection and attaches it to the hub
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err.Error())
		return
	}

	client := &Client{
		ID:   uuid.New().String(),
		conn: conn,
		send: make(chan ActivityEvent, 64),
		hub:  h,
	}

	// The hub may already be shut down; never strand the handler
	select {
	case h.register <- client:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// writePump pushes events and pings to the observer
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound messages and watches for disconnects
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
