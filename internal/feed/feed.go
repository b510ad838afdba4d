// Package feed streams combat snapshots to spectators over WebSocket.
package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/Garsondee/Air-Sense/internal/combat"
)

// Message types
const (
	MsgTypeSnapshot = "snapshot"
	MsgTypeEvent    = "event"
	MsgTypeRequest  = "request" // client asks for the latest snapshot
	MsgTypeError    = "error"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	sendBuffer = 64
)

// ClientMessage is a message from a spectator.
type ClientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ServerMessage is a message to spectators.
type ServerMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// isValidOrigin admits non-browser clients, same-origin pages and localhost.
func isValidOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if r.Host == u.Host {
		return true
	}
	host := u.Hostname()
	return host == "localhost" || host == "127.0.0.1" || strings.HasPrefix(u.Host, "[::1]")
}

var upgrader = websocket.Upgrader{
	CheckOrigin:       isValidOrigin,
	EnableCompression: true,
}

type client struct {
	id   int
	conn *websocket.Conn
	send chan ServerMessage
	hub  *Hub
}

// Hub fans snapshots out to connected spectators.
type Hub struct {
	mu         sync.RWMutex
	clients    map[int]*client
	register   chan *client
	unregister chan *client
	broadcast  chan ServerMessage
	nextID     int
	latest     *ServerMessage
	done       chan struct{}
	log        zerolog.Logger
}

// NewHub creates a hub. Run must be started before clients connect.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[int]*client),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan ServerMessage, 256),
		done:       make(chan struct{}),
		log:        log.With().Str("component", "feed").Logger(),
	}
}

// Run services registrations and broadcasts until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, c := range h.clients {
				delete(h.clients, id)
				close(c.send)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.id] = c
			latest := h.latest
			h.mu.Unlock()
			if latest != nil {
				c.send <- *latest
			}
			h.log.Info().Int("client", c.id).Msg("spectator connected")

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c.id]; ok {
				delete(h.clients, c.id)
				close(c.send)
			}
			h.mu.Unlock()
			h.log.Info().Int("client", c.id).Msg("spectator disconnected")

		case msg := <-h.broadcast:
			h.mu.RLock()
			for _, c := range h.clients {
				select {
				case c.send <- msg:
				default:
					h.log.Warn().Int("client", c.id).Msg("send buffer full, skipping broadcast")
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} { return h.done }

// Clients returns the number of connected spectators.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish queues a snapshot for every spectator. It never blocks the
// simulation: a full queue drops the snapshot.
func (h *Hub) Publish(s combat.Snapshot) {
	msg := ServerMessage{Type: MsgTypeSnapshot, Data: s}
	h.mu.Lock()
	h.latest = &msg
	h.mu.Unlock()
	h.enqueue(msg)
}

// PublishEvents queues combat log entries.
func (h *Hub) PublishEvents(entries []combat.CombatLogEntry) {
	if len(entries) == 0 {
		return
	}
	h.enqueue(ServerMessage{Type: MsgTypeEvent, Data: entries})
}

func (h *Hub) enqueue(msg ServerMessage) {
	select {
	case h.broadcast <- msg:
	default:
		h.log.Debug().Str("type", msg.Type).Msg("broadcast queue full, dropping")
	}
}

// HandleWebSocket upgrades a spectator connection.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.mu.Unlock()

	c := &client{id: id, conn: conn, send: make(chan ServerMessage, sendBuffer), hub: h}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Warn().Err(err).Int("client", c.id).Msg("websocket error")
			}
			return
		}
		c.handleMessage(msg)
	}
}

func (c *client) handleMessage(msg ClientMessage) {
	switch msg.Type {
	case MsgTypeRequest:
		c.hub.mu.RLock()
		latest := c.hub.latest
		c.hub.mu.RUnlock()
		if latest == nil {
			return
		}
		c.trySend(*latest)
	default:
		c.trySend(ServerMessage{Type: MsgTypeError, Data: "unknown message type: " + msg.Type})
	}
}

// trySend queues msg unless the hub has already closed this client.
func (c *client) trySend(msg ServerMessage) {
	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	if _, ok := c.hub.clients[c.id]; !ok {
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
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
