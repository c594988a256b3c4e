// Package realtime fans table change notifications out to in-process listeners and websocket clients.
package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"kambafy/internal/pkg/metrics"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
	sendBuffer = 64
)

const (
	ChannelOrders           = "orders"
	ChannelCheckoutSessions = "checkout_sessions"
)

const (
	EventInsert   = "INSERT"
	EventUpdate   = "UPDATE"
	EventSnapshot = "snapshot"
)

// Event is a change notification pushed on a named channel.
type Event struct {
	Type    string `json:"type"`
	Channel string `json:"channel"`
	Payload any    `json:"payload,omitempty"`
}

type Listener func(Event)

type listenerEntry struct {
	id int
	fn Listener
}

// connection represents a single WebSocket client
type connection struct {
	conn     *websocket.Conn
	send     chan []byte
	channels map[string]bool
}

// Hub manages channel listeners and websocket connections.
type Hub struct {
	mu          sync.RWMutex
	nextID      int
	listeners   map[string][]listenerEntry
	connections map[*connection]struct{}
	upgrader    websocket.Upgrader
	log         zerolog.Logger
}

// NewHub accepts websocket upgrades from allowedOrigins; an empty list allows any origin.
func NewHub(allowedOrigins []string, log zerolog.Logger) *Hub {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}
	return &Hub{
		listeners:   make(map[string][]listenerEntry),
		connections: make(map[*connection]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(origins) == 0 || origin == "" || origins[origin]
			},
		},
		log: log.With().Str("component", "realtime").Logger(),
	}
}

// Subscribe registers fn on channel and returns the function that removes it.
func (h *Hub) Subscribe(channel string, fn Listener) (unsubscribe func()) {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.listeners[channel] = append(h.listeners[channel], listenerEntry{id: id, fn: fn})
	h.mu.Unlock()
	metrics.RealtimeSubscribers.WithLabelValues(channel).Inc()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			entries := h.listeners[channel]
			for i, e := range entries {
				if e.id == id {
					h.listeners[channel] = append(entries[:i:i], entries[i+1:]...)
					break
				}
			}
			if len(h.listeners[channel]) == 0 {
				delete(h.listeners, channel)
			}
			h.mu.Unlock()
			metrics.RealtimeSubscribers.WithLabelValues(channel).Dec()
		})
	}
}

func (h *Hub) ListenerCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners[channel])
}

// Publish delivers the event to listeners synchronously and to websocket clients without blocking.
func (h *Hub) Publish(channel, eventType string, payload any) {
	ev := Event{Type: eventType, Channel: channel, Payload: payload}

	h.mu.RLock()
	fns := make([]Listener, 0, len(h.listeners[channel]))
	for _, e := range h.listeners[channel] {
		fns = append(fns, e.fn)
	}
	h.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}

	data, err := json.Marshal(ev)
	if err != nil {
		h.log.Error().Err(err).Str("channel", channel).Msg("marshal event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.connections {
		if c.channels[channel] {
			select {
			case c.send <- data:
			default:
				// slow client
			}
		}
	}
}

// ServeHTTP upgrades the request and subscribes the client to channels.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request, channels []string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	h.ServeWS(conn, channels)
}

// ServeWS registers a connection and blocks until it disconnects.
// Clients may not subscribe to channels beyond the ones granted here.
func (h *Hub) ServeWS(conn *websocket.Conn, channels []string) {
	c := &connection{
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		channels: make(map[string]bool, len(channels)),
	}
	for _, ch := range channels {
		c.channels[ch] = true
	}

	h.register(c)

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c] = struct{}{}
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.connections[c]; ok {
		delete(h.connections, c)
		close(c.send)
	}
}

func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Inbound frames are only read to keep the connection alive.
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *Hub) writePump(c *connection) {
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
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
