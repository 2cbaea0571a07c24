package stream

import (
	"context"
	"encoding/json"
	"expvar"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var (
	wsConnectionsGauge   = expvar.NewInt("websocket_connections")
	wsEventsSentTotal    = expvar.NewInt("websocket_events_sent_total")
	wsEventsDroppedTotal = expvar.NewInt("websocket_events_dropped_total")
)

// Connection represents one admin WebSocket connection
type Connection struct {
	Conn *websocket.Conn
	Send chan []byte
}

// Hub fans dashboard events (new bookings, status changes, toasts)
// out to every connected admin client. Single instance, no external
// broker.
type Hub struct {
	connections map[*Connection]bool
	mu          sync.RWMutex

	register   chan *Connection
	unregister chan *Connection

	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub creates the event hub
func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Run starts the hub (call in goroutine)
func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case conn := <-h.register:
			h.mu.Lock()
			h.connections[conn] = true
			h.mu.Unlock()
			wsConnectionsGauge.Add(1)
			log.Debug().Msg("Admin connected to event stream")

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.connections[conn]; ok {
				delete(h.connections, conn)
				close(conn.Send)
				wsConnectionsGauge.Add(-1)
			}
			h.mu.Unlock()
			log.Debug().Msg("Admin disconnected from event stream")
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Publish broadcasts one event to all connected clients. It satisfies
// the stores' notifier interface; events that fail to marshal are
// dropped.
func (h *Hub) Publish(event interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal stream event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn := range h.connections {
		select {
		case conn.Send <- data:
			wsEventsSentTotal.Add(1)
		default:
			// Buffer full, skip this client
			wsEventsDroppedTotal.Add(1)
			log.Warn().Msg("Event stream send buffer full")
		}
	}
}

// ConnectionCount returns the number of connected clients
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// Shutdown gracefully shuts down the hub
func (h *Hub) Shutdown() {
	h.cancel()
}
