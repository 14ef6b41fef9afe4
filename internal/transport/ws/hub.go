package ws

import (
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/wagerpong/internal/model"
)

// Hub tracks live websocket clients and delivers engine notifications to them
type Hub struct {
	clients map[model.ConnID]*Client
	mu      sync.RWMutex
	logger  *slog.Logger
}

// NewHub creates a new Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[model.ConnID]*Client),
		logger:  logger.With(slog.String("component", "ws")),
	}
}

// Notify encodes a notification and queues it on the addressed client.
// It never blocks: notifications for unknown or saturated clients are dropped.
func (h *Hub) Notify(n model.Notification) {
	msg, err := Encode(n.Event, n.Payload)
	if err != nil {
		h.logger.Error("failed to encode notification",
			slog.String("event", string(n.Event)),
			slog.String("error", err.Error()))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.clients[n.To]
	if !ok {
		return
	}
	select {
	case client.send <- msg:
	default:
		h.logger.Warn("ws message dropped - client buffer full",
			slog.String("conn_id", string(n.To)),
			slog.String("event", string(n.Event)))
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client
func (h *Hub) Close() {
	h.mu.Lock()
	clientCount := len(h.clients)
	for id, client := range h.clients {
		close(client.send)
		delete(h.clients, id)
	}
	h.mu.Unlock()
	h.logger.Info("ws hub stopped", slog.Int("disconnected_clients", clientCount))
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	h.clients[client.id] = client
	clientCount := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("ws client connected",
		slog.String("conn_id", string(client.id)),
		slog.Int("total_clients", clientCount))
}

// unregister removes the client and closes its send queue.
// It returns false if the client was already gone.
func (h *Hub) unregister(client *Client) bool {
	h.mu.Lock()
	if _, ok := h.clients[client.id]; !ok {
		h.mu.Unlock()
		return false
	}
	delete(h.clients, client.id)
	close(client.send)
	clientCount := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("ws client disconnected",
		slog.String("conn_id", string(client.id)),
		slog.Duration("connection_duration", time.Since(client.connectedAt)),
		slog.Int("total_clients", clientCount))
	return true
}
