package notifier

import (
	"sync"

	"github.com/philippseith/signalr"
	"go.uber.org/zap"

	"github.com/cardkeeper/card-indexer/internal/logger"
)

// Registry tracks the live hub connections
type Registry struct {
	mu    sync.RWMutex
	conns map[string]struct{}
}

// NewRegistry creates an empty connection registry
func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]struct{})}
}

// Add marks a connection as live
func (r *Registry) Add(connectionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[connectionID] = struct{}{}
}

// Remove forgets a connection
func (r *Registry) Remove(connectionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, connectionID)
}

// IsConnected reports whether a connection is live
func (r *Registry) IsConnected(connectionID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.conns[connectionID]
	return ok
}

// Count returns the number of live connections
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// Hub is the SignalR hub clients connect to for completion events.
// Its connection id is the socket id clients pass when requesting a harvest.
type Hub struct {
	signalr.Hub
	registry *Registry
}

// NewHub creates a hub that records connections in registry
func NewHub(registry *Registry) *Hub {
	return &Hub{registry: registry}
}

// OnConnected is called by the hub server when a client connects
func (h *Hub) OnConnected(connectionID string) {
	h.registry.Add(connectionID)
	logger.Debug("Client connected", zap.String("connectionId", connectionID))
}

// OnDisconnected is called by the hub server when a client disconnects
func (h *Hub) OnDisconnected(connectionID string) {
	h.registry.Remove(connectionID)
	logger.Debug("Client disconnected", zap.String("connectionId", connectionID))
}
