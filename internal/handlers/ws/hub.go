package ws

import "sync"

// Hub tracks the live connection for each player. It implements
// game.Notifier: a notified connection sends its player a fresh snapshot.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*client
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{clients: make(map[string]*client)}
}

// Notify asks the player's connection to push a snapshot. Notifications
// coalesce while one is already waiting.
func (h *Hub) Notify(playerID string) {
	h.mu.Lock()
	c, ok := h.clients[playerID]
	h.mu.Unlock()
	if !ok {
		return
	}

	select {
	case c.refresh <- struct{}{}:
	default:
	}
}

// Connected reports whether the player has a live connection
func (h *Hub) Connected(playerID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.clients[playerID]
	return ok
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.playerID] = c
}

// unregister removes c only if it is still the player's current connection
func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.playerID] == c {
		delete(h.clients, c.playerID)
	}
}
