package ws

import (
	"encoding/json"
	"sync"
)

// Client represents a single WebSocket connection with user context.
type Client struct {
	Username string
	Send     chan []byte
	Hub      *EventHub
	mu       sync.Mutex
	closed   bool
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
	if c.Hub != nil {
		c.Hub.unregister(c)
	}
}

// EventHub fans dashboard events (sales, plan changes) out to the owning
// user's live connections. A user can have multiple connections open.
type EventHub struct {
	mu         sync.RWMutex
	clients    map[*Client]struct{}
	byUsername map[string]map[*Client]struct{}
}

func NewEventHub() *EventHub {
	return &EventHub{
		clients:    make(map[*Client]struct{}),
		byUsername: make(map[string]map[*Client]struct{}),
	}
}

func (h *EventHub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.Hub = h
	h.clients[c] = struct{}{}
	if h.byUsername[c.Username] == nil {
		h.byUsername[c.Username] = make(map[*Client]struct{})
	}
	h.byUsername[c.Username][c] = struct{}{}
}

func (h *EventHub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
	if m := h.byUsername[c.Username]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.byUsername, c.Username)
		}
	}
}

// PublishToUser sends the event to every open connection of the user.
// Slow consumers are skipped rather than blocking the caller.
func (h *EventHub) PublishToUser(username string, event interface{}) {
	data, _ := json.Marshal(event)
	h.mu.RLock()
	m := h.byUsername[username]
	if m == nil {
		h.mu.RUnlock()
		return
	}
	clients := make([]*Client, 0, len(m))
	for c := range m {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		select {
		case c.Send <- data:
		default:
		}
	}
}

func (h *EventHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
