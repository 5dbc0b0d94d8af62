package ws

import (
	"encoding/json"
	"sync"
)

// Client is one live-feed connection.
type Client struct {
	Send   chan []byte
	hub    *FeedHub
	mu     sync.Mutex
	closed bool
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
	if c.hub != nil {
		c.hub.unregister(c)
	}
}

// trySend delivers a message without blocking. It holds c.mu for the send,
// and Close only closes Send under the same lock, so a concurrent Close can
// never turn this into a send on a closed channel.
func (c *Client) trySend(msg []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- msg:
	default:
	}
}

// FeedHub fans completed-donation events out to transparency dashboard
// clients. The feed is best-effort: slow clients drop messages instead of
// backing up the ledger.
type FeedHub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewFeedHub() *FeedHub {
	return &FeedHub{clients: make(map[*Client]struct{})}
}

func (h *FeedHub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.hub = h
	h.clients[c] = struct{}{}
}

func (h *FeedHub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
}

func (h *FeedHub) Broadcast(payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		c.trySend(data)
	}
}

func (h *FeedHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
