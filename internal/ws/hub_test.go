package ws

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastDeliversToRegisteredClients(t *testing.T) {
	hub := NewFeedHub()
	c := &Client{Send: make(chan []byte, 1)}
	hub.Register(c)

	hub.Broadcast(map[string]int64{"amount": 5000})

	select {
	case msg := <-c.Send:
		assert.Contains(t, string(msg), "5000")
	default:
		t.Fatal("expected a broadcast message")
	}
}

func TestBroadcastSkipsSlowClients(t *testing.T) {
	hub := NewFeedHub()
	c := &Client{Send: make(chan []byte, 1)}
	hub.Register(c)

	hub.Broadcast("first")
	hub.Broadcast("second") // buffer full, dropped rather than blocking

	require.Len(t, c.Send, 1)
	msg := <-c.Send
	assert.Contains(t, string(msg), "first")
}

func TestBroadcastAfterClose(t *testing.T) {
	hub := NewFeedHub()
	c := &Client{Send: make(chan []byte, 1)}
	hub.Register(c)
	c.Close()

	assert.NotPanics(t, func() { hub.Broadcast("payload") })
	assert.Zero(t, hub.ClientCount())
}

func TestBroadcastRacingClose(t *testing.T) {
	hub := NewFeedHub()
	clients := make([]*Client, 0, 8)
	for i := 0; i < 8; i++ {
		c := &Client{Send: make(chan []byte, 4)}
		hub.Register(c)
		clients = append(clients, c)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				hub.Broadcast("payload")
			}
		}()
	}
	for _, c := range clients {
		wg.Add(1)
		go func(c *Client) {
			defer wg.Done()
			c.Close()
		}(c)
	}
	wg.Wait()

	assert.Zero(t, hub.ClientCount())
}
