// Package realtime delivers new direct messages to connected browsers over
// websockets, replacing the hosted realtime channel the web client used to
// subscribe to.
package realtime

import (
	"sync"

	"github.com/gorilla/websocket"
)

// client serializes writes to one socket. gorilla/websocket allows at most
// one concurrent writer per connection.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) write(message []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, message)
}

type Hub struct {
	mu    sync.RWMutex
	users map[string][]*client
}

func NewHub() *Hub {
	return &Hub{
		users: make(map[string][]*client),
	}
}

func (h *Hub) Add(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.users[userID] = append(h.users[userID], &client{conn: conn})
}

func (h *Hub) Remove(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients := h.users[userID]
	for i, c := range clients {
		if c.conn == conn {
			h.users[userID] = append(clients[:i], clients[i+1:]...)
			break
		}
	}
	if len(h.users[userID]) == 0 {
		delete(h.users, userID)
	}
}

// Send writes the message to every open connection for the user. Writes to a
// single socket go through its mutex, so any number of handlers may deliver
// to the same receiver at once. Dead connections are skipped; the read loop
// removes them on its next error.
func (h *Hub) Send(userID string, message []byte) {
	h.mu.RLock()
	clients := make([]*client, len(h.users[userID]))
	copy(clients, h.users[userID])
	h.mu.RUnlock()

	for _, c := range clients {
		_ = c.write(message)
	}
}

// ConnCount reports how many sockets a user currently holds.
func (h *Hub) ConnCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}
