package realtime

import (
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// Client is one live connection as the hub sees it.
type Client interface {
	SendJSON(v interface{}) error
	Close()
}

// wsClient wraps a websocket connection with a write lock, since fiber's
// websocket conns do not allow concurrent writers.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func NewClient(conn *websocket.Conn) Client {
	return &wsClient{conn: conn}
}

func (c *wsClient) SendJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *wsClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.Close()
}
