// file: websocket/hub.go
package websocket

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"go-event-admin/logger"
)

// Notice tells open pages that a resource list changed.
type Notice struct {
	Action string `json:"action"`
}

// Hub owns the set of open connections. All mutation happens on the Run
// goroutine.
type Hub struct {
	connections    map[*Connection]bool
	register       chan *Connection
	unregister     chan *Connection
	broadcast      chan []byte
	done           chan struct{}
	count          atomic.Int64
	upgraderOrigin string
}

// NewHub builds a hub; allowedOrigin restricts websocket upgrades.
func NewHub(allowedOrigin string) *Hub {
	return &Hub{
		connections:    make(map[*Connection]bool),
		register:       make(chan *Connection),
		unregister:     make(chan *Connection),
		broadcast:      make(chan []byte, 64),
		done:           make(chan struct{}),
		upgraderOrigin: allowedOrigin,
	}
}

// Run serves register, unregister and broadcast until ctx ends.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.connections {
				h.drop(c)
			}
			return

		case c := <-h.register:
			h.connections[c] = true
			h.count.Add(1)
			logger.Debug.Printf("[hub] connection from %v, %d open", c.conn.RemoteAddr(), len(h.connections))

		case c := <-h.unregister:
			if h.connections[c] {
				h.drop(c)
			}

		case msg := <-h.broadcast:
			for c := range h.connections {
				select {
				case c.send <- msg:
				default:
					logger.Warn.Printf("[hub] dropping slow connection %v", c.conn.RemoteAddr())
					h.drop(c)
				}
			}
		}
	}
}

func (h *Hub) leave(c *Connection) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) drop(c *Connection) {
	delete(h.connections, c)
	close(c.send)
	h.count.Add(-1)
}

// Count is the number of open connections.
func (h *Hub) Count() int {
	return int(h.count.Load())
}

// Notify announces that resource changed, e.g. "events" sends
// {"action":"eventsChanged"}. It never blocks the caller.
func (h *Hub) Notify(resource string) {
	msg, err := json.Marshal(Notice{Action: resource + "Changed"})
	if err != nil {
		logger.Error.Printf("[hub] marshalling notice: %v", err)
		return
	}
	select {
	case h.broadcast <- msg:
		logger.Debug.Printf("[hub] notice %s queued", msg)
	default:
		logger.Warn.Printf("[hub] broadcast queue full, dropping %s", msg)
	}
}
