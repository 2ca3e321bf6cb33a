// file: websocket/handler.go
package websocket

import (
	"github.com/gin-gonic/gin"
	"go-event-admin/logger"
)

// ServeWs upgrades the request and attaches the page to the hub. The
// route is expected to sit behind the authentication guard.
func (h *Hub) ServeWs(c *gin.Context) {
	upgrader := newUpgrader(h.upgraderOrigin)
	wsConn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error.Printf("[ServeWs] upgrade error: %v", err)
		return
	}
	logger.Info.Printf("[ServeWs] live updates for %v", wsConn.RemoteAddr())
	h.attach(wsConn)
}

// attach registers conn and starts its pumps. Once the hub has stopped
// the connection is closed and nil is returned.
func (h *Hub) attach(conn WSConn) *Connection {
	c := &Connection{hub: h, conn: conn, send: make(chan []byte, sendBuffer)}
	select {
	case h.register <- c:
	case <-h.done:
		logger.Warn.Printf("[ServeWs] hub stopped, closing %v", conn.RemoteAddr())
		_ = conn.Close()
		return nil
	}
	go c.writePump()
	go c.readPump()
	return c
}
