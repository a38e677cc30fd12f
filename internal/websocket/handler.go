package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs handles websocket requests from the peer.
func ServeWs(hub *Hub, c *websocket.Conn) {
	client := &Client{ID: uuid.NewString(), Hub: hub, Conn: c, Send: make(chan []byte, 256)}
	client.Hub.register <- client

	// writePump runs in its own goroutine; readPump blocks the fiber
	// handler for the lifetime of the connection.
	go client.writePump()
	client.readPump()
}
