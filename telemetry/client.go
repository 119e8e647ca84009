package telemetry

import (
	"github.com/gorilla/websocket"
)

// client is one connected monitoring consumer.
type client struct {
	socket *websocket.Conn
	send   chan []byte
	room   *Room
}

// read drains (and discards) inbound frames until the peer hangs up; the
// status stream is one-way.
func (c *client) read() {
	for {
		if _, _, err := c.socket.ReadMessage(); err != nil {
			break
		}
	}
	c.socket.Close()
}

func (c *client) write() {
	for msg := range c.send {
		if err := c.socket.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
	c.socket.Close()
}
