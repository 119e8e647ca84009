// Package telemetry publishes the controller's per-cycle status records to
// monitoring clients over websockets and optionally captures them to a CSV
// file for post-flight analysis.
package telemetry

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

const (
	socketBufferSize  = 1024
	messageBufferSize = 16
)

// Room fans status messages out to every connected monitoring client.
type Room struct {
	// forward holds serialized status records to be sent to all clients.
	forward chan []byte
	join    chan *client
	leave   chan *client
	clients map[*client]bool
}

// NewRoom makes a room ready to run.
func NewRoom() *Room {
	return &Room{
		forward: make(chan []byte, messageBufferSize),
		join:    make(chan *client),
		leave:   make(chan *client),
		clients: make(map[*client]bool),
	}
}

// Forward queues a serialized record for broadcast. Drops the record if the
// room is backed up; telemetry is monitoring-only and must never stall the
// control loop.
func (r *Room) Forward(msg []byte) {
	select {
	case r.forward <- msg:
	default:
	}
}

// Run services joins, leaves and broadcasts until the process exits.
func (r *Room) Run() {
	for {
		select {
		case c := <-r.join:
			r.clients[c] = true
			log.Println("Telemetry: new client joined")
		case c := <-r.leave:
			delete(r.clients, c)
			close(c.send)
			log.Println("Telemetry: client left")
		case msg := <-r.forward:
			for c := range r.clients {
				select {
				case c.send <- msg:
				default:
					// slow client; skip this record
				}
			}
		}
	}
}

var upgrader = &websocket.Upgrader{
	ReadBufferSize:  socketBufferSize,
	WriteBufferSize: socketBufferSize,
}

// ServeHTTP upgrades a monitoring connection and attaches it to the room.
func (r *Room) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	socket, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.Println("Telemetry: upgrade failed:", err)
		return
	}
	c := &client{
		socket: socket,
		send:   make(chan []byte, messageBufferSize),
		room:   r,
	}
	r.join <- c
	defer func() { r.leave <- c }()
	go c.write()
	c.read()
}
