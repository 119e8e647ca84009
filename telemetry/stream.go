package telemetry

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/antonellabarisic/mmuav-gazebo/control"
)

// Streamer serializes status records and hands them to a running Room.
type Streamer struct {
	room *Room
}

func NewStreamer(room *Room) *Streamer {
	return &Streamer{room: room}
}

// Publish is wired as the controller's status output callback.
func (s *Streamer) Publish(st control.Status) {
	msg, err := json.Marshal(st)
	if err != nil {
		log.Println("Telemetry: marshal failed:", err)
		return
	}
	s.room.Forward(msg)
}

// Serve runs the room and the websocket endpoint on addr. Blocks.
func Serve(addr string, room *Room) error {
	go room.Run()
	mux := http.NewServeMux()
	mux.Handle("/status", room)
	log.Println("Telemetry: serving status stream on", addr)
	return http.ListenAndServe(addr, mux)
}
