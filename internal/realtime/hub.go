// Package realtime pushes room-scoped refresh events to open dashboards.
// Delivery is best-effort: clients treat every event as a hint to re-fetch
// authoritative state over the API, so a dropped or duplicated event is
// harmless and emission never affects a committed transaction.
package realtime

import (
	"fmt"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Event is the wire payload. Clients only look at Event to decide which
// dashboard section to re-poll.
type Event struct {
	Event string `json:"event"`
}

// Hub tracks websocket clients by room. Rooms are "admin" for the admin
// dashboard and "reseller:<id>" per reseller.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex // serializes writes; gorilla allows one writer at a time
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*client]struct{})}
}

// AdminRoom is the room every admin connection joins.
const AdminRoom = "admin"

// ResellerRoom names the per-reseller room.
func ResellerRoom(resellerID int64) string {
	return fmt.Sprintf("reseller:%d", resellerID)
}

// Join registers a connection in a room and blocks, draining reads until
// the peer goes away. The caller should run it on the request goroutine.
func (h *Hub) Join(room string, conn *websocket.Conn) {
	c := &client{conn: conn}

	h.mu.Lock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*client]struct{})
	}
	h.rooms[room][c] = struct{}{}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.rooms[room], c)
		if len(h.rooms[room]) == 0 {
			delete(h.rooms, room)
		}
		h.mu.Unlock()
		conn.Close()
	}()

	// We never expect meaningful client messages; reading just detects
	// disconnects and keeps control frames flowing.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Emit sends an event to every connection in the given rooms.
// Fire-and-forget: write failures are logged and the client dropped on its
// own read loop, never propagated to the caller.
func (h *Hub) Emit(event string, rooms ...string) {
	msg := Event{Event: event}

	h.mu.RLock()
	var targets []*client
	for _, room := range rooms {
		for c := range h.rooms[room] {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		c.mu.Lock()
		err := c.conn.WriteJSON(msg)
		c.mu.Unlock()
		if err != nil {
			log.Printf("realtime: dropping event %q: %v", event, err)
		}
	}
}

// Broadcast sends an event to every connected client regardless of room,
// for changes everyone cares about (e.g. the product catalog).
func (h *Hub) Broadcast(event string) {
	h.mu.RLock()
	rooms := make([]string, 0, len(h.rooms))
	for room := range h.rooms {
		rooms = append(rooms, room)
	}
	h.mu.RUnlock()

	h.Emit(event, rooms...)
}
