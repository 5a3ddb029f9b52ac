// Package websockets is the session gateway: it owns client connections,
// turns inbound frames into game operations and fans game events back out.
package websockets

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/scythe504/bluffr-backend/internal"
)

// Hub tracks live connections and which rooms they follow. Delivery never
// blocks: a connection whose send buffer is full is dropped instead.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*Connection
	rooms map[string]map[string]bool
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[string]*Connection),
		rooms: make(map[string]map[string]bool),
	}
}

func (h *Hub) register(c *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c.ID] = c

	log.Debug().Str("conn", c.ID).Int("total_connections", len(h.conns)).Msg("connection registered")
}

// unregister forgets c and closes its send channel, which makes the write
// pump close the socket. Safe to call more than once.
func (h *Hub) unregister(c *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.conns[c.ID]; !ok {
		return
	}
	delete(h.conns, c.ID)
	for code, members := range h.rooms {
		delete(members, c.ID)
		if len(members) == 0 {
			delete(h.rooms, code)
		}
	}
	close(c.send)

	log.Debug().Str("conn", c.ID).Int("total_connections", len(h.conns)).Msg("connection unregistered")
}

// Subscribe adds connID to the room's broadcast group.
func (h *Hub) Subscribe(roomCode, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.conns[connID]; !ok {
		return
	}
	if h.rooms[roomCode] == nil {
		h.rooms[roomCode] = make(map[string]bool)
	}
	h.rooms[roomCode][connID] = true
}

// CloseRoom drops the room's broadcast group. Connections stay open.
func (h *Hub) CloseRoom(roomCode string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms, roomCode)
}

func (h *Hub) BroadcastToRoom(roomCode string, event internal.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("event_type", event.Type).Msg("failed to marshal event for broadcast")
		return
	}

	h.mu.RLock()
	members := h.rooms[roomCode]
	var slow []*Connection
	for id := range members {
		if c := h.conns[id]; c != nil && !c.enqueue(data) {
			slow = append(slow, c)
		}
	}
	delivered := len(members) - len(slow)
	h.mu.RUnlock()

	h.dropSlow(slow)
	log.Debug().Str("event_type", event.Type).Str("room", roomCode).Int("connections", delivered).
		Msg("event broadcasted")
}

func (h *Hub) SendTo(connID string, event internal.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("event_type", event.Type).Msg("failed to marshal event")
		return
	}
	h.deliver(connID, data)
}

func (h *Hub) deliver(connID string, data []byte) {
	h.mu.RLock()
	c := h.conns[connID]
	ok := c == nil || c.enqueue(data)
	h.mu.RUnlock()

	if !ok {
		h.dropSlow([]*Connection{c})
	}
}

func (h *Hub) dropSlow(conns []*Connection) {
	for _, c := range conns {
		log.Warn().Str("conn", c.ID).Msg("connection send buffer full, closing connection")
		h.unregister(c)
	}
}

func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Close disconnects every client. Used on shutdown, since hijacked websocket
// connections are not closed by http.Server.Shutdown.
func (h *Hub) Close() {
	h.mu.RLock()
	conns := make([]*Connection, 0, len(h.conns))
	for _, c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		h.unregister(c)
	}
	log.Info().Int("connections", len(conns)).Msg("hub closed")
}
