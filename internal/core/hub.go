package core

import (
	"github.com/rs/zerolog"

	"github.com/chatline/chatline-server/internal/store"
)

// Hub owns the fan-out state for a single process: the identity registry,
// the room membership index, and the broadcaster over both. Transports and
// the CRUD layer's trigger points receive an explicit *Hub; there is no
// shared singleton to import.
type Hub struct {
	registry      *Registry
	rooms         *Rooms
	presence      *Presence
	conversations store.ConversationStore
	queueSize     int
	log           *zerolog.Logger
}

// NewHub wires the fan-out core. conversations is the read-only persistence
// collaborator used to resolve participant lists; queueSize bounds each
// connection's outbound queue.
func NewHub(conversations store.ConversationStore, logger *zerolog.Logger, queueSize int) *Hub {
	rooms := NewRooms()
	registry := NewRegistry(rooms)
	return &Hub{
		registry:      registry,
		rooms:         rooms,
		presence:      NewPresence(registry),
		conversations: conversations,
		queueSize:     queueSize,
		log:           logger,
	}
}

// NewConn creates a connection handle for a fresh transport session.
func (h *Hub) NewConn() *Conn {
	return NewConn(h.queueSize)
}

// Disconnect tears a connection down: identity binding, room memberships,
// and the outbound queue. Fan-outs already enqueued to other connections
// are unaffected.
func (h *Hub) Disconnect(c *Conn) {
	h.registry.Unregister(c)
	c.Close()
	h.log.Debug().Str("conn_id", c.ID()).Msg("connection closed")
}

// Registry exposes the identity index.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// Rooms exposes the membership index.
func (h *Hub) Rooms() *Rooms {
	return h.rooms
}

// Presence exposes the broadcast-to-all layer.
func (h *Hub) Presence() *Presence {
	return h.presence
}
