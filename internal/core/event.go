package core

import "encoding/json"

// EventKind is a notification the core fans out to connections.
type EventKind int

const (
	// EventReceiveMessage delivers a new message to a room's viewers.
	EventReceiveMessage EventKind = iota
	// EventSidebarUpdate updates a participant's chat list on their personal channel.
	EventSidebarUpdate
	// EventNewChat announces a created conversation to all connections.
	EventNewChat
	// EventMessagesRead clears unread badges for a room's viewers.
	EventMessagesRead
	// EventEditMessage replaces a message in a room. Last writer wins.
	EventEditMessage
	// EventDeleteMessage removes a message from a room.
	EventDeleteMessage
	// EventProfileUpdateLegacy is the profile broadcast under its old name,
	// kept for clients that predate the rename.
	EventProfileUpdateLegacy
	// EventProfileUpdated is the profile broadcast under its current name.
	EventProfileUpdated
	// EventAccountDeleted tells every connection an account is gone.
	EventAccountDeleted
)

// Event is an immutable fan-out unit. Data is the originating payload,
// forwarded verbatim. Room is set for room-scoped events and doubles as the
// supersede key for sidebar updates under backpressure.
type Event struct {
	Kind EventKind
	Room string
	Data json.RawMessage
}

// Droppable reports whether the event may be discarded when a connection's
// outbound queue overflows. Account deletions must always arrive.
func (k EventKind) Droppable() bool {
	return k != EventAccountDeleted
}
