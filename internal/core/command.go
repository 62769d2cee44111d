package core

import "encoding/json"

// CommandKind describes what the client (or the CRUD layer, through the
// internal trigger) wants the fan-out core to do.
type CommandKind int

const (
	// CommandAuthenticate binds the connection to an identity.
	CommandAuthenticate CommandKind = iota
	// CommandJoinRoom subscribes the connection to a room.
	CommandJoinRoom
	// CommandLeaveRoom unsubscribes the connection from a room.
	CommandLeaveRoom
	// CommandNewChat announces a created conversation to everyone.
	CommandNewChat
	// CommandMessagesRead tells a room's viewers the sender caught up.
	CommandMessagesRead
	// CommandSendMessage fans a message out to a room and its participants.
	CommandSendMessage
	// CommandEditMessage rebroadcasts an edited message to a room.
	CommandEditMessage
	// CommandDeleteMessage tells a room's viewers a message is gone.
	CommandDeleteMessage
	// CommandUpdateProfile broadcasts a profile change to everyone.
	CommandUpdateProfile
	// CommandDeleteAccount broadcasts an account removal to everyone.
	CommandDeleteAccount
)

// Command is the canonical form of an inbound event. Payload shape
// ambiguity is resolved at the transport boundary; from here on only these
// fields drive routing. Data carries the original payload for delivery.
type Command struct {
	Kind     CommandKind
	Identity string // authenticate target, reader, or deleted account
	Room     string // room id; conversation id for new_chat
	Sender   string // message sender identity
	Data     json.RawMessage
}
