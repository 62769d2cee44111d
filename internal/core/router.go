package core

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/chatline/chatline-server/internal/store"
)

// Dispatch routes one normalized command. c is the originating connection,
// or nil when the CRUD layer triggers a fan-out directly. All failures are
// handled here: nothing terminates a connection, nothing propagates.
//
// Fan-out is best effort by design. The durable write already happened (or
// failed) in the persistence layer before the event reached this core; a
// client that misses a live update recovers through its own pull-based
// refresh.
func (h *Hub) Dispatch(ctx context.Context, c *Conn, cmd *Command) {
	if cmd.Kind == CommandAuthenticate {
		h.handleAuthenticate(c, cmd)
		return
	}

	// Every other event needs a bound identity when it originates from a
	// client connection. Unauthenticated events are dropped silently.
	if c != nil && c.Identity() == "" {
		h.log.Debug().
			Str("conn_id", c.ID()).
			Int("kind", int(cmd.Kind)).
			Str("code", ErrCodeAuthRequired).
			Msg("event from unauthenticated connection ignored")
		return
	}

	switch cmd.Kind {
	case CommandJoinRoom:
		if c == nil || cmd.Room == "" {
			return
		}
		h.rooms.Join(c, cmd.Room)
		h.log.Debug().Str("conn_id", c.ID()).Str("room", cmd.Room).Msg("joined room")

	case CommandLeaveRoom:
		if c == nil || cmd.Room == "" {
			return
		}
		h.rooms.Leave(c, cmd.Room)
		h.log.Debug().Str("conn_id", c.ID()).Str("room", cmd.Room).Msg("left room")

	case CommandSendMessage:
		h.handleSendMessage(ctx, c, cmd)

	case CommandNewChat:
		h.handleNewChat(ctx, cmd)

	case CommandMessagesRead:
		h.fanToRoom(cmd.Room, &Event{Kind: EventMessagesRead, Room: cmd.Room, Data: cmd.Data})

	case CommandEditMessage:
		h.fanToRoom(cmd.Room, &Event{Kind: EventEditMessage, Room: cmd.Room, Data: cmd.Data})

	case CommandDeleteMessage:
		h.fanToRoom(cmd.Room, &Event{Kind: EventDeleteMessage, Room: cmd.Room, Data: cmd.Data})

	case CommandUpdateProfile:
		// Emitted under both names until old clients age out.
		h.presence.BroadcastAll(&Event{Kind: EventProfileUpdateLegacy, Data: cmd.Data})
		h.presence.BroadcastAll(&Event{Kind: EventProfileUpdated, Data: cmd.Data})
		h.log.Info().Str("user", cmd.Identity).Msg("profile update broadcast")

	case CommandDeleteAccount:
		h.presence.BroadcastAll(&Event{Kind: EventAccountDeleted, Data: cmd.Data})
		h.log.Info().Str("user", cmd.Identity).Msg("account deletion broadcast")
	}
}

// handleAuthenticate binds the connection to its identity. Re-authenticating
// with the same identity is a no-op success; a different identity is
// rejected and the original binding kept.
func (h *Hub) handleAuthenticate(c *Conn, cmd *Command) {
	if c == nil || cmd.Identity == "" {
		return
	}

	if err := h.registry.Register(c, cmd.Identity); err != nil {
		h.log.Warn().
			Str("conn_id", c.ID()).
			Str("identity", cmd.Identity).
			Str("code", ErrCodeAlreadyBound).
			Msg("rejected rebind to different identity")
		return
	}
	h.log.Debug().Str("conn_id", c.ID()).Str("identity", cmd.Identity).Msg("authenticated")
}

// handleSendMessage delivers the message to the room's viewers, then pushes
// a sidebar update to every other participant's personal channel so chat
// lists stay current for users not viewing the room.
func (h *Hub) handleSendMessage(ctx context.Context, c *Conn, cmd *Command) {
	if cmd.Room == "" {
		h.log.Debug().Str("code", ErrCodeBadRequest).Msg("message without resolvable room id dropped")
		return
	}

	h.fanToRoom(cmd.Room, &Event{Kind: EventReceiveMessage, Room: cmd.Room, Data: cmd.Data})

	sender := cmd.Sender
	if sender == "" && c != nil {
		sender = c.Identity()
	}

	conv, err := h.conversations.GetConversation(ctx, cmd.Room)
	if err != nil {
		h.logLookupFailure(cmd.Room, err)
		return
	}

	ev := &Event{Kind: EventSidebarUpdate, Room: cmd.Room, Data: cmd.Data}
	for _, participant := range conv.ParticipantIDs() {
		if participant == sender {
			continue
		}
		for _, conn := range h.registry.ConnectionsFor(participant) {
			conn.Enqueue(ev)
		}
	}
}

// handleNewChat resolves the conversation, participants included, and
// broadcasts it to every connection. The creating client cannot know which
// of the other participant's connections are live, so everyone is told;
// acceptable at this scale.
func (h *Hub) handleNewChat(ctx context.Context, cmd *Command) {
	if cmd.Room == "" {
		return
	}

	conv, err := h.conversations.GetConversation(ctx, cmd.Room)
	if err != nil {
		h.logLookupFailure(cmd.Room, err)
		return
	}

	data, err := json.Marshal(conv)
	if err != nil {
		h.log.Error().Err(err).Str("room", cmd.Room).Msg("encode conversation")
		return
	}

	h.presence.BroadcastAll(&Event{Kind: EventNewChat, Data: data})
	h.log.Debug().Str("room", cmd.Room).Msg("new chat broadcast")
}

func (h *Hub) fanToRoom(room string, ev *Event) {
	if room == "" {
		return
	}
	for _, c := range h.rooms.MembersOf(room) {
		c.Enqueue(ev)
	}
}

// logLookupFailure records a skipped fan-out. No retry: the durable write
// succeeded or failed independently, and the client's next fetch catches up.
func (h *Hub) logLookupFailure(room string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		h.log.Warn().Str("room", room).Str("code", ErrCodeUnknownRoom).Msg("fan-out skipped, conversation not found")
		return
	}
	h.log.Error().Err(err).Str("room", room).Msg("fan-out skipped, conversation lookup failed")
}
