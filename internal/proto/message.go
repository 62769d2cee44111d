package proto

import "encoding/json"

// Inbound is the envelope for events coming from the client.
type Inbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Outbound is the envelope for events sent to the client.
// Data is forwarded verbatim from the originating payload.
type Outbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error *Error          `json:"error,omitempty"`
}

// Client -> server event names.
const (
	EventAuthenticate  = "authenticate"
	EventJoinChat      = "join_chat"
	EventLeaveChat     = "leave_chat"
	EventNewChat       = "new_chat"
	EventMessagesRead  = "messages_read"
	EventSendMessage   = "send_message"
	EventDeleteMessage = "delete_message"
	EventEditMessage   = "edit_message"
	EventUpdateProfile = "update_profile"
	EventDeleteAccount = "delete_account"
)

// Server -> client event names. Room-scoped mutations reuse the inbound
// name; update_profile goes out under both the legacy and current names.
const (
	EventReceiveMessage = "receive_message"
	EventSidebarUpdate  = "sidebar_update"
	EventProfileUpdated = "profile_updated"
	EventAccountDeleted = "account_deleted"
	EventError          = "error"
)

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

// Ref is an entity reference that arrives either as a bare id string or as
// a populated object carrying _id. Clients are inconsistent about which
// form they send; the shape is resolved once here and never re-inspected.
type Ref struct {
	ID string
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		r.ID = ""
		return nil
	}
	if data[0] == '"' {
		return json.Unmarshal(data, &r.ID)
	}
	var obj struct {
		ID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	r.ID = obj.ID
	return nil
}

func (r Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ID)
}

// AuthenticateData binds a connection to an identity. Older clients send a
// bare user id string; newer ones send an object, optionally with a signed
// token that takes precedence over the claimed id.
type AuthenticateData struct {
	UserID string
	Token  string
}

func (d *AuthenticateData) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &d.UserID)
	}
	var obj struct {
		UserID Ref    `json:"userId"`
		Token  string `json:"token"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	d.UserID = obj.UserID.ID
	d.Token = obj.Token
	return nil
}

// RoomData names a chat room, as a bare id string or {chatId}.
type RoomData struct {
	ChatID string
}

func (d *RoomData) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &d.ChatID)
	}
	var obj struct {
		ChatID Ref `json:"chatId"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	d.ChatID = obj.ChatID.ID
	return nil
}

// MessageData extracts the routing fields of a message payload. The rest of
// the payload is opaque and forwarded verbatim.
type MessageData struct {
	ID     Ref `json:"_id"`
	Chat   Ref `json:"chat"`
	Sender Ref `json:"sender"`
}

// NewChatData announces a freshly created conversation.
type NewChatData struct {
	ChatID   Ref `json:"chatId"`
	SenderID Ref `json:"senderId"`
}

// MessagesReadData marks a room as read by a user.
type MessagesReadData struct {
	ChatID Ref `json:"chatId"`
	UserID Ref `json:"userId"`
}

// DeleteMessageData identifies a message to remove from a room.
type DeleteMessageData struct {
	ID     Ref `json:"_id"`
	ChatID Ref `json:"chatId"`
}

// ProfileData extracts the user id from a profile payload.
type ProfileData struct {
	ID Ref `json:"_id"`
}

// DeleteAccountData names the account being removed.
type DeleteAccountData struct {
	UserID Ref `json:"userId"`
}
