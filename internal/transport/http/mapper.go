package http

import (
	"encoding/json"

	"github.com/chatline/chatline-server/internal/auth"
	"github.com/chatline/chatline-server/internal/core"
	"github.com/chatline/chatline-server/internal/proto"
)

// inboundToCommand normalizes a wire envelope into a canonical command.
// Payload shape ambiguity (bare ids vs populated objects) ends here; the
// router never re-inspects raw payloads. A non-nil *proto.Error means the
// envelope was understood but rejected; the connection stays up.
func inboundToCommand(inbound proto.Inbound, verifier *auth.Verifier) (*core.Command, *proto.Error) {
	switch inbound.Event {
	case proto.EventAuthenticate:
		var data proto.AuthenticateData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, badPayload(inbound.Event)
		}
		identity := data.UserID
		if data.Token != "" && verifier != nil {
			verified, err := verifier.Verify(data.Token)
			if err != nil {
				return nil, &proto.Error{Code: "invalid_token", Msg: "token verification failed"}
			}
			identity = verified
		}
		if identity == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "identity is required"}
		}
		return &core.Command{Kind: core.CommandAuthenticate, Identity: identity}, nil

	case proto.EventJoinChat, proto.EventLeaveChat:
		var data proto.RoomData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, badPayload(inbound.Event)
		}
		if data.ChatID == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "chat id is required"}
		}
		kind := core.CommandJoinRoom
		if inbound.Event == proto.EventLeaveChat {
			kind = core.CommandLeaveRoom
		}
		return &core.Command{Kind: kind, Room: data.ChatID}, nil

	case proto.EventNewChat:
		var data proto.NewChatData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, badPayload(inbound.Event)
		}
		if data.ChatID.ID == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "chat id is required"}
		}
		return &core.Command{
			Kind:   core.CommandNewChat,
			Room:   data.ChatID.ID,
			Sender: data.SenderID.ID,
		}, nil

	case proto.EventMessagesRead:
		var data proto.MessagesReadData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, badPayload(inbound.Event)
		}
		return &core.Command{
			Kind:     core.CommandMessagesRead,
			Room:     data.ChatID.ID,
			Identity: data.UserID.ID,
			Data:     inbound.Data,
		}, nil

	case proto.EventSendMessage, proto.EventEditMessage:
		var data proto.MessageData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, badPayload(inbound.Event)
		}
		kind := core.CommandSendMessage
		if inbound.Event == proto.EventEditMessage {
			kind = core.CommandEditMessage
		}
		return &core.Command{
			Kind:   kind,
			Room:   data.Chat.ID,
			Sender: data.Sender.ID,
			Data:   inbound.Data,
		}, nil

	case proto.EventDeleteMessage:
		var data proto.DeleteMessageData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, badPayload(inbound.Event)
		}
		return &core.Command{
			Kind: core.CommandDeleteMessage,
			Room: data.ChatID.ID,
			Data: inbound.Data,
		}, nil

	case proto.EventUpdateProfile:
		var data proto.ProfileData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, badPayload(inbound.Event)
		}
		return &core.Command{
			Kind:     core.CommandUpdateProfile,
			Identity: data.ID.ID,
			Data:     inbound.Data,
		}, nil

	case proto.EventDeleteAccount:
		var data proto.DeleteAccountData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, badPayload(inbound.Event)
		}
		return &core.Command{
			Kind:     core.CommandDeleteAccount,
			Identity: data.UserID.ID,
			Data:     inbound.Data,
		}, nil

	default:
		return nil, &proto.Error{Code: "invalid_event", Msg: "unknown event name"}
	}
}

func badPayload(event string) *proto.Error {
	return &proto.Error{Code: core.ErrCodeBadRequest, Msg: "malformed payload for " + event}
}

// outboundFromEvent maps a core event to its wire envelope.
func outboundFromEvent(ev *core.Event) proto.Outbound {
	return proto.Outbound{Event: eventName(ev.Kind), Data: ev.Data}
}

func eventName(kind core.EventKind) string {
	switch kind {
	case core.EventReceiveMessage:
		return proto.EventReceiveMessage
	case core.EventSidebarUpdate:
		return proto.EventSidebarUpdate
	case core.EventNewChat:
		return proto.EventNewChat
	case core.EventMessagesRead:
		return proto.EventMessagesRead
	case core.EventEditMessage:
		return proto.EventEditMessage
	case core.EventDeleteMessage:
		return proto.EventDeleteMessage
	case core.EventProfileUpdateLegacy:
		return proto.EventUpdateProfile
	case core.EventProfileUpdated:
		return proto.EventProfileUpdated
	case core.EventAccountDeleted:
		return proto.EventAccountDeleted
	default:
		return proto.EventError
	}
}
