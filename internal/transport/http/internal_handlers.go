package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/chatline/chatline-server/internal/core"
	"github.com/chatline/chatline-server/internal/proto"
)

// NotifyHandler lets the CRUD layer trigger fan-outs after a durable write,
// e.g. the file-upload completion handler announcing an attachment message.
// It receives an explicit hub handle; there is no shared socket singleton.
type NotifyHandler struct {
	hub *core.Hub
	log *zerolog.Logger
}

// NewNotifyHandler builds the internal notify endpoint.
func NewNotifyHandler(hub *core.Hub, logger *zerolog.Logger) *NotifyHandler {
	return &NotifyHandler{hub: hub, log: logger}
}

// Handle accepts the same envelope the WebSocket endpoint reads and
// dispatches it without an originating connection.
func (h *NotifyHandler) Handle(c *gin.Context) {
	var inbound proto.Inbound
	if err := c.ShouldBindJSON(&inbound); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "malformed envelope"})
		return
	}

	cmd, protoErr := inboundToCommand(inbound, nil)
	if protoErr != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: protoErr.Msg})
		return
	}

	// Connection-scoped events make no sense without a connection.
	switch cmd.Kind {
	case core.CommandAuthenticate, core.CommandJoinRoom, core.CommandLeaveRoom:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "connection-scoped event"})
		return
	}

	h.hub.Dispatch(c.Request.Context(), nil, cmd)
	h.log.Debug().Str("event", inbound.Event).Msg("internal fan-out dispatched")

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}
