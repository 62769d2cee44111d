package http

import (
	"context"
	"errors"
	"io"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/chatline/chatline-server/internal/auth"
	"github.com/chatline/chatline-server/internal/config"
	"github.com/chatline/chatline-server/internal/core"
	"github.com/chatline/chatline-server/internal/proto"
)

// WSHandler upgrades HTTP connections and bridges them to the fan-out core.
type WSHandler struct {
	hub       *core.Hub
	verifier  *auth.Verifier
	origins   []string
	allowAll  bool
	rateLimit int
	log       *zerolog.Logger
}

// NewWSHandler builds the WebSocket endpoint handler.
func NewWSHandler(hub *core.Hub, verifier *auth.Verifier, cfg config.Config, logger *zerolog.Logger) *WSHandler {
	h := &WSHandler{
		hub:       hub,
		verifier:  verifier,
		rateLimit: cfg.RateLimit,
		log:       logger,
	}
	for _, origin := range cfg.AllowedOrigins {
		if origin == "*" {
			h.allowAll = true
			continue
		}
		h.origins = append(h.origins, origin)
	}
	return h
}

// Handle runs one WebSocket session to completion.
func (h *WSHandler) Handle(c *gin.Context) {
	ctx := c.Request.Context()

	wsConn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		OriginPatterns:     h.origins,
		InsecureSkipVerify: h.allowAll,
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("ws accept error")
		return
	}
	defer wsConn.Close(websocket.StatusInternalError, "internal error")

	conn := h.hub.NewConn()
	defer h.hub.Disconnect(conn)

	// Tokens handed over at upgrade time bind the identity before any
	// event is read.
	if token := c.Query("token"); token != "" && h.verifier != nil {
		if identity, verifyErr := h.verifier.Verify(token); verifyErr == nil {
			h.hub.Dispatch(ctx, conn, &core.Command{Kind: core.CommandAuthenticate, Identity: identity})
		} else {
			h.log.Debug().Err(verifyErr).Str("conn_id", conn.ID()).Msg("upgrade token rejected")
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, wsConn, conn)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, wsConn, conn)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, core.ErrConnClosed) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Str("conn_id", conn.ID()).Msg("ws connection closed with error")
		}
	}

	wsConn.Close(status, reason)
}

func (h *WSHandler) readLoop(ctx context.Context, wsConn *websocket.Conn, conn *core.Conn) error {
	limiter := newRateLimiter(h.rateLimit)

	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, wsConn, &inbound); err != nil {
			return err
		}

		if !limiter.allow() {
			h.log.Debug().Str("conn_id", conn.ID()).Str("event", inbound.Event).Msg("rate limit exceeded, event dropped")
			continue
		}

		cmd, protoErr := inboundToCommand(inbound, h.verifier)
		if protoErr != nil {
			if writeErr := wsjson.Write(ctx, wsConn, proto.Outbound{
				Event: proto.EventError,
				Error: protoErr,
			}); writeErr != nil {
				return writeErr
			}
			continue
		}

		h.hub.Dispatch(ctx, conn, cmd)
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, wsConn *websocket.Conn, conn *core.Conn) error {
	for {
		ev, err := conn.Next(ctx)
		if err != nil {
			return err
		}
		if err := wsjson.Write(ctx, wsConn, outboundFromEvent(ev)); err != nil {
			h.log.Debug().Err(err).Str("conn_id", conn.ID()).Msg("write ws event")
			return err
		}
	}
}
