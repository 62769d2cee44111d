package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/chatline/chatline-server/internal/auth"
	"github.com/chatline/chatline-server/internal/config"
	"github.com/chatline/chatline-server/internal/core"
)

// ErrorResponse is the JSON body for HTTP-level failures.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewServer builds the HTTP server: health, the WebSocket endpoint, and the
// internal notify route the CRUD layer uses to trigger fan-outs.
func NewServer(hub *core.Hub, verifier *auth.Verifier, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/health", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})

	wsHandler := NewWSHandler(hub, verifier, cfg, logger)
	router.GET("/ws", wsHandler.Handle)

	notify := NewNotifyHandler(hub, logger)
	internal := router.Group("/internal", AuthMiddleware(verifier, logger))
	internal.POST("/notify", notify.Handle)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
