package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/sfoudy/golf-sweepstakes/internal/services"
)

// WebSocketHandler upgrades dashboard connections and hands them to the hub.
type WebSocketHandler struct {
	hub      *services.WebSocketHub
	logger   *logrus.Logger
	upgrader websocket.Upgrader
}

func NewWebSocketHandler(hub *services.WebSocketHub, logger *logrus.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The API already allows all configured origins via CORS; the
			// feed data is public, so websocket upgrades follow suit.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warnf("WebSocket upgrade failed: %v", err)
		return
	}
	h.hub.NewClient(conn)
}
