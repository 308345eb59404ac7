package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sfoudy/golf-sweepstakes/internal/services"
)

// HealthHandler reports process liveness and refresher status.
type HealthHandler struct {
	refresher *services.FeedRefresher
}

func NewHealthHandler(refresher *services.FeedRefresher) *HealthHandler {
	return &HealthHandler{refresher: refresher}
}

func (h *HealthHandler) GetHealth(c *gin.Context) {
	payload := gin.H{
		"status": "ok",
		"time":   time.Now().UTC(),
	}
	if h.refresher != nil {
		payload["refresher"] = h.refresher.Status()
	}
	c.JSON(http.StatusOK, payload)
}
