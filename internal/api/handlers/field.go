package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sfoudy/golf-sweepstakes/internal/golf"
)

// FeedSource serves the freshest available player list for a tournament.
// It never fails; degraded upstreams surface as stale or empty data.
type FeedSource interface {
	Players(ctx context.Context, tournament golf.Tournament) []golf.PlayerRecord
}

// FieldResponse is the envelope the dashboard polls. Always HTTP 200: the
// client treats transport and logical failure uniformly and just keeps
// polling on its own interval, so upstream trouble must not turn into
// status-code special cases.
type FieldResponse struct {
	Success bool                `json:"success"`
	Players []golf.PlayerRecord `json:"players"`
	Error   string              `json:"error,omitempty"`
}

// FieldHandler serves the live tournament field.
type FieldHandler struct {
	feed   FeedSource
	logger *logrus.Logger
}

func NewFieldHandler(feed FeedSource, logger *logrus.Logger) *FieldHandler {
	return &FieldHandler{
		feed:   feed,
		logger: logger,
	}
}

// GetField handles GET /field?tournament=<id>.
func (h *FieldHandler) GetField(c *gin.Context) {
	id := c.Query("tournament")

	tournament, ok := golf.Tournaments[id]
	if !ok {
		h.logger.Warnf("Field request for unknown tournament %q", id)
		c.JSON(http.StatusOK, FieldResponse{
			Success: false,
			Players: []golf.PlayerRecord{},
			Error:   "Invalid tournament type",
		})
		return
	}

	players := h.feed.Players(c.Request.Context(), tournament)
	c.JSON(http.StatusOK, FieldResponse{
		Success: true,
		Players: players,
	})
}
