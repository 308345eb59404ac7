package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sfoudy/golf-sweepstakes/internal/api/handlers"
	"github.com/sfoudy/golf-sweepstakes/internal/api/middleware"
	"github.com/sfoudy/golf-sweepstakes/internal/services"
	"github.com/sfoudy/golf-sweepstakes/pkg/config"
	"github.com/sfoudy/golf-sweepstakes/pkg/database"
)

// SetupRoutes configures all API routes on the given router group.
func SetupRoutes(group *gin.RouterGroup, db *database.DB, cache *services.CacheService, feed *services.FeedService, sms services.SMSService, cfg *config.Config, logger *logrus.Logger) {
	fieldHandler := handlers.NewFieldHandler(feed, logger)
	competitionHandler := handlers.NewCompetitionHandler(db, cache, feed, sms, logger)
	participantHandler := handlers.NewParticipantHandler(db, cache, logger)

	// Live tournament field, polled by every open dashboard.
	group.GET("/field", middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst), fieldHandler.GetField)

	// Tournament schedule
	group.GET("/tournaments", handlers.ListTournaments)

	// Public competition reads (access via share links needs no account)
	group.GET("/competitions/:id", competitionHandler.GetCompetition)
	group.GET("/competitions/:id/leaderboard", competitionHandler.GetLeaderboard)
	group.GET("/competitions/code/:code", competitionHandler.GetCompetitionByCode)

	// Participant entry is open until the competition locks
	group.POST("/competitions/:id/participants", participantHandler.AddParticipant)
	group.PUT("/participants/:id", participantHandler.UpdateParticipant)
	group.DELETE("/participants/:id", participantHandler.DeleteParticipant)

	// Organizer routes
	auth := group.Group("")
	auth.Use(middleware.AuthRequired(cfg.JWTSecret))
	{
		auth.GET("/competitions", competitionHandler.ListCompetitions)
		auth.POST("/competitions", competitionHandler.CreateCompetition)
		auth.DELETE("/competitions/:id", competitionHandler.DeleteCompetition)
		auth.POST("/competitions/:id/share", competitionHandler.ShareCompetition)
	}
}
