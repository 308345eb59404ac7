package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/sfoudy/golf-sweepstakes/internal/api/middleware"
	"github.com/sfoudy/golf-sweepstakes/internal/golf"
	"github.com/sfoudy/golf-sweepstakes/internal/models"
	"github.com/sfoudy/golf-sweepstakes/internal/services"
	"github.com/sfoudy/golf-sweepstakes/pkg/database"
	"github.com/sfoudy/golf-sweepstakes/pkg/utils"
)

// CompetitionHandler handles competition CRUD, sharing and the leaderboard.
type CompetitionHandler struct {
	db     *database.DB
	cache  *services.CacheService
	feed   FeedSource
	sms    services.SMSService
	logger *logrus.Logger
}

func NewCompetitionHandler(db *database.DB, cache *services.CacheService, feed FeedSource, sms services.SMSService, logger *logrus.Logger) *CompetitionHandler {
	return &CompetitionHandler{
		db:     db,
		cache:  cache,
		feed:   feed,
		sms:    sms,
		logger: logger,
	}
}

type createCompetitionRequest struct {
	Title     string `json:"title" binding:"required,max=120"`
	MajorType string `json:"major_type" binding:"required"`
}

// CreateCompetition creates a sweepstake for one of the known majors. The
// tournament dates come from the fixed schedule, not the client.
func (h *CompetitionHandler) CreateCompetition(c *gin.Context) {
	var req createCompetitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	tournament, ok := golf.Tournaments[req.MajorType]
	if !ok {
		utils.SendValidationError(c, "Invalid tournament type", req.MajorType)
		return
	}

	competition := models.Competition{
		Title:      req.Title,
		MajorType:  tournament.ID,
		StartDate:  tournament.StartDate,
		EndDate:    tournament.EndDate,
		AccessCode: models.GenerateAccessCode(),
		CreatedBy:  middleware.UserID(c),
	}

	// Access codes are short; retry once on the off chance of a collision.
	err := h.db.Create(&competition).Error
	if err != nil {
		competition.AccessCode = models.GenerateAccessCode()
		err = h.db.Create(&competition).Error
	}
	if err != nil {
		h.logger.Errorf("Failed to create competition: %v", err)
		utils.SendInternalError(c, "Failed to create competition")
		return
	}

	utils.SendCreated(c, competition)
}

// ListCompetitions returns the caller's competitions, newest first.
func (h *CompetitionHandler) ListCompetitions(c *gin.Context) {
	var competitions []models.Competition
	err := h.db.
		Where("created_by = ?", middleware.UserID(c)).
		Order("created_at DESC").
		Find(&competitions).Error
	if err != nil {
		h.logger.Errorf("Failed to list competitions: %v", err)
		utils.SendInternalError(c, "Failed to list competitions")
		return
	}

	utils.SendSuccess(c, competitions)
}

// GetCompetition returns one competition with participants and selections.
// Reads go through the shared cache; participant mutations invalidate it.
func (h *CompetitionHandler) GetCompetition(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendValidationError(c, "Invalid competition id", c.Param("id"))
		return
	}

	if h.cache != nil {
		var cached models.Competition
		if err := h.cache.Get(c.Request.Context(), services.CompetitionCacheKey(id.String()), &cached); err == nil {
			utils.SendSuccess(c, cached)
			return
		}
	}

	competition, ok := h.loadCompetition(c, id)
	if !ok {
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(c.Request.Context(), services.CompetitionCacheKey(id.String()), competition, 10*time.Second); err != nil {
			h.logger.Warnf("Failed to cache competition %s: %v", id, err)
		}
	}

	utils.SendSuccess(c, competition)
}

// GetCompetitionByCode resolves a share link's access code.
func (h *CompetitionHandler) GetCompetitionByCode(c *gin.Context) {
	code := c.Param("code")

	var competition models.Competition
	err := h.db.
		Preload("Participants.PlayerSelections").
		Where("access_code = ?", code).
		First(&competition).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.SendNotFound(c, "Competition not found")
		return
	}
	if err != nil {
		h.logger.Errorf("Failed to fetch competition by code: %v", err)
		utils.SendInternalError(c, "Failed to fetch competition")
		return
	}

	utils.SendSuccess(c, competition)
}

// DeleteCompetition removes a competition the caller owns, with its
// participants and selections.
func (h *CompetitionHandler) DeleteCompetition(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendValidationError(c, "Invalid competition id", c.Param("id"))
		return
	}

	var competition models.Competition
	if err := h.db.First(&competition, "id = ?", id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		utils.SendNotFound(c, "Competition not found")
		return
	} else if err != nil {
		utils.SendInternalError(c, "Failed to fetch competition")
		return
	}

	if competition.CreatedBy != middleware.UserID(c) {
		utils.SendForbidden(c, "Only the organizer can delete a competition")
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("participant_id IN (?)",
			tx.Model(&models.Participant{}).Select("id").Where("competition_id = ?", id),
		).Delete(&models.PlayerSelection{}).Error; err != nil {
			return err
		}
		if err := tx.Where("competition_id = ?", id).Delete(&models.Participant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&competition).Error
	})
	if err != nil {
		h.logger.Errorf("Failed to delete competition %s: %v", id, err)
		utils.SendInternalError(c, "Failed to delete competition")
		return
	}

	h.invalidate(c, id)
	utils.SendSuccess(c, gin.H{"deleted": id})
}

// GetLeaderboard joins every participant's picks against the live feed and
// returns the ranked standings. Computed fresh per request; the live data
// behind it is what the feed cache makes of the upstream at this moment.
func (h *CompetitionHandler) GetLeaderboard(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendValidationError(c, "Invalid competition id", c.Param("id"))
		return
	}

	competition, ok := h.loadCompetition(c, id)
	if !ok {
		return
	}

	tournament, exists := golf.Tournaments[competition.MajorType]
	if !exists {
		utils.SendInternalError(c, "Competition references an unknown tournament")
		return
	}

	players := h.feed.Players(c.Request.Context(), tournament)
	standings := services.BuildLeaderboard(competition.Participants, players)

	utils.SendSuccess(c, gin.H{
		"competition_id": competition.ID,
		"major_type":     competition.MajorType,
		"standings":      standings,
	})
}

type shareCompetitionRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
}

// ShareCompetition texts the access code to a phone number.
func (h *CompetitionHandler) ShareCompetition(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendValidationError(c, "Invalid competition id", c.Param("id"))
		return
	}

	var req shareCompetitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	var competition models.Competition
	if err := h.db.First(&competition, "id = ?", id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		utils.SendNotFound(c, "Competition not found")
		return
	} else if err != nil {
		utils.SendInternalError(c, "Failed to fetch competition")
		return
	}

	message := fmt.Sprintf("You're invited to %q! Join with code %s.", competition.Title, competition.AccessCode)
	if err := h.sms.SendMessage(req.PhoneNumber, message); err != nil {
		h.logger.Warnf("Failed to send invite for %s: %v", id, err)
		utils.SendError(c, http.StatusTooManyRequests, utils.NewAppError(utils.ErrCodeRateLimited, "Could not send invite", err.Error()))
		return
	}

	utils.SendSuccess(c, gin.H{"sent": true})
}

func (h *CompetitionHandler) loadCompetition(c *gin.Context, id uuid.UUID) (models.Competition, bool) {
	var competition models.Competition
	err := h.db.
		Preload("Participants", func(db *gorm.DB) *gorm.DB {
			return db.Order("participants.created_at ASC")
		}).
		Preload("Participants.PlayerSelections", func(db *gorm.DB) *gorm.DB {
			return db.Order("player_selections.created_at ASC")
		}).
		First(&competition, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.SendNotFound(c, "Competition not found")
		return competition, false
	}
	if err != nil {
		h.logger.Errorf("Failed to fetch competition %s: %v", id, err)
		utils.SendInternalError(c, "Failed to fetch competition")
		return competition, false
	}
	return competition, true
}

func (h *CompetitionHandler) invalidate(c *gin.Context, id uuid.UUID) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Delete(c.Request.Context(), services.CompetitionCacheKey(id.String())); err != nil {
		h.logger.Warnf("Failed to invalidate competition cache %s: %v", id, err)
	}
}
