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

	"github.com/sfoudy/golf-sweepstakes/internal/models"
	"github.com/sfoudy/golf-sweepstakes/internal/services"
	"github.com/sfoudy/golf-sweepstakes/pkg/database"
	"github.com/sfoudy/golf-sweepstakes/pkg/utils"
)

// ParticipantHandler manages entrants and their four picks.
type ParticipantHandler struct {
	db     *database.DB
	cache  *services.CacheService
	logger *logrus.Logger
}

func NewParticipantHandler(db *database.DB, cache *services.CacheService, logger *logrus.Logger) *ParticipantHandler {
	return &ParticipantHandler{
		db:     db,
		cache:  cache,
		logger: logger,
	}
}

type participantRequest struct {
	Username    string   `json:"username" binding:"required,max=60"`
	PlayerNames []string `json:"player_names" binding:"required"`
}

func validateSelections(names []string) error {
	if len(names) != models.SelectionsPerParticipant {
		return fmt.Errorf("exactly %d player selections required, got %d", models.SelectionsPerParticipant, len(names))
	}
	for _, name := range names {
		if name == "" {
			return fmt.Errorf("player names must not be empty")
		}
	}
	return nil
}

// AddParticipant enters a new participant with exactly four picks into an
// unlocked competition.
func (h *ParticipantHandler) AddParticipant(c *gin.Context) {
	competitionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendValidationError(c, "Invalid competition id", c.Param("id"))
		return
	}

	var req participantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if err := validateSelections(req.PlayerNames); err != nil {
		utils.SendValidationError(c, "Invalid selections", err.Error())
		return
	}

	var competition models.Competition
	if err := h.db.First(&competition, "id = ?", competitionID).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		utils.SendNotFound(c, "Competition not found")
		return
	} else if err != nil {
		utils.SendInternalError(c, "Failed to fetch competition")
		return
	}

	if competition.Locked(time.Now()) {
		utils.SendError(c, http.StatusConflict, utils.NewAppError(utils.ErrCodeLocked, "Competition is locked", "the tournament has started"))
		return
	}

	participant := models.Participant{
		CompetitionID: competitionID,
		Username:      req.Username,
	}
	for _, name := range req.PlayerNames {
		participant.PlayerSelections = append(participant.PlayerSelections, models.PlayerSelection{
			PlayerName: name,
		})
	}

	if err := h.db.Create(&participant).Error; err != nil {
		h.logger.Errorf("Failed to add participant: %v", err)
		utils.SendInternalError(c, "Failed to add participant")
		return
	}

	h.invalidate(c, competitionID)
	utils.SendCreated(c, participant)
}

// UpdateParticipant renames an entrant and replaces their picks, as long as
// the competition has not locked.
func (h *ParticipantHandler) UpdateParticipant(c *gin.Context) {
	participantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendValidationError(c, "Invalid participant id", c.Param("id"))
		return
	}

	var req participantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if err := validateSelections(req.PlayerNames); err != nil {
		utils.SendValidationError(c, "Invalid selections", err.Error())
		return
	}

	participant, competition, ok := h.loadParticipant(c, participantID)
	if !ok {
		return
	}

	if competition.Locked(time.Now()) {
		utils.SendError(c, http.StatusConflict, utils.NewAppError(utils.ErrCodeLocked, "Competition is locked", "the tournament has started"))
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&participant).Update("username", req.Username).Error; err != nil {
			return err
		}
		if err := tx.Where("participant_id = ?", participantID).Delete(&models.PlayerSelection{}).Error; err != nil {
			return err
		}
		for _, name := range req.PlayerNames {
			selection := models.PlayerSelection{ParticipantID: participantID, PlayerName: name}
			if err := tx.Create(&selection).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		h.logger.Errorf("Failed to update participant %s: %v", participantID, err)
		utils.SendInternalError(c, "Failed to update participant")
		return
	}

	h.invalidate(c, participant.CompetitionID)

	updated, _, ok := h.loadParticipant(c, participantID)
	if !ok {
		return
	}
	utils.SendSuccess(c, updated)
}

// DeleteParticipant removes an entrant and their picks.
func (h *ParticipantHandler) DeleteParticipant(c *gin.Context) {
	participantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendValidationError(c, "Invalid participant id", c.Param("id"))
		return
	}

	participant, _, ok := h.loadParticipant(c, participantID)
	if !ok {
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("participant_id = ?", participantID).Delete(&models.PlayerSelection{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Participant{}, "id = ?", participantID).Error
	})
	if err != nil {
		h.logger.Errorf("Failed to delete participant %s: %v", participantID, err)
		utils.SendInternalError(c, "Failed to delete participant")
		return
	}

	h.invalidate(c, participant.CompetitionID)
	utils.SendSuccess(c, gin.H{"deleted": participantID})
}

func (h *ParticipantHandler) loadParticipant(c *gin.Context, id uuid.UUID) (models.Participant, models.Competition, bool) {
	var participant models.Participant
	err := h.db.Preload("PlayerSelections").First(&participant, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.SendNotFound(c, "Participant not found")
		return participant, models.Competition{}, false
	}
	if err != nil {
		h.logger.Errorf("Failed to fetch participant %s: %v", id, err)
		utils.SendInternalError(c, "Failed to fetch participant")
		return participant, models.Competition{}, false
	}

	var competition models.Competition
	if err := h.db.First(&competition, "id = ?", participant.CompetitionID).Error; err != nil {
		h.logger.Errorf("Failed to fetch competition for participant %s: %v", id, err)
		utils.SendInternalError(c, "Failed to fetch competition")
		return participant, competition, false
	}

	return participant, competition, true
}

func (h *ParticipantHandler) invalidate(c *gin.Context, competitionID uuid.UUID) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Delete(c.Request.Context(), services.CompetitionCacheKey(competitionID.String())); err != nil {
		h.logger.Warnf("Failed to invalidate competition cache %s: %v", competitionID, err)
	}
}
