package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sfoudy/golf-sweepstakes/internal/golf"
	"github.com/sfoudy/golf-sweepstakes/internal/models"
	"github.com/sfoudy/golf-sweepstakes/internal/services"
	"github.com/sfoudy/golf-sweepstakes/pkg/database"
)

func setupHandlerDB(t *testing.T) *database.DB {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = gormDB.AutoMigrate(&models.Competition{}, &models.Participant{}, &models.PlayerSelection{})
	require.NoError(t, err)

	return &database.DB{DB: gormDB}
}

func seedCompetition(t *testing.T, db *database.DB) models.Competition {
	t.Helper()

	comp := models.Competition{
		Title:      "Masters Pool",
		MajorType:  "masters",
		StartDate:  time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 4, 13, 0, 0, 0, 0, time.UTC),
		AccessCode: "MSTRS1",
		CreatedBy:  "user-1",
		Participants: []models.Participant{
			{
				Username: "alice",
				PlayerSelections: []models.PlayerSelection{
					{PlayerName: "Scottie Scheffler"},
					{PlayerName: "Rory McIlroy"},
				},
			},
			{
				Username: "bob",
				PlayerSelections: []models.PlayerSelection{
					{PlayerName: "Jon Rahm"},
					{PlayerName: "Unknown Golfer"},
				},
			},
		},
	}
	require.NoError(t, db.Create(&comp).Error)
	return comp
}

type leaderboardPayload struct {
	Success bool `json:"success"`
	Data    struct {
		CompetitionID string              `json:"competition_id"`
		MajorType     string              `json:"major_type"`
		Standings     []services.Standing `json:"standings"`
	} `json:"data"`
}

func TestGetLeaderboardRanksParticipants(t *testing.T) {
	db := setupHandlerDB(t)
	comp := seedCompetition(t, db)

	feed := &stubFeed{players: []golf.PlayerRecord{
		{ID: "scottie_scheffler", Name: "Scottie Scheffler", CurrentScore: "-4"},
		{ID: "rory_mcilroy", Name: "Rory McIlroy", CurrentScore: "-1"},
		{ID: "jon_rahm", Name: "Jon Rahm", CurrentScore: "+2"},
	}}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewCompetitionHandler(db, nil, feed, services.NewMockSMSService(logrus.New()), logrus.New())
	router.GET("/api/v1/competitions/:id/leaderboard", handler.GetLeaderboard)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/competitions/"+comp.ID.String()+"/leaderboard", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var payload leaderboardPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.True(t, payload.Success)
	assert.Equal(t, "masters", payload.Data.MajorType)
	require.Len(t, payload.Data.Standings, 2)

	// alice: -4 + -1 = -5, bob: +2 + 0 (no live match) = +2.
	assert.Equal(t, "alice", payload.Data.Standings[0].Username)
	assert.Equal(t, -5, payload.Data.Standings[0].TotalScore)
	assert.Equal(t, 1, payload.Data.Standings[0].Rank)
	assert.Equal(t, "bob", payload.Data.Standings[1].Username)
	assert.Equal(t, 2, payload.Data.Standings[1].TotalScore)
	assert.Equal(t, 2, payload.Data.Standings[1].Rank)
}

func TestGetLeaderboardUnknownCompetition(t *testing.T) {
	db := setupHandlerDB(t)

	feed := &stubFeed{}
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewCompetitionHandler(db, nil, feed, services.NewMockSMSService(logrus.New()), logrus.New())
	router.GET("/api/v1/competitions/:id/leaderboard", handler.GetLeaderboard)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/competitions/0b774e91-8d00-4a34-a408-7a795ae1b938/leaderboard", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 0, feed.calls)
}
