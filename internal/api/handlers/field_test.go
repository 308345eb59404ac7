package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfoudy/golf-sweepstakes/internal/api/middleware"
	"github.com/sfoudy/golf-sweepstakes/internal/golf"
)

type stubFeed struct {
	players []golf.PlayerRecord
	calls   int
	lastURL string
}

func (s *stubFeed) Players(ctx context.Context, tournament golf.Tournament) []golf.PlayerRecord {
	s.calls++
	s.lastURL = tournament.FeedURL
	return s.players
}

func fieldRouter(feed FeedSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.CORS([]string{"*"}))
	handler := NewFieldHandler(feed, logrus.New())
	router.GET("/api/v1/field", handler.GetField)
	return router
}

func TestGetFieldReturnsPlayers(t *testing.T) {
	feed := &stubFeed{players: []golf.PlayerRecord{
		{ID: "scottie_scheffler", Name: "Scottie Scheffler", CurrentScore: "-7", Position: "1"},
	}}
	router := fieldRouter(feed)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/field?tournament=masters", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp FieldResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Error)
	require.Len(t, resp.Players, 1)
	assert.Equal(t, "Scottie Scheffler", resp.Players[0].Name)
	assert.Equal(t, 1, feed.calls)
	assert.Contains(t, feed.lastURL, "espn.com")
}

func TestGetFieldInvalidTournamentStillHTTP200(t *testing.T) {
	feed := &stubFeed{}
	router := fieldRouter(feed)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/field?tournament=cricket", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp FieldResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Invalid tournament type", resp.Error)
	assert.NotNil(t, resp.Players)
	assert.Empty(t, resp.Players)
	assert.Equal(t, 0, feed.calls, "invalid id must not touch the feed")
}

func TestGetFieldMissingTournamentParam(t *testing.T) {
	router := fieldRouter(&stubFeed{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/field", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp FieldResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
}

func TestGetFieldDegradedFeedStillSucceeds(t *testing.T) {
	// A feed with nothing cached and a dead upstream hands back an empty
	// list; the envelope still reports success so clients keep polling.
	feed := &stubFeed{players: []golf.PlayerRecord{}}
	router := fieldRouter(feed)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/field?tournament=us_open", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp FieldResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Players)
}

func TestFieldPreflight(t *testing.T) {
	router := fieldRouter(&stubFeed{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/field", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "GET")
}
