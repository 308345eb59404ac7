package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `{
	"events": [
		{
			"id": "401703504",
			"name": "The Masters",
			"competitions": [
				{
					"id": "1",
					"competitors": [
						{
							"athlete": {"displayName": "Scottie Scheffler"},
							"score": "-7",
							"status": {"position": {"displayValue": "1"}, "thru": 18},
							"linescores": [{"value": -3}],
							"statistics": [{"name": "world_ranking", "value": 1}]
						},
						{
							"athlete": {"displayName": "Jordan Spieth"},
							"score": "+8",
							"status": {"position": {"displayValue": "CUT"}, "thru": "F"},
							"linescores": [],
							"statistics": []
						}
					]
				}
			]
		}
	]
}`

func TestPlayersFetchesAndNormalizes(t *testing.T) {
	var gotAccept, gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleFeed))
	}))
	defer server.Close()

	client := NewESPNClient(5*time.Second, logrus.New())
	players, err := client.Players(context.Background(), server.URL)
	require.NoError(t, err)
	require.Len(t, players, 2)

	assert.Equal(t, "application/json", gotAccept)
	assert.Contains(t, gotUserAgent, "golf-sweepstakes")

	assert.Equal(t, "Scottie Scheffler", players[0].Name)
	assert.Equal(t, "-7", players[0].CurrentScore)
	assert.Equal(t, "-3", players[0].Today)
	assert.Equal(t, "18", players[0].Thru)
	assert.Equal(t, 1, players[0].WorldRanking)
	assert.False(t, players[0].MissedCut)

	assert.Equal(t, "Jordan Spieth", players[1].Name)
	assert.True(t, players[1].MissedCut)
}

func TestPlayersUpstreamStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewESPNClient(5*time.Second, logrus.New())
	_, err := client.Players(context.Background(), server.URL)
	require.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestPlayersMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client := NewESPNClient(5*time.Second, logrus.New())
	_, err := client.Players(context.Background(), server.URL)
	require.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestPlayersMissingEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"leagues": []}`))
	}))
	defer server.Close()

	client := NewESPNClient(5*time.Second, logrus.New())
	_, err := client.Players(context.Background(), server.URL)
	require.ErrorIs(t, err, ErrUpstreamDataInvalid)
}

func TestPlayersEmptyEventsIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"events": []}`))
	}))
	defer server.Close()

	client := NewESPNClient(5*time.Second, logrus.New())
	players, err := client.Players(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Empty(t, players)
}

func TestPlayersPerformsSingleRequest(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewESPNClient(5*time.Second, logrus.New())
	_, err := client.Players(context.Background(), server.URL)
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
