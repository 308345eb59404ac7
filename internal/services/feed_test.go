package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfoudy/golf-sweepstakes/internal/golf"
)

// fakeProvider fails a configurable number of times before succeeding.
type fakeProvider struct {
	calls    int
	failures int
	players  []golf.PlayerRecord
}

func (p *fakeProvider) Players(ctx context.Context, url string) ([]golf.PlayerRecord, error) {
	p.calls++
	if p.calls <= p.failures {
		return nil, errors.New("upstream down")
	}
	return p.players, nil
}

var testTournament = golf.Tournament{
	ID:      "masters",
	Name:    "The Masters",
	FeedURL: "http://example.test/leaderboard",
}

func testFeedConfig() FeedConfig {
	return FeedConfig{
		TTL:        30 * time.Second,
		MaxRetries: 3,
		RetryDelay: time.Millisecond,
	}
}

func somePlayers() []golf.PlayerRecord {
	return []golf.PlayerRecord{
		{ID: "scottie_scheffler", Name: "Scottie Scheffler", CurrentScore: "-7"},
		{ID: "rory_mcilroy", Name: "Rory McIlroy", CurrentScore: "-4"},
	}
}

func TestPlayersRetriesUntilSuccess(t *testing.T) {
	provider := &fakeProvider{failures: 2, players: somePlayers()}
	feed := NewFeedService(provider, nil, logrus.New(), testFeedConfig())

	players := feed.Players(context.Background(), testTournament)

	assert.Equal(t, 3, provider.calls)
	assert.Equal(t, somePlayers(), players)
}

func TestPlayersExhaustedRetriesFallBackToStaleCache(t *testing.T) {
	provider := &fakeProvider{players: somePlayers()}
	config := testFeedConfig()
	config.TTL = time.Millisecond
	feed := NewFeedService(provider, nil, logrus.New(), config)

	// Populate the cache, then let it go stale and kill the upstream.
	feed.Players(context.Background(), testTournament)
	time.Sleep(5 * time.Millisecond)
	provider.failures = 1000

	players := feed.Players(context.Background(), testTournament)

	assert.Equal(t, somePlayers(), players, "stale cache beats an empty answer")
	assert.Equal(t, 1+config.MaxRetries, provider.calls)
}

func TestPlayersNoCacheNoUpstreamReturnsEmptyList(t *testing.T) {
	provider := &fakeProvider{failures: 1000}
	feed := NewFeedService(provider, nil, logrus.New(), testFeedConfig())

	players := feed.Players(context.Background(), testTournament)

	require.NotNil(t, players)
	assert.Empty(t, players)
	assert.Equal(t, 3, provider.calls)
}

func TestPlayersFreshCacheShortCircuitsFetch(t *testing.T) {
	provider := &fakeProvider{players: somePlayers()}
	feed := NewFeedService(provider, nil, logrus.New(), testFeedConfig())

	first := feed.Players(context.Background(), testTournament)
	second := feed.Players(context.Background(), testTournament)

	assert.Equal(t, 1, provider.calls, "second call within TTL must not hit upstream")
	assert.Equal(t, first, second)
}

func TestPlayersExpiredCacheTriggersNewFetch(t *testing.T) {
	provider := &fakeProvider{players: somePlayers()}
	config := testFeedConfig()
	config.TTL = time.Millisecond
	feed := NewFeedService(provider, nil, logrus.New(), config)

	feed.Players(context.Background(), testTournament)
	time.Sleep(5 * time.Millisecond)
	feed.Players(context.Background(), testTournament)

	assert.Equal(t, 2, provider.calls)
}

func TestRefreshBypassesFreshCache(t *testing.T) {
	provider := &fakeProvider{players: somePlayers()}
	feed := NewFeedService(provider, nil, logrus.New(), testFeedConfig())

	feed.Players(context.Background(), testTournament)
	players, ok := feed.Refresh(context.Background(), testTournament)

	require.True(t, ok)
	assert.Equal(t, somePlayers(), players)
	assert.Equal(t, 2, provider.calls)

	// The refreshed copy serves subsequent polls.
	feed.Players(context.Background(), testTournament)
	assert.Equal(t, 2, provider.calls)
}

func TestRefreshFailureLeavesCacheIntact(t *testing.T) {
	provider := &fakeProvider{players: somePlayers()}
	feed := NewFeedService(provider, nil, logrus.New(), testFeedConfig())

	feed.Players(context.Background(), testTournament)
	provider.failures = 1000

	_, ok := feed.Refresh(context.Background(), testTournament)
	require.False(t, ok)

	players := feed.Players(context.Background(), testTournament)
	assert.Equal(t, somePlayers(), players)
}

func TestAge(t *testing.T) {
	provider := &fakeProvider{players: somePlayers()}
	feed := NewFeedService(provider, nil, logrus.New(), testFeedConfig())

	_, ok := feed.Age(testTournament.ID)
	assert.False(t, ok, "nothing cached yet")

	feed.Players(context.Background(), testTournament)

	age, ok := feed.Age(testTournament.ID)
	require.True(t, ok)
	assert.Less(t, age, time.Second)
}
