package services

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sfoudy/golf-sweepstakes/internal/golf"
)

// ScoreboardProvider fetches and normalizes a live scoreboard feed.
// One call is one upstream request.
type ScoreboardProvider interface {
	Players(ctx context.Context, url string) ([]golf.PlayerRecord, error)
}

// FeedConfig holds the retry and freshness policy for live feeds.
type FeedConfig struct {
	TTL        time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// DefaultFeedConfig matches the polling cadence of the dashboard: clients
// refresh every 30s, so a 30s TTL means at most one upstream fetch per
// polling window no matter how many viewers are watching.
func DefaultFeedConfig() FeedConfig {
	return FeedConfig{
		TTL:        30 * time.Second,
		MaxRetries: 3,
		RetryDelay: 2 * time.Second,
	}
}

// cachedFeed is replaced wholesale on every successful fetch. Readers get
// either the old or the new value, never a partially written one.
type cachedFeed struct {
	players   []golf.PlayerRecord
	fetchedAt time.Time
}

// storedFeed is the redis mirror of a cachedFeed.
type storedFeed struct {
	Players   []golf.PlayerRecord `json:"players"`
	FetchedAt time.Time           `json:"fetched_at"`
}

// FeedService serves the freshest available player list for a tournament
// while shielding the upstream from the dashboard's polling volume.
// Ladder on a stale local cache: redis mirror, then up to MaxRetries
// upstream fetches with a fixed pause, then stale data, then empty.
// The service never returns an error; a dashboard poll always gets a list.
type FeedService struct {
	provider ScoreboardProvider
	remote   *CacheService // optional cross-instance mirror
	logger   *logrus.Logger
	config   FeedConfig

	mu    sync.RWMutex
	feeds map[string]cachedFeed
}

// NewFeedService creates a feed service. remote may be nil when no redis
// is available; the in-process cache still applies.
func NewFeedService(provider ScoreboardProvider, remote *CacheService, logger *logrus.Logger, config FeedConfig) *FeedService {
	return &FeedService{
		provider: provider,
		remote:   remote,
		logger:   logger,
		config:   config,
		feeds:    make(map[string]cachedFeed),
	}
}

// Players returns the live player list for the tournament. Concurrent
// callers during a cache miss may each trigger their own fetch; with a 30s
// TTL that duplication is bounded and not worth coalescing.
func (s *FeedService) Players(ctx context.Context, tournament golf.Tournament) []golf.PlayerRecord {
	if feed, ok := s.cached(tournament.ID); ok && time.Since(feed.fetchedAt) < s.config.TTL {
		return feed.players
	}

	if players, ok := s.fromRemote(ctx, tournament.ID); ok {
		return players
	}

	for attempt := 1; attempt <= s.config.MaxRetries; attempt++ {
		players, err := s.provider.Players(ctx, tournament.FeedURL)
		if err == nil {
			s.store(ctx, tournament.ID, players)
			return players
		}

		s.logger.Warnf("Feed fetch for %s failed (attempt %d/%d): %v",
			tournament.ID, attempt, s.config.MaxRetries, err)

		if attempt < s.config.MaxRetries {
			select {
			case <-time.After(s.config.RetryDelay):
			case <-ctx.Done():
				return s.fallback(tournament.ID)
			}
		}
	}

	return s.fallback(tournament.ID)
}

// Refresh forces an upstream fetch regardless of cache age. Used by the
// background refresher to keep feeds warm during tournament play.
func (s *FeedService) Refresh(ctx context.Context, tournament golf.Tournament) ([]golf.PlayerRecord, bool) {
	players, err := s.provider.Players(ctx, tournament.FeedURL)
	if err != nil {
		s.logger.Warnf("Feed refresh for %s failed: %v", tournament.ID, err)
		return nil, false
	}
	s.store(ctx, tournament.ID, players)
	return players, true
}

// Age reports how old the cached feed for the tournament is. The second
// return is false when nothing has ever been cached.
func (s *FeedService) Age(tournamentID string) (time.Duration, bool) {
	feed, ok := s.cached(tournamentID)
	if !ok {
		return 0, false
	}
	return time.Since(feed.fetchedAt), true
}

func (s *FeedService) cached(tournamentID string) (cachedFeed, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	feed, ok := s.feeds[tournamentID]
	return feed, ok
}

func (s *FeedService) store(ctx context.Context, tournamentID string, players []golf.PlayerRecord) {
	now := time.Now()

	s.mu.Lock()
	s.feeds[tournamentID] = cachedFeed{players: players, fetchedAt: now}
	s.mu.Unlock()

	if s.remote != nil {
		mirror := storedFeed{Players: players, FetchedAt: now}
		if err := s.remote.Set(ctx, FeedCacheKey(tournamentID), mirror, s.config.TTL); err != nil {
			s.logger.Warnf("Feed mirror write for %s failed: %v", tournamentID, err)
		}
	}
}

// fromRemote adopts a feed another instance fetched within the TTL window.
func (s *FeedService) fromRemote(ctx context.Context, tournamentID string) ([]golf.PlayerRecord, bool) {
	if s.remote == nil {
		return nil, false
	}

	var mirror storedFeed
	if err := s.remote.Get(ctx, FeedCacheKey(tournamentID), &mirror); err != nil {
		return nil, false
	}
	if time.Since(mirror.FetchedAt) >= s.config.TTL {
		return nil, false
	}

	s.mu.Lock()
	s.feeds[tournamentID] = cachedFeed{players: mirror.Players, fetchedAt: mirror.FetchedAt}
	s.mu.Unlock()

	return mirror.Players, true
}

// fallback degrades to stale data when every attempt failed. Only a
// tournament that has never been fetched successfully yields an empty list.
func (s *FeedService) fallback(tournamentID string) []golf.PlayerRecord {
	if feed, ok := s.cached(tournamentID); ok {
		s.logger.Warnf("Serving stale feed for %s (age %s)", tournamentID, time.Since(feed.fetchedAt).Round(time.Second))
		return feed.players
	}

	s.logger.Errorf("No feed available for %s, serving empty list", tournamentID)
	return []golf.PlayerRecord{}
}
