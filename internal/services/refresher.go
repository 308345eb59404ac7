package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/sfoudy/golf-sweepstakes/internal/golf"
	"github.com/sfoudy/golf-sweepstakes/internal/models"
	"github.com/sfoudy/golf-sweepstakes/pkg/database"
)

// FeedRefresher keeps feeds warm during tournament play. On a fixed
// schedule it looks up which majors currently have competitions, refreshes
// their feeds and pushes the result to websocket subscribers, so dashboards
// get updates without each poll paying the upstream fetch.
type FeedRefresher struct {
	db        *database.DB
	feed      *FeedService
	hub       *WebSocketHub
	logger    *logrus.Logger
	cron      *cron.Cron
	interval  time.Duration
	mu        sync.Mutex
	isRunning bool
}

func NewFeedRefresher(db *database.DB, feed *FeedService, hub *WebSocketHub, logger *logrus.Logger, interval time.Duration) *FeedRefresher {
	return &FeedRefresher{
		db:       db,
		feed:     feed,
		hub:      hub,
		logger:   logger,
		cron:     cron.New(),
		interval: interval,
	}
}

// Start schedules the refresh loop and kicks off an initial warm.
func (r *FeedRefresher) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isRunning {
		return fmt.Errorf("feed refresher is already running")
	}

	schedule := fmt.Sprintf("@every %s", r.interval.String())
	if _, err := r.cron.AddFunc(schedule, r.refreshActiveFeeds); err != nil {
		return fmt.Errorf("failed to schedule feed refresher: %w", err)
	}

	r.cron.Start()
	r.isRunning = true

	go r.refreshActiveFeeds()

	r.logger.Info("Feed refresher started")
	return nil
}

// Stop halts the refresh loop and waits for an in-flight run to finish.
func (r *FeedRefresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isRunning {
		return
	}

	ctx := r.cron.Stop()
	<-ctx.Done()

	r.isRunning = false
	r.logger.Info("Feed refresher stopped")
}

// refreshActiveFeeds warms the feed for every major that has at least one
// unfinished competition and is inside its tournament window.
func (r *FeedRefresher) refreshActiveFeeds() {
	now := time.Now()

	var majors []string
	err := r.db.DB.Model(&models.Competition{}).
		Where("major_type = ANY(?)", pq.Array(golf.TournamentIDs())).
		Where("end_date > ?", now).
		Distinct().
		Pluck("major_type", &majors).Error
	if err != nil {
		r.logger.Errorf("Failed to look up active majors: %v", err)
		return
	}

	for _, major := range majors {
		tournament, ok := golf.Tournaments[major]
		if !ok {
			continue
		}
		if now.Before(tournament.StartDate) || now.After(tournament.EndDate) {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		players, ok := r.feed.Refresh(ctx, tournament)
		cancel()
		if !ok {
			continue
		}

		r.logger.Debugf("Refreshed feed for %s: %d players", tournament.ID, len(players))

		if r.hub != nil {
			if err := r.hub.BroadcastToTopic(tournament.ID, "feed_update", players); err != nil {
				r.logger.Warnf("Failed to broadcast feed update for %s: %v", tournament.ID, err)
			}
		}
	}
}

// Status reports the refresher's schedule, for the health endpoint.
func (r *FeedRefresher) Status() map[string]interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.cron.Entries()
	nextRuns := make([]time.Time, 0, len(entries))
	for _, entry := range entries {
		nextRuns = append(nextRuns, entry.Next)
	}

	return map[string]interface{}{
		"is_running": r.isRunning,
		"interval":   r.interval.String(),
		"next_runs":  nextRuns,
	}
}
