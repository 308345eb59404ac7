package providers

import (
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sfoudy/golf-sweepstakes/internal/golf"
)

// normalizeScoreboard flattens every event, competition and competitor in the
// raw feed into one player list. Providers are expected to list each player
// once per tournament feed, so no deduplication happens across groupings.
// A malformed competitor is skipped and logged; one bad record must never
// poison the batch.
func normalizeScoreboard(raw *scoreboard, logger *logrus.Logger) []golf.PlayerRecord {
	players := make([]golf.PlayerRecord, 0, 156)

	for _, event := range raw.Events {
		for _, competition := range event.Competitions {
			for _, competitor := range competition.Competitors {
				record, ok := normalizeCompetitor(competitor)
				if !ok {
					logger.Warnf("Skipping malformed competitor in event %s", event.ID)
					continue
				}
				players = append(players, record)
			}
		}
	}

	// Best score first; ties keep provider order.
	sort.SliceStable(players, func(i, j int) bool {
		return golf.ParseScore(players[i].CurrentScore) < golf.ParseScore(players[j].CurrentScore)
	})

	return players
}

func normalizeCompetitor(competitor scoreboardCompetitor) (golf.PlayerRecord, bool) {
	name := strings.TrimSpace(competitor.Athlete.DisplayName)
	if name == "" {
		return golf.PlayerRecord{}, false
	}

	score := strings.TrimSpace(string(competitor.Score))
	if score == "" {
		score = "E"
	}

	position := strings.TrimSpace(competitor.Status.Position.DisplayValue)
	if position == "" {
		position = "N/A"
	}

	today := "E"
	if len(competitor.Linescores) > 0 && competitor.Linescores[0].Value != "" {
		today = string(competitor.Linescores[0].Value)
	}

	return golf.PlayerRecord{
		ID:           golf.PlayerID(name),
		Name:         name,
		Position:     position,
		CurrentScore: score,
		Today:        today,
		Thru:         string(competitor.Status.Thru),
		MissedCut:    strings.EqualFold(position, "CUT"),
		WorldRanking: worldRanking(competitor.Statistics),
	}, true
}

func worldRanking(stats []competitorStat) int {
	for _, stat := range stats {
		if stat.Name != "world_ranking" {
			continue
		}
		if n, err := strconv.Atoi(string(stat.Value)); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(string(stat.Value), 64); err == nil {
			return int(f)
		}
	}
	return 0
}
