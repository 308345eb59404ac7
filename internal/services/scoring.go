package services

import (
	"sort"

	"github.com/google/uuid"

	"github.com/sfoudy/golf-sweepstakes/internal/golf"
	"github.com/sfoudy/golf-sweepstakes/internal/models"
)

// SelectionScore is one pick joined against the live feed.
type SelectionScore struct {
	PlayerName string             `json:"player_name"`
	Score      int                `json:"score"`
	MissedCut  bool               `json:"missed_cut"`
	Live       *golf.PlayerRecord `json:"live,omitempty"`
}

// Standing is a participant's place on the competition leaderboard.
type Standing struct {
	ParticipantID uuid.UUID        `json:"participant_id"`
	Username      string           `json:"username"`
	TotalScore    int              `json:"total_score"`
	DisplayScore  string           `json:"display_score"`
	Rank          int              `json:"rank"`
	Selections    []SelectionScore `json:"selections"`
}

// liveIndex keys the feed by normalized player name for the soft join
// against stored selections.
func liveIndex(players []golf.PlayerRecord) map[string]golf.PlayerRecord {
	index := make(map[string]golf.PlayerRecord, len(players))
	for _, player := range players {
		index[golf.PlayerID(player.Name)] = player
	}
	return index
}

// ScoreSelections joins a participant's picks against the live feed.
// A pick with no matching live record contributes zero; a missed cut adds
// the fixed penalty on top of the player's score.
func ScoreSelections(selections []models.PlayerSelection, index map[string]golf.PlayerRecord) ([]SelectionScore, int) {
	scored := make([]SelectionScore, 0, len(selections))
	total := 0

	for _, selection := range selections {
		entry := SelectionScore{PlayerName: selection.PlayerName}

		if live, ok := index[golf.PlayerID(selection.PlayerName)]; ok {
			record := live
			entry.Live = &record
			entry.Score = golf.ParseScore(live.CurrentScore)
			entry.MissedCut = live.MissedCut
			if live.MissedCut {
				entry.Score += golf.MissedCutPenalty
			}
		}

		total += entry.Score
		scored = append(scored, entry)
	}

	return scored, total
}

// TotalScore computes a participant's adjusted total against the live feed.
func TotalScore(selections []models.PlayerSelection, players []golf.PlayerRecord) int {
	_, total := ScoreSelections(selections, liveIndex(players))
	return total
}

// BuildLeaderboard ranks participants ascending by total adjusted score,
// golf convention: lower is better. The sort is stable, so ties keep the
// incoming participant order. Recomputed from live data on every call;
// never persisted.
func BuildLeaderboard(participants []models.Participant, players []golf.PlayerRecord) []Standing {
	index := liveIndex(players)

	standings := make([]Standing, 0, len(participants))
	for _, participant := range participants {
		selections, total := ScoreSelections(participant.PlayerSelections, index)
		standings = append(standings, Standing{
			ParticipantID: participant.ID,
			Username:      participant.Username,
			TotalScore:    total,
			DisplayScore:  golf.FormatScore(total),
			Selections:    selections,
		})
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].TotalScore < standings[j].TotalScore
	})

	for i := range standings {
		standings[i].Rank = i + 1
	}

	return standings
}
