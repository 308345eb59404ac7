package golf

// PlayerRecord is one player in a live tournament feed, fully normalized.
// Records are derived from the upstream scoreboard on every fetch and are
// never persisted; the JSON tags are the wire contract the dashboard polls.
type PlayerRecord struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Position     string `json:"position"`
	CurrentScore string `json:"current_score"`
	Today        string `json:"today"`
	Thru         string `json:"thru"`
	MissedCut    bool   `json:"missed_cut"`
	WorldRanking int    `json:"world_ranking"`
}

// MissedCutPenalty is added to a participant's total for each selected
// player eliminated at the cut.
const MissedCutPenalty = 10
