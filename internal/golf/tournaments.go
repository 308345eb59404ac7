package golf

import "time"

// Tournament describes one of the majors a competition can be tied to.
// The feed URL is the fixed upstream scoreboard endpoint for that event.
type Tournament struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	FeedURL   string    `json:"-"`
}

const espnGolfBase = "https://site.api.espn.com/apis/site/v2/sports/golf"

// Tournaments is the fixed set of majors for the current season, keyed by
// tournament id. Competitions reference these ids; anything else is invalid.
var Tournaments = map[string]Tournament{
	"masters": {
		ID:        "masters",
		Name:      "The Masters",
		StartDate: time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, time.April, 13, 23, 59, 59, 0, time.UTC),
		FeedURL:   espnGolfBase + "/pga/leaderboard?event=401703504",
	},
	"rbc_heritage": {
		ID:        "rbc_heritage",
		Name:      "RBC Heritage",
		StartDate: time.Date(2025, time.April, 18, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, time.April, 21, 23, 59, 59, 0, time.UTC),
		FeedURL:   espnGolfBase + "/pga/leaderboard?event=401703505",
	},
	"pga": {
		ID:        "pga",
		Name:      "PGA Championship",
		StartDate: time.Date(2025, time.May, 15, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, time.May, 18, 23, 59, 59, 0, time.UTC),
		FeedURL:   espnGolfBase + "/pga/leaderboard?event=401703516",
	},
	"us_open": {
		ID:        "us_open",
		Name:      "US Open",
		StartDate: time.Date(2025, time.June, 12, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, time.June, 15, 23, 59, 59, 0, time.UTC),
		FeedURL:   espnGolfBase + "/pga/leaderboard?event=401703520",
	},
	"the_open": {
		ID:        "the_open",
		Name:      "The Open Championship",
		StartDate: time.Date(2025, time.July, 17, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, time.July, 20, 23, 59, 59, 0, time.UTC),
		FeedURL:   espnGolfBase + "/pga/leaderboard?event=401703526",
	},
}

// ValidTournament reports whether id names a known major.
func ValidTournament(id string) bool {
	_, ok := Tournaments[id]
	return ok
}

// TournamentIDs returns the known major ids in no particular order.
func TournamentIDs() []string {
	ids := make([]string, 0, len(Tournaments))
	for id := range Tournaments {
		ids = append(ids, id)
	}
	return ids
}
