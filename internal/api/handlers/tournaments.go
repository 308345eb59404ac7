package handlers

import (
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/sfoudy/golf-sweepstakes/internal/golf"
	"github.com/sfoudy/golf-sweepstakes/pkg/utils"
)

// ListTournaments returns the fixed schedule of majors, earliest first.
func ListTournaments(c *gin.Context) {
	tournaments := make([]golf.Tournament, 0, len(golf.Tournaments))
	for _, tournament := range golf.Tournaments {
		tournaments = append(tournaments, tournament)
	}
	sort.Slice(tournaments, func(i, j int) bool {
		return tournaments[i].StartDate.Before(tournaments[j].StartDate)
	})

	utils.SendSuccess(c, tournaments)
}
