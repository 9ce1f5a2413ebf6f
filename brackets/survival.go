package brackets

import (
	"sort"

	"github.com/Dosada05/tournament-scoreboard/models"
)

// FinalRoundMaxPlayers: a round with this many players or fewer decides the tournament.
const FinalRoundMaxPlayers = 3

// RoundOutcome is the result of closing a survival round. Qualified is the roster of the
// next round, scores reset to zero.
type RoundOutcome struct {
	Ranking      []models.RoundPlayer `json:"ranking"`
	Qualified    []models.RoundPlayer `json:"qualified"`
	QualifyCount int                  `json:"qualify_count"`
	Threshold    int                  `json:"threshold"`
	Final        bool                 `json:"final"`
}

// QualifyRound ranks the round and applies the tie-inclusive cutoff: the top half
// (rounded up) qualifies, plus everyone tied with the last qualifying score.
func QualifyRound(players []models.RoundPlayer) RoundOutcome {
	ranking := make([]models.RoundPlayer, len(players))
	copy(ranking, players)
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Score > ranking[j].Score
	})

	n := len(ranking)
	if n <= FinalRoundMaxPlayers {
		return RoundOutcome{Ranking: ranking, Final: true}
	}

	qualifyCount := (n + 1) / 2
	threshold := ranking[qualifyCount-1].Score

	qualified := make([]models.RoundPlayer, 0, qualifyCount)
	for _, p := range ranking {
		if p.Score >= threshold {
			qualified = append(qualified, models.RoundPlayer{Name: p.Name})
		}
	}

	return RoundOutcome{
		Ranking:      ranking,
		Qualified:    qualified,
		QualifyCount: qualifyCount,
		Threshold:    threshold,
	}
}
