package brackets

import (
	"sort"

	"github.com/Dosada05/tournament-scoreboard/models"
)

// QualifiersPerGroup is how many players each group sends to the knockout stage.
const QualifiersPerGroup = 2

// SortStandings orders players by points, goal difference and goals for, all descending.
// Full ties keep their stored order, so a manual swap settles them.
func SortStandings(players []models.GroupPlayer) []models.GroupPlayer {
	out := make([]models.GroupPlayer, len(players))
	copy(out, players)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		return a.GoalsFor > b.GoalsFor
	})
	return out
}

// ApplyGroupResult updates both participants of a group match.
func ApplyGroupResult(a, b *models.GroupPlayer, scoreA, scoreB int) {
	a.MatchesPlayed++
	b.MatchesPlayed++
	a.GoalsFor += scoreA
	a.GoalsAgainst += scoreB
	b.GoalsFor += scoreB
	b.GoalsAgainst += scoreA
	a.GoalDifference = a.GoalsFor - a.GoalsAgainst
	b.GoalDifference = b.GoalsFor - b.GoalsAgainst

	switch {
	case scoreA > scoreB:
		a.Wins++
		b.Losses++
		a.Points += models.PointsForWin
		b.Points += models.PointsForLoss
	case scoreA < scoreB:
		b.Wins++
		a.Losses++
		b.Points += models.PointsForWin
		a.Points += models.PointsForLoss
	default:
		a.Draws++
		b.Draws++
		a.Points += models.PointsForDraw
		b.Points += models.PointsForDraw
	}
}
