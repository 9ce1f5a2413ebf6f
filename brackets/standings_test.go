package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Dosada05/tournament-scoreboard/models"
)

func names(players []models.GroupPlayer) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.Name
	}
	return out
}

func TestSortStandings(t *testing.T) {
	tests := []struct {
		name    string
		players []models.GroupPlayer
		want    []string
	}{
		{
			name: "points first",
			players: []models.GroupPlayer{
				{Name: "a", Points: 3, GoalDifference: 5},
				{Name: "b", Points: 6, GoalDifference: -1},
			},
			want: []string{"b", "a"},
		},
		{
			name: "goal difference breaks points tie",
			players: []models.GroupPlayer{
				{Name: "a", Points: 4, GoalDifference: 1, GoalsFor: 9},
				{Name: "b", Points: 4, GoalDifference: 3, GoalsFor: 3},
			},
			want: []string{"b", "a"},
		},
		{
			name: "goals for breaks difference tie",
			players: []models.GroupPlayer{
				{Name: "a", Points: 4, GoalDifference: 2, GoalsFor: 4},
				{Name: "b", Points: 4, GoalDifference: 2, GoalsFor: 6},
			},
			want: []string{"b", "a"},
		},
		{
			name: "full tie keeps stored order",
			players: []models.GroupPlayer{
				{Name: "c", Points: 1, GoalDifference: 0, GoalsFor: 1},
				{Name: "a", Points: 1, GoalDifference: 0, GoalsFor: 1},
				{Name: "b", Points: 1, GoalDifference: 0, GoalsFor: 1},
			},
			want: []string{"c", "a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := make([]models.GroupPlayer, len(tt.players))
			copy(in, tt.players)

			assert.Equal(t, tt.want, names(SortStandings(tt.players)))
			assert.Equal(t, in, tt.players, "input must not be reordered")
		})
	}
}

func TestApplyGroupResult(t *testing.T) {
	t.Run("win", func(t *testing.T) {
		var a, b models.GroupPlayer
		ApplyGroupResult(&a, &b, 3, 1)
		assert.Equal(t, models.GroupPlayer{MatchesPlayed: 1, Wins: 1, GoalsFor: 3, GoalsAgainst: 1, GoalDifference: 2, Points: 3}, a)
		assert.Equal(t, models.GroupPlayer{MatchesPlayed: 1, Losses: 1, GoalsFor: 1, GoalsAgainst: 3, GoalDifference: -2, Points: 0}, b)
	})

	t.Run("away win", func(t *testing.T) {
		var a, b models.GroupPlayer
		ApplyGroupResult(&a, &b, 0, 2)
		assert.Equal(t, 3, b.Points)
		assert.Equal(t, 1, a.Losses)
	})

	t.Run("draw", func(t *testing.T) {
		var a, b models.GroupPlayer
		ApplyGroupResult(&a, &b, 2, 2)
		assert.Equal(t, 1, a.Points)
		assert.Equal(t, 1, b.Points)
		assert.Equal(t, 1, a.Draws)
		assert.Equal(t, 0, a.GoalDifference)
	})
}
