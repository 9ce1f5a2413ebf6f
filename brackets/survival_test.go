package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Dosada05/tournament-scoreboard/models"
)

func roster(scores map[string]int, order ...string) []models.RoundPlayer {
	out := make([]models.RoundPlayer, 0, len(order))
	for _, n := range order {
		out = append(out, models.RoundPlayer{Name: n, Score: scores[n]})
	}
	return out
}

func qualifiedNames(o RoundOutcome) []string {
	out := make([]string, 0, len(o.Qualified))
	for _, p := range o.Qualified {
		out = append(out, p.Name)
	}
	return out
}

func TestQualifyRound(t *testing.T) {
	tests := []struct {
		name      string
		players   []models.RoundPlayer
		want      []string
		threshold int
		final     bool
	}{
		{
			name:      "tie at the cutoff is included",
			players:   roster(map[string]int{"p1": 10, "p2": 8, "p3": 8, "p4": 5, "p5": 2}, "p1", "p2", "p3", "p4", "p5"),
			want:      []string{"p1", "p2", "p3"},
			threshold: 8,
		},
		{
			name:      "tie below the cutoff widens the field",
			players:   roster(map[string]int{"a": 9, "b": 7, "c": 7, "d": 7, "e": 1}, "e", "d", "c", "b", "a"),
			want:      []string{"a", "d", "c", "b"},
			threshold: 7,
		},
		{
			name:      "even count takes half",
			players:   roster(map[string]int{"a": 4, "b": 3, "c": 2, "d": 1}, "a", "b", "c", "d"),
			want:      []string{"a", "b"},
			threshold: 3,
		},
		{
			name:      "everyone tied advances everyone",
			players:   roster(map[string]int{"a": 0, "b": 0, "c": 0, "d": 0}, "a", "b", "c", "d"),
			want:      []string{"a", "b", "c", "d"},
			threshold: 0,
		},
		{
			name:    "three players end the tournament",
			players: roster(map[string]int{"a": 1, "b": 5, "c": 3}, "a", "b", "c"),
			final:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := QualifyRound(tt.players)
			assert.Equal(t, tt.final, out.Final)
			if tt.final {
				assert.Empty(t, out.Qualified)
				assert.Len(t, out.Ranking, len(tt.players))
				return
			}
			assert.Equal(t, tt.want, qualifiedNames(out))
			assert.Equal(t, tt.threshold, out.Threshold)
			assert.GreaterOrEqual(t, len(out.Qualified), out.QualifyCount)
			for _, q := range out.Qualified {
				assert.Zero(t, q.Score)
			}
		})
	}
}

func TestQualifyRound_RankingStable(t *testing.T) {
	out := QualifyRound(roster(map[string]int{"x": 2, "y": 2, "z": 5}, "x", "y", "z"))
	assert.Equal(t, "z", out.Ranking[0].Name)
	assert.Equal(t, "x", out.Ranking[1].Name)
	assert.Equal(t, "y", out.Ranking[2].Name)
}
