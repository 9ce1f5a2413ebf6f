package models

import "time"

// GroupNames are the eight round-robin groups in seeding order.
var GroupNames = []string{"A", "B", "C", "D", "E", "F", "G", "H"}

const (
	PointsForWin  = 3
	PointsForDraw = 1
	PointsForLoss = 0
)

// GroupPlayer хранит статистику игрока внутри группы.
type GroupPlayer struct {
	Name           string `json:"name"`
	MatchesPlayed  int    `json:"matches_played"`
	Wins           int    `json:"wins"`
	Draws          int    `json:"draws"`
	Losses         int    `json:"losses"`
	GoalsFor       int    `json:"goals_for"`
	GoalsAgainst   int    `json:"goals_against"`
	GoalDifference int    `json:"goal_difference"`
	Points         int    `json:"points"`
}

// Group is one round-robin group. Players keep their stored (insertion or swapped) order.
type Group struct {
	Competition Competition   `json:"competition"`
	Name        string        `json:"name"`
	Players     []GroupPlayer `json:"players"`
	ConcludedAt *time.Time    `json:"concluded_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func IsGroupName(name string) bool {
	for _, n := range GroupNames {
		if n == name {
			return true
		}
	}
	return false
}

// PlayerIndex returns the stored position of the player or -1.
func (g *Group) PlayerIndex(name string) int {
	for i := range g.Players {
		if g.Players[i].Name == name {
			return i
		}
	}
	return -1
}

func (g *Group) IsConcluded() bool {
	return g.ConcludedAt != nil
}

func (g *Group) Clone() *Group {
	if g == nil {
		return nil
	}
	c := *g
	c.Players = make([]GroupPlayer, len(g.Players))
	copy(c.Players, g.Players)
	c.ConcludedAt = cloneTime(g.ConcludedAt)
	return &c
}
