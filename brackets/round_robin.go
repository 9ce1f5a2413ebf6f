package brackets

import (
	"fmt"
	"sort"
)

// Fixture is one pairing of a group's round-robin schedule.
type Fixture struct {
	Order   int    `json:"order"`
	Leg     int    `json:"leg"`
	PlayerA string `json:"player_a"`
	PlayerB string `json:"player_b"`
}

type RoundRobinGenerator struct {
	legs int
}

// NewRoundRobinGenerator creates a generator; legs is 1 (single) or 2 (double round-robin).
func NewRoundRobinGenerator(legs int) *RoundRobinGenerator {
	if legs != 2 {
		legs = 1
	}
	return &RoundRobinGenerator{legs: legs}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

// Fixtures lists every pairing of the given players, each pair once per leg.
func (g *RoundRobinGenerator) Fixtures(players []string) ([]Fixture, error) {
	if len(players) < 2 {
		return nil, fmt.Errorf("round robin: not enough players (found %d, min 2 required)", len(players))
	}

	perLeg := len(players) * (len(players) - 1) / 2
	fixtures := make([]Fixture, 0, perLeg*g.legs)
	order := 0

	for i := 0; i < len(players); i++ {
		for j := i + 1; j < len(players); j++ {
			order++
			fixtures = append(fixtures, Fixture{Order: order, Leg: 1, PlayerA: players[i], PlayerB: players[j]})

			if g.legs == 2 {
				// Ответный матч: стороны меняются местами
				fixtures = append(fixtures, Fixture{Order: order + perLeg, Leg: 2, PlayerA: players[j], PlayerB: players[i]})
			}
		}
	}

	sort.Slice(fixtures, func(i, j int) bool {
		return fixtures[i].Order < fixtures[j].Order
	})
	return fixtures, nil
}
