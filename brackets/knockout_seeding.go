package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-scoreboard/models"
)

// SeedRef points at a group finishing place, e.g. {"A", 1} is the winner of group A.
type SeedRef struct {
	Group string `json:"group"`
	Place int    `json:"place"`
}

func (s SeedRef) String() string {
	return fmt.Sprintf("%d%s", s.Place, s.Group)
}

// index into the qualifier list [1A, 2A, 1B, 2B, ..., 1H, 2H]
func (s SeedRef) index() int {
	for gi, name := range models.GroupNames {
		if name == s.Group {
			return gi*QualifiersPerGroup + s.Place - 1
		}
	}
	return -1
}

// Pairing is one R16 match filled from the group stage.
type Pairing struct {
	MatchID string  `json:"match_id"`
	Home    SeedRef `json:"home"`
	Away    SeedRef `json:"away"`
	Player1 string  `json:"player1"`
	Player2 string  `json:"player2"`
}

type seedSlot struct {
	side     models.Side
	position int
	home     SeedRef
	away     SeedRef
}

// Группы делятся между половинами сетки так, что первый и второй из одной группы
// могут встретиться только в финале.
var seedingTable = []seedSlot{
	{models.SideLeft, 1, SeedRef{"A", 1}, SeedRef{"B", 2}},
	{models.SideLeft, 2, SeedRef{"C", 1}, SeedRef{"D", 2}},
	{models.SideLeft, 3, SeedRef{"E", 1}, SeedRef{"F", 2}},
	{models.SideLeft, 4, SeedRef{"G", 1}, SeedRef{"H", 2}},
	{models.SideRight, 1, SeedRef{"B", 1}, SeedRef{"A", 2}},
	{models.SideRight, 2, SeedRef{"D", 1}, SeedRef{"C", 2}},
	{models.SideRight, 3, SeedRef{"F", 1}, SeedRef{"E", 2}},
	{models.SideRight, 4, SeedRef{"H", 1}, SeedRef{"G", 2}},
}

// KnockoutPairings maps the ordered qualifier list onto the variant's R16 matches.
func KnockoutPairings(v Variant, qualifiers []string) ([]Pairing, error) {
	want := len(models.GroupNames) * QualifiersPerGroup
	if len(qualifiers) != want {
		return nil, fmt.Errorf("expected %d qualifiers, got %d", want, len(qualifiers))
	}

	pairings := make([]Pairing, 0, len(seedingTable))
	for _, s := range seedingTable {
		pairings = append(pairings, Pairing{
			MatchID: v.MatchID(s.side, models.RoundR16, s.position),
			Home:    s.home,
			Away:    s.away,
			Player1: qualifiers[s.home.index()],
			Player2: qualifiers[s.away.index()],
		})
	}
	return pairings, nil
}
