package models

import "fmt"

// Competition идентифицирует набор сетки и групп. Ключ стабильный, не зависит от порядка создания.
type Competition string

const (
	CompetitionFIFA        Competition = "fifa"
	CompetitionTableTennis Competition = "table-tennis"
)

// SurvivalTournamentID is the well-known key of the darts survival tournament.
const SurvivalTournamentID = "darts"

var competitions = []Competition{CompetitionFIFA, CompetitionTableTennis}

func (c Competition) Valid() bool {
	switch c {
	case CompetitionFIFA, CompetitionTableTennis:
		return true
	}
	return false
}

func (c Competition) String() string {
	return string(c)
}

// Competitions returns every known competition in a fixed order.
func Competitions() []Competition {
	out := make([]Competition, len(competitions))
	copy(out, competitions)
	return out
}

func ParseCompetition(s string) (Competition, error) {
	c := Competition(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown competition %q", s)
	}
	return c, nil
}
