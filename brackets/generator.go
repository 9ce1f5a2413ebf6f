package brackets

import (
	"context"
	"fmt"

	"github.com/Dosada05/tournament-scoreboard/models"
)

// Variant describes the shape of one competition's knockout bracket.
type Variant struct {
	Competition models.Competition
	IDPrefix    string
	ThirdPlace  bool
}

var variants = map[models.Competition]Variant{
	models.CompetitionFIFA:        {Competition: models.CompetitionFIFA, IDPrefix: "", ThirdPlace: true},
	models.CompetitionTableTennis: {Competition: models.CompetitionTableTennis, IDPrefix: "TT-", ThirdPlace: false},
}

func VariantFor(c models.Competition) (Variant, error) {
	v, ok := variants[c]
	if !ok {
		return Variant{}, fmt.Errorf("no bracket variant for competition %q", c)
	}
	return v, nil
}

// MatchID builds the node id used by this variant, e.g. "L-QF-1" or "TT-C-F-1".
func (v Variant) MatchID(side models.Side, round models.Round, position int) string {
	return fmt.Sprintf("%s%s-%s-%d", v.IDPrefix, sideCode(side), roundCode(round), position)
}

type BracketGenerator interface {
	Generate(ctx context.Context, variant Variant) ([]*models.MatchNode, error)

	GetName() string
}

func sideCode(s models.Side) string {
	switch s {
	case models.SideLeft:
		return "L"
	case models.SideRight:
		return "R"
	case models.SideCenter:
		return "C"
	}
	return "X"
}

func roundCode(r models.Round) string {
	switch r {
	case models.RoundR16:
		return "R16"
	case models.RoundQF:
		return "QF"
	case models.RoundSF:
		return "SF"
	case models.RoundFinal:
		return "F"
	case models.RoundThirdPlace:
		return "3P"
	}
	return string(r)
}
