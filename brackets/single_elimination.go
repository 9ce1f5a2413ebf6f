package brackets

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Dosada05/tournament-scoreboard/models"
)

// Entrants is the fixed field size of the knockout stage.
const Entrants = 16

// halfRounds lists the rounds played inside each half of the bracket, with match counts per side.
var halfRounds = []struct {
	round   models.Round
	matches int
}{
	{models.RoundR16, 4},
	{models.RoundQF, 2},
	{models.RoundSF, 1},
}

var (
	ErrDuplicateMatchID   = errors.New("duplicate match id")
	ErrDanglingPointer    = errors.New("destination match does not exist")
	ErrIncompleteRouting  = errors.New("destination id and slot must be set together")
	ErrSlotFedTwice       = errors.New("destination slot is fed by more than one match")
	ErrBracketCycle       = errors.New("bracket graph contains a cycle")
	ErrMissingFeeder      = errors.New("match slot has no feeding match")
	ErrInvalidNodeMembers = errors.New("match has invalid round, side or slot")
)

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() BracketGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

// Generate builds the empty 16-entrant bracket: two halves of R16 -> QF -> SF meeting in the
// final, plus the third-place match fed by semifinal losers when the variant has one.
func (g *SingleEliminationGenerator) Generate(ctx context.Context, v Variant) ([]*models.MatchNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	finalID := v.MatchID(models.SideCenter, models.RoundFinal, 1)
	thirdID := v.MatchID(models.SideCenter, models.RoundThirdPlace, 1)

	nodes := make([]*models.MatchNode, 0, Entrants)
	for _, side := range []models.Side{models.SideLeft, models.SideRight} {
		for ri, hr := range halfRounds {
			for pos := 1; pos <= hr.matches; pos++ {
				m := newNode(v, side, hr.round, pos)
				if ri+1 < len(halfRounds) {
					next := v.MatchID(side, halfRounds[ri+1].round, (pos-1)/2+1)
					m.NextMatchID = &next
					m.WinnerDestinationSlot = slotPtr(feederSlot(pos))
				} else {
					// Полуфинал: левая половина в player1 финала, правая в player2.
					slot := models.SlotPlayer1
					if side == models.SideRight {
						slot = models.SlotPlayer2
					}
					m.NextMatchID = strPtr(finalID)
					m.WinnerDestinationSlot = slotPtr(slot)
					if v.ThirdPlace {
						m.LoserNextMatchID = strPtr(thirdID)
						m.LoserDestinationSlot = slotPtr(slot)
					}
				}
				nodes = append(nodes, m)
			}
		}
	}

	nodes = append(nodes, newNode(v, models.SideCenter, models.RoundFinal, 1))
	if v.ThirdPlace {
		nodes = append(nodes, newNode(v, models.SideCenter, models.RoundThirdPlace, 1))
	}

	if err := Validate(nodes); err != nil {
		return nil, fmt.Errorf("generated bracket is invalid: %w", err)
	}

	sort.SliceStable(nodes, func(i, j int) bool { return models.LessMatch(nodes[i], nodes[j]) })
	return nodes, nil
}

// Validate checks that every routing pointer resolves, every slot below R16 is fed exactly
// once and that winner/loser routing never loops back.
func Validate(nodes []*models.MatchNode) error {
	byID := make(map[string]*models.MatchNode, len(nodes))
	for _, n := range nodes {
		if _, dup := byID[n.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateMatchID, n.ID)
		}
		if !n.Round.Valid() || !n.Side.Valid() {
			return fmt.Errorf("%w: %s", ErrInvalidNodeMembers, n.ID)
		}
		byID[n.ID] = n
	}

	type target struct {
		id   string
		slot models.Slot
	}
	fed := make(map[target]string)

	check := func(n *models.MatchNode, next *string, slot *models.Slot) error {
		if (next == nil) != (slot == nil) {
			return fmt.Errorf("%w: %s", ErrIncompleteRouting, n.ID)
		}
		if next == nil {
			return nil
		}
		if !slot.Valid() {
			return fmt.Errorf("%w: %s", ErrInvalidNodeMembers, n.ID)
		}
		if _, ok := byID[*next]; !ok {
			return fmt.Errorf("%w: %s -> %s", ErrDanglingPointer, n.ID, *next)
		}
		t := target{id: *next, slot: *slot}
		if prev, ok := fed[t]; ok {
			return fmt.Errorf("%w: %s %s by %s and %s", ErrSlotFedTwice, t.id, t.slot, prev, n.ID)
		}
		fed[t] = n.ID
		return nil
	}

	for _, n := range nodes {
		if err := check(n, n.NextMatchID, n.WinnerDestinationSlot); err != nil {
			return err
		}
		if err := check(n, n.LoserNextMatchID, n.LoserDestinationSlot); err != nil {
			return err
		}
	}

	for _, n := range nodes {
		if n.Round == models.RoundR16 {
			continue
		}
		for _, s := range []models.Slot{models.SlotPlayer1, models.SlotPlayer2} {
			if _, ok := fed[target{id: n.ID, slot: s}]; !ok {
				return fmt.Errorf("%w: %s %s", ErrMissingFeeder, n.ID, s)
			}
		}
	}

	// 0 - не посещен, 1 - в стеке, 2 - готов
	state := make(map[string]int, len(nodes))
	var visit func(id string) error
	visit = func(id string) error {
		switch state[id] {
		case 1:
			return fmt.Errorf("%w at %s", ErrBracketCycle, id)
		case 2:
			return nil
		}
		state[id] = 1
		n := byID[id]
		for _, next := range []*string{n.NextMatchID, n.LoserNextMatchID} {
			if next == nil {
				continue
			}
			if err := visit(*next); err != nil {
				return err
			}
		}
		state[id] = 2
		return nil
	}
	for _, n := range nodes {
		if err := visit(n.ID); err != nil {
			return err
		}
	}
	return nil
}

func newNode(v Variant, side models.Side, round models.Round, pos int) *models.MatchNode {
	return &models.MatchNode{
		ID:          v.MatchID(side, round, pos),
		Competition: v.Competition,
		Round:       round,
		Side:        side,
		Position:    pos,
		Status:      models.MatchStatusScheduled,
	}
}

// feederSlot: odd positions feed player1 of the next match, even ones player2.
func feederSlot(pos int) models.Slot {
	if pos%2 == 1 {
		return models.SlotPlayer1
	}
	return models.SlotPlayer2
}

func strPtr(s string) *string { return &s }

func slotPtr(s models.Slot) *models.Slot { return &s }
