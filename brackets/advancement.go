package brackets

import (
	"time"

	"github.com/Dosada05/tournament-scoreboard/models"
)

// Placement is a player written into one slot of a successor match.
type Placement struct {
	MatchID string      `json:"match_id"`
	Slot    models.Slot `json:"slot"`
	Player  string      `json:"player"`
}

// Complete stores the final score. Callers validate scores and eligibility first.
func Complete(m *models.MatchNode, score1, score2 int, now time.Time) {
	s1, s2 := score1, score2
	m.Score1 = &s1
	m.Score2 = &s2
	m.Status = models.MatchStatusCompleted
	t := now
	m.CompletedTime = &t
	m.UpdatedAt = now
}

// Clear returns the match to its pre-result state. Players stay in place.
func Clear(m *models.MatchNode, now time.Time) {
	m.Score1 = nil
	m.Score2 = nil
	m.Status = models.MatchStatusScheduled
	m.CompletedTime = nil
	m.UpdatedAt = now
}

// Destinations returns where the winner and loser of a completed match are routed.
// A nil placement means the match has no such successor.
func Destinations(m *models.MatchNode) (winner, loser *Placement) {
	w, ok := m.Winner()
	if !ok {
		return nil, nil
	}
	l, _ := m.Loser()
	if m.NextMatchID != nil && m.WinnerDestinationSlot != nil {
		winner = &Placement{MatchID: *m.NextMatchID, Slot: *m.WinnerDestinationSlot, Player: w}
	}
	if m.LoserNextMatchID != nil && m.LoserDestinationSlot != nil {
		loser = &Placement{MatchID: *m.LoserNextMatchID, Slot: *m.LoserDestinationSlot, Player: l}
	}
	return winner, loser
}

// Place writes the player into the successor slot. Once both slots are filled the
// successor is ready to be played and goes to scheduled.
func Place(successor *models.MatchNode, p Placement, now time.Time) {
	player := p.Player
	successor.SetPlayerAt(p.Slot, &player)
	if successor.HasPlayers() {
		successor.Status = models.MatchStatusScheduled
	}
	successor.UpdatedAt = now
}

// Retract nulls the slot only if it still holds the placed player.
func Retract(successor *models.MatchNode, p Placement, now time.Time) bool {
	cur := successor.PlayerAt(p.Slot)
	if cur == nil || *cur != p.Player {
		return false
	}
	successor.SetPlayerAt(p.Slot, nil)
	successor.Status = models.MatchStatusScheduled
	successor.UpdatedAt = now
	return true
}
