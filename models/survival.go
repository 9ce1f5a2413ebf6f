package models

import (
	"sort"
	"time"
)

type RoundPlayer struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type SurvivalRound struct {
	RoundNumber int           `json:"round_number"`
	Players     []RoundPlayer `json:"players"`
	IsActive    bool          `json:"is_active"`
	IsCompleted bool          `json:"is_completed"`
}

// SurvivalTournament - турнир на выбывание по очкам (дартс). Один документ на ключ.
type SurvivalTournament struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Rounds       []SurvivalRound `json:"rounds"`
	CurrentRound int             `json:"current_round"`
	IsFinished   bool            `json:"is_finished"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// NewSurvivalTournament returns a running tournament with an empty active round 1.
func NewSurvivalTournament(id, name string, now time.Time) *SurvivalTournament {
	return &SurvivalTournament{
		ID:   id,
		Name: name,
		Rounds: []SurvivalRound{
			{RoundNumber: 1, Players: []RoundPlayer{}, IsActive: true},
		},
		CurrentRound: 1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Round returns a pointer into Rounds for the given number, or nil.
func (t *SurvivalTournament) Round(number int) *SurvivalRound {
	for i := range t.Rounds {
		if t.Rounds[i].RoundNumber == number {
			return &t.Rounds[i]
		}
	}
	return nil
}

func (t *SurvivalTournament) ActiveRound() *SurvivalRound {
	return t.Round(t.CurrentRound)
}

// CanRegister reports whether round 1 still accepts players.
func (t *SurvivalTournament) CanRegister() bool {
	first := t.Round(1)
	return !t.IsFinished && first != nil && !first.IsCompleted
}

func (t *SurvivalTournament) CanEditScores(roundNumber int) bool {
	r := t.Round(roundNumber)
	return !t.IsFinished && r != nil && r.IsActive && !r.IsCompleted
}

func (r *SurvivalRound) PlayerIndex(name string) int {
	for i := range r.Players {
		if r.Players[i].Name == name {
			return i
		}
	}
	return -1
}

// Ranking returns the round's players by score descending, ties in stored order.
func (r *SurvivalRound) Ranking() []RoundPlayer {
	out := make([]RoundPlayer, len(r.Players))
	copy(out, r.Players)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

func (t *SurvivalTournament) Clone() *SurvivalTournament {
	if t == nil {
		return nil
	}
	c := *t
	c.Rounds = make([]SurvivalRound, len(t.Rounds))
	for i, r := range t.Rounds {
		c.Rounds[i] = r
		c.Rounds[i].Players = make([]RoundPlayer, len(r.Players))
		copy(c.Rounds[i].Players, r.Players)
	}
	return &c
}
