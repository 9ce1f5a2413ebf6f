package models

import (
	"fmt"
	"time"
)

type Round string

const (
	RoundR16        Round = "R16"
	RoundQF         Round = "QF"
	RoundSF         Round = "SF"
	RoundFinal      Round = "Final"
	RoundThirdPlace Round = "ThirdPlace"
)

// roundOrder задает порядок раундов при выводе сетки.
var roundOrder = map[Round]int{
	RoundR16:        0,
	RoundQF:         1,
	RoundSF:         2,
	RoundThirdPlace: 3,
	RoundFinal:      4,
}

func (r Round) Valid() bool {
	_, ok := roundOrder[r]
	return ok
}

// Order is the display rank of the round, R16 first and Final last.
func (r Round) Order() int {
	if o, ok := roundOrder[r]; ok {
		return o
	}
	return len(roundOrder)
}

func ParseRound(s string) (Round, error) {
	r := Round(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown round %q", s)
	}
	return r, nil
}

type Side string

const (
	SideLeft   Side = "left"
	SideRight  Side = "right"
	SideCenter Side = "center"
)

func (s Side) Valid() bool {
	switch s {
	case SideLeft, SideRight, SideCenter:
		return true
	}
	return false
}

func (s Side) Order() int {
	switch s {
	case SideLeft:
		return 0
	case SideRight:
		return 1
	case SideCenter:
		return 2
	}
	return 3
}

type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusLive      MatchStatus = "live"
	MatchStatusCompleted MatchStatus = "completed"
)

func (s MatchStatus) Valid() bool {
	switch s {
	case MatchStatusScheduled, MatchStatusLive, MatchStatusCompleted:
		return true
	}
	return false
}

func ParseMatchStatus(s string) (MatchStatus, error) {
	st := MatchStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown match status %q", s)
	}
	return st, nil
}

// Slot is one of the two player positions of a match.
type Slot string

const (
	SlotPlayer1 Slot = "player1"
	SlotPlayer2 Slot = "player2"
)

func (s Slot) Valid() bool {
	return s == SlotPlayer1 || s == SlotPlayer2
}

// MatchNode - узел сетки на выбывание. Переходы хранятся как ID следующих матчей.
type MatchNode struct {
	ID          string      `json:"id"`
	Competition Competition `json:"competition"`
	Round       Round       `json:"round"`
	Side        Side        `json:"side"`
	Position    int         `json:"position"`
	Player1     *string     `json:"player1"`
	Player2     *string     `json:"player2"`
	Score1      *int        `json:"score1"`
	Score2      *int        `json:"score2"`
	Status      MatchStatus `json:"status"`

	NextMatchID           *string `json:"next_match_id,omitempty"`
	WinnerDestinationSlot *Slot   `json:"winner_destination_slot,omitempty"`
	LoserNextMatchID      *string `json:"loser_next_match_id,omitempty"`
	LoserDestinationSlot  *Slot   `json:"loser_destination_slot,omitempty"`

	ScheduledTime *time.Time `json:"scheduled_time,omitempty"`
	CompletedTime *time.Time `json:"completed_time,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// HasPlayers reports whether both slots are filled.
func (m *MatchNode) HasPlayers() bool {
	return m.Player1 != nil && *m.Player1 != "" && m.Player2 != nil && *m.Player2 != ""
}

func (m *MatchNode) IsCompleted() bool {
	return m.Status == MatchStatusCompleted
}

func (m *MatchNode) CanRecordResult() bool {
	return m.HasPlayers() && !m.IsCompleted()
}

func (m *MatchNode) PlayerAt(slot Slot) *string {
	switch slot {
	case SlotPlayer1:
		return m.Player1
	case SlotPlayer2:
		return m.Player2
	}
	return nil
}

func (m *MatchNode) SetPlayerAt(slot Slot, player *string) {
	switch slot {
	case SlotPlayer1:
		m.Player1 = player
	case SlotPlayer2:
		m.Player2 = player
	}
}

// Winner returns the player with the higher score of a completed match.
func (m *MatchNode) Winner() (string, bool) {
	if !m.IsCompleted() || m.Score1 == nil || m.Score2 == nil || !m.HasPlayers() {
		return "", false
	}
	if *m.Score1 > *m.Score2 {
		return *m.Player1, true
	}
	return *m.Player2, true
}

func (m *MatchNode) Loser() (string, bool) {
	if !m.IsCompleted() || m.Score1 == nil || m.Score2 == nil || !m.HasPlayers() {
		return "", false
	}
	if *m.Score1 > *m.Score2 {
		return *m.Player2, true
	}
	return *m.Player1, true
}

// Clone returns a deep copy of the node.
func (m *MatchNode) Clone() *MatchNode {
	if m == nil {
		return nil
	}
	c := *m
	c.Player1 = cloneString(m.Player1)
	c.Player2 = cloneString(m.Player2)
	c.Score1 = cloneInt(m.Score1)
	c.Score2 = cloneInt(m.Score2)
	c.NextMatchID = cloneString(m.NextMatchID)
	c.LoserNextMatchID = cloneString(m.LoserNextMatchID)
	if m.WinnerDestinationSlot != nil {
		s := *m.WinnerDestinationSlot
		c.WinnerDestinationSlot = &s
	}
	if m.LoserDestinationSlot != nil {
		s := *m.LoserDestinationSlot
		c.LoserDestinationSlot = &s
	}
	c.ScheduledTime = cloneTime(m.ScheduledTime)
	c.CompletedTime = cloneTime(m.CompletedTime)
	return &c
}

// LessMatch orders nodes by round, side and position.
func LessMatch(a, b *MatchNode) bool {
	if a.Round.Order() != b.Round.Order() {
		return a.Round.Order() < b.Round.Order()
	}
	if a.Side.Order() != b.Side.Order() {
		return a.Side.Order() < b.Side.Order()
	}
	return a.Position < b.Position
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
