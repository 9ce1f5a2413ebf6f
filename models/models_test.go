package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumsValid(t *testing.T) {
	for _, r := range []Round{RoundR16, RoundQF, RoundSF, RoundFinal, RoundThirdPlace} {
		assert.True(t, r.Valid(), r)
	}
	assert.False(t, Round("3rdPlace").Valid())
	assert.False(t, Side("middle").Valid())
	assert.False(t, MatchStatus("done").Valid())
	assert.False(t, Slot("player3").Valid())

	_, err := ParseRound("Semi")
	assert.Error(t, err)
	c, err := ParseCompetition("table-tennis")
	require.NoError(t, err)
	assert.Equal(t, CompetitionTableTennis, c)
}

func TestMatchNode_WinnerLoser(t *testing.T) {
	p1, p2 := "Ann", "Ben"
	s1, s2 := 0, 2
	m := &MatchNode{Player1: &p1, Player2: &p2, Score1: &s1, Score2: &s2, Status: MatchStatusLive}

	_, ok := m.Winner()
	assert.False(t, ok, "live match has no winner yet")
	assert.True(t, m.CanRecordResult())

	m.Status = MatchStatusCompleted
	w, ok := m.Winner()
	require.True(t, ok)
	assert.Equal(t, "Ben", w)
	l, _ := m.Loser()
	assert.Equal(t, "Ann", l)
	assert.False(t, m.CanRecordResult())
}

func TestMatchNode_CloneIsDeep(t *testing.T) {
	p := "Ann"
	slot := SlotPlayer2
	m := &MatchNode{ID: "x", Player1: &p, WinnerDestinationSlot: &slot}
	c := m.Clone()
	*c.Player1 = "changed"
	*c.WinnerDestinationSlot = SlotPlayer1
	assert.Equal(t, "Ann", *m.Player1)
	assert.Equal(t, SlotPlayer2, *m.WinnerDestinationSlot)
}

func TestLessMatch(t *testing.T) {
	a := &MatchNode{Round: RoundR16, Side: SideRight, Position: 1}
	b := &MatchNode{Round: RoundQF, Side: SideLeft, Position: 1}
	c := &MatchNode{Round: RoundR16, Side: SideLeft, Position: 4}
	assert.True(t, LessMatch(a, b))
	assert.True(t, LessMatch(c, a))
	assert.False(t, LessMatch(b, c))
}

func TestSurvivalTournament(t *testing.T) {
	st := NewSurvivalTournament(SurvivalTournamentID, "Darts", time.Now())
	require.Len(t, st.Rounds, 1)
	assert.True(t, st.CanRegister())
	assert.True(t, st.CanEditScores(1))
	assert.False(t, st.CanEditScores(2))

	st.Rounds[0].Players = []RoundPlayer{{Name: "a", Score: 1}, {Name: "b", Score: 4}, {Name: "c", Score: 1}}
	ranking := st.ActiveRound().Ranking()
	assert.Equal(t, []string{"b", "a", "c"}, []string{ranking[0].Name, ranking[1].Name, ranking[2].Name})

	clone := st.Clone()
	clone.Rounds[0].Players[0].Score = 99
	assert.Equal(t, 1, st.Rounds[0].Players[0].Score)

	st.Rounds[0].IsCompleted = true
	assert.False(t, st.CanRegister())
}

func TestResultEnvelope(t *testing.T) {
	ok := OK("done", 5)
	assert.True(t, ok.Success)
	require.NotNil(t, ok.Data)
	assert.Equal(t, 5, *ok.Data)

	failed := Failed("match not found")
	assert.False(t, failed.Success)
	assert.Nil(t, failed.Data)
}
