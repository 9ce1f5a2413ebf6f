package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-scoreboard/models"
)

func newSurvival(t *testing.T, players map[string]int, order []string) (*fixture, SurvivalService) {
	t.Helper()
	f := newFixture(t)
	svc := NewSurvivalService(f.deps)
	ctx := context.Background()

	_, err := svc.Reset(ctx, "")
	require.NoError(t, err)
	for _, name := range order {
		_, err := svc.AddPlayer(ctx, name)
		require.NoError(t, err)
	}
	for _, name := range order {
		_, err := svc.SetScore(ctx, 1, name, players[name])
		require.NoError(t, err)
	}
	return f, svc
}

func roundNames(r *models.SurvivalRound) []string {
	out := make([]string, len(r.Players))
	for i, p := range r.Players {
		out[i] = p.Name
	}
	return out
}

func TestSurvival_GetBeforeReset(t *testing.T) {
	f := newFixture(t)
	_, err := NewSurvivalService(f.deps).Get(context.Background())
	assert.ErrorIs(t, err, ErrSurvivalNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSurvival_Reset(t *testing.T) {
	f, svc := newSurvival(t, map[string]int{"a": 1}, []string{"a"})
	ctx := context.Background()

	tour, err := svc.Reset(ctx, "Office Darts")
	require.NoError(t, err)
	assert.Equal(t, models.SurvivalTournamentID, tour.ID)
	assert.Equal(t, "Office Darts", tour.Name)
	require.Len(t, tour.Rounds, 1)
	assert.Empty(t, tour.Rounds[0].Players)
	assert.Equal(t, 1, tour.CurrentRound)

	n, err := f.store.Survival.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "reset keeps a single tournament document")
}

func TestSurvival_EndRoundTieInclusiveCutoff(t *testing.T) {
	f, svc := newSurvival(t,
		map[string]int{"p10": 10, "p8a": 8, "p8b": 8, "p5": 5, "p2": 2},
		[]string{"p5", "p8a", "p2", "p10", "p8b"},
	)
	ctx := context.Background()

	res, err := svc.EndRound(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Outcome.QualifyCount)
	assert.Equal(t, 8, res.Outcome.Threshold)
	assert.False(t, res.Outcome.Final)

	tour := res.Tournament
	assert.Equal(t, 2, tour.CurrentRound)
	first := tour.Round(1)
	assert.True(t, first.IsCompleted)
	assert.False(t, first.IsActive)

	second := tour.Round(2)
	require.NotNil(t, second)
	assert.True(t, second.IsActive)
	assert.Equal(t, []string{"p10", "p8a", "p8b"}, roundNames(second))
	for _, p := range second.Players {
		assert.Zero(t, p.Score)
	}

	assert.Equal(t, 1, f.metrics.Count("survival_rounds_ended"))
	assert.Contains(t, f.notifier.types(), EventSurvivalUpdated)
}

func TestSurvival_TiesCanExceedHalf(t *testing.T) {
	_, svc := newSurvival(t,
		map[string]int{"a": 7, "b": 5, "c": 5, "d": 5},
		[]string{"a", "b", "c", "d"},
	)

	res, err := svc.EndRound(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Outcome.QualifyCount)
	assert.Len(t, res.Outcome.Qualified, 4)
}

func TestSurvival_FinalRoundFinishesTournament(t *testing.T) {
	f, svc := newSurvival(t,
		map[string]int{"a": 3, "b": 9, "c": 6},
		[]string{"a", "b", "c"},
	)
	ctx := context.Background()

	res, err := svc.EndRound(ctx)
	require.NoError(t, err)
	assert.True(t, res.Outcome.Final)
	assert.True(t, res.Tournament.IsFinished)
	assert.Len(t, res.Tournament.Rounds, 1)

	ranking := res.Tournament.Round(1).Ranking()
	assert.Equal(t, "b", ranking[0].Name)
	assert.Equal(t, "a", ranking[2].Name)

	_, err = svc.EndRound(ctx)
	assert.ErrorIs(t, err, ErrTournamentFinished)
	_, err = svc.SetScore(ctx, 1, "a", 10)
	assert.ErrorIs(t, err, ErrRoundNotEditable)
	assert.Equal(t, 1, f.metrics.Count("survival_rounds_ended:final"))
}

func TestSurvival_RegistrationAndScores(t *testing.T) {
	_, svc := newSurvival(t,
		map[string]int{"a": 1, "b": 2, "c": 3, "d": 4},
		[]string{"a", "b", "c", "d"},
	)
	ctx := context.Background()

	_, err := svc.AddPlayer(ctx, "a")
	assert.ErrorIs(t, err, ErrDuplicatePlayer)
	_, err = svc.AddPlayer(ctx, "")
	assert.ErrorIs(t, err, ErrPlayerNameRequired)
	_, err = svc.SetScore(ctx, 1, "a", -5)
	assert.ErrorIs(t, err, ErrNegativeScore)
	_, err = svc.SetScore(ctx, 1, "ghost", 5)
	assert.ErrorIs(t, err, ErrPlayerNotFound)
	_, err = svc.SetScore(ctx, 4, "a", 5)
	assert.ErrorIs(t, err, ErrRoundNotFound)

	_, err = svc.EndRound(ctx)
	require.NoError(t, err)

	_, err = svc.AddPlayer(ctx, "late")
	assert.ErrorIs(t, err, ErrRegistrationClosed)
	_, err = svc.RemovePlayer(ctx, "a")
	assert.ErrorIs(t, err, ErrRegistrationClosed)
	_, err = svc.SetScore(ctx, 1, "d", 50)
	assert.ErrorIs(t, err, ErrRoundNotEditable)

	tour, err := svc.SetScore(ctx, 2, "d", 50)
	require.NoError(t, err)
	assert.Equal(t, 50, tour.Round(2).Players[tour.Round(2).PlayerIndex("d")].Score)
}

func TestSurvival_RemovePlayerAndEmptyRound(t *testing.T) {
	_, svc := newSurvival(t, map[string]int{"a": 0}, []string{"a"})
	ctx := context.Background()

	tour, err := svc.RemovePlayer(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, tour.Round(1).Players)

	_, err = svc.EndRound(ctx)
	assert.ErrorIs(t, err, ErrNotEnoughPlayers)
}
