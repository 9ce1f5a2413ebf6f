package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-scoreboard/models"
)

func node(id string, round models.Round, side models.Side, pos int) *models.MatchNode {
	return &models.MatchNode{
		ID:          id,
		Competition: models.CompetitionFIFA,
		Round:       round,
		Side:        side,
		Position:    pos,
		Status:      models.MatchStatusScheduled,
	}
}

func TestMemoryMatches_ListOrdering(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	repo := store.Matches()

	for _, n := range []*models.MatchNode{
		node("C-F-1", models.RoundFinal, models.SideCenter, 1),
		node("R-R16-2", models.RoundR16, models.SideRight, 2),
		node("L-QF-1", models.RoundQF, models.SideLeft, 1),
		node("L-R16-2", models.RoundR16, models.SideLeft, 2),
		node("R-R16-1", models.RoundR16, models.SideRight, 1),
		node("L-R16-1", models.RoundR16, models.SideLeft, 1),
	} {
		require.NoError(t, repo.Save(ctx, n))
	}
	other := node("TT-C-F-1", models.RoundFinal, models.SideCenter, 1)
	other.Competition = models.CompetitionTableTennis
	require.NoError(t, repo.Save(ctx, other))

	all, err := repo.List(ctx, MatchFilter{Competition: models.CompetitionFIFA})
	require.NoError(t, err)
	ids := make([]string, len(all))
	for i, m := range all {
		ids[i] = m.ID
	}
	assert.Equal(t, []string{"L-R16-1", "L-R16-2", "R-R16-1", "R-R16-2", "L-QF-1", "C-F-1"}, ids)

	r16 := models.RoundR16
	byRound, err := repo.List(ctx, MatchFilter{Competition: models.CompetitionFIFA, Round: &r16})
	require.NoError(t, err)
	assert.Len(t, byRound, 4)
}

func TestMemoryMatches_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryStore().Matches()
	require.NoError(t, repo.Save(ctx, node("L-R16-1", models.RoundR16, models.SideLeft, 1)))

	m, err := repo.GetByID(ctx, "L-R16-1")
	require.NoError(t, err)
	p := "Ann"
	m.Player1 = &p

	again, err := repo.GetByID(ctx, "L-R16-1")
	require.NoError(t, err)
	assert.Nil(t, again.Player1)

	_, err = repo.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestMemoryMatches_RejectsBrokenRouting(t *testing.T) {
	n := node("L-R16-1", models.RoundR16, models.SideLeft, 1)
	next := "L-QF-1"
	n.NextMatchID = &next
	err := NewMemoryStore().Matches().Save(context.Background(), n)
	assert.ErrorIs(t, err, ErrMatchInvalidRouting)
}

func TestMemoryStore_WithinTxRollsBack(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	repo := store.Matches()
	require.NoError(t, repo.Save(ctx, node("L-R16-1", models.RoundR16, models.SideLeft, 1)))

	boom := errors.New("boom")
	err := store.WithinTx(ctx, func(ctx context.Context) error {
		m, err := repo.GetByID(ctx, "L-R16-1")
		require.NoError(t, err)
		m.Status = models.MatchStatusLive
		require.NoError(t, repo.Save(ctx, m))
		require.NoError(t, repo.Save(ctx, node("L-QF-1", models.RoundQF, models.SideLeft, 1)))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	m, err := repo.GetByID(ctx, "L-R16-1")
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusScheduled, m.Status)
	_, err = repo.GetByID(ctx, "L-QF-1")
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestMemoryStore_WithinTxCommits(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	groups := store.Groups()

	err := store.WithinTx(ctx, func(ctx context.Context) error {
		return groups.Save(ctx, &models.Group{Competition: models.CompetitionFIFA, Name: "A"})
	})
	require.NoError(t, err)

	g, err := groups.Get(ctx, models.CompetitionFIFA, "A")
	require.NoError(t, err)
	assert.NotNil(t, g.Players)
	assert.False(t, g.CreatedAt.IsZero())
}

func TestMemoryGroups_ReplaceCompetition(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	groups := store.Groups()
	require.NoError(t, groups.Save(ctx, &models.Group{Competition: models.CompetitionFIFA, Name: "Z"}))
	require.NoError(t, groups.Save(ctx, &models.Group{Competition: models.CompetitionTableTennis, Name: "A"}))

	fresh := []*models.Group{
		{Competition: models.CompetitionFIFA, Name: "B"},
		{Competition: models.CompetitionFIFA, Name: "A"},
	}
	require.NoError(t, groups.ReplaceCompetition(ctx, models.CompetitionFIFA, fresh))

	list, err := groups.List(ctx, models.CompetitionFIFA)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "A", list[0].Name)
	assert.Equal(t, "B", list[1].Name)

	tt, err := groups.List(ctx, models.CompetitionTableTennis)
	require.NoError(t, err)
	assert.Len(t, tt, 1)
}

func TestMemorySurvival_SingletonKey(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryStore().Survival()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Save(ctx, models.NewSurvivalTournament(models.SurvivalTournamentID, "Darts", time.Now())))
	}
	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, repo.Delete(ctx, models.SurvivalTournamentID))
	assert.ErrorIs(t, repo.Delete(ctx, models.SurvivalTournamentID), ErrSurvivalNotFound)
}
