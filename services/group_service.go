package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/tournament-scoreboard/brackets"
	"github.com/Dosada05/tournament-scoreboard/models"
	"github.com/Dosada05/tournament-scoreboard/repositories"
)

// GroupStandings is a group with its players in presentation order.
type GroupStandings struct {
	Competition models.Competition   `json:"competition"`
	Group       string               `json:"group"`
	Standings   []models.GroupPlayer `json:"standings"`
	Concluded   bool                 `json:"concluded"`
}

// GroupMatchInput is one round-robin result.
type GroupMatchInput struct {
	PlayerA string `json:"player_a"`
	PlayerB string `json:"player_b"`
	ScoreA  int    `json:"score_a"`
	ScoreB  int    `json:"score_b"`
}

// KnockoutDraw is what AdvanceToKnockout wrote into the round of 16.
type KnockoutDraw struct {
	Competition models.Competition  `json:"competition"`
	Qualifiers  []string            `json:"qualifiers"`
	Pairings    []brackets.Pairing  `json:"pairings"`
	Matches     []*models.MatchNode `json:"matches"`
}

type GroupService interface {
	InitializeGroups(ctx context.Context, competition models.Competition) ([]*models.Group, error)
	ListGroups(ctx context.Context, competition models.Competition) ([]*models.Group, error)
	GetGroup(ctx context.Context, competition models.Competition, group string) (*models.Group, error)
	AddPlayer(ctx context.Context, competition models.Competition, group, name string) (*models.Group, error)
	RemovePlayer(ctx context.Context, competition models.Competition, group, name string) (*models.Group, error)
	RecordMatch(ctx context.Context, competition models.Competition, group string, input GroupMatchInput) (*GroupStandings, error)
	Standings(ctx context.Context, competition models.Competition, group string) (*GroupStandings, error)
	Qualifiers(ctx context.Context, competition models.Competition, group string) ([]models.GroupPlayer, error)
	SwapPlayers(ctx context.Context, competition models.Competition, group, playerA, playerB string) (*models.Group, error)
	Fixtures(ctx context.Context, competition models.Competition, group string) ([]brackets.Fixture, error)
	AdvanceToKnockout(ctx context.Context, competition models.Competition) (*KnockoutDraw, error)
}

type groupService struct {
	deps     Deps
	groups   repositories.GroupRepository
	matches  repositories.MatchRepository
	fixtures *brackets.RoundRobinGenerator
}

func NewGroupService(deps Deps) GroupService {
	deps = deps.withDefaults()
	return &groupService{
		deps:     deps,
		groups:   deps.Store.Groups,
		matches:  deps.Store.Matches,
		fixtures: brackets.NewRoundRobinGenerator(1),
	}
}

// InitializeGroups replaces the competition's groups with eight empty ones.
func (s *groupService) InitializeGroups(ctx context.Context, c models.Competition) (_ []*models.Group, err error) {
	defer func(start time.Time) {
		s.deps.observe(ctx, "initialize_groups", start, err, slog.String("competition", c.String()))
	}(time.Now())

	if err := checkCompetition(c); err != nil {
		return nil, err
	}
	groups := make([]*models.Group, 0, len(models.GroupNames))
	for _, name := range models.GroupNames {
		groups = append(groups, &models.Group{Competition: c, Name: name, Players: []models.GroupPlayer{}})
	}
	if err := s.groups.ReplaceCompetition(ctx, c, groups); err != nil {
		return nil, fmt.Errorf("failed to initialize groups of %s: %w", c, err)
	}

	s.deps.Logger.Info("groups initialized", slog.String("competition", c.String()))
	s.deps.Notifier.Publish(c.String(), EventGroupsInitialized, groups)
	return groups, nil
}

func (s *groupService) ListGroups(ctx context.Context, c models.Competition) ([]*models.Group, error) {
	if err := checkCompetition(c); err != nil {
		return nil, err
	}
	groups, err := s.groups.List(ctx, c)
	if err != nil {
		return nil, handleRepositoryError(err, "groups of "+c.String())
	}
	return groups, nil
}

func (s *groupService) GetGroup(ctx context.Context, c models.Competition, group string) (*models.Group, error) {
	if err := checkCompetition(c); err != nil {
		return nil, err
	}
	return s.loadGroup(ctx, c, group)
}

func (s *groupService) AddPlayer(ctx context.Context, c models.Competition, group, name string) (_ *models.Group, err error) {
	defer func(start time.Time) {
		s.deps.observe(ctx, "add_group_player", start, err, slog.String("competition", c.String()), slog.String("group", group))
	}(time.Now())

	name, err = normalizeName(name)
	if err != nil {
		return nil, err
	}

	g, err := s.mutateGroup(ctx, c, group, func(g *models.Group) error {
		if g.IsConcluded() {
			return fmt.Errorf("%w: group %s", ErrGroupConcluded, g.Name)
		}
		if g.PlayerIndex(name) >= 0 {
			return fmt.Errorf("%w: %q in group %s", ErrDuplicatePlayer, name, g.Name)
		}
		g.Players = append(g.Players, models.GroupPlayer{Name: name})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.deps.Logger.Info("group player added", slog.String("competition", c.String()), slog.String("group", group), slog.String("player", name))
	return g, nil
}

func (s *groupService) RemovePlayer(ctx context.Context, c models.Competition, group, name string) (_ *models.Group, err error) {
	defer func(start time.Time) {
		s.deps.observe(ctx, "remove_group_player", start, err, slog.String("competition", c.String()), slog.String("group", group))
	}(time.Now())

	g, err := s.mutateGroup(ctx, c, group, func(g *models.Group) error {
		if g.IsConcluded() {
			return fmt.Errorf("%w: group %s", ErrGroupConcluded, g.Name)
		}
		idx := g.PlayerIndex(name)
		if idx < 0 {
			return fmt.Errorf("%w: %q in group %s", ErrPlayerNotFound, name, g.Name)
		}
		if g.Players[idx].MatchesPlayed > 0 {
			return fmt.Errorf("%w: %q", ErrPlayerHasMatches, name)
		}
		g.Players = append(g.Players[:idx], g.Players[idx+1:]...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.deps.Logger.Info("group player removed", slog.String("competition", c.String()), slog.String("group", group), slog.String("player", name))
	return g, nil
}

// RecordMatch applies one group result to both players in a single save.
func (s *groupService) RecordMatch(ctx context.Context, c models.Competition, group string, in GroupMatchInput) (_ *GroupStandings, err error) {
	defer func(start time.Time) {
		s.deps.observe(ctx, "record_group_match", start, err, slog.String("competition", c.String()), slog.String("group", group))
	}(time.Now())

	if in.ScoreA < 0 || in.ScoreB < 0 {
		return nil, fmt.Errorf("%w: got %d and %d", ErrNegativeScore, in.ScoreA, in.ScoreB)
	}
	if in.PlayerA == in.PlayerB {
		return nil, fmt.Errorf("%w: %q", ErrSamePlayer, in.PlayerA)
	}

	g, err := s.mutateGroup(ctx, c, group, func(g *models.Group) error {
		ia := g.PlayerIndex(in.PlayerA)
		if ia < 0 {
			return fmt.Errorf("%w: %q in group %s", ErrPlayerNotFound, in.PlayerA, g.Name)
		}
		ib := g.PlayerIndex(in.PlayerB)
		if ib < 0 {
			return fmt.Errorf("%w: %q in group %s", ErrPlayerNotFound, in.PlayerB, g.Name)
		}
		brackets.ApplyGroupResult(&g.Players[ia], &g.Players[ib], in.ScoreA, in.ScoreB)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.deps.Metrics.IncGroupMatchesRecorded(c.String())
	s.deps.Logger.Info("group match recorded",
		slog.String("competition", c.String()),
		slog.String("group", group),
		slog.String("player_a", in.PlayerA),
		slog.String("player_b", in.PlayerB),
		slog.Int("score_a", in.ScoreA),
		slog.Int("score_b", in.ScoreB),
	)
	return standingsOf(g), nil
}

func (s *groupService) Standings(ctx context.Context, c models.Competition, group string) (*GroupStandings, error) {
	if err := checkCompetition(c); err != nil {
		return nil, err
	}
	g, err := s.loadGroup(ctx, c, group)
	if err != nil {
		return nil, err
	}
	return standingsOf(g), nil
}

func (s *groupService) Qualifiers(ctx context.Context, c models.Competition, group string) ([]models.GroupPlayer, error) {
	st, err := s.Standings(ctx, c, group)
	if err != nil {
		return nil, err
	}
	if len(st.Standings) < brackets.QualifiersPerGroup {
		return nil, fmt.Errorf("%w: group %s has %d", ErrNotEnoughPlayers, group, len(st.Standings))
	}
	return st.Standings[:brackets.QualifiersPerGroup], nil
}

// SwapPlayers exchanges stored positions; this is how a full tie is settled by hand.
func (s *groupService) SwapPlayers(ctx context.Context, c models.Competition, group, playerA, playerB string) (_ *models.Group, err error) {
	defer func(start time.Time) {
		s.deps.observe(ctx, "swap_group_players", start, err, slog.String("competition", c.String()), slog.String("group", group))
	}(time.Now())

	if playerA == playerB {
		return nil, fmt.Errorf("%w: %q", ErrSamePlayer, playerA)
	}
	g, err := s.mutateGroup(ctx, c, group, func(g *models.Group) error {
		ia := g.PlayerIndex(playerA)
		if ia < 0 {
			return fmt.Errorf("%w: %q in group %s", ErrPlayerNotFound, playerA, g.Name)
		}
		ib := g.PlayerIndex(playerB)
		if ib < 0 {
			return fmt.Errorf("%w: %q in group %s", ErrPlayerNotFound, playerB, g.Name)
		}
		g.Players[ia], g.Players[ib] = g.Players[ib], g.Players[ia]
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.deps.Logger.Info("group players swapped",
		slog.String("competition", c.String()),
		slog.String("group", group),
		slog.String("player_a", playerA),
		slog.String("player_b", playerB),
	)
	return g, nil
}

func (s *groupService) Fixtures(ctx context.Context, c models.Competition, group string) ([]brackets.Fixture, error) {
	g, err := s.GetGroup(ctx, c, group)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(g.Players))
	for i, p := range g.Players {
		names[i] = p.Name
	}
	fixtures, err := s.fixtures.Fixtures(names)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotEnoughPlayers, err)
	}
	s.deps.Logger.DebugContext(ctx, "fixtures generated",
		slog.String("group", group),
		slog.String("generator", s.fixtures.GetName()),
		slog.Int("fixtures", len(fixtures)),
	)
	return fixtures, nil
}

// AdvanceToKnockout takes the top two of every group and writes them into the round of 16.
func (s *groupService) AdvanceToKnockout(ctx context.Context, c models.Competition) (_ *KnockoutDraw, err error) {
	defer func(start time.Time) {
		s.deps.observe(ctx, "advance_to_knockout", start, err, slog.String("competition", c.String()))
	}(time.Now())

	if err := checkCompetition(c); err != nil {
		return nil, err
	}
	variant, err := brackets.VariantFor(c)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownCompetition, err)
	}

	var draw *KnockoutDraw
	err = s.deps.Store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		groups, err := s.groups.List(ctx, c)
		if err != nil {
			return handleRepositoryError(err, "groups of "+c.String())
		}
		if len(groups) != len(models.GroupNames) {
			return fmt.Errorf("%w: found %d groups", ErrGroupsIncomplete, len(groups))
		}

		qualifiers := make([]string, 0, len(models.GroupNames)*brackets.QualifiersPerGroup)
		for i, g := range groups {
			if g.Name != models.GroupNames[i] {
				return fmt.Errorf("%w: unexpected group %q", ErrGroupsIncomplete, g.Name)
			}
			if len(g.Players) < brackets.QualifiersPerGroup {
				return fmt.Errorf("%w: group %s has %d players", ErrGroupsIncomplete, g.Name, len(g.Players))
			}
			top := brackets.SortStandings(g.Players)
			for _, p := range top[:brackets.QualifiersPerGroup] {
				qualifiers = append(qualifiers, p.Name)
			}
		}

		pairings, err := brackets.KnockoutPairings(variant, qualifiers)
		if err != nil {
			return err
		}

		now := s.deps.Now()
		written := make([]*models.MatchNode, 0, len(pairings))
		for _, p := range pairings {
			m, err := s.matches.GetByID(ctx, p.MatchID)
			if errors.Is(err, repositories.ErrMatchNotFound) {
				return fmt.Errorf("%w: %s missing", ErrBracketNotSeeded, p.MatchID)
			}
			if err != nil {
				return handleRepositoryError(err, p.MatchID)
			}
			if m.IsCompleted() {
				return fmt.Errorf("%w: %s", ErrKnockoutStarted, m.ID)
			}
			if err := assignPlayers(m, p.Player1, p.Player2, now); err != nil {
				return err
			}
			if err := s.matches.Save(ctx, m); err != nil {
				return handleRepositoryError(err, m.ID)
			}
			written = append(written, m)
		}

		for _, g := range groups {
			t := now
			g.ConcludedAt = &t
			if err := s.groups.Save(ctx, g); err != nil {
				return handleRepositoryError(err, "group "+g.Name)
			}
		}

		draw = &KnockoutDraw{Competition: c, Qualifiers: qualifiers, Pairings: pairings, Matches: written}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.deps.Metrics.IncKnockoutAdvances(c.String())
	s.deps.Logger.Info("group stage advanced to knockout", slog.String("competition", c.String()), slog.Int("matches", len(draw.Matches)))
	s.deps.Notifier.Publish(c.String(), EventKnockoutSeeded, draw)
	return draw, nil
}

// mutateGroup loads, changes and saves one group inside a transaction.
func (s *groupService) mutateGroup(ctx context.Context, c models.Competition, group string, fn func(g *models.Group) error) (*models.Group, error) {
	if err := checkCompetition(c); err != nil {
		return nil, err
	}
	var out *models.Group
	err := s.deps.Store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		g, err := s.loadGroup(ctx, c, group)
		if err != nil {
			return err
		}
		if err := fn(g); err != nil {
			return err
		}
		g.UpdatedAt = s.deps.Now()
		if err := s.groups.Save(ctx, g); err != nil {
			return handleRepositoryError(err, "group "+g.Name)
		}
		out = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.deps.Notifier.Publish(c.String(), EventGroupUpdated, standingsOf(out))
	return out, nil
}

func (s *groupService) loadGroup(ctx context.Context, c models.Competition, group string) (*models.Group, error) {
	if !models.IsGroupName(group) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidGroupName, group)
	}
	g, err := s.groups.Get(ctx, c, group)
	if err != nil {
		return nil, handleRepositoryError(err, fmt.Sprintf("group %s/%s", c, group))
	}
	return g, nil
}

func standingsOf(g *models.Group) *GroupStandings {
	return &GroupStandings{
		Competition: g.Competition,
		Group:       g.Name,
		Standings:   brackets.SortStandings(g.Players),
		Concluded:   g.IsConcluded(),
	}
}
