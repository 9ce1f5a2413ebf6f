package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/tournament-scoreboard/models"
	"github.com/Dosada05/tournament-scoreboard/repositories"
)

type OverviewService interface {
	Get(ctx context.Context) (*models.Overview, error)
	Competition(ctx context.Context, competition models.Competition) (*models.CompetitionOverview, error)
}

type overviewService struct {
	deps Deps
}

func NewOverviewService(deps Deps) OverviewService {
	return &overviewService{deps: deps.withDefaults()}
}

// Get загружает обе сетки, обе группы и дартс параллельно.
func (s *overviewService) Get(ctx context.Context) (*models.Overview, error) {
	competitions := models.Competitions()
	overview := &models.Overview{Competitions: make([]models.CompetitionOverview, len(competitions))}

	g, gCtx := errgroup.WithContext(ctx)
	for i, c := range competitions {
		g.Go(func() error {
			co, err := s.Competition(gCtx, c)
			if err != nil {
				return err
			}
			overview.Competitions[i] = *co
			return nil
		})
	}

	g.Go(func() error {
		t, err := s.deps.Store.Survival.Get(gCtx, models.SurvivalTournamentID)
		if errors.Is(err, repositories.ErrSurvivalNotFound) {
			// Дартс ещё не создан: страница показывает только сетки.
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load survival tournament: %w", err)
		}
		overview.Survival = t
		return nil
	})

	if err := g.Wait(); err != nil {
		s.deps.Logger.ErrorContext(ctx, "failed to build overview", "error", err)
		return nil, err
	}
	return overview, nil
}

func (s *overviewService) Competition(ctx context.Context, c models.Competition) (*models.CompetitionOverview, error) {
	if err := checkCompetition(c); err != nil {
		return nil, err
	}
	co := &models.CompetitionOverview{Competition: c}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		matches, err := s.deps.Store.Matches.List(gCtx, repositories.MatchFilter{Competition: c})
		if err != nil {
			return fmt.Errorf("failed to load bracket of %s: %w", c, err)
		}
		co.Matches = matches
		return nil
	})
	g.Go(func() error {
		groups, err := s.deps.Store.Groups.List(gCtx, c)
		if err != nil {
			return fmt.Errorf("failed to load groups of %s: %w", c, err)
		}
		co.Groups = groups
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	co.Champion = champion(co.Matches)
	return co, nil
}

func champion(matches []*models.MatchNode) *string {
	for _, m := range matches {
		if m.Round != models.RoundFinal {
			continue
		}
		if w, ok := m.Winner(); ok {
			return &w
		}
	}
	return nil
}
