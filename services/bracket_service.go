package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/tournament-scoreboard/brackets"
	"github.com/Dosada05/tournament-scoreboard/models"
	"github.com/Dosada05/tournament-scoreboard/repositories"
)

// MatchOutcome describes a result or reset and every successor it touched.
type MatchOutcome struct {
	Match      *models.MatchNode    `json:"match"`
	Winner     string               `json:"winner,omitempty"`
	Loser      string               `json:"loser,omitempty"`
	Placements []brackets.Placement `json:"placements"`
	Successors []*models.MatchNode  `json:"successors"`
}

type BracketService interface {
	SeedBracket(ctx context.Context, competition models.Competition) ([]*models.MatchNode, error)
	GetMatch(ctx context.Context, competition models.Competition, matchID string) (*models.MatchNode, error)
	ListMatches(ctx context.Context, competition models.Competition) ([]*models.MatchNode, error)
	ListMatchesByRound(ctx context.Context, competition models.Competition, round models.Round) ([]*models.MatchNode, error)
	RecordResult(ctx context.Context, competition models.Competition, matchID string, score1, score2 int) (*MatchOutcome, error)
	ResetMatch(ctx context.Context, competition models.Competition, matchID string) (*MatchOutcome, error)
	SetInitialPlayers(ctx context.Context, competition models.Competition, matchID, player1, player2 string) (*models.MatchNode, error)
	UpdateMatchStatus(ctx context.Context, competition models.Competition, matchID string, status models.MatchStatus) (*models.MatchNode, error)
}

type bracketService struct {
	deps      Deps
	matches   repositories.MatchRepository
	generator brackets.BracketGenerator
}

func NewBracketService(deps Deps) BracketService {
	deps = deps.withDefaults()
	return &bracketService{
		deps:      deps,
		matches:   deps.Store.Matches,
		generator: brackets.NewSingleEliminationGenerator(),
	}
}

func (s *bracketService) SeedBracket(ctx context.Context, c models.Competition) (_ []*models.MatchNode, err error) {
	defer func(start time.Time) {
		s.deps.observe(ctx, "seed_bracket", start, err, slog.String("competition", c.String()))
	}(time.Now())

	if err := checkCompetition(c); err != nil {
		return nil, err
	}
	variant, err := brackets.VariantFor(c)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownCompetition, err)
	}
	nodes, err := s.generator.Generate(ctx, variant)
	if err != nil {
		return nil, err
	}
	if err := s.matches.ReplaceCompetition(ctx, c, nodes); err != nil {
		return nil, fmt.Errorf("failed to store bracket %s: %w", c, err)
	}

	s.deps.Logger.Info("bracket seeded",
		slog.String("competition", c.String()),
		slog.String("generator", s.generator.GetName()),
		slog.Int("matches", len(nodes)),
	)
	s.deps.Notifier.Publish(c.String(), EventBracketSeeded, nodes)
	return nodes, nil
}

func (s *bracketService) GetMatch(ctx context.Context, c models.Competition, matchID string) (*models.MatchNode, error) {
	if err := checkCompetition(c); err != nil {
		return nil, err
	}
	return s.loadMatch(ctx, c, matchID)
}

func (s *bracketService) ListMatches(ctx context.Context, c models.Competition) ([]*models.MatchNode, error) {
	if err := checkCompetition(c); err != nil {
		return nil, err
	}
	matches, err := s.matches.List(ctx, repositories.MatchFilter{Competition: c})
	if err != nil {
		return nil, handleRepositoryError(err, "bracket "+c.String())
	}
	return matches, nil
}

func (s *bracketService) ListMatchesByRound(ctx context.Context, c models.Competition, round models.Round) ([]*models.MatchNode, error) {
	if err := checkCompetition(c); err != nil {
		return nil, err
	}
	if !round.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRound, round)
	}
	matches, err := s.matches.List(ctx, repositories.MatchFilter{Competition: c, Round: &round})
	if err != nil {
		return nil, handleRepositoryError(err, "bracket "+c.String())
	}
	return matches, nil
}

// RecordResult completes the match and routes winner and loser to their destination slots.
// All validation happens before anything is written.
func (s *bracketService) RecordResult(ctx context.Context, c models.Competition, matchID string, score1, score2 int) (_ *MatchOutcome, err error) {
	defer func(start time.Time) {
		s.deps.observe(ctx, "record_result", start, err, slog.String("competition", c.String()), slog.String("match_id", matchID))
	}(time.Now())

	if err := checkCompetition(c); err != nil {
		return nil, err
	}
	if score1 < 0 || score2 < 0 {
		return nil, fmt.Errorf("%w: got %d and %d", ErrNegativeScore, score1, score2)
	}
	if score1 == score2 {
		return nil, fmt.Errorf("%w: %d-%d", ErrTiedScore, score1, score2)
	}

	var outcome *MatchOutcome
	err = s.deps.Store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		m, err := s.loadMatch(ctx, c, matchID)
		if err != nil {
			return err
		}
		if m.IsCompleted() {
			return fmt.Errorf("%w: %s", ErrMatchCompleted, matchID)
		}
		if !m.HasPlayers() {
			return fmt.Errorf("%w: %s", ErrMatchPlayersMissing, matchID)
		}

		now := s.deps.Now()
		brackets.Complete(m, score1, score2, now)
		winner, loser := brackets.Destinations(m)

		outcome = &MatchOutcome{Match: m, Placements: []brackets.Placement{}, Successors: []*models.MatchNode{}}
		outcome.Winner, _ = m.Winner()
		outcome.Loser, _ = m.Loser()

		successors := make(map[string]*models.MatchNode, 2)
		for _, p := range []*brackets.Placement{winner, loser} {
			if p == nil {
				continue
			}
			succ, ok := successors[p.MatchID]
			if !ok {
				succ, err = s.loadMatch(ctx, c, p.MatchID)
				if err != nil {
					return err
				}
				if succ.IsCompleted() {
					return fmt.Errorf("%w: %s", ErrSuccessorCompleted, succ.ID)
				}
				successors[p.MatchID] = succ
				outcome.Successors = append(outcome.Successors, succ)
			}
			brackets.Place(succ, *p, now)
			outcome.Placements = append(outcome.Placements, *p)
		}

		if err := s.matches.Save(ctx, m); err != nil {
			return handleRepositoryError(err, m.ID)
		}
		for _, succ := range outcome.Successors {
			if err := s.matches.Save(ctx, succ); err != nil {
				return handleRepositoryError(err, succ.ID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.deps.Metrics.IncResultsRecorded(c.String())
	s.deps.Logger.Info("match result recorded",
		slog.String("competition", c.String()),
		slog.String("match_id", matchID),
		slog.Int("score1", score1),
		slog.Int("score2", score2),
		slog.String("winner", outcome.Winner),
	)
	s.deps.Notifier.Publish(c.String(), EventMatchUpdated, outcome)
	return outcome, nil
}

// ResetMatch clears the result and pulls its winner and loser back out of the successors.
// It goes one hop only and refuses when a successor has already been played.
func (s *bracketService) ResetMatch(ctx context.Context, c models.Competition, matchID string) (_ *MatchOutcome, err error) {
	defer func(start time.Time) {
		s.deps.observe(ctx, "reset_match", start, err, slog.String("competition", c.String()), slog.String("match_id", matchID))
	}(time.Now())

	if err := checkCompetition(c); err != nil {
		return nil, err
	}

	var outcome *MatchOutcome
	err = s.deps.Store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		m, err := s.loadMatch(ctx, c, matchID)
		if err != nil {
			return err
		}

		outcome = &MatchOutcome{Match: m, Placements: []brackets.Placement{}, Successors: []*models.MatchNode{}}
		outcome.Winner, _ = m.Winner()
		outcome.Loser, _ = m.Loser()
		winner, loser := brackets.Destinations(m)

		now := s.deps.Now()
		successors := make(map[string]*models.MatchNode, 2)
		for _, p := range []*brackets.Placement{winner, loser} {
			if p == nil {
				continue
			}
			succ, ok := successors[p.MatchID]
			if !ok {
				succ, err = s.loadMatch(ctx, c, p.MatchID)
				if err != nil {
					return err
				}
				if succ.IsCompleted() {
					return fmt.Errorf("%w: %s", ErrSuccessorCompleted, succ.ID)
				}
				successors[p.MatchID] = succ
				outcome.Successors = append(outcome.Successors, succ)
			}
			if brackets.Retract(succ, *p, now) {
				outcome.Placements = append(outcome.Placements, *p)
			}
		}

		brackets.Clear(m, now)

		if err := s.matches.Save(ctx, m); err != nil {
			return handleRepositoryError(err, m.ID)
		}
		for _, succ := range outcome.Successors {
			if err := s.matches.Save(ctx, succ); err != nil {
				return handleRepositoryError(err, succ.ID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.deps.Metrics.IncMatchesReset(c.String())
	s.deps.Logger.Info("match reset",
		slog.String("competition", c.String()),
		slog.String("match_id", matchID),
		slog.Int("retracted", len(outcome.Placements)),
	)
	s.deps.Notifier.Publish(c.String(), EventMatchUpdated, outcome)
	return outcome, nil
}

func (s *bracketService) SetInitialPlayers(ctx context.Context, c models.Competition, matchID, player1, player2 string) (_ *models.MatchNode, err error) {
	defer func(start time.Time) {
		s.deps.observe(ctx, "set_initial_players", start, err, slog.String("competition", c.String()), slog.String("match_id", matchID))
	}(time.Now())

	if err := checkCompetition(c); err != nil {
		return nil, err
	}
	p1, err := normalizeName(player1)
	if err != nil {
		return nil, err
	}
	p2, err := normalizeName(player2)
	if err != nil {
		return nil, err
	}
	if p1 == p2 {
		return nil, fmt.Errorf("%w: %q", ErrSamePlayer, p1)
	}

	var m *models.MatchNode
	err = s.deps.Store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		m, err = s.loadMatch(ctx, c, matchID)
		if err != nil {
			return err
		}
		if err := assignPlayers(m, p1, p2, s.deps.Now()); err != nil {
			return err
		}
		return handleRepositoryError(s.matches.Save(ctx, m), m.ID)
	})
	if err != nil {
		return nil, err
	}

	s.deps.Logger.Info("match players set",
		slog.String("competition", c.String()),
		slog.String("match_id", matchID),
		slog.String("player1", p1),
		slog.String("player2", p2),
	)
	s.deps.Notifier.Publish(c.String(), EventMatchUpdated, m)
	return m, nil
}

func (s *bracketService) UpdateMatchStatus(ctx context.Context, c models.Competition, matchID string, status models.MatchStatus) (_ *models.MatchNode, err error) {
	defer func(start time.Time) {
		s.deps.observe(ctx, "update_match_status", start, err, slog.String("competition", c.String()), slog.String("match_id", matchID))
	}(time.Now())

	if err := checkCompetition(c); err != nil {
		return nil, err
	}
	switch status {
	case models.MatchStatusScheduled, models.MatchStatusLive:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	var m *models.MatchNode
	err = s.deps.Store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		m, err = s.loadMatch(ctx, c, matchID)
		if err != nil {
			return err
		}
		if m.IsCompleted() {
			return fmt.Errorf("%w: %s", ErrMatchCompleted, matchID)
		}
		if status == models.MatchStatusLive && !m.HasPlayers() {
			return fmt.Errorf("%w: %s", ErrMatchPlayersMissing, matchID)
		}
		m.Status = status
		m.UpdatedAt = s.deps.Now()
		return handleRepositoryError(s.matches.Save(ctx, m), m.ID)
	})
	if err != nil {
		return nil, err
	}

	s.deps.Logger.Info("match status changed",
		slog.String("competition", c.String()),
		slog.String("match_id", matchID),
		slog.String("status", string(status)),
	)
	s.deps.Notifier.Publish(c.String(), EventMatchUpdated, m)
	return m, nil
}

func (s *bracketService) loadMatch(ctx context.Context, c models.Competition, matchID string) (*models.MatchNode, error) {
	m, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return nil, handleRepositoryError(err, matchID)
	}
	if m.Competition != c {
		return nil, fmt.Errorf("%w: %s in %s", ErrMatchNotFound, matchID, c)
	}
	return m, nil
}

// assignPlayers is the set-initial-players transition shared with knockout seeding.
func assignPlayers(m *models.MatchNode, player1, player2 string, now time.Time) error {
	if m.IsCompleted() {
		return fmt.Errorf("%w: %s", ErrMatchCompleted, m.ID)
	}
	p1, p2 := player1, player2
	m.Player1 = &p1
	m.Player2 = &p2
	m.Status = models.MatchStatusScheduled
	m.UpdatedAt = now
	return nil
}
