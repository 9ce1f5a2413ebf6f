package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/tournament-scoreboard/brackets"
	"github.com/Dosada05/tournament-scoreboard/models"
	"github.com/Dosada05/tournament-scoreboard/repositories"
)

const DefaultSurvivalName = "Darts Tournament"

// RoundResult is returned by EndRound.
type RoundResult struct {
	Tournament *models.SurvivalTournament `json:"tournament"`
	Outcome    brackets.RoundOutcome      `json:"outcome"`
}

type SurvivalService interface {
	Get(ctx context.Context) (*models.SurvivalTournament, error)
	Reset(ctx context.Context, name string) (*models.SurvivalTournament, error)
	AddPlayer(ctx context.Context, name string) (*models.SurvivalTournament, error)
	RemovePlayer(ctx context.Context, name string) (*models.SurvivalTournament, error)
	SetScore(ctx context.Context, roundNumber int, playerName string, score int) (*models.SurvivalTournament, error)
	EndRound(ctx context.Context) (*RoundResult, error)
}

type survivalService struct {
	deps Deps
	repo repositories.SurvivalRepository
}

func NewSurvivalService(deps Deps) SurvivalService {
	deps = deps.withDefaults()
	return &survivalService{deps: deps, repo: deps.Store.Survival}
}

func (s *survivalService) Get(ctx context.Context) (*models.SurvivalTournament, error) {
	t, err := s.repo.Get(ctx, models.SurvivalTournamentID)
	if err != nil {
		return nil, handleRepositoryError(err, models.SurvivalTournamentID)
	}
	return t, nil
}

// Reset drops the current tournament and starts a new one with an empty first round.
func (s *survivalService) Reset(ctx context.Context, name string) (_ *models.SurvivalTournament, err error) {
	defer func(start time.Time) {
		s.deps.observe(ctx, "reset_survival", start, err)
	}(time.Now())

	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultSurvivalName
	}
	t := models.NewSurvivalTournament(models.SurvivalTournamentID, name, s.deps.Now())

	err = s.deps.Store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Delete(ctx, t.ID); err != nil && !errors.Is(err, repositories.ErrSurvivalNotFound) {
			return handleRepositoryError(err, t.ID)
		}
		return handleRepositoryError(s.repo.Save(ctx, t), t.ID)
	})
	if err != nil {
		return nil, err
	}

	s.deps.Logger.Info("survival tournament reset", slog.String("id", t.ID), slog.String("name", t.Name))
	s.deps.Notifier.Publish(t.ID, EventSurvivalUpdated, t)
	return t, nil
}

func (s *survivalService) AddPlayer(ctx context.Context, name string) (_ *models.SurvivalTournament, err error) {
	defer func(start time.Time) {
		s.deps.observe(ctx, "add_survival_player", start, err)
	}(time.Now())

	name, err = normalizeName(name)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, func(t *models.SurvivalTournament) error {
		if !t.CanRegister() {
			return ErrRegistrationClosed
		}
		first := t.Round(1)
		if first.PlayerIndex(name) >= 0 {
			return fmt.Errorf("%w: %q", ErrDuplicatePlayer, name)
		}
		first.Players = append(first.Players, models.RoundPlayer{Name: name})
		return nil
	})
}

func (s *survivalService) RemovePlayer(ctx context.Context, name string) (_ *models.SurvivalTournament, err error) {
	defer func(start time.Time) {
		s.deps.observe(ctx, "remove_survival_player", start, err)
	}(time.Now())

	return s.mutate(ctx, func(t *models.SurvivalTournament) error {
		if !t.CanRegister() {
			return ErrRegistrationClosed
		}
		first := t.Round(1)
		idx := first.PlayerIndex(name)
		if idx < 0 {
			return fmt.Errorf("%w: %q", ErrPlayerNotFound, name)
		}
		first.Players = append(first.Players[:idx], first.Players[idx+1:]...)
		return nil
	})
}

func (s *survivalService) SetScore(ctx context.Context, roundNumber int, playerName string, score int) (_ *models.SurvivalTournament, err error) {
	defer func(start time.Time) {
		s.deps.observe(ctx, "set_survival_score", start, err, slog.Int("round", roundNumber))
	}(time.Now())

	if score < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNegativeScore, score)
	}
	return s.mutate(ctx, func(t *models.SurvivalTournament) error {
		r := t.Round(roundNumber)
		if r == nil {
			return fmt.Errorf("%w: %d", ErrRoundNotFound, roundNumber)
		}
		if !t.CanEditScores(roundNumber) {
			return fmt.Errorf("%w: round %d", ErrRoundNotEditable, roundNumber)
		}
		idx := r.PlayerIndex(playerName)
		if idx < 0 {
			return fmt.Errorf("%w: %q in round %d", ErrPlayerNotFound, playerName, roundNumber)
		}
		r.Players[idx].Score = score
		return nil
	})
}

// EndRound closes the active round. A round of three or fewer players finishes the
// tournament; otherwise the qualified players open the next round with zero scores.
func (s *survivalService) EndRound(ctx context.Context) (_ *RoundResult, err error) {
	defer func(start time.Time) {
		s.deps.observe(ctx, "end_survival_round", start, err)
	}(time.Now())

	var outcome brackets.RoundOutcome
	t, err := s.mutate(ctx, func(t *models.SurvivalTournament) error {
		if t.IsFinished {
			return ErrTournamentFinished
		}
		r := t.ActiveRound()
		if r == nil {
			return fmt.Errorf("%w: %d", ErrRoundNotFound, t.CurrentRound)
		}
		if r.IsCompleted {
			return ErrRoundAlreadyComplete
		}
		if len(r.Players) == 0 {
			return fmt.Errorf("%w: round %d is empty", ErrNotEnoughPlayers, r.RoundNumber)
		}

		outcome = brackets.QualifyRound(r.Players)
		r.IsActive = false
		r.IsCompleted = true
		if outcome.Final {
			t.IsFinished = true
			return nil
		}

		t.CurrentRound++
		t.Rounds = append(t.Rounds, models.SurvivalRound{
			RoundNumber: t.CurrentRound,
			Players:     outcome.Qualified,
			IsActive:    true,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.deps.Metrics.IncSurvivalRoundsEnded(outcome.Final)
	s.deps.Logger.Info("survival round ended",
		slog.Int("players", len(outcome.Ranking)),
		slog.Int("qualified", len(outcome.Qualified)),
		slog.Int("threshold", outcome.Threshold),
		slog.Bool("final", outcome.Final),
	)
	return &RoundResult{Tournament: t, Outcome: outcome}, nil
}

func (s *survivalService) mutate(ctx context.Context, fn func(t *models.SurvivalTournament) error) (*models.SurvivalTournament, error) {
	var out *models.SurvivalTournament
	err := s.deps.Store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		t, err := s.Get(ctx)
		if err != nil {
			return err
		}
		if err := fn(t); err != nil {
			return err
		}
		t.UpdatedAt = s.deps.Now()
		if err := s.repo.Save(ctx, t); err != nil {
			return handleRepositoryError(err, t.ID)
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.deps.Notifier.Publish(out.ID, EventSurvivalUpdated, out)
	return out, nil
}
