package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-scoreboard/models"
)

var ErrSurvivalNotFound = errors.New("survival tournament not found")

type SurvivalRepository interface {
	Get(ctx context.Context, id string) (*models.SurvivalTournament, error)
	Save(ctx context.Context, t *models.SurvivalTournament) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type postgresSurvivalRepository struct {
	db *sql.DB
}

func NewPostgresSurvivalRepository(db *sql.DB) SurvivalRepository {
	return &postgresSurvivalRepository{db: db}
}

func (r *postgresSurvivalRepository) Get(ctx context.Context, id string) (*models.SurvivalTournament, error) {
	executor, inTx := getExecutor(ctx, r.db)
	query := `
		SELECT id, name, rounds, current_round, is_finished, created_at, updated_at
		FROM survival_tournaments
		WHERE id = $1`
	if inTx {
		query += ` FOR UPDATE`
	}

	var (
		t      models.SurvivalTournament
		rounds []byte
	)
	err := executor.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Name, &rounds, &t.CurrentRound, &t.IsFinished, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSurvivalNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(rounds, &t.Rounds); err != nil {
		return nil, fmt.Errorf("failed to decode rounds of %s: %w", id, err)
	}
	return &t, nil
}

func (r *postgresSurvivalRepository) Save(ctx context.Context, t *models.SurvivalTournament) error {
	executor, _ := getExecutor(ctx, r.db)
	rounds, err := json.Marshal(t.Rounds)
	if err != nil {
		return fmt.Errorf("failed to encode rounds of %s: %w", t.ID, err)
	}

	query := `
		INSERT INTO survival_tournaments (id, name, rounds, current_round, is_finished, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			rounds = EXCLUDED.rounds,
			current_round = EXCLUDED.current_round,
			is_finished = EXCLUDED.is_finished,
			updated_at = NOW()
		RETURNING created_at, updated_at`
	return executor.QueryRowContext(ctx, query, t.ID, t.Name, rounds, t.CurrentRound, t.IsFinished).
		Scan(&t.CreatedAt, &t.UpdatedAt)
}

func (r *postgresSurvivalRepository) Delete(ctx context.Context, id string) error {
	executor, _ := getExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, `DELETE FROM survival_tournaments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete survival tournament %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrSurvivalNotFound)
}

func (r *postgresSurvivalRepository) Count(ctx context.Context) (int, error) {
	executor, _ := getExecutor(ctx, r.db)
	var n int
	if err := executor.QueryRowContext(ctx, `SELECT COUNT(*) FROM survival_tournaments`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count survival tournaments: %w", err)
	}
	return n, nil
}
