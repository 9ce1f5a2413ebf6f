package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-scoreboard/models"
)

var ErrGroupNotFound = errors.New("group not found")

type GroupRepository interface {
	Get(ctx context.Context, competition models.Competition, name string) (*models.Group, error)
	Save(ctx context.Context, group *models.Group) error
	// List returns the competition's groups ordered by name.
	List(ctx context.Context, competition models.Competition) ([]*models.Group, error)
	ReplaceCompetition(ctx context.Context, competition models.Competition, groups []*models.Group) error
}

type postgresGroupRepository struct {
	db *sql.DB
}

func NewPostgresGroupRepository(db *sql.DB) GroupRepository {
	return &postgresGroupRepository{db: db}
}

func (r *postgresGroupRepository) scanGroup(rowScanner interface{ Scan(...interface{}) error }) (*models.Group, error) {
	var (
		g       models.Group
		players []byte
	)
	err := rowScanner.Scan(&g.Competition, &g.Name, &players, &g.ConcludedAt, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(players, &g.Players); err != nil {
		return nil, fmt.Errorf("failed to decode players of group %s/%s: %w", g.Competition, g.Name, err)
	}
	if g.Players == nil {
		g.Players = []models.GroupPlayer{}
	}
	return &g, nil
}

func (r *postgresGroupRepository) Get(ctx context.Context, competition models.Competition, name string) (*models.Group, error) {
	executor, inTx := getExecutor(ctx, r.db)
	query := `
		SELECT competition, name, players, concluded_at, created_at, updated_at
		FROM competition_groups
		WHERE competition = $1 AND name = $2`
	if inTx {
		query += ` FOR UPDATE`
	}
	return r.scanGroup(executor.QueryRowContext(ctx, query, competition, name))
}

func (r *postgresGroupRepository) Save(ctx context.Context, g *models.Group) error {
	executor, _ := getExecutor(ctx, r.db)

	players := g.Players
	if players == nil {
		players = []models.GroupPlayer{}
	}
	payload, err := json.Marshal(players)
	if err != nil {
		return fmt.Errorf("failed to encode players of group %s: %w", g.Name, err)
	}

	query := `
		INSERT INTO competition_groups (competition, name, players, concluded_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (competition, name) DO UPDATE SET
			players = EXCLUDED.players,
			concluded_at = EXCLUDED.concluded_at,
			updated_at = NOW()
		RETURNING created_at, updated_at`
	return executor.QueryRowContext(ctx, query, g.Competition, g.Name, payload, g.ConcludedAt).
		Scan(&g.CreatedAt, &g.UpdatedAt)
}

func (r *postgresGroupRepository) List(ctx context.Context, competition models.Competition) ([]*models.Group, error) {
	executor, _ := getExecutor(ctx, r.db)
	query := `
		SELECT competition, name, players, concluded_at, created_at, updated_at
		FROM competition_groups
		WHERE competition = $1
		ORDER BY name`

	rows, err := executor.QueryContext(ctx, query, competition)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	groups := make([]*models.Group, 0, len(models.GroupNames))
	for rows.Next() {
		g, err := r.scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating group rows: %w", err)
	}
	return groups, nil
}

func (r *postgresGroupRepository) ReplaceCompetition(ctx context.Context, competition models.Competition, groups []*models.Group) error {
	return NewPostgresTxRunner(r.db).WithinTx(ctx, func(ctx context.Context) error {
		executor, _ := getExecutor(ctx, r.db)
		if _, err := executor.ExecContext(ctx, `DELETE FROM competition_groups WHERE competition = $1`, competition); err != nil {
			return fmt.Errorf("failed to clear groups of %s: %w", competition, err)
		}
		for _, g := range groups {
			if err := r.Save(ctx, g); err != nil {
				return fmt.Errorf("failed to insert group %s: %w", g.Name, err)
			}
		}
		return nil
	})
}
