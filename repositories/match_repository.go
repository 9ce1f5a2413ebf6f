package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Dosada05/tournament-scoreboard/models"
)

var (
	ErrMatchNotFound       = errors.New("match not found")
	ErrMatchInvalidRouting = errors.New("match routing pointer and slot must be set together")
	ErrMatchInvalidScore   = errors.New("match score must be non-negative")
	ErrMatchUnknownTarget  = errors.New("match routes to a match that does not exist")
)

// MatchFilter selects nodes of one competition, optionally a single round.
type MatchFilter struct {
	Competition models.Competition
	Round       *models.Round
}

type MatchRepository interface {
	GetByID(ctx context.Context, id string) (*models.MatchNode, error)
	Save(ctx context.Context, match *models.MatchNode) error
	// List returns nodes ordered by round, side and position.
	List(ctx context.Context, filter MatchFilter) ([]*models.MatchNode, error)
	ReplaceCompetition(ctx context.Context, competition models.Competition, nodes []*models.MatchNode) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, competition, round, side, position, player1, player2, score1, score2, status,
	next_match_id, winner_destination_slot, loser_next_match_id, loser_destination_slot,
	scheduled_time, completed_time, created_at, updated_at`

// Порядок раундов и сторон задается явно, алфавитный порядок строк не подходит.
const matchOrderBy = `ORDER BY array_position(ARRAY['R16','QF','SF','ThirdPlace','Final']::text[], round),
	array_position(ARRAY['left','right','center']::text[], side), position`

func (r *postgresMatchRepository) scanMatch(rowScanner interface{ Scan(...interface{}) error }) (*models.MatchNode, error) {
	var m models.MatchNode
	err := rowScanner.Scan(
		&m.ID, &m.Competition, &m.Round, &m.Side, &m.Position,
		&m.Player1, &m.Player2, &m.Score1, &m.Score2, &m.Status,
		&m.NextMatchID, &m.WinnerDestinationSlot, &m.LoserNextMatchID, &m.LoserDestinationSlot,
		&m.ScheduledTime, &m.CompletedTime, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id string) (*models.MatchNode, error) {
	executor, inTx := getExecutor(ctx, r.db)
	query := `SELECT ` + matchColumns + ` FROM bracket_matches WHERE id = $1`
	if inTx {
		// Внутри транзакции блокируем строку: повторная отправка результата ждет первую.
		query += ` FOR UPDATE`
	}
	return r.scanMatch(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) Save(ctx context.Context, m *models.MatchNode) error {
	executor, _ := getExecutor(ctx, r.db)
	query := `
		INSERT INTO bracket_matches (` + matchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			competition = EXCLUDED.competition,
			round = EXCLUDED.round,
			side = EXCLUDED.side,
			position = EXCLUDED.position,
			player1 = EXCLUDED.player1,
			player2 = EXCLUDED.player2,
			score1 = EXCLUDED.score1,
			score2 = EXCLUDED.score2,
			status = EXCLUDED.status,
			next_match_id = EXCLUDED.next_match_id,
			winner_destination_slot = EXCLUDED.winner_destination_slot,
			loser_next_match_id = EXCLUDED.loser_next_match_id,
			loser_destination_slot = EXCLUDED.loser_destination_slot,
			scheduled_time = EXCLUDED.scheduled_time,
			completed_time = EXCLUDED.completed_time,
			updated_at = NOW()
		RETURNING created_at, updated_at`

	err := executor.QueryRowContext(ctx, query,
		m.ID, m.Competition, m.Round, m.Side, m.Position,
		m.Player1, m.Player2, m.Score1, m.Score2, m.Status,
		m.NextMatchID, m.WinnerDestinationSlot, m.LoserNextMatchID, m.LoserDestinationSlot,
		m.ScheduledTime, m.CompletedTime,
	).Scan(&m.CreatedAt, &m.UpdatedAt)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) List(ctx context.Context, filter MatchFilter) ([]*models.MatchNode, error) {
	executor, _ := getExecutor(ctx, r.db)
	query := `SELECT ` + matchColumns + ` FROM bracket_matches WHERE competition = $1`
	args := []interface{}{filter.Competition}
	if filter.Round != nil {
		query += ` AND round = $2`
		args = append(args, *filter.Round)
	}
	query += ` ` + matchOrderBy

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.MatchNode, 0)
	for rows.Next() {
		m, err := r.scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating match rows: %w", err)
	}
	return matches, nil
}

// ReplaceCompetition drops every node of the competition and inserts the new set.
// Self-references are checked at commit (deferred constraint), so insert order does not matter.
func (r *postgresMatchRepository) ReplaceCompetition(ctx context.Context, competition models.Competition, nodes []*models.MatchNode) error {
	return NewPostgresTxRunner(r.db).WithinTx(ctx, func(ctx context.Context) error {
		executor, _ := getExecutor(ctx, r.db)
		if _, err := executor.ExecContext(ctx, `DELETE FROM bracket_matches WHERE competition = $1`, competition); err != nil {
			return fmt.Errorf("failed to clear bracket %s: %w", competition, err)
		}
		for _, n := range nodes {
			if err := r.Save(ctx, n); err != nil {
				return fmt.Errorf("failed to insert match %s: %w", n.ID, err)
			}
		}
		return nil
	})
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Constraint {
		case "bracket_matches_winner_route_check", "bracket_matches_loser_route_check":
			return ErrMatchInvalidRouting
		case "bracket_matches_score1_check", "bracket_matches_score2_check":
			return ErrMatchInvalidScore
		case "bracket_matches_next_match_id_fkey", "bracket_matches_loser_next_match_id_fkey":
			return ErrMatchUnknownTarget
		}
	}
	return err
}
