package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/betfilter/internal/database"
	"github.com/yourusername/betfilter/internal/models"
)

// PostgresOutcomeRepository implements OutcomeRepository for PostgreSQL
type PostgresOutcomeRepository struct {
	db *database.DB
}

// NewPostgresOutcomeRepository creates a new outcome repository
func NewPostgresOutcomeRepository(db *database.DB) OutcomeRepository {
	return &PostgresOutcomeRepository{db: db}
}

// Insert inserts a single bet outcome
func (r *PostgresOutcomeRepository) Insert(ctx context.Context, outcome *models.BetOutcome) error {
	query := `
		INSERT INTO bet_outcomes (id, filter_id, fixture_id, matched_at, stake, result, profit, odds)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.GetPool().Exec(ctx, query,
		outcome.ID, outcome.FilterID, outcome.FixtureID, outcome.MatchedAt,
		outcome.Stake, outcome.Result, outcome.Profit, outcome.Odds,
	)
	if err != nil {
		return fmt.Errorf("failed to insert outcome: %w", err)
	}
	return nil
}

// InsertBatch inserts outcomes in one transaction
func (r *PostgresOutcomeRepository) InsertBatch(ctx context.Context, outcomes []*models.BetOutcome) error {
	return r.db.WithTransaction(ctx, func(txCtx context.Context) error {
		for _, outcome := range outcomes {
			if err := r.Insert(txCtx, outcome); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByFilterID retrieves outcomes for a filter, ordered by matched_at
// ascending as the aggregator requires
func (r *PostgresOutcomeRepository) GetByFilterID(ctx context.Context, filterID uuid.UUID, start, end time.Time) ([]*models.BetOutcome, error) {
	query := `
		SELECT id, filter_id, fixture_id, matched_at, stake, result, profit, odds, created_at
		FROM bet_outcomes
		WHERE filter_id = $1 AND matched_at >= $2 AND matched_at <= $3
		ORDER BY matched_at ASC
	`
	rows, err := r.db.GetPool().Query(ctx, query, filterID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []*models.BetOutcome
	for rows.Next() {
		outcome := &models.BetOutcome{}
		err := rows.Scan(
			&outcome.ID, &outcome.FilterID, &outcome.FixtureID, &outcome.MatchedAt,
			&outcome.Stake, &outcome.Result, &outcome.Profit, &outcome.Odds, &outcome.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, rows.Err()
}

// GetPending retrieves unresolved outcomes awaiting settlement
func (r *PostgresOutcomeRepository) GetPending(ctx context.Context, limit int) ([]*models.BetOutcome, error) {
	query := `
		SELECT id, filter_id, fixture_id, matched_at, stake, result, profit, odds, created_at
		FROM bet_outcomes
		WHERE result = 'pending'
		ORDER BY matched_at ASC
		LIMIT $1
	`
	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []*models.BetOutcome
	for rows.Next() {
		outcome := &models.BetOutcome{}
		err := rows.Scan(
			&outcome.ID, &outcome.FilterID, &outcome.FixtureID, &outcome.MatchedAt,
			&outcome.Stake, &outcome.Result, &outcome.Profit, &outcome.Odds, &outcome.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, rows.Err()
}

// Update updates an outcome after settlement
func (r *PostgresOutcomeRepository) Update(ctx context.Context, outcome *models.BetOutcome) error {
	query := `
		UPDATE bet_outcomes SET result = $2, profit = $3, odds = $4 WHERE id = $1
	`
	tag, err := r.db.GetPool().Exec(ctx, query, outcome.ID, outcome.Result, outcome.Profit, outcome.Odds)
	if err != nil {
		return fmt.Errorf("failed to update outcome: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
