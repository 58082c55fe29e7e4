package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/betfilter/internal/database"
	"github.com/yourusername/betfilter/internal/models"
)

// PostgresFilterRepository implements FilterRepository for PostgreSQL.
// Rules are stored as a JSONB column.
type PostgresFilterRepository struct {
	db *database.DB
}

// NewPostgresFilterRepository creates a new filter repository
func NewPostgresFilterRepository(db *database.DB) FilterRepository {
	return &PostgresFilterRepository{db: db}
}

// Create inserts a new filter
func (r *PostgresFilterRepository) Create(ctx context.Context, filter *models.Filter) error {
	if filter.Name == "" {
		return models.ErrFilterNameRequired
	}
	rules, liveRules, err := encodeRules(filter)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO filters (id, user_id, name, description, bet_type, rules, live_rules, is_active, alerts_enabled)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = r.db.GetPool().Exec(ctx, query,
		filter.ID, filter.UserID, filter.Name, filter.Description,
		filter.BetType, rules, liveRules, filter.IsActive, filter.AlertsEnabled,
	)
	if err != nil {
		return fmt.Errorf("failed to create filter: %w", err)
	}
	return nil
}

// GetByID retrieves a filter by ID
func (r *PostgresFilterRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Filter, error) {
	query := `
		SELECT id, user_id, name, description, bet_type, rules, live_rules, is_active, alerts_enabled, created_at, updated_at
		FROM filters WHERE id = $1
	`
	return r.scanOne(r.db.GetPool().QueryRow(ctx, query, id))
}

// GetByUser retrieves all filters owned by a user
func (r *PostgresFilterRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]*models.Filter, error) {
	query := `
		SELECT id, user_id, name, description, bet_type, rules, live_rules, is_active, alerts_enabled, created_at, updated_at
		FROM filters
		WHERE user_id = $1
		ORDER BY name ASC
	`
	rows, err := r.db.GetPool().Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user filters: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// GetActive retrieves all active filters across users, for the scan pass
func (r *PostgresFilterRepository) GetActive(ctx context.Context) ([]*models.Filter, error) {
	query := `
		SELECT id, user_id, name, description, bet_type, rules, live_rules, is_active, alerts_enabled, created_at, updated_at
		FROM filters
		WHERE is_active = true
		ORDER BY created_at ASC
	`
	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active filters: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// Update updates an existing filter
func (r *PostgresFilterRepository) Update(ctx context.Context, filter *models.Filter) error {
	rules, liveRules, err := encodeRules(filter)
	if err != nil {
		return err
	}

	query := `
		UPDATE filters SET
			name = $2, description = $3, bet_type = $4, rules = $5,
			live_rules = $6, is_active = $7, alerts_enabled = $8, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.db.GetPool().Exec(ctx, query,
		filter.ID, filter.Name, filter.Description, filter.BetType,
		rules, liveRules, filter.IsActive, filter.AlertsEnabled,
	)
	if err != nil {
		return fmt.Errorf("failed to update filter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// SetActive toggles the active flag
func (r *PostgresFilterRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.setFlag(ctx, "is_active", id, active)
}

// SetAlerts toggles the alerting flag
func (r *PostgresFilterRepository) SetAlerts(ctx context.Context, id uuid.UUID, enabled bool) error {
	return r.setFlag(ctx, "alerts_enabled", id, enabled)
}

// Delete removes a filter permanently
func (r *PostgresFilterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.GetPool().Exec(ctx, "DELETE FROM filters WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete filter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *PostgresFilterRepository) setFlag(ctx context.Context, column string, id uuid.UUID, value bool) error {
	query := fmt.Sprintf("UPDATE filters SET %s = $2, updated_at = NOW() WHERE id = $1", column)
	tag, err := r.db.GetPool().Exec(ctx, query, id, value)
	if err != nil {
		return fmt.Errorf("failed to update filter %s: %w", column, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *PostgresFilterRepository) scanOne(row pgx.Row) (*models.Filter, error) {
	filter := &models.Filter{}
	var rules, liveRules []byte
	err := row.Scan(
		&filter.ID, &filter.UserID, &filter.Name, &filter.Description,
		&filter.BetType, &rules, &liveRules, &filter.IsActive, &filter.AlertsEnabled,
		&filter.CreatedAt, &filter.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get filter: %w", err)
	}
	if err := decodeRules(filter, rules, liveRules); err != nil {
		return nil, err
	}
	return filter, nil
}

func (r *PostgresFilterRepository) scanMany(rows pgx.Rows) ([]*models.Filter, error) {
	var filters []*models.Filter
	for rows.Next() {
		filter := &models.Filter{}
		var rules, liveRules []byte
		err := rows.Scan(
			&filter.ID, &filter.UserID, &filter.Name, &filter.Description,
			&filter.BetType, &rules, &liveRules, &filter.IsActive, &filter.AlertsEnabled,
			&filter.CreatedAt, &filter.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan filter: %w", err)
		}
		if err := decodeRules(filter, rules, liveRules); err != nil {
			return nil, err
		}
		filters = append(filters, filter)
	}
	return filters, rows.Err()
}

// encodeRules marshals the rule payloads for JSONB storage
func encodeRules(filter *models.Filter) ([]byte, []byte, error) {
	rules, err := json.Marshal(filter.Rules)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode rules: %w", err)
	}
	var liveRules []byte
	if len(filter.LiveRules) > 0 {
		liveRules, err = json.Marshal(filter.LiveRules)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode live rules: %w", err)
		}
	}
	return rules, liveRules, nil
}

// decodeRules unmarshals the JSONB rule payloads into the filter
func decodeRules(filter *models.Filter, rules, liveRules []byte) error {
	if err := json.Unmarshal(rules, &filter.Rules); err != nil {
		return fmt.Errorf("failed to decode rules: %w", err)
	}
	if len(liveRules) > 0 {
		if err := json.Unmarshal(liveRules, &filter.LiveRules); err != nil {
			return fmt.Errorf("failed to decode live rules: %w", err)
		}
	}
	return nil
}
