package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/betfilter/internal/database"
	"github.com/yourusername/betfilter/internal/models"
)

const fixtureColumns = `id, source_id, league, home_team, away_team, kickoff_at, status, home_score, away_score, attributes, created_at, updated_at`

// PostgresFixtureRepository implements FixtureRepository for PostgreSQL.
// Snapshot attributes are stored as a JSONB column keyed by catalog keys.
type PostgresFixtureRepository struct {
	db *database.DB
}

// NewPostgresFixtureRepository creates a new fixture repository
func NewPostgresFixtureRepository(db *database.DB) FixtureRepository {
	return &PostgresFixtureRepository{db: db}
}

// Insert inserts a single fixture
func (r *PostgresFixtureRepository) Insert(ctx context.Context, fixture *models.Fixture) error {
	attrs, err := json.Marshal(fixture.Attributes)
	if err != nil {
		return fmt.Errorf("failed to encode attributes: %w", err)
	}
	query := `
		INSERT INTO fixtures (id, source_id, league, home_team, away_team, kickoff_at, status, home_score, away_score, attributes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (source_id) DO UPDATE SET
			status = EXCLUDED.status,
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			attributes = EXCLUDED.attributes,
			updated_at = NOW()
	`
	_, err = r.db.GetPool().Exec(ctx, query,
		fixture.ID, fixture.SourceID, fixture.League, fixture.HomeTeam, fixture.AwayTeam,
		fixture.KickoffAt, fixture.Status, fixture.HomeScore, fixture.AwayScore, attrs,
	)
	if err != nil {
		return fmt.Errorf("failed to insert fixture: %w", err)
	}
	return nil
}

// InsertBatch inserts fixtures in one transaction
func (r *PostgresFixtureRepository) InsertBatch(ctx context.Context, fixtures []*models.Fixture) error {
	return r.db.WithTransaction(ctx, func(txCtx context.Context) error {
		for _, fixture := range fixtures {
			if err := r.Insert(txCtx, fixture); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByID retrieves a fixture by ID
func (r *PostgresFixtureRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Fixture, error) {
	query := fmt.Sprintf("SELECT %s FROM fixtures WHERE id = $1", fixtureColumns)
	return scanFixture(r.db.GetPool().QueryRow(ctx, query, id))
}

// GetBySourceID retrieves a fixture by the provider's source ID
func (r *PostgresFixtureRepository) GetBySourceID(ctx context.Context, sourceID string) (*models.Fixture, error) {
	query := fmt.Sprintf("SELECT %s FROM fixtures WHERE source_id = $1", fixtureColumns)
	return scanFixture(r.db.GetPool().QueryRow(ctx, query, sourceID))
}

// GetByDateRange retrieves fixtures kicking off within the range, in
// kickoff order
func (r *PostgresFixtureRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.Fixture, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM fixtures
		WHERE kickoff_at >= $1 AND kickoff_at <= $2
		ORDER BY kickoff_at ASC
	`, fixtureColumns)
	return r.queryFixtures(ctx, query, start, end)
}

// GetFinishedByDateRange retrieves finished fixtures within the range, in
// kickoff order. Backtests replay this sequence.
func (r *PostgresFixtureRepository) GetFinishedByDateRange(ctx context.Context, start, end time.Time) ([]*models.Fixture, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM fixtures
		WHERE kickoff_at >= $1 AND kickoff_at <= $2 AND status = 'finished'
		ORDER BY kickoff_at ASC
	`, fixtureColumns)
	return r.queryFixtures(ctx, query, start, end)
}

// Update updates fixture status, score and attributes
func (r *PostgresFixtureRepository) Update(ctx context.Context, fixture *models.Fixture) error {
	attrs, err := json.Marshal(fixture.Attributes)
	if err != nil {
		return fmt.Errorf("failed to encode attributes: %w", err)
	}
	query := `
		UPDATE fixtures SET
			status = $2, home_score = $3, away_score = $4, attributes = $5, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.db.GetPool().Exec(ctx, query,
		fixture.ID, fixture.Status, fixture.HomeScore, fixture.AwayScore, attrs,
	)
	if err != nil {
		return fmt.Errorf("failed to update fixture: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *PostgresFixtureRepository) queryFixtures(ctx context.Context, query string, args ...interface{}) ([]*models.Fixture, error) {
	rows, err := r.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query fixtures: %w", err)
	}
	defer rows.Close()

	var fixtures []*models.Fixture
	for rows.Next() {
		fixture, err := scanFixtureRow(rows)
		if err != nil {
			return nil, err
		}
		fixtures = append(fixtures, fixture)
	}
	return fixtures, rows.Err()
}

func scanFixture(row pgx.Row) (*models.Fixture, error) {
	fixture, err := scanFixtureRow(row)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	return fixture, err
}

func scanFixtureRow(row pgx.Row) (*models.Fixture, error) {
	fixture := &models.Fixture{}
	var attrs []byte
	err := row.Scan(
		&fixture.ID, &fixture.SourceID, &fixture.League, &fixture.HomeTeam, &fixture.AwayTeam,
		&fixture.KickoffAt, &fixture.Status, &fixture.HomeScore, &fixture.AwayScore, &attrs,
		&fixture.CreatedAt, &fixture.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan fixture: %w", err)
	}
	if len(attrs) > 0 {
		if err := json.Unmarshal(attrs, &fixture.Attributes); err != nil {
			return nil, fmt.Errorf("failed to decode attributes: %w", err)
		}
	}
	return fixture, nil
}
