package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/betfilter/internal/models"
)

// FilterRepository defines the interface for filter data access
type FilterRepository interface {
	Create(ctx context.Context, filter *models.Filter) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Filter, error)
	GetByUser(ctx context.Context, userID uuid.UUID) ([]*models.Filter, error)
	GetActive(ctx context.Context) ([]*models.Filter, error)
	Update(ctx context.Context, filter *models.Filter) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	SetAlerts(ctx context.Context, id uuid.UUID, enabled bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// FixtureRepository defines the interface for fixture data access
type FixtureRepository interface {
	Insert(ctx context.Context, fixture *models.Fixture) error
	InsertBatch(ctx context.Context, fixtures []*models.Fixture) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Fixture, error)
	GetBySourceID(ctx context.Context, sourceID string) (*models.Fixture, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.Fixture, error)
	GetFinishedByDateRange(ctx context.Context, start, end time.Time) ([]*models.Fixture, error)
	Update(ctx context.Context, fixture *models.Fixture) error
}

// OutcomeRepository defines the interface for bet outcome data access
type OutcomeRepository interface {
	Insert(ctx context.Context, outcome *models.BetOutcome) error
	InsertBatch(ctx context.Context, outcomes []*models.BetOutcome) error
	GetByFilterID(ctx context.Context, filterID uuid.UUID, start, end time.Time) ([]*models.BetOutcome, error)
	GetPending(ctx context.Context, limit int) ([]*models.BetOutcome, error)
	Update(ctx context.Context, outcome *models.BetOutcome) error
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	Insert(ctx context.Context, notification *models.Notification) error
	GetRecentByFilter(ctx context.Context, filterID uuid.UUID, limit int) ([]*models.Notification, error)
	MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error
}
