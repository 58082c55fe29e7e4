// Package repository provides PostgreSQL-backed persistence for filters,
// fixtures, bet outcomes and notifications.
package repository

import (
	"fmt"

	"github.com/yourusername/betfilter/internal/database"
)

// Repositories aggregates all data access interfaces
type Repositories struct {
	Filter       FilterRepository
	Fixture      FixtureRepository
	Outcome      OutcomeRepository
	Notification NotificationRepository
}

// NewRepositories creates the repository container backed by PostgreSQL
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}
	return &Repositories{
		Filter:       NewPostgresFilterRepository(db),
		Fixture:      NewPostgresFixtureRepository(db),
		Outcome:      NewPostgresOutcomeRepository(db),
		Notification: NewPostgresNotificationRepository(db),
	}, nil
}
