package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/betfilter/internal/database"
	"github.com/yourusername/betfilter/internal/models"
)

// PostgresNotificationRepository implements NotificationRepository for PostgreSQL
type PostgresNotificationRepository struct {
	db *database.DB
}

// NewPostgresNotificationRepository creates a new notification repository
func NewPostgresNotificationRepository(db *database.DB) NotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

// Insert records a filter match
func (r *PostgresNotificationRepository) Insert(ctx context.Context, notification *models.Notification) error {
	query := `
		INSERT INTO notifications (id, filter_id, fixture_id, matched_at, message, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.GetPool().Exec(ctx, query,
		notification.ID, notification.FilterID, notification.FixtureID,
		notification.MatchedAt, notification.Message, notification.SentAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

// GetRecentByFilter retrieves the newest notifications for a filter
func (r *PostgresNotificationRepository) GetRecentByFilter(ctx context.Context, filterID uuid.UUID, limit int) ([]*models.Notification, error) {
	query := `
		SELECT id, filter_id, fixture_id, matched_at, message, sent_at, created_at
		FROM notifications
		WHERE filter_id = $1
		ORDER BY matched_at DESC
		LIMIT $2
	`
	rows, err := r.db.GetPool().Query(ctx, query, filterID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		err := rows.Scan(&n.ID, &n.FilterID, &n.FixtureID, &n.MatchedAt, &n.Message, &n.SentAt, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkSent stamps a notification as delivered
func (r *PostgresNotificationRepository) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	tag, err := r.db.GetPool().Exec(ctx, "UPDATE notifications SET sent_at = $2 WHERE id = $1", id, sentAt)
	if err != nil {
		return fmt.Errorf("failed to mark notification sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
