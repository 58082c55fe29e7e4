package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification records one filter match produced by a live scan tick
type Notification struct {
	ID        uuid.UUID  `db:"id" json:"id" validate:"required,uuid4"`
	FilterID  uuid.UUID  `db:"filter_id" json:"filter_id" validate:"required,uuid4"`
	FixtureID uuid.UUID  `db:"fixture_id" json:"fixture_id" validate:"required,uuid4"`
	MatchedAt time.Time  `db:"matched_at" json:"matched_at" validate:"required"`
	Message   string     `db:"message" json:"message"`
	SentAt    *time.Time `db:"sent_at" json:"sent_at"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// IsSent reports whether the alert for this notification was delivered
func (n *Notification) IsSent() bool {
	return n.SentAt != nil
}
