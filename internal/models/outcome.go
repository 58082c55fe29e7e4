package models

import (
	"time"

	"github.com/google/uuid"
)

// OutcomeResult represents the settled result of a triggered filter match
type OutcomeResult string

const (
	ResultWin     OutcomeResult = "win"
	ResultLoss    OutcomeResult = "loss"
	ResultPush    OutcomeResult = "push"
	ResultPending OutcomeResult = "pending"
)

// BetOutcome is one resolved (or pending) result of a filter match, the
// unit of input to backtest aggregation. Sequences are ordered by
// MatchedAt ascending.
type BetOutcome struct {
	ID        uuid.UUID     `db:"id" json:"id" validate:"required,uuid4"`
	FilterID  uuid.UUID     `db:"filter_id" json:"filter_id" validate:"required,uuid4"`
	FixtureID uuid.UUID     `db:"fixture_id" json:"fixture_id" validate:"required,uuid4"`
	MatchedAt time.Time     `db:"matched_at" json:"matched_at" validate:"required"`
	Stake     float64       `db:"stake" json:"stake" validate:"required,gt=0"`
	Result    OutcomeResult `db:"result" json:"result" validate:"required,oneof=win loss push pending"`
	Profit    float64       `db:"profit" json:"profit"`
	Odds      *float64      `db:"odds" json:"odds,omitempty"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}

// IsResolved reports whether the outcome counts toward realized analytics
func (o *BetOutcome) IsResolved() bool {
	return o.Result == ResultWin || o.Result == ResultLoss || o.Result == ResultPush
}

// ROI returns the outcome's return on stake as a percentage
func (o *BetOutcome) ROI() float64 {
	if o.Stake == 0 {
		return 0
	}
	return o.Profit / o.Stake * 100
}
