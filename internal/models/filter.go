package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/betfilter/internal/catalog"
)

// BetType represents the market a filter bets into when it matches
type BetType string

const (
	BetTypeHomeWin  BetType = "home_win"
	BetTypeAwayWin  BetType = "away_win"
	BetTypeDraw     BetType = "draw"
	BetTypeOver25   BetType = "over_2_5"
	BetTypeUnder25  BetType = "under_2_5"
	BetTypeBTTS     BetType = "btts"
	BetTypeHomeDNB  BetType = "home_draw_no_bet"
	BetTypeAwayDNB  BetType = "away_draw_no_bet"
)

// ValueKind describes the arity of a rule value
type ValueKind string

const (
	ValueKindNone   ValueKind = "none"
	ValueKindNumber ValueKind = "number"
	ValueKindText   ValueKind = "text"
	ValueKindRange  ValueKind = "range"
	ValueKindSet    ValueKind = "set"
)

// RuleValue holds the operator-shaped payload of a rule. Exactly one shape
// is populated: Number or Text for scalar operators, Low/High for between,
// Set for in.
type RuleValue struct {
	Number *float64 `db:"-" json:"number,omitempty"`
	Text   *string  `db:"-" json:"text,omitempty"`
	Low    *float64 `db:"-" json:"low,omitempty"`
	High   *float64 `db:"-" json:"high,omitempty"`
	Set    []string `db:"-" json:"set,omitempty"`
}

// NumberValue builds a numeric scalar value
func NumberValue(v float64) RuleValue {
	return RuleValue{Number: &v}
}

// TextValue builds a string scalar value
func TextValue(v string) RuleValue {
	return RuleValue{Text: &v}
}

// RangeValue builds a between pair value
func RangeValue(low, high float64) RuleValue {
	return RuleValue{Low: &low, High: &high}
}

// SetValue builds an in-set value
func SetValue(values ...string) RuleValue {
	return RuleValue{Set: values}
}

// Kind reports which shape the value carries
func (v RuleValue) Kind() ValueKind {
	switch {
	case v.Low != nil && v.High != nil:
		return ValueKindRange
	case v.Set != nil:
		return ValueKindSet
	case v.Number != nil:
		return ValueKindNumber
	case v.Text != nil:
		return ValueKindText
	default:
		return ValueKindNone
	}
}

// Rule is one field/operator/value condition
type Rule struct {
	Field    string           `db:"field" json:"field" validate:"required"`
	Operator catalog.Operator `db:"operator" json:"operator" validate:"required"`
	Value    RuleValue        `db:"value" json:"value"`
}

// Filter represents a named betting strategy: an ordered set of rules
// evaluated with AND semantics against fixture snapshots
type Filter struct {
	ID            uuid.UUID  `db:"id" json:"id" validate:"required,uuid4"`
	UserID        uuid.UUID  `db:"user_id" json:"user_id" validate:"required,uuid4"`
	Name          string     `db:"name" json:"name" validate:"required,min=1,max=100"`
	Description   string     `db:"description" json:"description" validate:"max=500"`
	BetType       BetType    `db:"bet_type" json:"bet_type" validate:"required"`
	Rules         []Rule     `db:"rules" json:"rules" validate:"required,min=1,max=10"`
	LiveRules     []LiveRule `db:"live_rules" json:"live_rules,omitempty"`
	IsActive      bool       `db:"is_active" json:"is_active"`
	AlertsEnabled bool       `db:"alerts_enabled" json:"alerts_enabled"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// Clone returns a deep copy so evaluation and edits never share rule slices
func (f *Filter) Clone() *Filter {
	clone := *f
	clone.Rules = make([]Rule, len(f.Rules))
	copy(clone.Rules, f.Rules)
	if f.LiveRules != nil {
		clone.LiveRules = make([]LiveRule, len(f.LiveRules))
		copy(clone.LiveRules, f.LiveRules)
	}
	return &clone
}

// Validate performs basic validation on the filter
func (f *Filter) Validate() error {
	if f.Name == "" {
		return ErrFilterNameRequired
	}
	if len(f.Rules) == 0 {
		return ErrFilterNeedsRules
	}
	return nil
}
