package models

import (
	"time"

	"github.com/google/uuid"
)

// FixtureStatus represents the lifecycle state of a fixture
type FixtureStatus string

const (
	FixtureStatusScheduled FixtureStatus = "scheduled"
	FixtureStatusLive      FixtureStatus = "live"
	FixtureStatusFinished  FixtureStatus = "finished"
	FixtureStatusAbandoned FixtureStatus = "abandoned"
)

// Fixture represents a match with its pre-match attributes and, once
// finished, its final score
type Fixture struct {
	ID         uuid.UUID             `db:"id" json:"id" validate:"required,uuid4"`
	SourceID   string                `db:"source_id" json:"source_id"`
	League     string                `db:"league" json:"league" validate:"required"`
	HomeTeam   string                `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam   string                `db:"away_team" json:"away_team" validate:"required"`
	KickoffAt  time.Time             `db:"kickoff_at" json:"kickoff_at" validate:"required"`
	Status     FixtureStatus         `db:"status" json:"status" validate:"required"`
	HomeScore  *int                  `db:"home_score" json:"home_score"`
	AwayScore  *int                  `db:"away_score" json:"away_score"`
	Attributes map[string]FieldValue `db:"attributes" json:"attributes"`
	CreatedAt  time.Time             `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time             `db:"updated_at" json:"updated_at"`
}

// IsFinished reports whether the fixture has a final score
func (f *Fixture) IsFinished() bool {
	return f.Status == FixtureStatusFinished && f.HomeScore != nil && f.AwayScore != nil
}

// Snapshot builds the pre-match evaluation snapshot for this fixture
func (f *Fixture) Snapshot() *Snapshot {
	return &Snapshot{
		FixtureID: f.ID,
		TakenAt:   f.KickoffAt,
		Fields:    f.Attributes,
	}
}

// OddsFor returns the fixture's pre-match odds for the given bet type
func (f *Fixture) OddsFor(betType BetType) (float64, bool) {
	key, ok := oddsKeyByBetType[betType]
	if !ok {
		return 0, false
	}
	v, ok := f.Attributes[key]
	if !ok || v.Number == nil {
		return 0, false
	}
	return *v.Number, true
}

var oddsKeyByBetType = map[BetType]string{
	BetTypeHomeWin: "home_odds",
	BetTypeAwayWin: "away_odds",
	BetTypeDraw:    "draw_odds",
	BetTypeOver25:  "over25_odds",
	BetTypeUnder25: "under25_odds",
	BetTypeBTTS:    "btts_odds",
	BetTypeHomeDNB: "home_odds",
	BetTypeAwayDNB: "away_odds",
}
