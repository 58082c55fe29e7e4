package models

import (
	"time"

	"github.com/google/uuid"
)

// FieldValue is one snapshot attribute, either numeric or textual
type FieldValue struct {
	Number *float64 `json:"number,omitempty"`
	Text   *string  `json:"text,omitempty"`
}

// NumberField builds a numeric field value
func NumberField(v float64) FieldValue {
	return FieldValue{Number: &v}
}

// TextField builds a textual field value
func TextField(v string) FieldValue {
	return FieldValue{Text: &v}
}

// TeamStats holds the in-play statistics of one side
type TeamStats struct {
	Goals            int     `json:"goals"`
	ShotsOnTarget    int     `json:"shots_on_target"`
	ShotsTotal       int     `json:"shots_total"`
	Corners          int     `json:"corners"`
	DangerousAttacks int     `json:"dangerous_attacks"`
	Possession       float64 `json:"possession"`
	YellowCards      int     `json:"yellow_cards"`
	RedCards         int     `json:"red_cards"`
}

// SidePreMatch holds the pre-match aggregates of one side
type SidePreMatch struct {
	FormPoints     float64 `json:"form_points"`
	GoalsAvg       float64 `json:"goals_avg"`
	ConcededAvg    float64 `json:"conceded_avg"`
	LeaguePosition float64 `json:"league_position"`
}

// MarketOdds holds the current prices of one live market
type MarketOdds struct {
	Home float64 `json:"home"`
	Draw float64 `json:"draw"`
	Away float64 `json:"away"`
}

// LiveState is the in-play portion of a snapshot. Nil on pre-match
// snapshots.
type LiveState struct {
	Minute           int                       `json:"minute"`
	HomeScore        int                       `json:"home_score"`
	AwayScore        int                       `json:"away_score"`
	Home             TeamStats                 `json:"home"`
	Away             TeamStats                 `json:"away"`
	HomePreMatch     SidePreMatch              `json:"home_pre_match"`
	AwayPreMatch     SidePreMatch              `json:"away_pre_match"`
	HomeOpeningOdds  float64                   `json:"home_opening_odds"`
	AwayOpeningOdds  float64                   `json:"away_opening_odds"`
	Markets          map[OddsMarket]MarketOdds `json:"markets,omitempty"`
}

// Snapshot is a point-in-time attribute bundle for a fixture or live
// match, keyed by catalog field keys
type Snapshot struct {
	FixtureID uuid.UUID             `json:"fixture_id"`
	TakenAt   time.Time             `json:"taken_at"`
	Fields    map[string]FieldValue `json:"fields"`
	Live      *LiveState            `json:"live,omitempty"`
}

// Field resolves a catalog key against the snapshot
func (s *Snapshot) Field(key string) (FieldValue, bool) {
	v, ok := s.Fields[key]
	return v, ok
}

// IsLive reports whether the snapshot carries in-play state
func (s *Snapshot) IsLive() bool {
	return s.Live != nil
}

// SideStats returns the stats bundle for the given concrete side
func (l *LiveState) SideStats(home bool) TeamStats {
	if home {
		return l.Home
	}
	return l.Away
}

// SidePreMatch returns the pre-match bundle for the given concrete side
func (l *LiveState) SidePreMatchStats(home bool) SidePreMatch {
	if home {
		return l.HomePreMatch
	}
	return l.AwayPreMatch
}
