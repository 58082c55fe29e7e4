// Package provider fetches fixture and snapshot data from external feeds.
package provider

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// SnapshotProvider defines the interface for fetching football data from external feeds
type SnapshotProvider interface {
	// FetchFixtures retrieves fixtures within the specified date range
	FetchFixtures(ctx context.Context, startDate, endDate time.Time) ([]FixtureData, error)

	// FetchFixture retrieves detailed information for a specific fixture
	FetchFixture(ctx context.Context, fixtureID string) (*FixtureData, error)

	// FetchLiveFixtures retrieves the fixtures currently in play with their live state
	FetchLiveFixtures(ctx context.Context) ([]FixtureData, error)

	// Name returns the name of the provider
	Name() string

	// IsEnabled returns whether this provider is currently enabled
	IsEnabled() bool
}

// FixtureData represents normalized fixture data from any provider
type FixtureData struct {
	SourceID  string          `json:"source_id"`  // Provider's unique fixture ID
	League    string          `json:"league"`     // League code (e.g., "premier_league")
	Country   string          `json:"country"`    // Country code
	HomeTeam  string          `json:"home_team"`  // Home team name
	AwayTeam  string          `json:"away_team"`  // Away team name
	KickoffAt time.Time       `json:"kickoff_at"` // Kickoff time UTC
	Status    string          `json:"status"`     // Provider status (scheduled, live, finished)
	HomeScore *int            `json:"home_score"` // Final or current home score
	AwayScore *int            `json:"away_score"` // Final or current away score
	Home      SideData        `json:"home"`       // Home side pre-match aggregates
	Away      SideData        `json:"away"`       // Away side pre-match aggregates
	Odds      OddsData        `json:"odds"`       // Pre-match odds
	HeadToHead *HeadToHeadData `json:"head_to_head"` // H2H aggregates if available
	Live      *LiveData       `json:"live"`       // In-play state for live fixtures
	FetchedAt time.Time       `json:"fetched_at"` // When data was fetched
}

// SideData represents one team's pre-match aggregates
type SideData struct {
	FormPoints     *float64 `json:"form_points"`     // Points from last 5 matches
	LeaguePosition *int     `json:"league_position"` // Current table position
	GoalsAvg       *float64 `json:"goals_avg"`       // Goals scored per match
	ConcededAvg    *float64 `json:"conceded_avg"`    // Goals conceded per match
}

// OddsData represents pre-match decimal odds for the main markets
type OddsData struct {
	Home    *decimal.Decimal `json:"home"`
	Draw    *decimal.Decimal `json:"draw"`
	Away    *decimal.Decimal `json:"away"`
	Over25  *decimal.Decimal `json:"over_2_5"`
	Under25 *decimal.Decimal `json:"under_2_5"`
	BTTS    *decimal.Decimal `json:"btts"`
}

// HeadToHeadData represents head-to-head aggregates between the two sides
type HeadToHeadData struct {
	Matches  int `json:"matches"`
	HomeWins int `json:"home_wins"`
	Draws    int `json:"draws"`
	AwayWins int `json:"away_wins"`
}

// LiveData represents the in-play state of a fixture
type LiveData struct {
	Minute    int            `json:"minute"`
	HomeScore int            `json:"home_score"`
	AwayScore int            `json:"away_score"`
	Home      LiveSideData   `json:"home"`
	Away      LiveSideData   `json:"away"`
	Markets   []LiveMarket   `json:"markets"`
}

// LiveSideData represents one side's in-play statistics
type LiveSideData struct {
	Goals            int     `json:"goals"`
	ShotsOnTarget    int     `json:"shots_on_target"`
	ShotsTotal       int     `json:"shots_total"`
	Corners          int     `json:"corners"`
	DangerousAttacks int     `json:"dangerous_attacks"`
	Possession       float64 `json:"possession"`
	YellowCards      int     `json:"yellow_cards"`
	RedCards         int     `json:"red_cards"`
}

// LiveMarket represents current prices for one in-play market
type LiveMarket struct {
	Key  string           `json:"key"` // match_winner, over_under_2_5, next_goal
	Home *decimal.Decimal `json:"home"`
	Draw *decimal.Decimal `json:"draw"`
	Away *decimal.Decimal `json:"away"`
}

// ProviderError represents errors from provider operations
type ProviderError struct {
	Source  string // Provider name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e ProviderError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e ProviderError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
)

// Sentinel errors
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("fixture not found")
	ErrInvalidData          = errors.New("invalid data format")
	ErrProviderDisabled     = errors.New("provider disabled")
)

// NewProviderError creates a new provider error
func NewProviderError(source, code, message string, err error) ProviderError {
	return ProviderError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
