package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

const sportsFeedName = "sportsfeed"

// SportsFeedClient implements SnapshotProvider for the SportsFeed API
type SportsFeedClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	enabled    bool
	logger     *log.Logger
}

// sportsFeedFixture represents a fixture from the SportsFeed API
type sportsFeedFixture struct {
	ID        string              `json:"id"`
	League    string              `json:"leagueCode"`
	Country   string              `json:"countryCode"`
	HomeTeam  string              `json:"homeTeam"`
	AwayTeam  string              `json:"awayTeam"`
	KickoffAt string              `json:"kickoffAt"`
	Status    string              `json:"status"`
	HomeScore *int                `json:"homeScore"`
	AwayScore *int                `json:"awayScore"`
	Home      sportsFeedSide      `json:"home"`
	Away      sportsFeedSide      `json:"away"`
	Odds      sportsFeedOdds      `json:"odds"`
	H2H       *sportsFeedH2H      `json:"headToHead"`
	Live      *sportsFeedLive     `json:"live"`
}

// sportsFeedSide represents one side's pre-match aggregates
type sportsFeedSide struct {
	FormPoints     *float64 `json:"formPoints"`
	LeaguePosition *int     `json:"leaguePosition"`
	GoalsAvg       *float64 `json:"goalsAvg"`
	ConcededAvg    *float64 `json:"concededAvg"`
}

// sportsFeedOdds represents pre-match odds as strings, as the feed sends them
type sportsFeedOdds struct {
	Home    *string `json:"home"`
	Draw    *string `json:"draw"`
	Away    *string `json:"away"`
	Over25  *string `json:"over25"`
	Under25 *string `json:"under25"`
	BTTS    *string `json:"btts"`
}

// sportsFeedH2H represents head-to-head aggregates
type sportsFeedH2H struct {
	Matches  int `json:"matches"`
	HomeWins int `json:"homeWins"`
	Draws    int `json:"draws"`
	AwayWins int `json:"awayWins"`
}

// sportsFeedLive represents the in-play block of a live fixture
type sportsFeedLive struct {
	Minute    int                  `json:"minute"`
	HomeScore int                  `json:"homeScore"`
	AwayScore int                  `json:"awayScore"`
	Home      sportsFeedLiveSide   `json:"home"`
	Away      sportsFeedLiveSide   `json:"away"`
	Markets   []sportsFeedMarket   `json:"markets"`
}

// sportsFeedLiveSide represents one side's in-play statistics
type sportsFeedLiveSide struct {
	ShotsOnTarget    int     `json:"shotsOnTarget"`
	ShotsTotal       int     `json:"shotsTotal"`
	Corners          int     `json:"corners"`
	DangerousAttacks int     `json:"dangerousAttacks"`
	Possession       float64 `json:"possession"`
	YellowCards      int     `json:"yellowCards"`
	RedCards         int     `json:"redCards"`
}

// sportsFeedMarket represents one in-play market's prices
type sportsFeedMarket struct {
	Key  string  `json:"key"`
	Home *string `json:"home"`
	Draw *string `json:"draw"`
	Away *string `json:"away"`
}

// NewSportsFeedClient creates a new SportsFeed API client
func NewSportsFeedClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, enabled bool, logger *log.Logger) *SportsFeedClient {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &SportsFeedClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		enabled:    enabled,
		logger:     logger,
	}
}

// FetchFixtures retrieves fixtures within the specified date range
func (c *SportsFeedClient) FetchFixtures(ctx context.Context, startDate, endDate time.Time) ([]FixtureData, error) {
	if !c.enabled {
		return nil, NewProviderError(sportsFeedName, ErrCodeNetworkError, "provider disabled", ErrProviderDisabled)
	}

	url := fmt.Sprintf("%s/fixtures?from=%s&to=%s", c.baseURL, startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))

	var sfFixtures []sportsFeedFixture
	if err := c.getJSON(ctx, url, &sfFixtures); err != nil {
		return nil, err
	}

	fixtures := make([]FixtureData, 0, len(sfFixtures))
	for i := range sfFixtures {
		fx, err := c.convertFixture(&sfFixtures[i])
		if err != nil {
			c.logger.Printf("Failed to convert fixture %s: %v", sfFixtures[i].ID, err)
			continue
		}
		fixtures = append(fixtures, *fx)
	}

	return fixtures, nil
}

// FetchFixture retrieves detailed information for a specific fixture
func (c *SportsFeedClient) FetchFixture(ctx context.Context, fixtureID string) (*FixtureData, error) {
	if !c.enabled {
		return nil, NewProviderError(sportsFeedName, ErrCodeNetworkError, "provider disabled", ErrProviderDisabled)
	}

	url := fmt.Sprintf("%s/fixtures/%s", c.baseURL, fixtureID)

	var sfFixture sportsFeedFixture
	if err := c.getJSON(ctx, url, &sfFixture); err != nil {
		return nil, err
	}

	return c.convertFixture(&sfFixture)
}

// FetchLiveFixtures retrieves the fixtures currently in play
func (c *SportsFeedClient) FetchLiveFixtures(ctx context.Context) ([]FixtureData, error) {
	if !c.enabled {
		return nil, NewProviderError(sportsFeedName, ErrCodeNetworkError, "provider disabled", ErrProviderDisabled)
	}

	url := fmt.Sprintf("%s/fixtures/live", c.baseURL)

	var sfFixtures []sportsFeedFixture
	if err := c.getJSON(ctx, url, &sfFixtures); err != nil {
		return nil, err
	}

	fixtures := make([]FixtureData, 0, len(sfFixtures))
	for i := range sfFixtures {
		fx, err := c.convertFixture(&sfFixtures[i])
		if err != nil {
			c.logger.Printf("Failed to convert live fixture %s: %v", sfFixtures[i].ID, err)
			continue
		}
		fixtures = append(fixtures, *fx)
	}

	return fixtures, nil
}

// Name returns the provider name
func (c *SportsFeedClient) Name() string {
	return sportsFeedName
}

// IsEnabled returns whether this provider is enabled
func (c *SportsFeedClient) IsEnabled() bool {
	return c.enabled
}

// getJSON executes an authenticated GET and decodes the response body
func (c *SportsFeedClient) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return NewProviderError(sportsFeedName, ErrCodeNetworkError, "failed to create request", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return NewProviderError(sportsFeedName, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return NewProviderError(sportsFeedName, ErrCodeAuthenticationFailed, "invalid API key", ErrAuthenticationFailed)
	case resp.StatusCode == http.StatusNotFound:
		return NewProviderError(sportsFeedName, ErrCodeNotFound, "resource not found", ErrNotFound)
	case resp.StatusCode == http.StatusTooManyRequests:
		return NewProviderError(sportsFeedName, ErrCodeRateLimitExceeded, "rate limit exceeded", ErrRateLimitExceeded)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return NewProviderError(sportsFeedName, ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewProviderError(sportsFeedName, ErrCodeInvalidData, "failed to parse response", err)
	}

	return nil
}

// convertFixture converts SportsFeed fixture format to FixtureData
func (c *SportsFeedClient) convertFixture(sf *sportsFeedFixture) (*FixtureData, error) {
	kickoff, err := time.Parse(time.RFC3339, sf.KickoffAt)
	if err != nil {
		return nil, fmt.Errorf("invalid kickoff time %q: %w", sf.KickoffAt, err)
	}

	fx := &FixtureData{
		SourceID:  sf.ID,
		League:    sf.League,
		Country:   sf.Country,
		HomeTeam:  sf.HomeTeam,
		AwayTeam:  sf.AwayTeam,
		KickoffAt: kickoff.UTC(),
		Status:    sf.Status,
		HomeScore: sf.HomeScore,
		AwayScore: sf.AwayScore,
		Home: SideData{
			FormPoints:     sf.Home.FormPoints,
			LeaguePosition: sf.Home.LeaguePosition,
			GoalsAvg:       sf.Home.GoalsAvg,
			ConcededAvg:    sf.Home.ConcededAvg,
		},
		Away: SideData{
			FormPoints:     sf.Away.FormPoints,
			LeaguePosition: sf.Away.LeaguePosition,
			GoalsAvg:       sf.Away.GoalsAvg,
			ConcededAvg:    sf.Away.ConcededAvg,
		},
		Odds: OddsData{
			Home:    c.parseOdds(sf.ID, sf.Odds.Home),
			Draw:    c.parseOdds(sf.ID, sf.Odds.Draw),
			Away:    c.parseOdds(sf.ID, sf.Odds.Away),
			Over25:  c.parseOdds(sf.ID, sf.Odds.Over25),
			Under25: c.parseOdds(sf.ID, sf.Odds.Under25),
			BTTS:    c.parseOdds(sf.ID, sf.Odds.BTTS),
		},
		FetchedAt: time.Now().UTC(),
	}

	if sf.H2H != nil {
		fx.HeadToHead = &HeadToHeadData{
			Matches:  sf.H2H.Matches,
			HomeWins: sf.H2H.HomeWins,
			Draws:    sf.H2H.Draws,
			AwayWins: sf.H2H.AwayWins,
		}
	}

	if sf.Live != nil {
		fx.Live = c.convertLive(sf.ID, sf.Live)
	}

	return fx, nil
}

// convertLive converts the in-play block of a live fixture
func (c *SportsFeedClient) convertLive(fixtureID string, sl *sportsFeedLive) *LiveData {
	live := &LiveData{
		Minute:    sl.Minute,
		HomeScore: sl.HomeScore,
		AwayScore: sl.AwayScore,
		Home:      convertLiveSide(sl.Home, sl.HomeScore),
		Away:      convertLiveSide(sl.Away, sl.AwayScore),
	}

	for _, m := range sl.Markets {
		live.Markets = append(live.Markets, LiveMarket{
			Key:  m.Key,
			Home: c.parseOdds(fixtureID, m.Home),
			Draw: c.parseOdds(fixtureID, m.Draw),
			Away: c.parseOdds(fixtureID, m.Away),
		})
	}

	return live
}

func convertLiveSide(s sportsFeedLiveSide, goals int) LiveSideData {
	return LiveSideData{
		Goals:            goals,
		ShotsOnTarget:    s.ShotsOnTarget,
		ShotsTotal:       s.ShotsTotal,
		Corners:          s.Corners,
		DangerousAttacks: s.DangerousAttacks,
		Possession:       s.Possession,
		YellowCards:      s.YellowCards,
		RedCards:         s.RedCards,
	}
}

// parseOdds parses decimal odds, returning nil if missing or invalid
func (c *SportsFeedClient) parseOdds(fixtureID string, s *string) *decimal.Decimal {
	if s == nil || *s == "" {
		return nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		c.logger.Printf("Failed to parse odds %q for fixture %s: %v", *s, fixtureID, err)
		return nil
	}
	return &d
}
