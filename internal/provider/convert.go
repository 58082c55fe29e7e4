package provider

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yourusername/betfilter/internal/models"
)

// providerStatusMap maps feed status strings to fixture statuses
var providerStatusMap = map[string]models.FixtureStatus{
	"scheduled": models.FixtureStatusScheduled,
	"live":      models.FixtureStatusLive,
	"finished":  models.FixtureStatusFinished,
	"abandoned": models.FixtureStatusAbandoned,
}

// liveMarketKeyMap maps feed market keys to odds markets
var liveMarketKeyMap = map[string]models.OddsMarket{
	"match_winner":   models.MarketMatchWinner,
	"over_under_2_5": models.MarketOverUnder25,
	"next_goal":      models.MarketNextGoal,
}

// ToFixture converts provider fixture data into the storage model,
// flattening the pre-match aggregates into catalog-keyed attributes.
func ToFixture(data *FixtureData) *models.Fixture {
	status, ok := providerStatusMap[strings.ToLower(data.Status)]
	if !ok {
		status = models.FixtureStatusScheduled
	}

	now := time.Now().UTC()
	fx := &models.Fixture{
		ID:         uuid.New(),
		SourceID:   data.SourceID,
		League:     data.League,
		HomeTeam:   data.HomeTeam,
		AwayTeam:   data.AwayTeam,
		KickoffAt:  data.KickoffAt,
		Status:     status,
		HomeScore:  data.HomeScore,
		AwayScore:  data.AwayScore,
		Attributes: buildAttributes(data),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return fx
}

// buildAttributes flattens fixture data into catalog-keyed field values
func buildAttributes(data *FixtureData) map[string]models.FieldValue {
	attrs := make(map[string]models.FieldValue)

	attrs["league"] = models.TextField(data.League)
	attrs["country"] = models.TextField(data.Country)
	attrs["day_of_week"] = models.TextField(strings.ToLower(data.KickoffAt.UTC().Weekday().String()))
	attrs["kickoff_hour"] = models.NumberField(float64(data.KickoffAt.UTC().Hour()))

	setOdds(attrs, "home_odds", data.Odds.Home)
	setOdds(attrs, "draw_odds", data.Odds.Draw)
	setOdds(attrs, "away_odds", data.Odds.Away)
	setOdds(attrs, "over25_odds", data.Odds.Over25)
	setOdds(attrs, "under25_odds", data.Odds.Under25)
	setOdds(attrs, "btts_odds", data.Odds.BTTS)

	setNumber(attrs, "home_form_points", data.Home.FormPoints)
	setNumber(attrs, "away_form_points", data.Away.FormPoints)
	setNumber(attrs, "home_goals_avg", data.Home.GoalsAvg)
	setNumber(attrs, "away_goals_avg", data.Away.GoalsAvg)
	setNumber(attrs, "home_conceded_avg", data.Home.ConcededAvg)
	setNumber(attrs, "away_conceded_avg", data.Away.ConcededAvg)

	if data.Home.LeaguePosition != nil {
		attrs["home_position"] = models.NumberField(float64(*data.Home.LeaguePosition))
	}
	if data.Away.LeaguePosition != nil {
		attrs["away_position"] = models.NumberField(float64(*data.Away.LeaguePosition))
	}

	if data.HeadToHead != nil {
		attrs["h2h_home_wins"] = models.NumberField(float64(data.HeadToHead.HomeWins))
		attrs["h2h_draws"] = models.NumberField(float64(data.HeadToHead.Draws))
		attrs["h2h_away_wins"] = models.NumberField(float64(data.HeadToHead.AwayWins))
	}

	return attrs
}

// ToSnapshot converts live fixture data into an evaluation snapshot.
// The fixtureID is the stored fixture's ID, not the provider's source ID.
func ToSnapshot(fixtureID uuid.UUID, data *FixtureData) *models.Snapshot {
	snap := &models.Snapshot{
		FixtureID: fixtureID,
		TakenAt:   data.FetchedAt,
		Fields:    buildAttributes(data),
	}

	if data.Live == nil {
		return snap
	}

	live := &models.LiveState{
		Minute:          data.Live.Minute,
		HomeScore:       data.Live.HomeScore,
		AwayScore:       data.Live.AwayScore,
		Home:            toTeamStats(data.Live.Home),
		Away:            toTeamStats(data.Live.Away),
		HomeOpeningOdds: decimalToFloat(data.Odds.Home),
		AwayOpeningOdds: decimalToFloat(data.Odds.Away),
		Markets:         make(map[models.OddsMarket]models.MarketOdds),
	}

	live.HomePreMatch = toSidePreMatch(data.Home)
	live.AwayPreMatch = toSidePreMatch(data.Away)

	for _, m := range data.Live.Markets {
		market, ok := liveMarketKeyMap[m.Key]
		if !ok {
			continue
		}
		live.Markets[market] = models.MarketOdds{
			Home: decimalToFloat(m.Home),
			Draw: decimalToFloat(m.Draw),
			Away: decimalToFloat(m.Away),
		}
	}

	snap.Live = live
	return snap
}

func toTeamStats(s LiveSideData) models.TeamStats {
	return models.TeamStats{
		Goals:            s.Goals,
		ShotsOnTarget:    s.ShotsOnTarget,
		ShotsTotal:       s.ShotsTotal,
		Corners:          s.Corners,
		DangerousAttacks: s.DangerousAttacks,
		Possession:       s.Possession,
		YellowCards:      s.YellowCards,
		RedCards:         s.RedCards,
	}
}

func toSidePreMatch(s SideData) models.SidePreMatch {
	pm := models.SidePreMatch{}
	if s.FormPoints != nil {
		pm.FormPoints = *s.FormPoints
	}
	if s.GoalsAvg != nil {
		pm.GoalsAvg = *s.GoalsAvg
	}
	if s.ConcededAvg != nil {
		pm.ConcededAvg = *s.ConcededAvg
	}
	if s.LeaguePosition != nil {
		pm.LeaguePosition = float64(*s.LeaguePosition)
	}
	return pm
}

func setOdds(attrs map[string]models.FieldValue, key string, d *decimal.Decimal) {
	if d == nil {
		return
	}
	attrs[key] = models.NumberField(d.InexactFloat64())
}

func setNumber(attrs map[string]models.FieldValue, key string, v *float64) {
	if v == nil {
		return
	}
	attrs[key] = models.NumberField(*v)
}

func decimalToFloat(d *decimal.Decimal) float64 {
	if d == nil {
		return 0
	}
	return d.InexactFloat64()
}
