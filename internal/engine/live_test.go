package engine

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/betfilter/internal/catalog"
	"github.com/yourusername/betfilter/internal/models"
)

// liveSnapshot is a match at minute 67, home leading 2-1, home was the
// pre-match favorite.
func liveSnapshot() *models.Snapshot {
	return &models.Snapshot{
		FixtureID: uuid.New(),
		TakenAt:   time.Date(2025, 3, 8, 16, 7, 0, 0, time.UTC),
		Fields: map[string]models.FieldValue{
			"league": models.TextField("premier_league"),
		},
		Live: &models.LiveState{
			Minute:    67,
			HomeScore: 2,
			AwayScore: 1,
			Home: models.TeamStats{
				Goals: 2, ShotsOnTarget: 7, ShotsTotal: 14, Corners: 8,
				DangerousAttacks: 45, Possession: 61.5, YellowCards: 1,
			},
			Away: models.TeamStats{
				Goals: 1, ShotsOnTarget: 3, ShotsTotal: 6, Corners: 2,
				DangerousAttacks: 20, Possession: 38.5, YellowCards: 3, RedCards: 1,
			},
			HomePreMatch:    models.SidePreMatch{FormPoints: 12, GoalsAvg: 2.1, ConcededAvg: 0.8, LeaguePosition: 2},
			AwayPreMatch:    models.SidePreMatch{FormPoints: 6, GoalsAvg: 1.2, ConcededAvg: 1.6, LeaguePosition: 14},
			HomeOpeningOdds: 1.6,
			AwayOpeningOdds: 5.5,
			Markets: map[models.OddsMarket]models.MarketOdds{
				models.MarketMatchWinner: {Home: 1.3, Draw: 5.0, Away: 12.0},
				models.MarketNextGoal:    {Home: 1.9, Away: 2.8},
			},
		},
	}
}

func statsRule(metric models.LiveMetric, target models.LiveTarget, op catalog.Operator, value float64) models.LiveRule {
	return models.LiveRule{
		Category: models.LiveCategoryStats,
		Stats:    &models.LiveStatsRule{Metric: metric, Target: target, Operator: op, Value: value},
	}
}

func TestEvaluateLiveStats(t *testing.T) {
	e := newTestEvaluator()
	snap := liveSnapshot()

	tests := []struct {
		name string
		rule models.LiveRule
		want bool
	}{
		{"home corners above threshold", statsRule(models.MetricCorners, models.TargetHome, catalog.OpGte, 8), true},
		{"away shots below threshold", statsRule(models.MetricShotsOnTarget, models.TargetAway, catalog.OpGt, 5), false},
		{"either side has a red card", statsRule(models.MetricRedCards, models.TargetEither, catalog.OpGte, 1), true},
		{"possession is fractional", statsRule(models.MetricPossession, models.TargetHome, catalog.OpGt, 60), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.EvaluateLive([]models.LiveRule{tt.rule}, snap))
		})
	}
}

func TestEvaluateLiveAllRulesMustMatch(t *testing.T) {
	e := newTestEvaluator()
	snap := liveSnapshot()

	rules := []models.LiveRule{
		statsRule(models.MetricCorners, models.TargetHome, catalog.OpGte, 5),
		statsRule(models.MetricGoals, models.TargetAway, catalog.OpGte, 3), // fails
	}
	assert.False(t, e.EvaluateLive(rules, snap))
}

func TestEvaluateLiveTeamState(t *testing.T) {
	e := newTestEvaluator()
	snap := liveSnapshot()

	winning := models.LiveRule{
		Category:  models.LiveCategoryTeamState,
		TeamState: &models.TeamStateRule{Target: models.TargetHome, State: models.StateWinning},
	}
	assert.True(t, e.EvaluateLive([]models.LiveRule{winning}, snap))

	drawing := models.LiveRule{
		Category:  models.LiveCategoryTeamState,
		TeamState: &models.TeamStateRule{Target: models.TargetEither, State: models.StateDrawing},
	}
	assert.False(t, e.EvaluateLive([]models.LiveRule{drawing}, snap))
}

func TestEvaluateLiveSelectorTargets(t *testing.T) {
	e := newTestEvaluator()
	snap := liveSnapshot()

	// FAVORITE resolves to home via opening odds; home has 2 goals
	favorite := statsRule(models.MetricGoals, models.TargetFavorite, catalog.OpGte, 2)
	assert.True(t, e.EvaluateLive([]models.LiveRule{favorite}, snap))

	// WINNING resolves to home; the matched target is surfaced in the trace
	winning := statsRule(models.MetricShotsOnTarget, models.TargetWinning, catalog.OpGte, 7)
	results := e.EvaluateLiveVerbose([]models.LiveRule{winning}, snap)
	require.Len(t, results, 1)
	assert.True(t, results[0].Matched)
	assert.Equal(t, models.TargetHome, results[0].MatchedTarget)

	// UNDERDOG resolves to away, whose corners fall short
	underdog := statsRule(models.MetricCorners, models.TargetUnderdog, catalog.OpGte, 5)
	assert.False(t, e.EvaluateLive([]models.LiveRule{underdog}, snap))
}

func TestEvaluateLiveUnresolvableSelectors(t *testing.T) {
	e := newTestEvaluator()
	snap := liveSnapshot()
	snap.Live.HomeScore = 1
	snap.Live.AwayScore = 1
	snap.Live.HomeOpeningOdds = 2.0
	snap.Live.AwayOpeningOdds = 2.0

	winning := statsRule(models.MetricGoals, models.TargetWinning, catalog.OpGte, 1)
	results := e.EvaluateLiveVerbose([]models.LiveRule{winning}, snap)
	require.Len(t, results, 1)
	assert.False(t, results[0].Matched)
	require.NotNil(t, results[0].Err)
	assert.Equal(t, DiagTargetUnresolvable, results[0].Err.Code)

	favorite := statsRule(models.MetricGoals, models.TargetFavorite, catalog.OpGte, 1)
	results = e.EvaluateLiveVerbose([]models.LiveRule{favorite}, snap)
	require.NotNil(t, results[0].Err)
	assert.Equal(t, DiagTargetUnresolvable, results[0].Err.Code)
}

func TestEvaluateLiveOdds(t *testing.T) {
	e := newTestEvaluator()
	snap := liveSnapshot()

	cheapHome := models.LiveRule{
		Category: models.LiveCategoryOdds,
		Odds: &models.OddsRule{
			Market:    models.MarketMatchWinner,
			Selection: models.TargetHome,
			Operator:  catalog.OpLte,
			Value:     1.5,
		},
	}
	assert.True(t, e.EvaluateLive([]models.LiveRule{cheapHome}, snap))

	missingMarket := models.LiveRule{
		Category: models.LiveCategoryOdds,
		Odds: &models.OddsRule{
			Market:    models.MarketOverUnder25,
			Selection: models.TargetHome,
			Operator:  catalog.OpLt,
			Value:     2.0,
		},
	}
	results := e.EvaluateLiveVerbose([]models.LiveRule{missingMarket}, snap)
	require.Len(t, results, 1)
	assert.False(t, results[0].Matched)
	require.NotNil(t, results[0].Err)
	assert.Equal(t, DiagTargetUnresolvable, results[0].Err.Code)
}

func TestEvaluateLiveTimingWindow(t *testing.T) {
	e := newTestEvaluator()
	snap := liveSnapshot()

	tests := []struct {
		name     string
		from, to int
		want     bool
	}{
		{"inside window", 60, 90, true},
		{"on lower bound", 67, 90, true},
		{"on upper bound", 45, 67, true},
		{"before window", 70, 90, false},
		{"after window", 0, 45, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := models.LiveRule{
				Category: models.LiveCategoryTiming,
				Timing:   &models.TimingRule{MinuteFrom: tt.from, MinuteTo: tt.to},
			}
			assert.Equal(t, tt.want, e.EvaluateLive([]models.LiveRule{rule}, snap))
		})
	}
}

func TestEvaluateLivePreMatchStats(t *testing.T) {
	e := newTestEvaluator()
	snap := liveSnapshot()

	inForm := models.LiveRule{
		Category: models.LiveCategoryPreMatch,
		PreMatch: &models.PreMatchStatsRule{
			Metric:   models.PreMatchFormPoints,
			Target:   models.TargetHome,
			Operator: catalog.OpGte,
			Value:    10,
		},
	}
	assert.True(t, e.EvaluateLive([]models.LiveRule{inForm}, snap))

	lowTable := models.LiveRule{
		Category: models.LiveCategoryPreMatch,
		PreMatch: &models.PreMatchStatsRule{
			Metric:   models.PreMatchPosition,
			Target:   models.TargetAway,
			Operator: catalog.OpLte,
			Value:    10,
		},
	}
	assert.False(t, e.EvaluateLive([]models.LiveRule{lowTable}, snap))
}

func TestEvaluateLiveOnPreMatchSnapshot(t *testing.T) {
	e := newTestEvaluator()
	snap := preMatchSnapshot()

	rule := statsRule(models.MetricGoals, models.TargetHome, catalog.OpGte, 1)
	results := e.EvaluateLiveVerbose([]models.LiveRule{rule}, snap)
	require.Len(t, results, 1)
	assert.False(t, results[0].Matched)
	require.NotNil(t, results[0].Err)
	assert.Equal(t, DiagFieldMissing, results[0].Err.Code)
}

func TestEvaluateLiveMalformedVariant(t *testing.T) {
	e := newTestEvaluator()
	snap := liveSnapshot()

	rule := models.LiveRule{Category: models.LiveCategoryStats} // no payload
	results := e.EvaluateLiveVerbose([]models.LiveRule{rule}, snap)
	require.Len(t, results, 1)
	assert.False(t, results[0].Matched)
	require.NotNil(t, results[0].Err)
}
