package models

import "github.com/yourusername/betfilter/internal/catalog"

// LiveRuleCategory discriminates the live rule tagged union
type LiveRuleCategory string

const (
	LiveCategoryStats     LiveRuleCategory = "live_stats"
	LiveCategoryTeamState LiveRuleCategory = "team_state"
	LiveCategoryOdds      LiveRuleCategory = "odds"
	LiveCategoryTiming    LiveRuleCategory = "timing"
	LiveCategoryPreMatch  LiveRuleCategory = "pre_match_stats"
)

// LiveTarget selects which side of a live match a rule applies to.
// WINNING/LOSING resolve against the current score, FAVORITE/UNDERDOG
// against pre-match odds.
type LiveTarget string

const (
	TargetHome     LiveTarget = "HOME"
	TargetAway     LiveTarget = "AWAY"
	TargetEither   LiveTarget = "EITHER"
	TargetFavorite LiveTarget = "FAVORITE"
	TargetUnderdog LiveTarget = "UNDERDOG"
	TargetWinning  LiveTarget = "WINNING"
	TargetLosing   LiveTarget = "LOSING"
)

// LiveMetric names an in-play statistic on one side of a match
type LiveMetric string

const (
	MetricGoals            LiveMetric = "goals"
	MetricShotsOnTarget    LiveMetric = "shots_on_target"
	MetricShotsTotal       LiveMetric = "shots_total"
	MetricCorners          LiveMetric = "corners"
	MetricDangerousAttacks LiveMetric = "dangerous_attacks"
	MetricPossession       LiveMetric = "possession"
	MetricYellowCards      LiveMetric = "yellow_cards"
	MetricRedCards         LiveMetric = "red_cards"
)

// TeamState names the score-relative state of one side
type TeamState string

const (
	StateWinning TeamState = "winning"
	StateLosing  TeamState = "losing"
	StateDrawing TeamState = "drawing"
)

// OddsMarket names a live odds market
type OddsMarket string

const (
	MarketMatchWinner OddsMarket = "match_winner"
	MarketOverUnder25 OddsMarket = "over_under_2_5"
	MarketNextGoal    OddsMarket = "next_goal"
)

// PreMatchMetric names a pre-match aggregate checked during live matches
type PreMatchMetric string

const (
	PreMatchFormPoints  PreMatchMetric = "form_points"
	PreMatchGoalsAvg    PreMatchMetric = "goals_avg"
	PreMatchConcededAvg PreMatchMetric = "conceded_avg"
	PreMatchPosition    PreMatchMetric = "league_position"
)

// LiveRule is a tagged-union condition for in-play matches. Category names
// the single populated variant; payloads legal for one category are never
// interpreted under another.
type LiveRule struct {
	Category  LiveRuleCategory   `json:"category" validate:"required"`
	Stats     *LiveStatsRule     `json:"stats,omitempty"`
	TeamState *TeamStateRule     `json:"team_state,omitempty"`
	Odds      *OddsRule          `json:"odds,omitempty"`
	Timing    *TimingRule        `json:"timing,omitempty"`
	PreMatch  *PreMatchStatsRule `json:"pre_match,omitempty"`
}

// LiveStatsRule compares an in-play statistic of the target side
type LiveStatsRule struct {
	Metric   LiveMetric       `json:"metric" validate:"required"`
	Target   LiveTarget       `json:"target" validate:"required"`
	Operator catalog.Operator `json:"operator" validate:"required"`
	Value    float64          `json:"value"`
}

// TeamStateRule checks the score-relative state of the target side
type TeamStateRule struct {
	Target LiveTarget `json:"target" validate:"required"`
	State  TeamState  `json:"state" validate:"required"`
}

// OddsRule compares the current live odds of a market selection
type OddsRule struct {
	Market    OddsMarket       `json:"market" validate:"required"`
	Selection LiveTarget       `json:"selection" validate:"required"`
	Operator  catalog.Operator `json:"operator" validate:"required"`
	Value     float64          `json:"value"`
}

// TimingRule restricts matching to a minute window, inclusive on both ends
type TimingRule struct {
	MinuteFrom int `json:"minute_from" validate:"gte=0,lte=120"`
	MinuteTo   int `json:"minute_to" validate:"gte=0,lte=120"`
}

// PreMatchStatsRule compares a pre-match aggregate of the target side
type PreMatchStatsRule struct {
	Metric   PreMatchMetric   `json:"metric" validate:"required"`
	Target   LiveTarget       `json:"target" validate:"required"`
	Operator catalog.Operator `json:"operator" validate:"required"`
	Value    float64          `json:"value"`
}
