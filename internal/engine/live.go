package engine

import (
	"fmt"

	"github.com/yourusername/betfilter/internal/models"
)

// LiveRuleResult is the verbose trace of one live rule evaluation.
// MatchedTarget names the concrete side that satisfied the rule when the
// target was a selector (EITHER, FAVORITE, WINNING, ...).
type LiveRuleResult struct {
	Rule          models.LiveRule   `json:"rule"`
	Matched       bool              `json:"matched"`
	MatchedTarget models.LiveTarget `json:"matched_target,omitempty"`
	Err           *Diagnostic       `json:"error,omitempty"`
}

// EvaluateLive reports whether the live snapshot satisfies every live rule
func (e *Evaluator) EvaluateLive(rules []models.LiveRule, s *models.Snapshot) bool {
	for _, rule := range rules {
		if !e.evaluateLiveRule(rule, s).Matched {
			return false
		}
	}
	return true
}

// EvaluateLiveVerbose evaluates every live rule and returns the full trace
func (e *Evaluator) EvaluateLiveVerbose(rules []models.LiveRule, s *models.Snapshot) []LiveRuleResult {
	results := make([]LiveRuleResult, 0, len(rules))
	for _, rule := range rules {
		results = append(results, e.evaluateLiveRule(rule, s))
	}
	return results
}

// evaluateLiveRule dispatches on the category tag. The union is closed:
// adding a category means extending this switch.
func (e *Evaluator) evaluateLiveRule(rule models.LiveRule, s *models.Snapshot) LiveRuleResult {
	result := LiveRuleResult{Rule: rule}

	if s.Live == nil {
		result.Err = &Diagnostic{
			Code:    DiagFieldMissing,
			Message: "snapshot carries no live state",
		}
		return result
	}

	switch rule.Category {
	case models.LiveCategoryStats:
		if rule.Stats == nil {
			result.Err = malformedVariant(rule.Category)
			return result
		}
		result.Matched, result.MatchedTarget, result.Err = e.matchLiveStats(rule.Stats, s.Live)
	case models.LiveCategoryTeamState:
		if rule.TeamState == nil {
			result.Err = malformedVariant(rule.Category)
			return result
		}
		result.Matched, result.MatchedTarget, result.Err = e.matchTeamState(rule.TeamState, s.Live)
	case models.LiveCategoryOdds:
		if rule.Odds == nil {
			result.Err = malformedVariant(rule.Category)
			return result
		}
		result.Matched, result.MatchedTarget, result.Err = e.matchOdds(rule.Odds, s.Live)
	case models.LiveCategoryTiming:
		if rule.Timing == nil {
			result.Err = malformedVariant(rule.Category)
			return result
		}
		result.Matched = s.Live.Minute >= rule.Timing.MinuteFrom && s.Live.Minute <= rule.Timing.MinuteTo
	case models.LiveCategoryPreMatch:
		if rule.PreMatch == nil {
			result.Err = malformedVariant(rule.Category)
			return result
		}
		result.Matched, result.MatchedTarget, result.Err = e.matchPreMatch(rule.PreMatch, s.Live)
	default:
		result.Err = &Diagnostic{
			Code:    DiagTargetUnresolvable,
			Message: fmt.Sprintf("unknown live rule category %q", rule.Category),
		}
	}

	return result
}

func (e *Evaluator) matchLiveStats(r *models.LiveStatsRule, live *models.LiveState) (bool, models.LiveTarget, *Diagnostic) {
	return matchSides(r.Target, live, func(home bool) (bool, bool) {
		actual, ok := liveMetricValue(r.Metric, live.SideStats(home))
		if !ok {
			return false, false
		}
		return compareNumbers(r.Operator, actual, r.Value), true
	})
}

func (e *Evaluator) matchTeamState(r *models.TeamStateRule, live *models.LiveState) (bool, models.LiveTarget, *Diagnostic) {
	return matchSides(r.Target, live, func(home bool) (bool, bool) {
		return sideInState(home, r.State, live), true
	})
}

func (e *Evaluator) matchOdds(r *models.OddsRule, live *models.LiveState) (bool, models.LiveTarget, *Diagnostic) {
	market, ok := live.Markets[r.Market]
	if !ok {
		return false, "", &Diagnostic{
			Code:    DiagTargetUnresolvable,
			Message: fmt.Sprintf("market %q not present on snapshot", r.Market),
		}
	}
	return matchSides(r.Selection, live, func(home bool) (bool, bool) {
		price := market.Away
		if home {
			price = market.Home
		}
		if price <= 0 {
			return false, false
		}
		return compareNumbers(r.Operator, price, r.Value), true
	})
}

func (e *Evaluator) matchPreMatch(r *models.PreMatchStatsRule, live *models.LiveState) (bool, models.LiveTarget, *Diagnostic) {
	return matchSides(r.Target, live, func(home bool) (bool, bool) {
		stats := live.SidePreMatchStats(home)
		var actual float64
		switch r.Metric {
		case models.PreMatchFormPoints:
			actual = stats.FormPoints
		case models.PreMatchGoalsAvg:
			actual = stats.GoalsAvg
		case models.PreMatchConcededAvg:
			actual = stats.ConcededAvg
		case models.PreMatchPosition:
			actual = stats.LeaguePosition
		default:
			return false, false
		}
		return compareNumbers(r.Operator, actual, r.Value), true
	})
}

// matchSides resolves a target selector to concrete sides, then applies
// check to each resolved side. For EITHER the rule matches if any side
// does; selectors that cannot resolve (WINNING during a draw, FAVORITE
// with equal opening odds) yield a TargetUnresolvable diagnostic.
func matchSides(target models.LiveTarget, live *models.LiveState, check func(home bool) (matched, ok bool)) (bool, models.LiveTarget, *Diagnostic) {
	sides, diag := resolveTarget(target, live)
	if diag != nil {
		return false, "", diag
	}

	for _, home := range sides {
		matched, ok := check(home)
		if !ok {
			return false, "", &Diagnostic{
				Code:    DiagTargetUnresolvable,
				Message: fmt.Sprintf("target %q carries no comparable value", target),
			}
		}
		if matched {
			return true, concreteTarget(home), nil
		}
	}
	return false, "", nil
}

func resolveTarget(target models.LiveTarget, live *models.LiveState) ([]bool, *Diagnostic) {
	switch target {
	case models.TargetHome:
		return []bool{true}, nil
	case models.TargetAway:
		return []bool{false}, nil
	case models.TargetEither:
		return []bool{true, false}, nil
	case models.TargetFavorite, models.TargetUnderdog:
		if live.HomeOpeningOdds <= 0 || live.AwayOpeningOdds <= 0 || live.HomeOpeningOdds == live.AwayOpeningOdds {
			return nil, &Diagnostic{
				Code:    DiagTargetUnresolvable,
				Message: fmt.Sprintf("cannot resolve %q from opening odds", target),
			}
		}
		homeIsFavorite := live.HomeOpeningOdds < live.AwayOpeningOdds
		if target == models.TargetFavorite {
			return []bool{homeIsFavorite}, nil
		}
		return []bool{!homeIsFavorite}, nil
	case models.TargetWinning, models.TargetLosing:
		if live.HomeScore == live.AwayScore {
			return nil, &Diagnostic{
				Code:    DiagTargetUnresolvable,
				Message: fmt.Sprintf("cannot resolve %q while scores are level", target),
			}
		}
		homeIsWinning := live.HomeScore > live.AwayScore
		if target == models.TargetWinning {
			return []bool{homeIsWinning}, nil
		}
		return []bool{!homeIsWinning}, nil
	default:
		return nil, &Diagnostic{
			Code:    DiagTargetUnresolvable,
			Message: fmt.Sprintf("unknown target %q", target),
		}
	}
}

func sideInState(home bool, state models.TeamState, live *models.LiveState) bool {
	own, other := live.HomeScore, live.AwayScore
	if !home {
		own, other = other, own
	}
	switch state {
	case models.StateWinning:
		return own > other
	case models.StateLosing:
		return own < other
	case models.StateDrawing:
		return own == other
	default:
		return false
	}
}

func liveMetricValue(metric models.LiveMetric, stats models.TeamStats) (float64, bool) {
	switch metric {
	case models.MetricGoals:
		return float64(stats.Goals), true
	case models.MetricShotsOnTarget:
		return float64(stats.ShotsOnTarget), true
	case models.MetricShotsTotal:
		return float64(stats.ShotsTotal), true
	case models.MetricCorners:
		return float64(stats.Corners), true
	case models.MetricDangerousAttacks:
		return float64(stats.DangerousAttacks), true
	case models.MetricPossession:
		return stats.Possession, true
	case models.MetricYellowCards:
		return float64(stats.YellowCards), true
	case models.MetricRedCards:
		return float64(stats.RedCards), true
	default:
		return 0, false
	}
}

func concreteTarget(home bool) models.LiveTarget {
	if home {
		return models.TargetHome
	}
	return models.TargetAway
}

func malformedVariant(category models.LiveRuleCategory) *Diagnostic {
	return &Diagnostic{
		Code:    DiagTargetUnresolvable,
		Message: fmt.Sprintf("live rule category %q has no payload", category),
	}
}
