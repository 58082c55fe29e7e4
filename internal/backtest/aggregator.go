// Package backtest replays filters against historical fixtures and turns
// resolved bet outcomes into performance analytics.
package backtest

import (
	"fmt"
	"sort"
	"time"

	"github.com/yourusername/betfilter/internal/models"
)

// InputError is fatal to a single aggregation call: the caller must clean
// or re-sort the input and retry
type InputError struct {
	Index  int
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("aggregation input error at outcome %d: %s", e.Index, e.Reason)
}

// MonthlyBreakdown summarizes resolved outcomes for one calendar month (UTC)
type MonthlyBreakdown struct {
	Month   string  `json:"month"` // 2006-01
	Matches int     `json:"matches"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	Pushes  int     `json:"pushes"`
	WinRate float64 `json:"win_rate"`
	Profit  float64 `json:"profit"`
}

// ProfitPoint is one point of the cumulative profit curve
type ProfitPoint struct {
	MatchIndex       int       `json:"match_index"`
	CumulativeProfit float64   `json:"cumulative_profit"`
	Date             time.Time `json:"date"`
}

// Analytics is the derived backtest summary. It is a pure function of the
// outcome sequence and is recomputed on every run, never mutated in place.
type Analytics struct {
	TotalOutcomes        int                `json:"total_outcomes"`
	ResolvedCount        int                `json:"resolved_count"`
	PendingCount         int                `json:"pending_count"`
	Wins                 int                `json:"wins"`
	Losses               int                `json:"losses"`
	Pushes               int                `json:"pushes"`
	WinRate              float64            `json:"win_rate"`
	TotalStaked          float64            `json:"total_staked"`
	TotalProfit          float64            `json:"total_profit"`
	ROIPercentage        float64            `json:"roi_percentage"`
	CurrentStreak        int                `json:"current_streak"`
	LongestWinningStreak int                `json:"longest_winning_streak"`
	LongestLosingStreak  int                `json:"longest_losing_streak"`
	MaxDrawdown          float64            `json:"max_drawdown"`
	MaxDrawdownPct       float64            `json:"max_drawdown_pct"`
	CurrentDrawdown      float64            `json:"current_drawdown"`
	Monthly              []MonthlyBreakdown `json:"monthly"`
	ProfitCurve          []ProfitPoint      `json:"profit_curve"`
}

// Aggregate reduces an ordered sequence of bet outcomes into analytics.
// Outcomes must be in non-decreasing MatchedAt order; out-of-order input
// and non-positive stakes are rejected rather than silently producing
// wrong streak and drawdown figures. Pending outcomes count toward totals
// but are excluded from realized analytics. An empty sequence yields a
// zeroed summary, not an error.
func Aggregate(outcomes []*models.BetOutcome) (*Analytics, error) {
	if err := checkInput(outcomes); err != nil {
		return nil, err
	}

	a := &Analytics{
		TotalOutcomes: len(outcomes),
		Monthly:       []MonthlyBreakdown{},
		ProfitCurve:   []ProfitPoint{},
	}

	streak := 0
	balance := 0.0
	peak := 0.0
	monthly := make(map[time.Time]*MonthlyBreakdown)

	for _, o := range outcomes {
		if !o.IsResolved() {
			a.PendingCount++
			continue
		}
		a.ResolvedCount++
		a.TotalStaked += o.Stake
		a.TotalProfit += o.Profit

		switch o.Result {
		case models.ResultWin:
			a.Wins++
			if streak > 0 {
				streak++
			} else {
				streak = 1
			}
			if streak > a.LongestWinningStreak {
				a.LongestWinningStreak = streak
			}
		case models.ResultLoss:
			a.Losses++
			if streak < 0 {
				streak--
			} else {
				streak = -1
			}
			if -streak > a.LongestLosingStreak {
				a.LongestLosingStreak = -streak
			}
		case models.ResultPush:
			a.Pushes++
			streak = 0
		}

		balance += o.Profit
		if balance > peak {
			peak = balance
		}
		drawdown := peak - balance
		if drawdown > a.MaxDrawdown {
			a.MaxDrawdown = drawdown
			if peak > 0 {
				a.MaxDrawdownPct = drawdown / peak * 100
			}
		}
		a.CurrentDrawdown = drawdown

		a.ProfitCurve = append(a.ProfitCurve, ProfitPoint{
			MatchIndex:       a.ResolvedCount,
			CumulativeProfit: balance,
			Date:             o.MatchedAt.UTC(),
		})

		bucket := monthOf(o.MatchedAt)
		row, ok := monthly[bucket]
		if !ok {
			row = &MonthlyBreakdown{Month: bucket.Format("2006-01")}
			monthly[bucket] = row
		}
		row.Matches++
		row.Profit += o.Profit
		switch o.Result {
		case models.ResultWin:
			row.Wins++
		case models.ResultLoss:
			row.Losses++
		case models.ResultPush:
			row.Pushes++
		}
	}

	a.CurrentStreak = streak
	if a.ResolvedCount > 0 {
		a.WinRate = float64(a.Wins) / float64(a.ResolvedCount)
	}
	if a.TotalStaked > 0 {
		a.ROIPercentage = a.TotalProfit / a.TotalStaked * 100
	}
	a.Monthly = sortedMonths(monthly)

	return a, nil
}

func checkInput(outcomes []*models.BetOutcome) error {
	var prev time.Time
	for i, o := range outcomes {
		if o.Stake <= 0 {
			return &InputError{Index: i, Reason: fmt.Sprintf("stake %g is not positive", o.Stake)}
		}
		if i > 0 && o.MatchedAt.Before(prev) {
			return &InputError{Index: i, Reason: "outcomes are not in non-decreasing matched_at order"}
		}
		prev = o.MatchedAt
	}
	return nil
}

func monthOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func sortedMonths(monthly map[time.Time]*MonthlyBreakdown) []MonthlyBreakdown {
	keys := make([]time.Time, 0, len(monthly))
	for k := range monthly {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	rows := make([]MonthlyBreakdown, 0, len(keys))
	for _, k := range keys {
		row := monthly[k]
		if row.Matches > 0 {
			row.WinRate = float64(row.Wins) / float64(row.Matches)
		}
		rows = append(rows, *row)
	}
	return rows
}
