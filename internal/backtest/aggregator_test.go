package backtest

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/betfilter/internal/models"
)

func outcome(result models.OutcomeResult, stake, profit float64, matchedAt time.Time) *models.BetOutcome {
	return &models.BetOutcome{
		ID:        uuid.New(),
		FilterID:  uuid.New(),
		FixtureID: uuid.New(),
		MatchedAt: matchedAt,
		Stake:     stake,
		Result:    result,
		Profit:    profit,
	}
}

func sequential(results []models.OutcomeResult, stakes, profits []float64) []*models.BetOutcome {
	base := time.Date(2025, 1, 10, 15, 0, 0, 0, time.UTC)
	outcomes := make([]*models.BetOutcome, len(results))
	for i := range results {
		outcomes[i] = outcome(results[i], stakes[i], profits[i], base.Add(time.Duration(i)*24*time.Hour))
	}
	return outcomes
}

func TestAggregateEmpty(t *testing.T) {
	a, err := Aggregate(nil)
	require.NoError(t, err)

	assert.Equal(t, 0, a.TotalOutcomes)
	assert.Equal(t, 0, a.ResolvedCount)
	assert.Zero(t, a.WinRate)
	assert.Zero(t, a.ROIPercentage)
	assert.Zero(t, a.CurrentStreak)
	assert.Empty(t, a.Monthly)
	assert.Empty(t, a.ProfitCurve)
}

func TestAggregateStreaks(t *testing.T) {
	w, l := models.ResultWin, models.ResultLoss
	outcomes := sequential(
		[]models.OutcomeResult{w, w, l, w, w, w},
		[]float64{10, 10, 10, 10, 10, 10},
		[]float64{5, 5, -10, 5, 5, 5},
	)

	a, err := Aggregate(outcomes)
	require.NoError(t, err)

	assert.Equal(t, 3, a.LongestWinningStreak)
	assert.Equal(t, 1, a.LongestLosingStreak)
	assert.Equal(t, 3, a.CurrentStreak)
}

func TestAggregatePushResetsStreak(t *testing.T) {
	w, p := models.ResultWin, models.ResultPush
	outcomes := sequential(
		[]models.OutcomeResult{w, w, p, w},
		[]float64{10, 10, 10, 10},
		[]float64{5, 5, 0, 5},
	)

	a, err := Aggregate(outcomes)
	require.NoError(t, err)

	// The push breaks the run of two without counting as a loss
	assert.Equal(t, 2, a.LongestWinningStreak)
	assert.Equal(t, 0, a.LongestLosingStreak)
	assert.Equal(t, 1, a.CurrentStreak)
	assert.Equal(t, 1, a.Pushes)
}

func TestAggregateDrawdown(t *testing.T) {
	w, l := models.ResultWin, models.ResultLoss
	outcomes := sequential(
		[]models.OutcomeResult{w, w, l, w},
		[]float64{20, 20, 20, 20},
		[]float64{10, 15, -20, 10},
	)

	a, err := Aggregate(outcomes)
	require.NoError(t, err)

	// Balances [10,25,5,15] against peaks [10,25,25,25]
	assert.InDelta(t, 20.0, a.MaxDrawdown, 1e-9)
	assert.InDelta(t, 80.0, a.MaxDrawdownPct, 1e-9)
	assert.InDelta(t, 10.0, a.CurrentDrawdown, 1e-9)

	require.Len(t, a.ProfitCurve, 4)
	assert.InDelta(t, 25.0, a.ProfitCurve[1].CumulativeProfit, 1e-9)
	assert.InDelta(t, 5.0, a.ProfitCurve[2].CumulativeProfit, 1e-9)
	assert.Equal(t, 3, a.ProfitCurve[2].MatchIndex)
}

func TestAggregateDrawdownBeforeAnyPeak(t *testing.T) {
	w, l := models.ResultWin, models.ResultLoss
	outcomes := sequential(
		[]models.OutcomeResult{l, w},
		[]float64{10, 10},
		[]float64{-10, 4},
	)

	a, err := Aggregate(outcomes)
	require.NoError(t, err)

	// Balance goes [-10,-6] and never rises above the starting peak of
	// zero, so the absolute drawdown is tracked but the percentage has
	// no meaningful base and stays zero.
	assert.InDelta(t, 10.0, a.MaxDrawdown, 1e-9)
	assert.Zero(t, a.MaxDrawdownPct)
	assert.InDelta(t, 6.0, a.CurrentDrawdown, 1e-9)
}

func TestAggregateROI(t *testing.T) {
	w, l := models.ResultWin, models.ResultLoss
	outcomes := sequential(
		[]models.OutcomeResult{w, l, w},
		[]float64{10, 10, 10},
		[]float64{8.5, -10, 7},
	)

	a, err := Aggregate(outcomes)
	require.NoError(t, err)

	assert.InDelta(t, 30.0, a.TotalStaked, 1e-9)
	assert.InDelta(t, 5.5, a.TotalProfit, 1e-9)
	assert.InDelta(t, 18.333333, a.ROIPercentage, 1e-4)
	assert.InDelta(t, 2.0/3.0, a.WinRate, 1e-9)
}

func TestAggregatePendingExcluded(t *testing.T) {
	outcomes := []*models.BetOutcome{
		outcome(models.ResultWin, 10, 8, time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)),
		outcome(models.ResultPending, 10, 0, time.Date(2025, 2, 2, 12, 0, 0, 0, time.UTC)),
		outcome(models.ResultLoss, 10, -10, time.Date(2025, 2, 3, 12, 0, 0, 0, time.UTC)),
	}

	a, err := Aggregate(outcomes)
	require.NoError(t, err)

	assert.Equal(t, 3, a.TotalOutcomes)
	assert.Equal(t, 2, a.ResolvedCount)
	assert.Equal(t, 1, a.PendingCount)
	// Pending stake does not count toward ROI denominator
	assert.InDelta(t, 20.0, a.TotalStaked, 1e-9)
	assert.InDelta(t, 0.5, a.WinRate, 1e-9)
	assert.Len(t, a.ProfitCurve, 2)
}

func TestAggregateMonthlyBucketsUTC(t *testing.T) {
	// One minute either side of the UTC year boundary lands in different months
	outcomes := []*models.BetOutcome{
		outcome(models.ResultWin, 10, 8, time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC)),
		outcome(models.ResultLoss, 10, -10, time.Date(2025, 1, 1, 0, 1, 0, 0, time.UTC)),
		outcome(models.ResultWin, 10, 6, time.Date(2025, 1, 15, 18, 0, 0, 0, time.UTC)),
	}

	a, err := Aggregate(outcomes)
	require.NoError(t, err)

	require.Len(t, a.Monthly, 2)
	assert.Equal(t, "2024-12", a.Monthly[0].Month)
	assert.Equal(t, 1, a.Monthly[0].Matches)
	assert.InDelta(t, 1.0, a.Monthly[0].WinRate, 1e-9)

	assert.Equal(t, "2025-01", a.Monthly[1].Month)
	assert.Equal(t, 2, a.Monthly[1].Matches)
	assert.InDelta(t, 0.5, a.Monthly[1].WinRate, 1e-9)
	assert.InDelta(t, -4.0, a.Monthly[1].Profit, 1e-9)
}

func TestAggregateRejectsOutOfOrder(t *testing.T) {
	outcomes := []*models.BetOutcome{
		outcome(models.ResultWin, 10, 8, time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC)),
		outcome(models.ResultLoss, 10, -10, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)),
	}

	_, err := Aggregate(outcomes)
	require.Error(t, err)

	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, 1, inputErr.Index)
}

func TestAggregateRejectsNonPositiveStake(t *testing.T) {
	outcomes := []*models.BetOutcome{
		outcome(models.ResultWin, 0, 8, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)),
	}

	_, err := Aggregate(outcomes)
	require.Error(t, err)

	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, 0, inputErr.Index)
}

func TestAggregateEqualTimestampsAccepted(t *testing.T) {
	at := time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC)
	outcomes := []*models.BetOutcome{
		outcome(models.ResultWin, 10, 8, at),
		outcome(models.ResultLoss, 10, -10, at),
	}

	_, err := Aggregate(outcomes)
	require.NoError(t, err)
}

func TestAggregateIsDeterministic(t *testing.T) {
	w, l := models.ResultWin, models.ResultLoss
	outcomes := sequential(
		[]models.OutcomeResult{w, l, w, w, l},
		[]float64{10, 10, 10, 10, 10},
		[]float64{7, -10, 9, 4, -10},
	)

	first, err := Aggregate(outcomes)
	require.NoError(t, err)
	second, err := Aggregate(outcomes)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
