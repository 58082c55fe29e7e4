package backtest

import (
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/betfilter/internal/models"
)

// settleOutcome turns a filter match on a finished fixture into a resolved
// bet outcome. Fixtures without a final score settle as pending; draw-no-bet
// markets push on a draw.
func settleOutcome(f *models.Filter, fx *models.Fixture, stake, commissionRate float64) *models.BetOutcome {
	outcome := &models.BetOutcome{
		ID:        uuid.New(),
		FilterID:  f.ID,
		FixtureID: fx.ID,
		MatchedAt: fx.KickoffAt.UTC(),
		Stake:     stake,
		Result:    models.ResultPending,
		CreatedAt: time.Now().UTC(),
	}

	if odds, ok := fx.OddsFor(f.BetType); ok {
		outcome.Odds = &odds
	}

	if !fx.IsFinished() {
		return outcome
	}

	outcome.Result = settleResult(f.BetType, *fx.HomeScore, *fx.AwayScore)
	outcome.Profit = settleProfit(outcome, commissionRate)
	return outcome
}

func settleResult(betType models.BetType, home, away int) models.OutcomeResult {
	switch betType {
	case models.BetTypeHomeWin:
		return winLoss(home > away)
	case models.BetTypeAwayWin:
		return winLoss(away > home)
	case models.BetTypeDraw:
		return winLoss(home == away)
	case models.BetTypeOver25:
		return winLoss(home+away > 2)
	case models.BetTypeUnder25:
		return winLoss(home+away < 3)
	case models.BetTypeBTTS:
		return winLoss(home > 0 && away > 0)
	case models.BetTypeHomeDNB:
		if home == away {
			return models.ResultPush
		}
		return winLoss(home > away)
	case models.BetTypeAwayDNB:
		if home == away {
			return models.ResultPush
		}
		return winLoss(away > home)
	default:
		return models.ResultPending
	}
}

func winLoss(won bool) models.OutcomeResult {
	if won {
		return models.ResultWin
	}
	return models.ResultLoss
}

func settleProfit(o *models.BetOutcome, commissionRate float64) float64 {
	switch o.Result {
	case models.ResultWin:
		if o.Odds == nil {
			return 0
		}
		profit := (*o.Odds - 1.0) * o.Stake
		if commissionRate > 0 {
			profit -= profit * commissionRate
		}
		return profit
	case models.ResultLoss:
		return -o.Stake
	default:
		return 0
	}
}
