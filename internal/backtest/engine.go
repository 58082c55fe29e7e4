package backtest

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/betfilter/internal/engine"
	appLogger "github.com/yourusername/betfilter/internal/logger"
	"github.com/yourusername/betfilter/internal/metrics"
	"github.com/yourusername/betfilter/internal/models"
	"github.com/yourusername/betfilter/internal/repository"
)

// Result is one completed backtest run
type Result struct {
	FilterID    uuid.UUID             `json:"filter_id"`
	FilterName  string                `json:"filter_name"`
	StartDate   time.Time             `json:"start_date"`
	EndDate     time.Time             `json:"end_date"`
	Analytics   *Analytics            `json:"analytics"`
	Outcomes    []*models.BetOutcome  `json:"outcomes,omitempty"`
	GeneratedAt time.Time             `json:"generated_at"`
	FromCache   bool                  `json:"from_cache"`
}

// Engine replays filters against historical fixtures
type Engine struct {
	config    Config
	repos     *repository.Repositories
	evaluator *engine.Evaluator
	cache     *ResultCache
	logger    *logrus.Logger
	audit     *appLogger.AuditLogger
}

// NewEngine creates a new backtest engine
func NewEngine(cfg Config, repos *repository.Repositories, evaluator *engine.Evaluator, logger *logrus.Logger) (*Engine, error) {
	if repos == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	if evaluator == nil {
		return nil, fmt.Errorf("evaluator is required")
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Engine{
		config:    cfg,
		repos:     repos,
		evaluator: evaluator,
		cache:     NewResultCache(cfg.CacheTTL),
		logger:    logger,
		audit:     appLogger.NewAuditLogger(logger),
	}, nil
}

// Config returns the backtest configuration
func (e *Engine) Config() Config {
	return e.config
}

// Run replays the filter over finished fixtures in the configured range
// and aggregates the settled outcomes. Identical inputs hit the result
// cache; aggregation itself is deterministic either way.
func (e *Engine) Run(ctx context.Context, f *models.Filter) (*Result, error) {
	start := time.Now()

	key := cacheKey(f, e.config.StartDate, e.config.EndDate)
	if cached, ok := e.cache.Get(key); ok {
		e.logger.WithFields(logrus.Fields{"filter": f.ID, "key": key}).Debug("Backtest served from cache")
		metrics.RecordBacktestCacheEvent(true)
		hit := *cached
		hit.FromCache = true
		e.audit.LogBacktestRun(f.ID, e.config.StartDate, e.config.EndDate, hit.Analytics.TotalOutcomes, true, float64(time.Since(start).Milliseconds()))
		return &hit, nil
	}
	metrics.RecordBacktestCacheEvent(false)

	outcomes, err := e.Replay(ctx, f)
	if err != nil {
		metrics.RecordBacktestRun("failure", time.Since(start).Seconds(), 0)
		return nil, err
	}

	analytics, err := Aggregate(outcomes)
	if err != nil {
		metrics.RecordBacktestRun("failure", time.Since(start).Seconds(), 0)
		return nil, fmt.Errorf("aggregation failed: %w", err)
	}

	if e.config.PersistOutcomes && len(outcomes) > 0 {
		if err := e.repos.Outcome.InsertBatch(ctx, outcomes); err != nil {
			return nil, fmt.Errorf("failed to persist outcomes: %w", err)
		}
	}

	result := &Result{
		FilterID:    f.ID,
		FilterName:  f.Name,
		StartDate:   e.config.StartDate,
		EndDate:     e.config.EndDate,
		Analytics:   analytics,
		Outcomes:    outcomes,
		GeneratedAt: time.Now().UTC(),
	}
	e.cache.Put(key, result)
	metrics.RecordBacktestRun("success", time.Since(start).Seconds(), analytics.TotalOutcomes)
	e.audit.LogBacktestRun(f.ID, e.config.StartDate, e.config.EndDate, analytics.TotalOutcomes, false, float64(time.Since(start).Milliseconds()))

	e.logger.WithFields(logrus.Fields{
		"filter":   f.ID,
		"matches":  analytics.TotalOutcomes,
		"win_rate": analytics.WinRate,
		"roi":      analytics.ROIPercentage,
	}).Info("Backtest completed")

	return result, nil
}

// Replay evaluates the filter against every finished fixture in range and
// settles the matches into bet outcomes, in kickoff order
func (e *Engine) Replay(ctx context.Context, f *models.Filter) ([]*models.BetOutcome, error) {
	fixtures, err := e.repos.Fixture.GetFinishedByDateRange(ctx, e.config.StartDate, e.config.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load fixtures: %w", err)
	}

	outcomes := make([]*models.BetOutcome, 0)
	for _, fx := range fixtures {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !e.evaluator.Evaluate(f, fx.Snapshot()) {
			continue
		}
		outcomes = append(outcomes, settleOutcome(f, fx, e.config.Stake, e.config.CommissionRate))
	}

	return outcomes, nil
}

// cacheKey builds a stable identity for (filter rules, bet type, range).
// Toggling flags or renaming the filter does not invalidate results.
func cacheKey(f *models.Filter, start, end time.Time) string {
	payload := struct {
		Rules   []models.Rule  `json:"rules"`
		BetType models.BetType `json:"bet_type"`
		Start   string         `json:"start"`
		End     string         `json:"end"`
	}{f.Rules, f.BetType, start.Format("2006-01-02"), end.Format("2006-01-02")}

	data, _ := json.Marshal(payload)
	return fmt.Sprintf("%x", sha256.Sum256(data))
}
