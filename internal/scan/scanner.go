// Package scan runs the live scan service: evaluating active filters
// against in-play snapshots and recording matches.
package scan

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/betfilter/internal/alert"
	"github.com/yourusername/betfilter/internal/config"
	"github.com/yourusername/betfilter/internal/engine"
	"github.com/yourusername/betfilter/internal/logger"
	"github.com/yourusername/betfilter/internal/metrics"
	"github.com/yourusername/betfilter/internal/models"
	"github.com/yourusername/betfilter/internal/provider"
	"github.com/yourusername/betfilter/internal/repository"
)

// TickStats summarizes one scan pass
type TickStats struct {
	FiltersEvaluated int
	SnapshotsScanned int
	MatchesFound     int
	Diagnostics      int
	Duration         time.Duration
}

// Scanner evaluates active filters against live snapshots on each tick.
// Ticks are stateless: every pass reloads filters and snapshots.
type Scanner struct {
	cfg       config.ScannerConfig
	repos     *repository.Repositories
	provider  provider.SnapshotProvider
	evaluator *engine.Evaluator
	notifier  alert.Notifier
	cooldown  *gocache.Cache
	log       *logrus.Logger
	scanLog   *logger.ScanLogger
	audit     *logger.AuditLogger
	mu        sync.Mutex
	running   bool
}

// NewScanner creates a new scanner
func NewScanner(
	cfg config.ScannerConfig,
	repos *repository.Repositories,
	snapProvider provider.SnapshotProvider,
	evaluator *engine.Evaluator,
	notifier alert.Notifier,
	log *logrus.Logger,
) *Scanner {
	if notifier == nil {
		notifier = alert.NopNotifier{}
	}

	cooldownTTL := time.Duration(cfg.NotificationCooldown) * time.Minute
	if cooldownTTL <= 0 {
		cooldownTTL = gocache.NoExpiration
	}

	return &Scanner{
		cfg:       cfg,
		repos:     repos,
		provider:  snapProvider,
		evaluator: evaluator,
		notifier:  notifier,
		cooldown:  gocache.New(cooldownTTL, 10*time.Minute),
		log:       log,
		scanLog:   logger.NewScanLogger(log),
		audit:     logger.NewAuditLogger(log),
	}
}

// Tick runs one scan pass: load active filters, fetch live snapshots,
// evaluate every (filter, snapshot) pair and record matches.
func (s *Scanner) Tick(ctx context.Context) (*TickStats, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, fmt.Errorf("scan tick already in progress")
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	start := time.Now()

	filters, err := s.repos.Filter.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active filters: %w", err)
	}
	metrics.UpdateActiveFilters(float64(len(filters)))

	liveFixtures, err := s.provider.FetchLiveFixtures(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch live fixtures: %w", err)
	}
	metrics.UpdateLiveFixtures(float64(len(liveFixtures)))

	stats := &TickStats{FiltersEvaluated: len(filters)}
	if len(filters) == 0 || len(liveFixtures) == 0 {
		stats.Duration = time.Since(start)
		metrics.RecordScanTick(stats.Duration.Seconds())
		return stats, nil
	}

	// Resolve stored fixtures and build snapshots before fanning out
	type scanTarget struct {
		fixture  *models.Fixture
		snapshot *models.Snapshot
	}
	targets := make([]scanTarget, 0, len(liveFixtures))
	for i := range liveFixtures {
		fx, err := s.resolveFixture(ctx, &liveFixtures[i])
		if err != nil {
			s.log.WithError(err).WithField("source_id", liveFixtures[i].SourceID).
				Warn("Failed to resolve live fixture, skipping")
			continue
		}
		targets = append(targets, scanTarget{
			fixture:  fx,
			snapshot: provider.ToSnapshot(fx.ID, &liveFixtures[i]),
		})
	}
	stats.SnapshotsScanned = len(targets)

	maxWorkers := s.cfg.MaxConcurrentEvaluations
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	sem := make(chan struct{}, maxWorkers)

	var wg sync.WaitGroup
	var statsMu sync.Mutex

	for _, f := range filters {
		for _, tgt := range targets {
			wg.Add(1)
			sem <- struct{}{}
			go func(f *models.Filter, fx *models.Fixture, snap *models.Snapshot) {
				defer wg.Done()
				defer func() { <-sem }()

				matched := s.evaluateOne(ctx, f, fx, snap)

				statsMu.Lock()
				if matched {
					stats.MatchesFound++
				}
				statsMu.Unlock()
			}(f.Clone(), tgt.fixture, tgt.snapshot)
		}
	}
	wg.Wait()

	stats.Duration = time.Since(start)
	metrics.RecordScanTick(stats.Duration.Seconds())
	s.scanLog.LogScanTick(stats.FiltersEvaluated, stats.SnapshotsScanned, stats.MatchesFound, float64(stats.Duration.Milliseconds()))

	return stats, nil
}

// evaluateOne evaluates a single filter against a single snapshot and
// records the match when it hits. Returns whether the filter matched.
func (s *Scanner) evaluateOne(ctx context.Context, f *models.Filter, fx *models.Fixture, snap *models.Snapshot) bool {
	evalStart := time.Now()

	results := s.evaluator.EvaluateVerbose(f, snap)
	matched := true
	for _, res := range results {
		if res.Err != nil {
			metrics.RecordEvaluationDiagnostic(string(res.Err.Code))
			s.scanLog.LogEvaluationDiagnostic(f.ID, fx.SourceID, string(res.Err.Code), res.Rule.Field)
		}
		if !res.Matched {
			matched = false
		}
	}

	if matched && len(f.LiveRules) > 0 {
		matched = s.evaluator.EvaluateLive(f.LiveRules, snap)
	}

	metrics.RecordFilterEvaluation(time.Since(evalStart).Seconds())

	if !matched {
		return false
	}

	metrics.RecordFilterMatch()
	s.scanLog.LogFilterMatch(f.ID, f.Name, fx.SourceID, len(f.Rules)+len(f.LiveRules))
	s.recordMatch(ctx, f, fx)

	return true
}

// recordMatch stores a notification and dispatches the alert, honoring
// the per-(filter, fixture) cooldown
func (s *Scanner) recordMatch(ctx context.Context, f *models.Filter, fx *models.Fixture) {
	cooldownKey := f.ID.String() + "|" + fx.ID.String()
	if _, suppressed := s.cooldown.Get(cooldownKey); suppressed {
		s.scanLog.LogNotificationSuppressed(f.ID, fx.SourceID, s.cfg.NotificationCooldown)
		return
	}
	s.cooldown.SetDefault(cooldownKey, struct{}{})

	now := time.Now().UTC()
	notification := &models.Notification{
		ID:        uuid.New(),
		FilterID:  f.ID,
		FixtureID: fx.ID,
		MatchedAt: now,
		Message:   fmt.Sprintf("%s matched %s vs %s", f.Name, fx.HomeTeam, fx.AwayTeam),
		CreatedAt: now,
	}

	if err := s.repos.Notification.Insert(ctx, notification); err != nil {
		s.log.WithError(err).WithField("filter_id", f.ID).Error("Failed to store notification")
		return
	}
	metrics.RecordNotificationSent()

	if !f.AlertsEnabled {
		return
	}

	matchAlert := alert.NewMatchAlert(f, fx, now)
	if err := s.notifier.Notify(ctx, matchAlert); err != nil {
		metrics.RecordAlertDelivery(false)
		s.audit.LogAlertDelivery(f.ID, fx.SourceID, false, 1)
		s.log.WithError(err).WithField("filter_id", f.ID).Warn("Alert delivery failed")
		return
	}

	metrics.RecordAlertDelivery(true)
	s.audit.LogAlertDelivery(f.ID, fx.SourceID, true, 1)

	if err := s.repos.Notification.MarkSent(ctx, notification.ID, time.Now().UTC()); err != nil {
		s.log.WithError(err).WithField("notification_id", notification.ID).Warn("Failed to mark notification sent")
	}
}

// resolveFixture finds the stored fixture for a live update, inserting it
// when the provider surfaces a fixture we have not synced yet
func (s *Scanner) resolveFixture(ctx context.Context, data *provider.FixtureData) (*models.Fixture, error) {
	fx, err := s.repos.Fixture.GetBySourceID(ctx, data.SourceID)
	if err == nil {
		return fx, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	fx = provider.ToFixture(data)
	if err := s.repos.Fixture.Insert(ctx, fx); err != nil {
		return nil, fmt.Errorf("failed to insert fixture %s: %w", data.SourceID, err)
	}
	return fx, nil
}

// HandleLiveUpdate evaluates all active filters against a single pushed
// live update. This is the stream path; scheduled ticks remain the batch
// path and the two share match recording and cooldown state.
func (s *Scanner) HandleLiveUpdate(ctx context.Context, data *provider.FixtureData) error {
	fx, err := s.resolveFixture(ctx, data)
	if err != nil {
		return fmt.Errorf("failed to resolve fixture %s: %w", data.SourceID, err)
	}
	snap := provider.ToSnapshot(fx.ID, data)

	filters, err := s.repos.Filter.GetActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to load active filters: %w", err)
	}

	for _, f := range filters {
		s.evaluateOne(ctx, f.Clone(), fx, snap)
	}
	return nil
}

// SyncFixtures fetches fixtures in the date range from the provider and
// upserts them, refreshing scores of finished matches
func (s *Scanner) SyncFixtures(ctx context.Context, start, end time.Time) (int, error) {
	data, err := s.provider.FetchFixtures(ctx, start, end)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch fixtures: %w", err)
	}

	fixtures := make([]*models.Fixture, 0, len(data))
	for i := range data {
		fixtures = append(fixtures, provider.ToFixture(&data[i]))
	}

	if err := s.repos.Fixture.InsertBatch(ctx, fixtures); err != nil {
		return 0, fmt.Errorf("failed to upsert fixtures: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"count": len(fixtures),
		"start": start.Format("2006-01-02"),
		"end":   end.Format("2006-01-02"),
	}).Info("Fixture sync completed")

	return len(fixtures), nil
}
