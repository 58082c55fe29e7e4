package scan

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/betfilter/internal/alert"
	"github.com/yourusername/betfilter/internal/catalog"
	"github.com/yourusername/betfilter/internal/config"
	"github.com/yourusername/betfilter/internal/engine"
	"github.com/yourusername/betfilter/internal/models"
	"github.com/yourusername/betfilter/internal/provider"
	"github.com/yourusername/betfilter/internal/repository"
)

// MockFilterRepository is a mock implementation of FilterRepository
type MockFilterRepository struct {
	mock.Mock
}

func (m *MockFilterRepository) Create(ctx context.Context, filter *models.Filter) error {
	args := m.Called(ctx, filter)
	return args.Error(0)
}

func (m *MockFilterRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Filter, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Filter), args.Error(1)
}

func (m *MockFilterRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]*models.Filter, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Filter), args.Error(1)
}

func (m *MockFilterRepository) GetActive(ctx context.Context) ([]*models.Filter, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Filter), args.Error(1)
}

func (m *MockFilterRepository) Update(ctx context.Context, filter *models.Filter) error {
	args := m.Called(ctx, filter)
	return args.Error(0)
}

func (m *MockFilterRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *MockFilterRepository) SetAlerts(ctx context.Context, id uuid.UUID, enabled bool) error {
	args := m.Called(ctx, id, enabled)
	return args.Error(0)
}

func (m *MockFilterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockFixtureRepository is a mock implementation of FixtureRepository
type MockFixtureRepository struct {
	mock.Mock
}

func (m *MockFixtureRepository) Insert(ctx context.Context, fixture *models.Fixture) error {
	args := m.Called(ctx, fixture)
	return args.Error(0)
}

func (m *MockFixtureRepository) InsertBatch(ctx context.Context, fixtures []*models.Fixture) error {
	args := m.Called(ctx, fixtures)
	return args.Error(0)
}

func (m *MockFixtureRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Fixture, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Fixture), args.Error(1)
}

func (m *MockFixtureRepository) GetBySourceID(ctx context.Context, sourceID string) (*models.Fixture, error) {
	args := m.Called(ctx, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Fixture), args.Error(1)
}

func (m *MockFixtureRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.Fixture, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Fixture), args.Error(1)
}

func (m *MockFixtureRepository) GetFinishedByDateRange(ctx context.Context, start, end time.Time) ([]*models.Fixture, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Fixture), args.Error(1)
}

func (m *MockFixtureRepository) Update(ctx context.Context, fixture *models.Fixture) error {
	args := m.Called(ctx, fixture)
	return args.Error(0)
}

// MockNotificationRepository is a mock implementation of NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Insert(ctx context.Context, notification *models.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetRecentByFilter(ctx context.Context, filterID uuid.UUID, limit int) ([]*models.Notification, error) {
	args := m.Called(ctx, filterID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	args := m.Called(ctx, id, sentAt)
	return args.Error(0)
}

// MockSnapshotProvider is a mock implementation of SnapshotProvider
type MockSnapshotProvider struct {
	mock.Mock
}

func (m *MockSnapshotProvider) FetchFixtures(ctx context.Context, startDate, endDate time.Time) ([]provider.FixtureData, error) {
	args := m.Called(ctx, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]provider.FixtureData), args.Error(1)
}

func (m *MockSnapshotProvider) FetchFixture(ctx context.Context, fixtureID string) (*provider.FixtureData, error) {
	args := m.Called(ctx, fixtureID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.FixtureData), args.Error(1)
}

func (m *MockSnapshotProvider) FetchLiveFixtures(ctx context.Context) ([]provider.FixtureData, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]provider.FixtureData), args.Error(1)
}

func (m *MockSnapshotProvider) Name() string {
	return "mock"
}

func (m *MockSnapshotProvider) IsEnabled() bool {
	return true
}

// recordingNotifier captures dispatched alerts
type recordingNotifier struct {
	alerts []*alert.MatchAlert
	err    error
}

func (n *recordingNotifier) Notify(ctx context.Context, a *alert.MatchAlert) error {
	if n.err != nil {
		return n.err
	}
	n.alerts = append(n.alerts, a)
	return nil
}

func testScannerConfig() config.ScannerConfig {
	return config.ScannerConfig{
		TickSchedule:             "@every 1m",
		FixtureSyncSchedule:      "0 */6 * * *",
		MaxConcurrentEvaluations: 4,
		NotificationCooldown:     30,
	}
}

func testLiveFixtureData() provider.FixtureData {
	homeScore := 1
	awayScore := 0
	return provider.FixtureData{
		SourceID:  "src-1001",
		League:    "premier_league",
		Country:   "england",
		HomeTeam:  "Arsenal",
		AwayTeam:  "Chelsea",
		KickoffAt: time.Date(2025, 3, 8, 15, 0, 0, 0, time.UTC),
		Status:    "live",
		HomeScore: &homeScore,
		AwayScore: &awayScore,
		Live: &provider.LiveData{
			Minute:    60,
			HomeScore: 1,
			AwayScore: 0,
			Home:      provider.LiveSideData{Goals: 1, ShotsOnTarget: 5, Corners: 6},
			Away:      provider.LiveSideData{Goals: 0, ShotsOnTarget: 2, Corners: 3},
		},
		FetchedAt: time.Date(2025, 3, 8, 16, 0, 0, 0, time.UTC),
	}
}

func testStoredFixture(sourceID string) *models.Fixture {
	return &models.Fixture{
		ID:        uuid.New(),
		SourceID:  sourceID,
		League:    "premier_league",
		HomeTeam:  "Arsenal",
		AwayTeam:  "Chelsea",
		KickoffAt: time.Date(2025, 3, 8, 15, 0, 0, 0, time.UTC),
		Status:    models.FixtureStatusLive,
	}
}

func testMatchingFilter() *models.Filter {
	return &models.Filter{
		ID:      uuid.New(),
		UserID:  uuid.New(),
		Name:    "Premier League home bankers",
		BetType: models.BetTypeHomeWin,
		Rules: []models.Rule{
			{Field: "league", Operator: catalog.OpEq, Value: models.TextValue("premier_league")},
		},
		IsActive: true,
	}
}

type scannerMocks struct {
	filters       *MockFilterRepository
	fixtures      *MockFixtureRepository
	notifications *MockNotificationRepository
	feed          *MockSnapshotProvider
	notifier      *recordingNotifier
}

func newTestScanner(cfg config.ScannerConfig) (*Scanner, *scannerMocks) {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	mocks := &scannerMocks{
		filters:       new(MockFilterRepository),
		fixtures:      new(MockFixtureRepository),
		notifications: new(MockNotificationRepository),
		feed:          new(MockSnapshotProvider),
		notifier:      &recordingNotifier{},
	}

	repos := &repository.Repositories{
		Filter:       mocks.filters,
		Fixture:      mocks.fixtures,
		Notification: mocks.notifications,
	}

	evaluator := engine.NewEvaluator(catalog.New(), log)
	scanner := NewScanner(cfg, repos, mocks.feed, evaluator, mocks.notifier, log)
	return scanner, mocks
}

func TestTickMatchRecordsNotification(t *testing.T) {
	scanner, mocks := newTestScanner(testScannerConfig())
	ctx := context.Background()

	data := testLiveFixtureData()
	stored := testStoredFixture(data.SourceID)
	filter := testMatchingFilter()

	mocks.filters.On("GetActive", ctx).Return([]*models.Filter{filter}, nil)
	mocks.feed.On("FetchLiveFixtures", ctx).Return([]provider.FixtureData{data}, nil)
	mocks.fixtures.On("GetBySourceID", ctx, data.SourceID).Return(stored, nil)
	mocks.notifications.On("Insert", ctx, mock.AnythingOfType("*models.Notification")).Return(nil)

	stats, err := scanner.Tick(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.FiltersEvaluated)
	assert.Equal(t, 1, stats.SnapshotsScanned)
	assert.Equal(t, 1, stats.MatchesFound)

	mocks.notifications.AssertNumberOfCalls(t, "Insert", 1)
	inserted := mocks.notifications.Calls[0].Arguments.Get(1).(*models.Notification)
	assert.Equal(t, filter.ID, inserted.FilterID)
	assert.Equal(t, stored.ID, inserted.FixtureID)
	assert.Contains(t, inserted.Message, "Arsenal vs Chelsea")
}

func TestTickNonMatchingFilter(t *testing.T) {
	scanner, mocks := newTestScanner(testScannerConfig())
	ctx := context.Background()

	data := testLiveFixtureData()
	filter := testMatchingFilter()
	filter.Rules = []models.Rule{
		{Field: "league", Operator: catalog.OpEq, Value: models.TextValue("la_liga")},
	}

	mocks.filters.On("GetActive", ctx).Return([]*models.Filter{filter}, nil)
	mocks.feed.On("FetchLiveFixtures", ctx).Return([]provider.FixtureData{data}, nil)
	mocks.fixtures.On("GetBySourceID", ctx, data.SourceID).Return(testStoredFixture(data.SourceID), nil)

	stats, err := scanner.Tick(ctx)
	require.NoError(t, err)

	assert.Equal(t, 0, stats.MatchesFound)
	mocks.notifications.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestTickNoLiveFixtures(t *testing.T) {
	scanner, mocks := newTestScanner(testScannerConfig())
	ctx := context.Background()

	mocks.filters.On("GetActive", ctx).Return([]*models.Filter{testMatchingFilter()}, nil)
	mocks.feed.On("FetchLiveFixtures", ctx).Return([]provider.FixtureData{}, nil)

	stats, err := scanner.Tick(ctx)
	require.NoError(t, err)

	assert.Equal(t, 0, stats.SnapshotsScanned)
	assert.Equal(t, 0, stats.MatchesFound)
	mocks.fixtures.AssertNotCalled(t, "GetBySourceID", mock.Anything, mock.Anything)
}

func TestTickCooldownSuppressesRepeatMatch(t *testing.T) {
	scanner, mocks := newTestScanner(testScannerConfig())
	ctx := context.Background()

	data := testLiveFixtureData()
	stored := testStoredFixture(data.SourceID)
	filter := testMatchingFilter()

	mocks.filters.On("GetActive", ctx).Return([]*models.Filter{filter}, nil)
	mocks.feed.On("FetchLiveFixtures", ctx).Return([]provider.FixtureData{data}, nil)
	mocks.fixtures.On("GetBySourceID", ctx, data.SourceID).Return(stored, nil)
	mocks.notifications.On("Insert", ctx, mock.AnythingOfType("*models.Notification")).Return(nil)

	_, err := scanner.Tick(ctx)
	require.NoError(t, err)
	stats, err := scanner.Tick(ctx)
	require.NoError(t, err)

	// Second tick still matches but the cooldown swallows the notification
	assert.Equal(t, 1, stats.MatchesFound)
	mocks.notifications.AssertNumberOfCalls(t, "Insert", 1)
}

func TestTickDispatchesAlertAndMarksSent(t *testing.T) {
	scanner, mocks := newTestScanner(testScannerConfig())
	ctx := context.Background()

	data := testLiveFixtureData()
	stored := testStoredFixture(data.SourceID)
	filter := testMatchingFilter()
	filter.AlertsEnabled = true

	mocks.filters.On("GetActive", ctx).Return([]*models.Filter{filter}, nil)
	mocks.feed.On("FetchLiveFixtures", ctx).Return([]provider.FixtureData{data}, nil)
	mocks.fixtures.On("GetBySourceID", ctx, data.SourceID).Return(stored, nil)
	mocks.notifications.On("Insert", ctx, mock.AnythingOfType("*models.Notification")).Return(nil)
	mocks.notifications.On("MarkSent", ctx, mock.AnythingOfType("uuid.UUID"), mock.AnythingOfType("time.Time")).Return(nil)

	_, err := scanner.Tick(ctx)
	require.NoError(t, err)

	require.Len(t, mocks.notifier.alerts, 1)
	assert.Equal(t, filter.ID.String(), mocks.notifier.alerts[0].FilterID)
	assert.Equal(t, "Arsenal", mocks.notifier.alerts[0].HomeTeam)
	mocks.notifications.AssertNumberOfCalls(t, "MarkSent", 1)
}

func TestTickAlertFailureSkipsMarkSent(t *testing.T) {
	scanner, mocks := newTestScanner(testScannerConfig())
	ctx := context.Background()

	data := testLiveFixtureData()
	stored := testStoredFixture(data.SourceID)
	filter := testMatchingFilter()
	filter.AlertsEnabled = true
	mocks.notifier.err = fmt.Errorf("webhook unreachable")

	mocks.filters.On("GetActive", ctx).Return([]*models.Filter{filter}, nil)
	mocks.feed.On("FetchLiveFixtures", ctx).Return([]provider.FixtureData{data}, nil)
	mocks.fixtures.On("GetBySourceID", ctx, data.SourceID).Return(stored, nil)
	mocks.notifications.On("Insert", ctx, mock.AnythingOfType("*models.Notification")).Return(nil)

	stats, err := scanner.Tick(ctx)
	require.NoError(t, err)

	// The match is still recorded, only delivery failed
	assert.Equal(t, 1, stats.MatchesFound)
	mocks.notifications.AssertNumberOfCalls(t, "Insert", 1)
	mocks.notifications.AssertNotCalled(t, "MarkSent", mock.Anything, mock.Anything, mock.Anything)
}

func TestTickLiveRulesGateMatch(t *testing.T) {
	scanner, mocks := newTestScanner(testScannerConfig())
	ctx := context.Background()

	data := testLiveFixtureData()
	stored := testStoredFixture(data.SourceID)
	filter := testMatchingFilter()
	// Snapshot is at minute 60, outside the closing window
	filter.LiveRules = []models.LiveRule{
		{
			Category: models.LiveCategoryTiming,
			Timing:   &models.TimingRule{MinuteFrom: 70, MinuteTo: 90},
		},
	}

	mocks.filters.On("GetActive", ctx).Return([]*models.Filter{filter}, nil)
	mocks.feed.On("FetchLiveFixtures", ctx).Return([]provider.FixtureData{data}, nil)
	mocks.fixtures.On("GetBySourceID", ctx, data.SourceID).Return(stored, nil)

	stats, err := scanner.Tick(ctx)
	require.NoError(t, err)

	assert.Equal(t, 0, stats.MatchesFound)
	mocks.notifications.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestTickLiveRulesPassWithinWindow(t *testing.T) {
	scanner, mocks := newTestScanner(testScannerConfig())
	ctx := context.Background()

	data := testLiveFixtureData()
	stored := testStoredFixture(data.SourceID)
	filter := testMatchingFilter()
	filter.LiveRules = []models.LiveRule{
		{
			Category: models.LiveCategoryTiming,
			Timing:   &models.TimingRule{MinuteFrom: 45, MinuteTo: 90},
		},
	}

	mocks.filters.On("GetActive", ctx).Return([]*models.Filter{filter}, nil)
	mocks.feed.On("FetchLiveFixtures", ctx).Return([]provider.FixtureData{data}, nil)
	mocks.fixtures.On("GetBySourceID", ctx, data.SourceID).Return(stored, nil)
	mocks.notifications.On("Insert", ctx, mock.AnythingOfType("*models.Notification")).Return(nil)

	stats, err := scanner.Tick(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.MatchesFound)
}

func TestTickInsertsUnknownFixture(t *testing.T) {
	scanner, mocks := newTestScanner(testScannerConfig())
	ctx := context.Background()

	data := testLiveFixtureData()
	filter := testMatchingFilter()

	mocks.filters.On("GetActive", ctx).Return([]*models.Filter{filter}, nil)
	mocks.feed.On("FetchLiveFixtures", ctx).Return([]provider.FixtureData{data}, nil)
	mocks.fixtures.On("GetBySourceID", ctx, data.SourceID).Return(nil, models.ErrNotFound)
	mocks.fixtures.On("Insert", ctx, mock.AnythingOfType("*models.Fixture")).Return(nil)
	mocks.notifications.On("Insert", ctx, mock.AnythingOfType("*models.Notification")).Return(nil)

	stats, err := scanner.Tick(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.SnapshotsScanned)
	assert.Equal(t, 1, stats.MatchesFound)
	mocks.fixtures.AssertNumberOfCalls(t, "Insert", 1)
}

func TestTickSkipsUnresolvableFixture(t *testing.T) {
	scanner, mocks := newTestScanner(testScannerConfig())
	ctx := context.Background()

	data := testLiveFixtureData()
	filter := testMatchingFilter()

	mocks.filters.On("GetActive", ctx).Return([]*models.Filter{filter}, nil)
	mocks.feed.On("FetchLiveFixtures", ctx).Return([]provider.FixtureData{data}, nil)
	mocks.fixtures.On("GetBySourceID", ctx, data.SourceID).Return(nil, fmt.Errorf("connection refused"))

	stats, err := scanner.Tick(ctx)
	require.NoError(t, err)

	assert.Equal(t, 0, stats.SnapshotsScanned)
	assert.Equal(t, 0, stats.MatchesFound)
}

func TestSyncFixtures(t *testing.T) {
	scanner, mocks := newTestScanner(testScannerConfig())
	ctx := context.Background()

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)

	first := testLiveFixtureData()
	second := testLiveFixtureData()
	second.SourceID = "src-1002"
	second.Status = "scheduled"
	second.Live = nil

	mocks.feed.On("FetchFixtures", ctx, start, end).Return([]provider.FixtureData{first, second}, nil)
	mocks.fixtures.On("InsertBatch", ctx, mock.AnythingOfType("[]*models.Fixture")).Return(nil)

	count, err := scanner.SyncFixtures(ctx, start, end)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	batch := mocks.fixtures.Calls[0].Arguments.Get(1).([]*models.Fixture)
	require.Len(t, batch, 2)
	assert.Equal(t, "src-1001", batch[0].SourceID)
	assert.Equal(t, models.FixtureStatusScheduled, batch[1].Status)
}

func TestSyncFixturesFetchError(t *testing.T) {
	scanner, mocks := newTestScanner(testScannerConfig())
	ctx := context.Background()

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)

	mocks.feed.On("FetchFixtures", ctx, start, end).Return(nil, fmt.Errorf("feed down"))

	_, err := scanner.SyncFixtures(ctx, start, end)
	require.Error(t, err)
	mocks.fixtures.AssertNotCalled(t, "InsertBatch", mock.Anything, mock.Anything)
}
