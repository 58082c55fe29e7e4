package alert

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/betfilter/internal/models"
)

func testFilterAndFixture() (*models.Filter, *models.Fixture) {
	f := &models.Filter{
		ID:      uuid.New(),
		Name:    "Home favourites",
		BetType: models.BetTypeHomeWin,
	}
	fx := &models.Fixture{
		ID:       uuid.New(),
		League:   "premier_league",
		HomeTeam: "Arsenal",
		AwayTeam: "Chelsea",
	}
	return f, fx
}

func TestNewMatchAlert(t *testing.T) {
	f, fx := testFilterAndFixture()
	matchedAt := time.Date(2025, 3, 8, 15, 30, 0, 0, time.UTC)

	a := NewMatchAlert(f, fx, matchedAt)

	assert.Equal(t, f.ID.String(), a.FilterID)
	assert.Equal(t, "home_win", a.BetType)
	assert.Equal(t, matchedAt, a.MatchedAt)
	assert.Contains(t, a.Message, "Arsenal vs Chelsea")
}

func TestWebhookNotifierDelivers(t *testing.T) {
	var received MatchAlert
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	f, fx := testFilterAndFixture()
	notifier := NewWebhookNotifier(server.URL, 2*time.Second, nil)

	err := notifier.Notify(context.Background(), NewMatchAlert(f, fx, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, f.ID.String(), received.FilterID)
	assert.Equal(t, fx.ID.String(), received.FixtureID)
}

func TestWebhookNotifierServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	f, fx := testFilterAndFixture()
	notifier := NewWebhookNotifier(server.URL, time.Second, nil)

	err := notifier.Notify(context.Background(), NewMatchAlert(f, fx, time.Now()))
	assert.Error(t, err)
}

func TestNopNotifier(t *testing.T) {
	f, fx := testFilterAndFixture()
	assert.NoError(t, NopNotifier{}.Notify(context.Background(), NewMatchAlert(f, fx, time.Now())))
}
