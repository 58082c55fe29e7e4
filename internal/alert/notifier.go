// Package alert delivers filter match alerts to external channels.
package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/betfilter/internal/models"
)

// Notifier delivers match alerts to an external channel
type Notifier interface {
	// Notify delivers a single alert. Failure is reported, never fatal to the scan.
	Notify(ctx context.Context, alert *MatchAlert) error
}

// MatchAlert is the payload delivered when a filter matches a fixture
type MatchAlert struct {
	FilterID   string    `json:"filter_id"`
	FilterName string    `json:"filter_name"`
	BetType    string    `json:"bet_type"`
	FixtureID  string    `json:"fixture_id"`
	League     string    `json:"league"`
	HomeTeam   string    `json:"home_team"`
	AwayTeam   string    `json:"away_team"`
	MatchedAt  time.Time `json:"matched_at"`
	Message    string    `json:"message"`
}

// NewMatchAlert builds an alert from a matched filter and fixture
func NewMatchAlert(f *models.Filter, fx *models.Fixture, matchedAt time.Time) *MatchAlert {
	return &MatchAlert{
		FilterID:   f.ID.String(),
		FilterName: f.Name,
		BetType:    string(f.BetType),
		FixtureID:  fx.ID.String(),
		League:     fx.League,
		HomeTeam:   fx.HomeTeam,
		AwayTeam:   fx.AwayTeam,
		MatchedAt:  matchedAt.UTC(),
		Message:    fmt.Sprintf("%s matched %s vs %s (%s)", f.Name, fx.HomeTeam, fx.AwayTeam, fx.League),
	}
}

// WebhookNotifier posts alerts as JSON to a configured webhook URL
type WebhookNotifier struct {
	client     *retryablehttp.Client
	webhookURL string
	logger     *logrus.Logger
}

// NewWebhookNotifier creates a webhook notifier
func NewWebhookNotifier(webhookURL string, timeout time.Duration, logger *logrus.Logger) *WebhookNotifier {
	client := retryablehttp.NewClient()
	client.HTTPClient.Timeout = timeout
	client.RetryMax = 3
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.Logger = nil

	return &WebhookNotifier{
		client:     client,
		webhookURL: webhookURL,
		logger:     logger,
	}
}

// Notify posts the alert to the webhook
func (n *WebhookNotifier) Notify(ctx context.Context, alert *MatchAlert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	if n.logger != nil {
		n.logger.WithFields(logrus.Fields{
			"filter_id":  alert.FilterID,
			"fixture_id": alert.FixtureID,
		}).Debug("Alert delivered to webhook")
	}

	return nil
}

// NopNotifier discards alerts. Used when alert delivery is disabled.
type NopNotifier struct{}

// Notify discards the alert
func (NopNotifier) Notify(ctx context.Context, alert *MatchAlert) error {
	return nil
}
