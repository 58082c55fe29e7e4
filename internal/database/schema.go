package database

import (
	"context"
	"fmt"
)

// schema bootstraps the tables the repositories expect. Kept idempotent so
// fresh environments can start without a separate migration step.
const schema = `
CREATE TABLE IF NOT EXISTS filters (
	id UUID PRIMARY KEY,
	user_id UUID NOT NULL,
	name VARCHAR(100) NOT NULL,
	description VARCHAR(500) NOT NULL DEFAULT '',
	bet_type VARCHAR(32) NOT NULL,
	rules JSONB NOT NULL,
	live_rules JSONB,
	is_active BOOLEAN NOT NULL DEFAULT false,
	alerts_enabled BOOLEAN NOT NULL DEFAULT false,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_filters_user ON filters (user_id);
CREATE INDEX IF NOT EXISTS idx_filters_active ON filters (is_active) WHERE is_active;

CREATE TABLE IF NOT EXISTS fixtures (
	id UUID PRIMARY KEY,
	source_id VARCHAR(64) NOT NULL UNIQUE,
	league VARCHAR(64) NOT NULL,
	home_team VARCHAR(128) NOT NULL,
	away_team VARCHAR(128) NOT NULL,
	kickoff_at TIMESTAMPTZ NOT NULL,
	status VARCHAR(16) NOT NULL,
	home_score INT,
	away_score INT,
	attributes JSONB NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_fixtures_kickoff ON fixtures (kickoff_at);
CREATE INDEX IF NOT EXISTS idx_fixtures_status ON fixtures (status);

CREATE TABLE IF NOT EXISTS bet_outcomes (
	id UUID PRIMARY KEY,
	filter_id UUID NOT NULL REFERENCES filters(id) ON DELETE CASCADE,
	fixture_id UUID NOT NULL REFERENCES fixtures(id),
	matched_at TIMESTAMPTZ NOT NULL,
	stake DOUBLE PRECISION NOT NULL,
	result VARCHAR(10) NOT NULL,
	profit DOUBLE PRECISION NOT NULL DEFAULT 0,
	odds DOUBLE PRECISION,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_outcomes_filter_matched ON bet_outcomes (filter_id, matched_at);

CREATE TABLE IF NOT EXISTS notifications (
	id UUID PRIMARY KEY,
	filter_id UUID NOT NULL REFERENCES filters(id) ON DELETE CASCADE,
	fixture_id UUID NOT NULL,
	matched_at TIMESTAMPTZ NOT NULL,
	message TEXT NOT NULL DEFAULT '',
	sent_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_notifications_filter ON notifications (filter_id, matched_at DESC);
`

// EnsureSchema creates the tables and indexes if they do not exist
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
