// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Polls. total_votes is a denormalized counter; ballots are the source
-- of truth and Reconcile may overwrite it at any time.
CREATE TABLE IF NOT EXISTS poll (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL DEFAULT '',
    creator_id TEXT NOT NULL,
    anonymous BOOLEAN NOT NULL DEFAULT FALSE,
    is_active BOOLEAN NOT NULL DEFAULT FALSE,
    start_time TIMESTAMP NOT NULL,
    end_time TIMESTAMP NOT NULL,
    total_votes INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_poll_creator_id ON poll(creator_id);
CREATE INDEX IF NOT EXISTS idx_poll_is_active ON poll(is_active);

-- Options. IDs are unique per poll, not globally. vote_count is the
-- second denormalized counter.
CREATE TABLE IF NOT EXISTS option (
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    id TEXT NOT NULL,
    text TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    vote_count INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (poll_id, id)
);

-- Ballots. UNIQUE(poll_id, voter_id) is the one-vote-per-voter arbiter;
-- there is no application-level pre-check.
CREATE TABLE IF NOT EXISTS ballot (
    id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    voter_id TEXT NOT NULL,
    option_id TEXT NOT NULL,
    anonymous BOOLEAN NOT NULL DEFAULT FALSE,
    cast_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (poll_id, voter_id)
);

CREATE INDEX IF NOT EXISTS idx_ballot_poll_id ON ballot(poll_id);
CREATE INDEX IF NOT EXISTS idx_ballot_option ON ballot(poll_id, option_id);

-- Notifications. No FK to poll: records outlive poll deletion.
CREATE TABLE IF NOT EXISTS notification (
    id TEXT PRIMARY KEY,
    recipient_id TEXT NOT NULL,
    poll_id TEXT NOT NULL,
    kind TEXT NOT NULL,
    message TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_notification_recipient ON notification(recipient_id);
`
