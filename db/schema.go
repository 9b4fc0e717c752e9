// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/kudos/cliparse"
)

// Open connects to the configured database, selecting the driver from
// cfg.DatabaseType. SQLite gets busy-timeout and foreign-key pragmas
// appended unless the URL already carries pragmas.
func Open(cfg cliparse.Config) (*sql.DB, error) {
	switch cfg.DatabaseType {
	case "postgres":
		conn, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres database: %w", err)
		}
		return conn, nil
	case "sqlite":
		url := cfg.DatabaseURL
		if !strings.Contains(url, "_pragma=") {
			sep := "?"
			if strings.Contains(url, "?") {
				sep = "&"
			}
			url += sep + "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
		}
		conn, err := sql.Open("sqlite", url)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		return conn, nil
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS. The DDL is restricted
// to the dialect both drivers share.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Sessions
CREATE TABLE IF NOT EXISTS session (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    meeting_date TEXT,
    phase TEXT NOT NULL DEFAULT 'setup' CHECK (phase IN ('setup', 'nomination', 'voting', 'results', 'closed')),
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_session_phase ON session(phase);
CREATE INDEX IF NOT EXISTS idx_session_updated_at ON session(updated_at);

-- Nominations
CREATE TABLE IF NOT EXISTS nomination (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL REFERENCES session(id) ON DELETE CASCADE,
    nominator_key TEXT NOT NULL,
    nominator_name TEXT NOT NULL,
    nominee_name TEXT NOT NULL,
    reason TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_nomination_session ON nomination(session_id);
CREATE INDEX IF NOT EXISTS idx_nomination_nominator ON nomination(session_id, nominator_key);

-- Votes (one per identity per session, enforced by the UNIQUE constraint)
CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL REFERENCES session(id) ON DELETE CASCADE,
    voter_key TEXT NOT NULL,
    voter_name TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    UNIQUE (session_id, voter_key)
);

CREATE INDEX IF NOT EXISTS idx_vote_session ON vote(session_id);

-- Ballot selections (empty set for a vote = none of the above)
CREATE TABLE IF NOT EXISTS vote_selection (
    vote_id TEXT NOT NULL REFERENCES vote(id) ON DELETE CASCADE,
    nomination_id TEXT NOT NULL REFERENCES nomination(id) ON DELETE CASCADE,
    PRIMARY KEY (vote_id, nomination_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_selection_nomination ON vote_selection(nomination_id);

-- Participant roster (token identity mode only; independent of sessions)
CREATE TABLE IF NOT EXISTS participant (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    token TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_participant_token ON participant(token);
`
