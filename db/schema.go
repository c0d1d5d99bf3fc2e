// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect names a supported SQL backend.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// ParseDialect maps a DATABASE_TYPE value to a Dialect.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "postgres", "postgresql":
		return Postgres, nil
	case "sqlite", "sqlite3", "":
		return SQLite, nil
	default:
		return "", fmt.Errorf("unsupported database type %q", s)
	}
}

// LockClause returns the row locking suffix for SELECT statements.
// SQLite has no row locks; writers are serialized by the database itself.
func (d Dialect) LockClause() string {
	if d == Postgres {
		return " FOR UPDATE"
	}
	return ""
}

// Open connects to the database and verifies the connection.
func Open(dialect Dialect, url string) (*sql.DB, error) {
	var driver string
	switch dialect {
	case Postgres:
		driver = "postgres"
	case SQLite:
		driver = "sqlite"
		if !strings.Contains(url, "_pragma=") {
			sep := "?"
			if strings.Contains(url, "?") {
				sep = "&"
			}
			url += sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
		}
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dialect == SQLite {
		// One connection keeps write transactions strictly serialized.
		conn.SetMaxOpenConns(1)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dialect Dialect) error {
	_, err := db.Exec(Schema(dialect))
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Schema returns the DDL for the given dialect.
func Schema(dialect Dialect) string {
	blob := "BLOB"
	if dialect == Postgres {
		blob = "BYTEA"
	}
	return strings.ReplaceAll(schema, "{{blob}}", blob)
}

// Timestamps are stored as Unix milliseconds.
const schema = `
-- Groups
CREATE TABLE IF NOT EXISTS study_group (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_at BIGINT NOT NULL
);

-- Members
CREATE TABLE IF NOT EXISTS group_member (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL REFERENCES study_group(id) ON DELETE CASCADE,
    display_name TEXT NOT NULL,
    is_leader BOOLEAN NOT NULL DEFAULT FALSE,
    joined_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_group_member_group_id ON group_member(group_id);

-- Tuning sessions
CREATE TABLE IF NOT EXISTS tuning_session (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL REFERENCES study_group(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    start_date TEXT NOT NULL,
    end_date TEXT NOT NULL,
    daily_start TEXT NOT NULL,
    daily_end TEXT NOT NULL,
    slot_minutes INTEGER NOT NULL,
    timezone TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'completed')),
    meeting_id TEXT,
    created_at BIGINT NOT NULL,
    completed_at BIGINT
);

CREATE INDEX IF NOT EXISTS idx_tuning_session_group_status ON tuning_session(group_id, status);

-- Slots
CREATE TABLE IF NOT EXISTS tuning_slot (
    session_id TEXT NOT NULL REFERENCES tuning_session(id) ON DELETE CASCADE,
    slot_index INTEGER NOT NULL,
    start_at BIGINT NOT NULL,
    end_at BIGINT NOT NULL,
    occupancy {{blob}} NOT NULL,
    PRIMARY KEY (session_id, slot_index)
);

-- Participants
CREATE TABLE IF NOT EXISTS tuning_participant (
    session_id TEXT NOT NULL REFERENCES tuning_session(id) ON DELETE CASCADE,
    member_id TEXT NOT NULL,
    candidate_number BIGINT NOT NULL CHECK (candidate_number > 0),
    voted_at BIGINT,
    PRIMARY KEY (session_id, member_id),
    UNIQUE (session_id, candidate_number)
);

-- Confirmed meetings
CREATE TABLE IF NOT EXISTS meeting (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL REFERENCES study_group(id) ON DELETE CASCADE,
    session_id TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    start_at BIGINT NOT NULL,
    end_at BIGINT NOT NULL,
    created_at BIGINT NOT NULL,
    timezone TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_meeting_group_id ON meeting(group_id, start_at);
`
