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
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS session (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		join_code TEXT NOT NULL UNIQUE,
		created_at TIMESTAMP NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS participant (
		session_id TEXT NOT NULL REFERENCES session(id) ON DELETE CASCADE,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		theme TEXT NOT NULL DEFAULT 'default' CHECK (theme IN ('default', 'dark', 'contrast')),
		joined_at TIMESTAMP NOT NULL,
		last_seen_at TIMESTAMP NOT NULL,
		PRIMARY KEY (session_id, user_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_participant_session_id ON participant(session_id)`,

	// One automerge document per shared container, base64 encoded
	`CREATE TABLE IF NOT EXISTS container_snapshot (
		session_id TEXT NOT NULL REFERENCES session(id) ON DELETE CASCADE,
		container_key TEXT NOT NULL,
		version BIGINT NOT NULL,
		document TEXT NOT NULL,
		saved_at TIMESTAMP NOT NULL,
		PRIMARY KEY (session_id, container_key)
	)`,
}
