// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles the database connection, schema and queries.

# Connecting

Open picks the driver from the configured database type:

	conn, err := db.Open(ctx, "sqlite", "file:huddle.db")
	conn, err := db.Open(ctx, "postgres", "postgres://...")

sqlite uses modernc.org/sqlite (no cgo) and a single connection. postgres
uses lib/pq. Queries use $N placeholders, which both accept.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - session: id, title, join code
  - participant: one row per (session, user); name, theme, presence
  - container_snapshot: latest automerge document per (session, container)

# Relationships

	session (1) ──< (N) participant
	session (1) ──< (N) container_snapshot

Deleting a session cascades to both.

# Store

Store wraps the connection with the session and participant queries and
implements livestate.SnapshotStore:

	store := db.NewStore(conn)
	hub := livestate.NewHub(store)

Missing rows are reported as ErrNotFound.
*/
package db
