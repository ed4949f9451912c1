// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Huddle API server.

Huddle backs a meeting extension: participants of one meeting session share
live polls, a calendar and an ink canvas, and see each other's changes over
a websocket stream.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=huddle.db go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

Settings may also come from a .env file (--env) or a YAML file (--config).

# Configuration

Required settings:

  - DATABASE_URL (-d): sqlite path or PostgreSQL connection string
  - PARTICIPANT_TOKEN_SALT (--token-salt): Secret for participant token HMAC
  - JOIN_CODE_SALT (--code-salt): Secret for join code generation

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - SNAPSHOT_SCHEDULE (--snapshot-schedule): cron schedule for persisting live state
  - TIMEZONE (--timezone): zone used to read dates entered in dialogs

# Architecture

  - livestate: shared containers, views, automerge snapshots
  - poll, calendar, canvas: feature controllers over the containers
  - dialog: adaptive card dialogs and their results
  - host: participant context, themes, credential resolution
  - handlers: HTTP and websocket handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Shared entity and request/response types
  - auth: Token and join code generation
  - db: Schema and queries
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
