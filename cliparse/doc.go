// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Database connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - ParticipantTokenSalt: Secret for participant token HMAC (required)
  - JoinCodeSalt: Secret for join code generation (required)
  - SnapshotSchedule: Cron schedule for snapshot flushes (default: @every 10s)
  - Timezone: IANA zone used for dialog dates (default: UTC)

# CLI Flags

	-p                  Server port
	-d                  Database URL
	-t                  Database type
	-token-salt         Participant token salt
	-code-salt          Join code salt
	-snapshot-schedule  Snapshot cron schedule
	-timezone           Dialog timezone
	-config             YAML config file
	-env                .env file (default: .env)

# Precedence

Each setting is taken from the first source that has it:

 1. CLI flag
 2. Environment variable (PORT, DATABASE_URL, DATABASE_TYPE,
    PARTICIPANT_TOKEN_SALT, JOIN_CODE_SALT, SNAPSHOT_SCHEDULE, TIMEZONE)
 3. YAML config file (-config or CONFIG_PATH)
 4. Default

The .env file is loaded into the environment first and never overrides
variables that are already set. A missing .env file is ignored.

# Example

	port: 3318
	database_type: postgres
	database_url: postgres://localhost/huddle?sslmode=disable
	snapshot_schedule: "@every 1m"
	timezone: Europe/Berlin
*/
package cliparse
