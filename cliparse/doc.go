// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: SQLite file or PostgreSQL connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - MemberTokenSalt: Secret for member token HMAC (required)
  - Timezone: Zone for dates and times of day (default: UTC)
  - CompletionPolicy: any, within or slot (default: any)
  - LockTimeout: Max wait for a session lock (default: 5s)
  - WebhookURL: Optional endpoint notified on completion
  - Retention, RetentionSchedule: Purge of completed sessions
  - LogLevel: debug, info, warn or error
  - LogFormat: text or json (default: text)

# CLI Flags

	-p                  Server port
	-d                  Database URL
	-t                  Database type
	--token-salt        Member token salt
	--tz                Timezone
	--policy            Completion policy
	--lock-timeout      Session lock wait
	--webhook           Completion webhook URL
	--retention         Retention period (0 keeps forever)
	--retention-schedule Cron spec for the sweep
	--log-level         Log level
	--log-format        text or json

# Environment Variables

Flags fall back to environment variables, parsed with caarlos0/env:

	PORT              → -p
	DATABASE_URL      → -d
	DATABASE_TYPE     → -t
	MEMBER_TOKEN_SALT → --token-salt
	TIMEZONE          → --tz
	COMPLETION_POLICY → --policy
	LOCK_TIMEOUT      → --lock-timeout
	WEBHOOK_URL       → --webhook
	RETENTION         → --retention
	RETENTION_SCHEDULE → --retention-schedule
	LOG_LEVEL         → --log-level
	LOG_FORMAT        → --log-format

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if:

  - DATABASE_URL is missing
  - MEMBER_TOKEN_SALT is missing
  - TIMEZONE does not load
  - COMPLETION_POLICY is unknown
  - LOG_FORMAT is not text or json
  - LOCK_TIMEOUT is not positive
*/
package cliparse
