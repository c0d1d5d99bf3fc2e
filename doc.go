// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Meet API server.

Quickly Meet helps a study group find a meeting time. The leader opens a
tuning session over a date range and daily window, members mark the slots
they can attend, and the leader confirms one meeting.

# Starting the Server

	MEMBER_TOKEN_SALT=secret DATABASE_URL=file:meet.db go run .

Or with flags and PostgreSQL:

	go run . -t postgres -d "postgres://..." -token-salt secret

A .env file in the working directory is loaded first if present.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file URL or PostgreSQL connection string
  - MEMBER_TOKEN_SALT (-token-salt): Secret for member token HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - TIMEZONE (-tz): Zone for dates and times of day (default: UTC)
  - COMPLETION_POLICY (-policy): any, within or slot (default: any)
  - LOCK_TIMEOUT (-lock-timeout): Max wait for a session lock (default: 5s)
  - WEBHOOK_URL (-webhook): Receives completed-session events
  - RETENTION (-retention): Age at which completed sessions are purged (default: 720h, 0 disables)
  - RETENTION_SCHEDULE (-retention-schedule): Cron spec for the purge (default: @hourly)
  - LOG_LEVEL (-log-level): debug, info, warn or error
  - LOG_FORMAT (-log-format): text or json (default: text)

# Architecture

  - tuning: sessions, voting, completion, locking, retention
  - groups: groups and members
  - slots: slot generation and time parsing
  - bitmask: per-slot occupancy bitsets
  - handlers, router, middleware: HTTP surface
  - models: Request/response and domain types
  - auth: IDs and member tokens
  - db: Connections, dialects and schema
  - cliparse: Configuration parsing
*/
package main
