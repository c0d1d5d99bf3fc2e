// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Dialects

Two backends are supported, selected by DATABASE_TYPE:

  - sqlite (default): modernc.org/sqlite, pure Go, single connection
  - postgres: github.com/lib/pq

	dialect, _ := db.ParseDialect(cfg.DatabaseType)
	conn, err := db.Open(dialect, cfg.DatabaseURL)

Dialect.LockClause returns " FOR UPDATE" on PostgreSQL so slot rows can be
locked in index order; SQLite serializes writers instead.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn, dialect); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - study_group: groups that schedule meetings
  - group_member: members, one leader per group
  - tuning_session: scheduling poll metadata and lifecycle state
  - tuning_slot: candidate slots with a binary occupancy mask
  - tuning_participant: power-of-two candidate number per member
  - meeting: confirmed meetings

# Relationships

	study_group 1──* group_member
	study_group 1──* tuning_session
	tuning_session 1──* tuning_slot
	tuning_session 1──* tuning_participant
	study_group 1──* meeting

All timestamps are Unix milliseconds (BIGINT) so both dialects agree.

# Driver Errors

IsLockTimeout reports lock waits that gave up (Postgres 55P03 and 40P01, SQLite
BUSY and LOCKED). IsUniqueViolation reports duplicate keys.
*/
package db
