// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"errors"
	"strconv"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Postgres SQLSTATE codes.
const (
	pqLockNotAvailable = "55P03"
	pqDeadlockDetected = "40P01"
	pqUniqueViolation  = "23505"
)

// IsLockTimeout reports whether err means a row or database lock could not be
// taken in time.
func IsLockTimeout(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqLockNotAvailable || pqErr.Code == pqDeadlockDetected
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code() & 0xff
		return code == sqlite3.SQLITE_BUSY || code == sqlite3.SQLITE_LOCKED
	}
	return false
}

// IsUniqueViolation reports whether err is a unique or primary key conflict.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return false
}

// LockTimeoutStatement returns a statement bounding row lock waits for the
// current transaction, or "" when the dialect has no such setting.
func (d Dialect) LockTimeoutStatement(ms int64) string {
	if d != Postgres || ms <= 0 {
		return ""
	}
	return "SET LOCAL lock_timeout = " + strconv.FormatInt(ms, 10)
}
