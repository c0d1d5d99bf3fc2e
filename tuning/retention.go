// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tuning

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/danielhkuo/quickly-meet/models"
)

// PurgeCompleted deletes sessions completed before the cutoff together with
// their slots and participants. Meetings are kept. It returns the number of
// sessions removed.
func (s *Service) PurgeCompleted(ctx context.Context, before time.Time) (int, error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	cutoff := toMillis(before)
	const expired = `SELECT id FROM tuning_session WHERE status = $1 AND completed_at < $2`

	if _, err := tx.ExecContext(ctx, `DELETE FROM tuning_slot WHERE session_id IN (`+expired+`)`,
		models.StatusCompleted, cutoff); err != nil {
		return 0, fmt.Errorf("failed to purge slots: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tuning_participant WHERE session_id IN (`+expired+`)`,
		models.StatusCompleted, cutoff); err != nil {
		return 0, fmt.Errorf("failed to purge participants: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM tuning_session WHERE status = $1 AND completed_at < $2`,
		models.StatusCompleted, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged sessions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit purge: %w", err)
	}
	return int(n), nil
}

// StartRetention runs PurgeCompleted on the given cron schedule, removing
// sessions completed more than retention ago. A zero retention disables the
// sweep and returns a nil scheduler.
func StartRetention(svc *Service, schedule string, retention time.Duration) (*cron.Cron, error) {
	if retention <= 0 {
		slog.Info("retention sweep disabled")
		return nil, nil
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		n, err := svc.PurgeCompleted(ctx, svc.now().Add(-retention))
		if err != nil {
			slog.Error("retention sweep failed", "error", err)
			return
		}
		if n > 0 {
			slog.Info("retention sweep removed completed sessions", "count", n)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid retention schedule %q: %w", schedule, err)
	}

	c.Start()
	slog.Info("retention sweep scheduled", "schedule", schedule, "retention", retention)
	return c, nil
}
