// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tuning

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/quickly-meet/bitmask"
	"github.com/danielhkuo/quickly-meet/models"
)

func validateSelection(indices []int, slotCount int) error {
	for _, i := range indices {
		if i < 0 || i >= slotCount {
			return fmt.Errorf("%w: slot %d not in [0, %d)", ErrInvalidSlotSelection, i, slotCount)
		}
	}
	return nil
}

// Submit replaces a participant's availability in a session. Every selected
// slot gets the participant's bit; every other slot has it cleared. An empty
// selection clears all of them.
func (s *Service) Submit(ctx context.Context, sessionID, memberID string, indices []int) error {
	// Cheap rejections before any lock is taken.
	sess, err := getSession(ctx, s.conn, sessionID, s.loc)
	if err != nil {
		return err
	}
	if sess.Status != models.StatusPending {
		return ErrSessionAlreadyCompleted
	}
	if _, err := getParticipant(ctx, s.conn, sessionID, memberID); err != nil {
		return err
	}
	n, err := countSlots(ctx, s.conn, sessionID)
	if err != nil {
		return err
	}
	if err := validateSelection(indices, n); err != nil {
		return err
	}

	unlock, err := s.lock(ctx, sessionID)
	if err != nil {
		return err
	}
	defer unlock()

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	slotRows, err := s.lockSlots(ctx, tx, sessionID)
	if err != nil {
		return err
	}

	sess, err = getSession(ctx, tx, sessionID, s.loc)
	if err != nil {
		return err
	}
	if sess.Status != models.StatusPending {
		return ErrSessionAlreadyCompleted
	}
	p, err := getParticipant(ctx, tx, sessionID, memberID)
	if err != nil {
		return err
	}
	if err := validateSelection(indices, len(slotRows)); err != nil {
		return err
	}
	bit, err := bitmask.BitIndex(p.candidateNumber)
	if err != nil {
		return fmt.Errorf("participant %s has a corrupt candidate number: %w", memberID, err)
	}

	selected := make(map[int]bool, len(indices))
	for _, i := range indices {
		selected[i] = true
	}

	changed := 0
	for _, r := range slotRows {
		before := r.mask.Has(bit)
		if selected[r.index] {
			err = r.mask.Set(bit)
		} else {
			err = r.mask.Clear(bit)
		}
		if err != nil {
			return fmt.Errorf("slot %d: %w", r.index, err)
		}
		if before == r.mask.Has(bit) {
			continue
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE tuning_slot SET occupancy = $1
			WHERE session_id = $2 AND slot_index = $3
		`, []byte(r.mask), sessionID, r.index)
		if err != nil {
			return classify(fmt.Errorf("failed to update slot %d: %w", r.index, err))
		}
		changed++
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE tuning_participant SET voted_at = $1
		WHERE session_id = $2 AND member_id = $3
	`, toMillis(s.now()), sessionID, memberID)
	if err != nil {
		return classify(fmt.Errorf("failed to update participant: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return classify(fmt.Errorf("failed to commit votes: %w", err))
	}

	slog.Info("votes submitted",
		"tuning_id", sessionID,
		"member_id", memberID,
		"selected", len(selected),
		"changed_slots", changed,
	)

	return nil
}

// lockSlots reads every slot of the session inside tx, taking row locks in
// ascending slot index order where the dialect supports them.
func (s *Service) lockSlots(ctx context.Context, tx *sql.Tx, sessionID string) ([]slotRow, error) {
	if stmt := s.dialect.LockTimeoutStatement(s.lockWait.Milliseconds()); stmt != "" {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("failed to set lock timeout: %w", err)
		}
	}
	rows, err := readSlots(ctx, tx, sessionID, s.dialect.LockClause())
	if err != nil {
		return nil, classify(err)
	}
	return rows, nil
}
