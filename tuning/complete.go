// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tuning

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-meet/auth"
	"github.com/danielhkuo/quickly-meet/cliparse"
	"github.com/danielhkuo/quickly-meet/db"
	"github.com/danielhkuo/quickly-meet/models"
	"github.com/danielhkuo/quickly-meet/slots"
)

// CompleteParams is the leader's chosen meeting. Empty title and description
// fall back to the session's own.
type CompleteParams struct {
	Title       string
	Description string
	Start       time.Time
	End         time.Time
}

// ParseCompleteRequest converts the wire request, reading zone-less times in loc.
func ParseCompleteRequest(req models.CompleteTuningRequest, loc *time.Location) (CompleteParams, error) {
	start, err := slots.ParseDateTime(req.StartTime, loc)
	if err != nil {
		return CompleteParams{}, fmt.Errorf("%w: %v", ErrInvalidTimeWindow, err)
	}
	end, err := slots.ParseDateTime(req.EndTime, loc)
	if err != nil {
		return CompleteParams{}, fmt.Errorf("%w: %v", ErrInvalidTimeWindow, err)
	}
	return CompleteParams{
		Title:       req.Title,
		Description: req.Content,
		Start:       start,
		End:         end,
	}, nil
}

// Complete confirms a meeting time and closes the session. Exactly one of any
// number of concurrent calls succeeds; the rest see ErrSessionAlreadyCompleted.
func (s *Service) Complete(ctx context.Context, sessionID, callerID string, p CompleteParams) (models.Meeting, error) {
	sess, err := getSession(ctx, s.conn, sessionID, s.loc)
	if err != nil {
		return models.Meeting{}, err
	}
	leaderID, err := s.members.LeaderID(ctx, sess.GroupID)
	if err != nil {
		return models.Meeting{}, err
	}
	if callerID == "" || callerID != leaderID {
		return models.Meeting{}, fmt.Errorf("%w: only the group leader can complete a tuning session", ErrForbidden)
	}
	if sess.Status != models.StatusPending {
		return models.Meeting{}, ErrSessionAlreadyCompleted
	}
	if !p.End.After(p.Start) {
		return models.Meeting{}, fmt.Errorf("%w: end must be after start", ErrInvalidTimeWindow)
	}
	if s.policy == cliparse.PolicyWithin {
		w, err := sessionWindow(sess, s.loc)
		if err != nil {
			return models.Meeting{}, err
		}
		if !w.Contains(p.Start, p.End) {
			return models.Meeting{}, fmt.Errorf("%w: meeting must lie inside the session's availability window", ErrInvalidTimeWindow)
		}
	}

	unlock, err := s.lock(ctx, sessionID)
	if err != nil {
		return models.Meeting{}, err
	}
	defer unlock()

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return models.Meeting{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	slotRows, err := s.lockSlots(ctx, tx, sessionID)
	if err != nil {
		return models.Meeting{}, err
	}
	sess, err = getSession(ctx, tx, sessionID, s.loc)
	if err != nil {
		return models.Meeting{}, err
	}
	if sess.Status != models.StatusPending {
		return models.Meeting{}, ErrSessionAlreadyCompleted
	}

	if s.policy == cliparse.PolicySlot && !matchesSlot(slotRows, p.Start, p.End) {
		return models.Meeting{}, fmt.Errorf("%w: meeting must match one candidate slot", ErrInvalidTimeWindow)
	}

	title := strings.TrimSpace(p.Title)
	if title == "" {
		title = sess.Title
	}
	description := strings.TrimSpace(p.Description)
	if description == "" {
		description = sess.Description
	}

	loc := sessionLocation(sess, s.loc)
	now := s.now()
	meeting := models.Meeting{
		ID:          auth.NewID(),
		GroupID:     sess.GroupID,
		TuningID:    sessionID,
		Title:       title,
		Description: description,
		StartTime:   p.Start.In(loc),
		EndTime:     p.End.In(loc),
		CreatedAt:   now.In(loc),
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO meeting (id, group_id, session_id, title, description, start_at, end_at, created_at, timezone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, meeting.ID, meeting.GroupID, sessionID, meeting.Title, meeting.Description,
		toMillis(meeting.StartTime), toMillis(meeting.EndTime), toMillis(now), loc.String())
	if db.IsUniqueViolation(err) {
		return models.Meeting{}, ErrSessionAlreadyCompleted
	}
	if err != nil {
		return models.Meeting{}, classify(fmt.Errorf("failed to insert meeting: %w", err))
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE tuning_session
		SET status = $1, meeting_id = $2, completed_at = $3
		WHERE id = $4 AND status = $5
	`, models.StatusCompleted, meeting.ID, toMillis(now), sessionID, models.StatusPending)
	if err != nil {
		return models.Meeting{}, classify(fmt.Errorf("failed to complete tuning session: %w", err))
	}
	if n, err := res.RowsAffected(); err == nil && n != 1 {
		return models.Meeting{}, ErrSessionAlreadyCompleted
	}

	if err := tx.Commit(); err != nil {
		return models.Meeting{}, classify(fmt.Errorf("failed to commit completion: %w", err))
	}

	slog.Info("tuning session completed",
		"tuning_id", sessionID,
		"meeting_id", meeting.ID,
		"start", meeting.StartTime,
		"end", meeting.EndTime,
	)

	ev := CompletedEvent{
		SessionID:   sessionID,
		GroupID:     sess.GroupID,
		Meeting:     meeting,
		CompletedAt: now,
	}
	if err := s.notifier.SessionCompleted(ctx, ev); err != nil {
		slog.Warn("completion notification failed", "tuning_id", sessionID, "error", err)
	}

	return meeting, nil
}

func matchesSlot(rows []slotRow, start, end time.Time) bool {
	startMs, endMs := toMillis(start), toMillis(end)
	for _, r := range rows {
		if r.start == startMs && r.end == endMs {
			return true
		}
	}
	return false
}
