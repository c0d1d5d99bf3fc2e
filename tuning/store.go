// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tuning

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/quickly-meet/bitmask"
	"github.com/danielhkuo/quickly-meet/models"
	"github.com/danielhkuo/quickly-meet/slots"
)

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

const sessionColumns = `id, group_id, title, description, start_date, end_date, daily_start, daily_end,
		       slot_minutes, timezone, status, meeting_id, created_at, completed_at`

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64, loc *time.Location) time.Time {
	t := time.UnixMilli(ms)
	if loc != nil {
		t = t.In(loc)
	}
	return t
}

func scanSession(row rowScanner, loc *time.Location) (models.TuningSession, error) {
	var sess models.TuningSession
	var meetingID sql.NullString
	var createdAt int64
	var completedAt sql.NullInt64

	err := row.Scan(
		&sess.ID, &sess.GroupID, &sess.Title, &sess.Description,
		&sess.StartDate, &sess.EndDate, &sess.DailyStart, &sess.DailyEnd,
		&sess.SlotMinutes, &sess.Timezone, &sess.Status, &meetingID,
		&createdAt, &completedAt,
	)
	if err != nil {
		return models.TuningSession{}, err
	}

	sessLoc := sessionLocation(sess, loc)
	sess.CreatedAt = fromMillis(createdAt, sessLoc)
	if meetingID.Valid {
		id := meetingID.String
		sess.MeetingID = &id
	}
	if completedAt.Valid {
		t := fromMillis(completedAt.Int64, sessLoc)
		sess.CompletedAt = &t
	}
	return sess, nil
}

func getSession(ctx context.Context, q queryer, sessionID string, loc *time.Location) (models.TuningSession, error) {
	row := q.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM tuning_session WHERE id = $1`, sessionID)
	sess, err := scanSession(row, loc)
	if errors.Is(err, sql.ErrNoRows) {
		return models.TuningSession{}, ErrSessionNotFound
	}
	if err != nil {
		return models.TuningSession{}, fmt.Errorf("failed to query tuning session: %w", err)
	}
	return sess, nil
}

// sessionLocation is the timezone the session was created in, or fallback when
// it can no longer be loaded.
func sessionLocation(sess models.TuningSession, fallback *time.Location) *time.Location {
	return loadLocation(sess.Timezone, fallback)
}

func loadLocation(name string, fallback *time.Location) *time.Location {
	if name == "" {
		return fallback
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fallback
	}
	return loc
}

const meetingColumns = `id, group_id, session_id, title, description, start_at, end_at, created_at, timezone`

// scanMeeting reads a meeting row, rendering its times in the zone of the
// session it came from.
func scanMeeting(row rowScanner, fallback *time.Location) (models.Meeting, error) {
	var m models.Meeting
	var startAt, endAt, createdAt int64
	var zone string
	err := row.Scan(&m.ID, &m.GroupID, &m.TuningID, &m.Title, &m.Description, &startAt, &endAt, &createdAt, &zone)
	if err != nil {
		return models.Meeting{}, err
	}
	loc := loadLocation(zone, fallback)
	m.StartTime = fromMillis(startAt, loc)
	m.EndTime = fromMillis(endAt, loc)
	m.CreatedAt = fromMillis(createdAt, loc)
	return m, nil
}

func sessionWindow(sess models.TuningSession, fallback *time.Location) (slots.Window, error) {
	start, err := slots.ParseDate(sess.StartDate)
	if err != nil {
		return slots.Window{}, err
	}
	end, err := slots.ParseDate(sess.EndDate)
	if err != nil {
		return slots.Window{}, err
	}
	dailyStart, err := slots.ParseClock(sess.DailyStart)
	if err != nil {
		return slots.Window{}, err
	}
	dailyEnd, err := slots.ParseClock(sess.DailyEnd)
	if err != nil {
		return slots.Window{}, err
	}
	return slots.Window{
		StartDate:   start,
		EndDate:     end,
		DailyStart:  dailyStart,
		DailyEnd:    dailyEnd,
		SlotMinutes: sess.SlotMinutes,
		Location:    sessionLocation(sess, fallback),
	}, nil
}

type slotRow struct {
	index int
	start int64
	end   int64
	mask  bitmask.Mask
}

// readSlots returns every slot of a session in ascending index order. lock is
// appended to the query, so a non-empty lock clause takes row locks in that
// same order.
func readSlots(ctx context.Context, q queryer, sessionID, lock string) ([]slotRow, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT slot_index, start_at, end_at, occupancy
		FROM tuning_slot
		WHERE session_id = $1
		ORDER BY slot_index`+lock, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query slots: %w", err)
	}
	defer rows.Close()

	var out []slotRow
	for rows.Next() {
		var r slotRow
		var occupancy []byte
		if err := rows.Scan(&r.index, &r.start, &r.end, &occupancy); err != nil {
			return nil, fmt.Errorf("failed to scan slot: %w", err)
		}
		r.mask = bitmask.Mask(occupancy).Clone()
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read slots: %w", err)
	}
	return out, nil
}

func countSlots(ctx context.Context, q queryer, sessionID string) (int, error) {
	var n int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM tuning_slot WHERE session_id = $1`, sessionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count slots: %w", err)
	}
	return n, nil
}

type participant struct {
	memberID        string
	candidateNumber int64
	votedAt         sql.NullInt64
}

// getParticipant returns ErrForbidden when the member is not part of the
// session's participant snapshot.
func getParticipant(ctx context.Context, q queryer, sessionID, memberID string) (participant, error) {
	p := participant{memberID: memberID}
	err := q.QueryRowContext(ctx, `
		SELECT candidate_number, voted_at
		FROM tuning_participant
		WHERE session_id = $1 AND member_id = $2
	`, sessionID, memberID).Scan(&p.candidateNumber, &p.votedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return participant{}, fmt.Errorf("%w: not a participant of this session", ErrForbidden)
	}
	if err != nil {
		return participant{}, fmt.Errorf("failed to query participant: %w", err)
	}
	return p, nil
}

func readParticipants(ctx context.Context, q queryer, sessionID string, loc *time.Location) ([]models.ParticipantView, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT member_id, candidate_number, voted_at
		FROM tuning_participant
		WHERE session_id = $1
		ORDER BY candidate_number
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	var out []models.ParticipantView
	for rows.Next() {
		var p models.ParticipantView
		var votedAt sql.NullInt64
		if err := rows.Scan(&p.MemberID, &p.CandidateNumber, &votedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		if votedAt.Valid {
			t := fromMillis(votedAt.Int64, loc)
			p.VotedAt = &t
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read participants: %w", err)
	}
	return out, nil
}
