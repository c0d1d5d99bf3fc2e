// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tuning

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-meet/auth"
	"github.com/danielhkuo/quickly-meet/bitmask"
	"github.com/danielhkuo/quickly-meet/cliparse"
	"github.com/danielhkuo/quickly-meet/db"
	"github.com/danielhkuo/quickly-meet/models"
	"github.com/danielhkuo/quickly-meet/slots"
)

type Service struct {
	conn     *sql.DB
	dialect  db.Dialect
	loc      *time.Location
	policy   string
	lockWait time.Duration
	members  Membership
	notifier Notifier
	locks    *SessionLocks
	now      func() time.Time
}

func NewService(conn *sql.DB, cfg cliparse.Config, members Membership, notifier Notifier) (*Service, error) {
	dialect, err := db.ParseDialect(cfg.DatabaseType)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	policy := cfg.CompletionPolicy
	if policy == "" {
		policy = cliparse.PolicyAny
	}
	lockWait := cfg.LockTimeout
	if lockWait <= 0 {
		lockWait = 5 * time.Second
	}
	if notifier == nil {
		notifier = LogNotifier{}
	}

	return &Service{
		conn:     conn,
		dialect:  dialect,
		loc:      loc,
		policy:   policy,
		lockWait: lockWait,
		members:  members,
		notifier: notifier,
		locks:    NewSessionLocks(),
		now:      time.Now,
	}, nil
}

// CreateParams describes a new tuning session.
type CreateParams struct {
	GroupID     string
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	DailyStart  time.Duration
	DailyEnd    time.Duration
	SlotMinutes int
}

// ParseCreateRequest converts the wire request into CreateParams.
func ParseCreateRequest(groupID string, req models.CreateTuningRequest) (CreateParams, error) {
	p := CreateParams{
		GroupID:     groupID,
		Title:       req.Title,
		Description: req.Content,
		SlotMinutes: req.SlotMinutes,
	}
	var err error
	if p.StartDate, err = slots.ParseDate(req.StartDate); err != nil {
		return CreateParams{}, fmt.Errorf("%w: %v", ErrInvalidTimeWindow, err)
	}
	if p.EndDate, err = slots.ParseDate(req.EndDate); err != nil {
		return CreateParams{}, fmt.Errorf("%w: %v", ErrInvalidTimeWindow, err)
	}
	if p.DailyStart, err = slots.ParseClock(req.AvailableStartTime); err != nil {
		return CreateParams{}, fmt.Errorf("%w: %v", ErrInvalidTimeWindow, err)
	}
	if p.DailyEnd, err = slots.ParseClock(req.AvailableEndTime); err != nil {
		return CreateParams{}, fmt.Errorf("%w: %v", ErrInvalidTimeWindow, err)
	}
	return p, nil
}

// Create opens a tuning session for a group. Only the group leader may create
// one. Slots and participants are written in the same transaction; participant
// i of the membership snapshot gets candidate number 2^i.
func (s *Service) Create(ctx context.Context, callerID string, p CreateParams) (string, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return "", fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	leaderID, err := s.members.LeaderID(ctx, p.GroupID)
	if err != nil {
		return "", err
	}
	if callerID == "" || callerID != leaderID {
		return "", fmt.Errorf("%w: only the group leader can create a tuning session", ErrForbidden)
	}

	if p.SlotMinutes == 0 {
		p.SlotMinutes = slots.DefaultSlotMinutes
	}
	window := slots.Window{
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		DailyStart:  p.DailyStart,
		DailyEnd:    p.DailyEnd,
		SlotMinutes: p.SlotMinutes,
		Location:    s.loc,
	}
	generated, err := slots.Generate(window)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidTimeWindow, err)
	}

	roster, err := s.members.Members(ctx, p.GroupID)
	if err != nil {
		return "", err
	}
	if len(roster) == 0 {
		return "", fmt.Errorf("%w: group has no members", ErrInvalidInput)
	}
	if len(roster) > bitmask.MaxParticipants {
		return "", fmt.Errorf("%w: %d members, at most %d supported", ErrTooManyParticipants, len(roster), bitmask.MaxParticipants)
	}

	sessionID := auth.NewID()
	now := s.now()

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tuning_session (id, group_id, title, description, start_date, end_date,
		                            daily_start, daily_end, slot_minutes, timezone, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, sessionID, p.GroupID, title, strings.TrimSpace(p.Description),
		p.StartDate.Format(slots.DateLayout), p.EndDate.Format(slots.DateLayout),
		slots.FormatClock(p.DailyStart), slots.FormatClock(p.DailyEnd),
		p.SlotMinutes, s.loc.String(), models.StatusPending, toMillis(now))
	if err != nil {
		return "", fmt.Errorf("failed to insert tuning session: %w", err)
	}

	for i, m := range roster {
		cn, err := bitmask.CandidateNumber(i)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrTooManyParticipants, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO tuning_participant (session_id, member_id, candidate_number)
			VALUES ($1, $2, $3)
		`, sessionID, m.ID, cn)
		if err != nil {
			return "", fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tuning_slot (session_id, slot_index, start_at, end_at, occupancy)
		VALUES ($1, $2, $3, $4, $5)
	`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare slot insert: %w", err)
	}
	defer stmt.Close()

	for _, sl := range generated {
		occupancy := []byte(bitmask.New(len(roster)))
		if _, err := stmt.ExecContext(ctx, sessionID, sl.Index, toMillis(sl.Start), toMillis(sl.End), occupancy); err != nil {
			return "", fmt.Errorf("failed to insert slot %d: %w", sl.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit tuning session: %w", err)
	}

	slog.Info("tuning session created",
		"tuning_id", sessionID,
		"group_id", p.GroupID,
		"slots", len(generated),
		"participants", len(roster),
	)

	return sessionID, nil
}

// List returns the pending sessions of a group, newest first.
func (s *Service) List(ctx context.Context, groupID, callerID string) ([]models.TuningSummary, error) {
	roster, err := s.members.Members(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if _, ok := findMember(roster, callerID); !ok {
		return nil, fmt.Errorf("%w: not a member of this group", ErrForbidden)
	}

	rows, err := s.conn.QueryContext(ctx, `
		SELECT `+sessionColumns+`
		FROM tuning_session
		WHERE group_id = $1 AND status = $2
		ORDER BY created_at DESC, id DESC
	`, groupID, models.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to query tuning sessions: %w", err)
	}
	defer rows.Close()

	out := []models.TuningSummary{}
	for rows.Next() {
		sess, err := scanSession(rows, s.loc)
		if err != nil {
			return nil, err
		}
		w, err := sessionWindow(sess, s.loc)
		if err != nil {
			return nil, err
		}
		start, end := w.Bounds()
		out = append(out, models.TuningSummary{
			ID:    sess.ID,
			Title: sess.Title,
			Start: start,
			End:   end,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tuning sessions: %w", err)
	}
	return out, nil
}

// Detail returns a session with per-slot popcounts and its participants.
// It takes no locks and reflects the latest committed votes.
func (s *Service) Detail(ctx context.Context, sessionID, callerID string) (models.TuningDetail, error) {
	sess, err := getSession(ctx, s.conn, sessionID, s.loc)
	if err != nil {
		return models.TuningDetail{}, err
	}
	roster, err := s.members.Members(ctx, sess.GroupID)
	if err != nil {
		return models.TuningDetail{}, err
	}
	if _, ok := findMember(roster, callerID); !ok {
		return models.TuningDetail{}, fmt.Errorf("%w: not a member of this group", ErrForbidden)
	}

	loc := sessionLocation(sess, s.loc)
	w, err := sessionWindow(sess, s.loc)
	if err != nil {
		return models.TuningDetail{}, err
	}
	start, end := w.Bounds()

	detail := models.TuningDetail{
		Session:      sess,
		Start:        start,
		End:          end,
		Slots:        []models.SlotView{},
		Participants: []models.ParticipantView{},
	}

	slotRows, err := readSlots(ctx, s.conn, sessionID, "")
	if err != nil {
		return models.TuningDetail{}, err
	}
	for _, r := range slotRows {
		detail.Slots = append(detail.Slots, models.SlotView{
			Index:     r.index,
			Start:     fromMillis(r.start, loc),
			End:       fromMillis(r.end, loc),
			Available: r.mask.PopCount(),
			Mask:      r.mask.String(),
		})
	}

	parts, err := readParticipants(ctx, s.conn, sessionID, loc)
	if err != nil {
		return models.TuningDetail{}, err
	}
	for _, p := range parts {
		var name string
		if m, ok := findMember(roster, p.MemberID); ok {
			name = m.DisplayName
		}
		p.Name = name
		detail.Participants = append(detail.Participants, p)
	}

	return detail, nil
}

// Meeting returns a confirmed meeting to a member of its group.
func (s *Service) Meeting(ctx context.Context, meetingID, callerID string) (models.Meeting, error) {
	row := s.conn.QueryRowContext(ctx, `SELECT `+meetingColumns+` FROM meeting WHERE id = $1`, meetingID)
	m, err := scanMeeting(row, s.loc)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Meeting{}, ErrMeetingNotFound
	}
	if err != nil {
		return models.Meeting{}, fmt.Errorf("failed to query meeting: %w", err)
	}

	roster, err := s.members.Members(ctx, m.GroupID)
	if err != nil {
		return models.Meeting{}, err
	}
	if _, ok := findMember(roster, callerID); !ok {
		return models.Meeting{}, fmt.Errorf("%w: not a member of this group", ErrForbidden)
	}
	return m, nil
}

// Meetings returns a group's confirmed meetings ordered by start time.
func (s *Service) Meetings(ctx context.Context, groupID, callerID string) ([]models.Meeting, error) {
	roster, err := s.members.Members(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if _, ok := findMember(roster, callerID); !ok {
		return nil, fmt.Errorf("%w: not a member of this group", ErrForbidden)
	}

	rows, err := s.conn.QueryContext(ctx, `
		SELECT `+meetingColumns+`
		FROM meeting
		WHERE group_id = $1
		ORDER BY start_at, id
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query meetings: %w", err)
	}
	defer rows.Close()

	out := []models.Meeting{}
	for rows.Next() {
		m, err := scanMeeting(rows, s.loc)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meeting: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read meetings: %w", err)
	}
	return out, nil
}

// SessionLocation returns the timezone a session was created in. Zone-less
// times submitted for the session are read in it.
func (s *Service) SessionLocation(ctx context.Context, sessionID string) (*time.Location, error) {
	sess, err := getSession(ctx, s.conn, sessionID, s.loc)
	if err != nil {
		return nil, err
	}
	return sessionLocation(sess, s.loc), nil
}

// lock takes the in-process session lock, waiting at most lockWait.
func (s *Service) lock(ctx context.Context, sessionID string) (func(), error) {
	lctx, cancel := context.WithTimeout(ctx, s.lockWait)
	defer cancel()

	unlock, err := s.locks.Lock(lctx, sessionID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, ErrBusy
	}
	return unlock, nil
}

// classify turns driver lock timeouts into ErrBusy and leaves other errors alone.
func classify(err error) error {
	if err != nil && db.IsLockTimeout(err) {
		return fmt.Errorf("%w: %v", ErrBusy, err)
	}
	return err
}
