// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tuning

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-meet/cliparse"
	"github.com/danielhkuo/quickly-meet/db"
	"github.com/danielhkuo/quickly-meet/models"
)

type staticRoster struct {
	members []models.Member
}

func (r staticRoster) Members(context.Context, string) ([]models.Member, error) {
	return r.members, nil
}

func (r staticRoster) LeaderID(context.Context, string) (string, error) {
	return r.members[0].ID, nil
}

// waiters returns how many callers hold or wait for the session lock.
func (l *SessionLocks) waiters(sessionID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if sl, ok := l.locks[sessionID]; ok {
		return sl.refs
	}
	return 0
}

func newInternalService(t *testing.T) (*Service, string, string) {
	t.Helper()

	conn, err := db.Open(db.SQLite, filepath.Join(t.TempDir(), "vote.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := db.CreateSchema(conn, db.SQLite); err != nil {
		t.Fatalf("CreateSchema() error = %v", err)
	}
	if _, err := conn.Exec(`INSERT INTO study_group (id, name, created_at) VALUES ($1, $2, $3)`, "g1", "Group", 1); err != nil {
		t.Fatalf("insert group: %v", err)
	}

	roster := staticRoster{members: []models.Member{
		{ID: "leader", GroupID: "g1", DisplayName: "Leader", IsLeader: true},
		{ID: "member", GroupID: "g1", DisplayName: "Member"},
	}}
	cfg := cliparse.Config{
		DatabaseType:     string(db.SQLite),
		Timezone:         "UTC",
		CompletionPolicy: cliparse.PolicyAny,
		LockTimeout:      5 * time.Second,
	}
	svc, err := NewService(conn, cfg, roster, nil)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	id, err := svc.Create(context.Background(), "leader", CreateParams{
		GroupID:     "g1",
		Title:       "Sync",
		StartDate:   time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		DailyStart:  10 * time.Hour,
		DailyEnd:    12 * time.Hour,
		SlotMinutes: 30,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return svc, id, "member"
}

func slotMasks(t *testing.T, svc *Service, sessionID string) []string {
	t.Helper()
	rows, err := readSlots(context.Background(), svc.conn, sessionID, "")
	if err != nil {
		t.Fatalf("readSlots() error = %v", err)
	}
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.mask.String()
	}
	return out
}

func TestSubmit_CompletedWhileWaitingForLock(t *testing.T) {
	svc, sessionID, memberID := newInternalService(t)
	ctx := context.Background()

	if err := svc.Submit(ctx, sessionID, memberID, []int{0}); err != nil {
		t.Fatalf("initial Submit() error = %v", err)
	}
	before := slotMasks(t, svc, sessionID)

	unlock, err := svc.locks.Lock(ctx, sessionID)
	if err != nil {
		t.Fatalf("Lock() error = %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- svc.Submit(ctx, sessionID, memberID, []int{1, 2, 3})
	}()

	// Submit has passed its pending check once it queues behind the lock.
	deadline := time.Now().Add(2 * time.Second)
	for svc.locks.waiters(sessionID) < 2 {
		if time.Now().After(deadline) {
			unlock()
			t.Fatal("Submit never waited on the session lock")
		}
		time.Sleep(time.Millisecond)
	}

	_, err = svc.conn.Exec(`UPDATE tuning_session SET status = $1, completed_at = $2 WHERE id = $3`,
		models.StatusCompleted, time.Now().UnixMilli(), sessionID)
	if err != nil {
		unlock()
		t.Fatalf("complete session: %v", err)
	}
	unlock()

	select {
	case err := <-done:
		if !errors.Is(err, ErrSessionAlreadyCompleted) {
			t.Fatalf("Submit() error = %v, want ErrSessionAlreadyCompleted", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Submit did not return")
	}

	after := slotMasks(t, svc, sessionID)
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("slot %d mask changed from %s to %s", i, before[i], after[i])
		}
	}
}
