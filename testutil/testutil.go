// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-meet/auth"
	"github.com/danielhkuo/quickly-meet/cliparse"
	"github.com/danielhkuo/quickly-meet/db"
	"github.com/danielhkuo/quickly-meet/groups"
	"github.com/danielhkuo/quickly-meet/tuning"
)

// SetupTestDB creates a fresh SQLite database file with the full schema.
// The file lives in t.TempDir and is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	url := "file:" + filepath.Join(t.TempDir(), "test.db")
	conn, err := db.Open(db.SQLite, url)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn, db.SQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:              3318,
		DatabaseURL:       "file:test.db",
		DatabaseType:      string(db.SQLite),
		MemberTokenSalt:   "test-member-salt",
		Timezone:          "UTC",
		CompletionPolicy:  cliparse.PolicyAny,
		LockTimeout:       5 * time.Second,
		RetentionSchedule: "@hourly",
	}
}

// NewTestServices builds the group store and tuning service over conn.
func NewTestServices(t *testing.T, conn *sql.DB, cfg cliparse.Config, notifier tuning.Notifier) (*groups.Store, *tuning.Service) {
	t.Helper()

	store := groups.NewStore(conn)
	svc, err := tuning.NewService(conn, cfg, store, notifier)
	if err != nil {
		t.Fatalf("Failed to create tuning service: %v", err)
	}
	return store, svc
}

// TestMember is a member together with its request credentials.
type TestMember struct {
	ID    string
	Name  string
	Token string
}

// Headers returns the identity headers for m.
func (m TestMember) Headers() map[string]string {
	return map[string]string{
		"X-Member-ID":    m.ID,
		"X-Member-Token": m.Token,
	}
}

// CreateTestGroup creates a group led by the first name, adds the remaining
// names as members, and returns them in join order.
func CreateTestGroup(t *testing.T, store *groups.Store, cfg cliparse.Config, names ...string) (string, []TestMember) {
	t.Helper()
	ctx := context.Background()

	if len(names) == 0 {
		names = []string{"Leader"}
	}

	group, leader, err := store.CreateGroup(ctx, "Test Group", names[0])
	if err != nil {
		t.Fatalf("Failed to create test group: %v", err)
	}
	members := []TestMember{{
		ID:    leader.ID,
		Name:  leader.DisplayName,
		Token: auth.GenerateMemberToken(leader.ID, cfg.MemberTokenSalt),
	}}

	for _, name := range names[1:] {
		// Keep join order strictly increasing.
		time.Sleep(2 * time.Millisecond)
		m, err := store.AddMember(ctx, group.ID, leader.ID, name)
		if err != nil {
			t.Fatalf("Failed to add test member %q: %v", name, err)
		}
		members = append(members, TestMember{
			ID:    m.ID,
			Name:  m.DisplayName,
			Token: auth.GenerateMemberToken(m.ID, cfg.MemberTokenSalt),
		})
	}

	return group.ID, members
}

// TestWindow is 2025-09-01 10:00-12:00, which yields four 30 minute slots.
func TestWindow(groupID string) tuning.CreateParams {
	return tuning.CreateParams{
		GroupID:     groupID,
		Title:       "Weekly sync",
		Description: "Pick a time",
		StartDate:   time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		DailyStart:  10 * time.Hour,
		DailyEnd:    12 * time.Hour,
		SlotMinutes: 30,
	}
}

// CreateTestTuning creates a session over TestWindow and returns its id.
func CreateTestTuning(t *testing.T, svc *tuning.Service, groupID, leaderID string) string {
	t.Helper()

	id, err := svc.Create(context.Background(), leaderID, TestWindow(groupID))
	if err != nil {
		t.Fatalf("Failed to create test tuning session: %v", err)
	}
	return id
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
