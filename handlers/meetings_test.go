// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-meet/models"
	"github.com/danielhkuo/quickly-meet/testutil"
	"github.com/danielhkuo/quickly-meet/tuning"
)

func setupMeeting(t *testing.T) (*MeetingHandler, []testutil.TestMember, []testutil.TestMember, models.Meeting) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	store, svc := testutil.NewTestServices(t, db, cfg, nil)
	groupID, members := testutil.CreateTestGroup(t, store, cfg, "Leader", "Bob")
	_, outsiders := testutil.CreateTestGroup(t, store, cfg, "Outsider")
	sessionID := testutil.CreateTestTuning(t, svc, groupID, members[0].ID)

	meeting, err := svc.Complete(context.Background(), sessionID, members[0].ID, tuning.CompleteParams{
		Title: "Design review",
		Start: time.Date(2025, 9, 1, 10, 30, 0, 0, time.UTC),
		End:   time.Date(2025, 9, 1, 11, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	return NewMeetingHandler(svc, cfg), members, outsiders, meeting
}

func TestGetMeeting(t *testing.T) {
	handler, members, outsiders, meeting := setupMeeting(t)

	get := func(id string, headers map[string]string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("GET", "/meetings/"+id, nil, headers)
		req.SetPathValue("id", id)
		w := httptest.NewRecorder()
		handler.GetMeeting(w, req)
		return w
	}

	w := get(meeting.ID, members[1].Headers())
	testutil.AssertStatus(t, w, http.StatusOK)

	var got models.Meeting
	testutil.AssertJSON(t, w, &got)
	if got.Title != "Design review" {
		t.Errorf("Expected title 'Design review', got '%s'", got.Title)
	}
	if got.Description != "Pick a time" {
		t.Errorf("Expected session description, got '%s'", got.Description)
	}
	if !got.StartTime.Equal(meeting.StartTime) || !got.EndTime.Equal(meeting.EndTime) {
		t.Errorf("Expected %v-%v, got %v-%v", meeting.StartTime, meeting.EndTime, got.StartTime, got.EndTime)
	}

	w = get(meeting.ID, outsiders[0].Headers())
	testutil.AssertStatus(t, w, http.StatusForbidden)

	w = get("no-such-meeting", members[0].Headers())
	testutil.AssertStatus(t, w, http.StatusNotFound)

	w = get(meeting.ID, nil)
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}

func TestGetMeetingICS(t *testing.T) {
	handler, members, outsiders, meeting := setupMeeting(t)

	get := func(headers map[string]string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("GET", "/meetings/"+meeting.ID+"/ics", nil, headers)
		req.SetPathValue("id", meeting.ID)
		w := httptest.NewRecorder()
		handler.GetMeetingICS(w, req)
		return w
	}

	w := get(members[1].Headers())
	testutil.AssertStatus(t, w, http.StatusOK)

	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("Expected text/calendar content type, got '%s'", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, meeting.ID+".ics") {
		t.Errorf("Expected attachment filename with meeting id, got '%s'", cd)
	}

	body := w.Body.String()
	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"BEGIN:VEVENT",
		"UID:" + meeting.ID,
		"SUMMARY:Design review",
		"DTSTART:20250901T103000Z",
		"DTEND:20250901T110000Z",
		"END:VCALENDAR",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected %q in calendar:\n%s", want, body)
		}
	}

	w = get(outsiders[0].Headers())
	testutil.AssertStatus(t, w, http.StatusForbidden)
}

func TestMeetingCalendar_OmitsEmptyDescription(t *testing.T) {
	cal := meetingCalendar(models.Meeting{
		ID:        "m1",
		Title:     "Standup",
		StartTime: time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2025, 9, 1, 9, 15, 0, 0, time.UTC),
		CreatedAt: time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC),
	})

	if len(cal.Children) != 1 {
		t.Fatalf("Expected one event, got %d", len(cal.Children))
	}
	if cal.Children[0].Props.Get("DESCRIPTION") != nil {
		t.Error("Expected no DESCRIPTION for an empty description")
	}
	if p := cal.Children[0].Props.Get("SUMMARY"); p == nil || p.Value != "Standup" {
		t.Errorf("Expected SUMMARY 'Standup', got %+v", p)
	}
}

func TestListMeetings(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	store, svc := testutil.NewTestServices(t, db, cfg, nil)
	groupID, members := testutil.CreateTestGroup(t, store, cfg, "Leader", "Bob")
	_, outsiders := testutil.CreateTestGroup(t, store, cfg, "Outsider")
	handler := NewMeetingHandler(svc, cfg)

	list := func(id string, headers map[string]string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("GET", "/groups/"+id+"/meetings", nil, headers)
		req.SetPathValue("id", id)
		w := httptest.NewRecorder()
		handler.ListMeetings(w, req)
		return w
	}

	t.Run("empty list", func(t *testing.T) {
		w := list(groupID, members[1].Headers())
		testutil.AssertStatus(t, w, http.StatusOK)
		if body := strings.TrimSpace(w.Body.String()); body != "[]" {
			t.Errorf("Expected empty JSON array, got %s", body)
		}
	})

	// Confirm the later meeting first so ordering cannot come from insertion.
	late := testutil.CreateTestTuning(t, svc, groupID, members[0].ID)
	early := testutil.CreateTestTuning(t, svc, groupID, members[0].ID)
	ctx := context.Background()
	for _, c := range []struct {
		id   string
		hour int
	}{{late, 11}, {early, 10}} {
		_, err := svc.Complete(ctx, c.id, members[0].ID, tuning.CompleteParams{
			Start: time.Date(2025, 9, 1, c.hour, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 9, 1, c.hour, 30, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("Complete failed: %v", err)
		}
	}

	t.Run("member sees meetings by start time", func(t *testing.T) {
		w := list(groupID, members[1].Headers())
		testutil.AssertStatus(t, w, http.StatusOK)

		var got []models.Meeting
		testutil.AssertJSON(t, w, &got)
		if len(got) != 2 {
			t.Fatalf("Expected 2 meetings, got %d", len(got))
		}
		if got[0].TuningID != early || got[1].TuningID != late {
			t.Errorf("Expected meetings for %s then %s, got %s then %s", early, late, got[0].TuningID, got[1].TuningID)
		}
	})

	t.Run("outsider is forbidden", func(t *testing.T) {
		w := list(groupID, outsiders[0].Headers())
		testutil.AssertStatus(t, w, http.StatusForbidden)
	})

	t.Run("unknown group", func(t *testing.T) {
		w := list("no-such-group", members[0].Headers())
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})

	t.Run("no credentials", func(t *testing.T) {
		w := list(groupID, nil)
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})
}
