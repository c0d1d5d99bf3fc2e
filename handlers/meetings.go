// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/emersion/go-ical"

	"github.com/danielhkuo/quickly-meet/cliparse"
	"github.com/danielhkuo/quickly-meet/middleware"
	"github.com/danielhkuo/quickly-meet/models"
	"github.com/danielhkuo/quickly-meet/tuning"
)

type MeetingHandler struct {
	svc *tuning.Service
	cfg cliparse.Config
}

func NewMeetingHandler(svc *tuning.Service, cfg cliparse.Config) *MeetingHandler {
	return &MeetingHandler{svc: svc, cfg: cfg}
}

// GetMeeting handles GET /meetings/{id} (group members only)
func (h *MeetingHandler) GetMeeting(w http.ResponseWriter, r *http.Request) {
	callerID, ok := caller(w, r, h.cfg)
	if !ok {
		return
	}

	meeting, err := h.svc.Meeting(r.Context(), r.PathValue("id"), callerID)
	if err != nil {
		writeError(w, err, "failed to get meeting")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, meeting)
}

// ListMeetings handles GET /groups/{id}/meetings (members only)
// Returns the group's confirmed meetings ordered by start time.
func (h *MeetingHandler) ListMeetings(w http.ResponseWriter, r *http.Request) {
	callerID, ok := caller(w, r, h.cfg)
	if !ok {
		return
	}

	meetings, err := h.svc.Meetings(r.Context(), r.PathValue("id"), callerID)
	if err != nil {
		writeError(w, err, "failed to list meetings")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, meetings)
}

// GetMeetingICS handles GET /meetings/{id}/ics
// Returns the meeting as a single-event iCalendar file.
func (h *MeetingHandler) GetMeetingICS(w http.ResponseWriter, r *http.Request) {
	callerID, ok := caller(w, r, h.cfg)
	if !ok {
		return
	}

	meeting, err := h.svc.Meeting(r.Context(), r.PathValue("id"), callerID)
	if err != nil {
		writeError(w, err, "failed to get meeting")
		return
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(meetingCalendar(meeting)); err != nil {
		slog.Error("failed to encode meeting calendar", "meeting_id", meeting.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to export meeting")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="meeting-%s.ics"`, meeting.ID))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func meetingCalendar(m models.Meeting) *ical.Calendar {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, m.ID)
	ve.Props.SetText(ical.PropSummary, m.Title)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, m.CreatedAt.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, m.StartTime.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeEnd, m.EndTime.UTC())
	if m.Description != "" {
		ve.Props.SetText(ical.PropDescription, m.Description)
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//quickly-meet//EN")
	cal.Children = append(cal.Children, ve)
	return cal
}
