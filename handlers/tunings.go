// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/danielhkuo/quickly-meet/cliparse"
	"github.com/danielhkuo/quickly-meet/middleware"
	"github.com/danielhkuo/quickly-meet/models"
	"github.com/danielhkuo/quickly-meet/tuning"
)

type TuningHandler struct {
	svc *tuning.Service
	cfg cliparse.Config
}

func NewTuningHandler(svc *tuning.Service, cfg cliparse.Config) *TuningHandler {
	return &TuningHandler{svc: svc, cfg: cfg}
}

// CreateTuning handles POST /groups/{id}/tunings (leader only)
func (h *TuningHandler) CreateTuning(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")
	callerID, ok := caller(w, r, h.cfg)
	if !ok {
		return
	}

	var req models.CreateTuningRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	params, err := tuning.ParseCreateRequest(groupID, req)
	if err != nil {
		writeError(w, err, "failed to parse tuning request")
		return
	}

	id, err := h.svc.Create(r.Context(), callerID, params)
	if err != nil {
		writeError(w, err, "failed to create tuning session")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreateTuningResponse{TuningID: id})
}

// ListTunings handles GET /groups/{id}/tunings (members only)
// Returns pending sessions, newest first.
func (h *TuningHandler) ListTunings(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")
	callerID, ok := caller(w, r, h.cfg)
	if !ok {
		return
	}

	list, err := h.svc.List(r.Context(), groupID, callerID)
	if err != nil {
		writeError(w, err, "failed to list tuning sessions")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, list)
}

// GetTuning handles GET /tunings/{id} (members only)
func (h *TuningHandler) GetTuning(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	callerID, ok := caller(w, r, h.cfg)
	if !ok {
		return
	}

	detail, err := h.svc.Detail(r.Context(), sessionID, callerID)
	if err != nil {
		writeError(w, err, "failed to get tuning session")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, detail)
}

// RankSlots handles GET /tunings/{id}/ranking?limit=N (members only)
// Returns slots ordered by attendance, best first.
func (h *TuningHandler) RankSlots(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	callerID, ok := caller(w, r, h.cfg)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	ranked, err := h.svc.Rank(r.Context(), sessionID, callerID, limit)
	if err != nil {
		writeError(w, err, "failed to rank slots")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, ranked)
}

// SubmitVotes handles POST /tunings/{id}/votes
// The submitted indices replace the caller's previous selection.
func (h *TuningHandler) SubmitVotes(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	callerID, ok := caller(w, r, h.cfg)
	if !ok {
		return
	}

	var req models.SubmitVotesRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.svc.Submit(r.Context(), sessionID, callerID, req.SlotIndices); err != nil {
		writeError(w, err, "failed to submit votes")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SubmitVotesResponse{
		Message: "Availability recorded",
	})
}

// CompleteTuning handles PUT /tunings/{id}/complete (leader only)
func (h *TuningHandler) CompleteTuning(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	callerID, ok := caller(w, r, h.cfg)
	if !ok {
		return
	}

	var req models.CompleteTuningRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	loc, err := h.svc.SessionLocation(r.Context(), sessionID)
	if err != nil {
		writeError(w, err, "failed to load tuning session")
		return
	}

	params, err := tuning.ParseCompleteRequest(req, loc)
	if err != nil {
		writeError(w, err, "failed to parse completion request")
		return
	}

	meeting, err := h.svc.Complete(r.Context(), sessionID, callerID, params)
	if err != nil {
		writeError(w, err, "failed to complete tuning session")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CompleteTuningResponse{
		Success:   true,
		MeetingID: meeting.ID,
	})
}
