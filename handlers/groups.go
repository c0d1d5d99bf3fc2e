// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/quickly-meet/auth"
	"github.com/danielhkuo/quickly-meet/cliparse"
	"github.com/danielhkuo/quickly-meet/groups"
	"github.com/danielhkuo/quickly-meet/middleware"
	"github.com/danielhkuo/quickly-meet/models"
	"github.com/danielhkuo/quickly-meet/tuning"
)

type GroupHandler struct {
	store *groups.Store
	cfg   cliparse.Config
}

func NewGroupHandler(store *groups.Store, cfg cliparse.Config) *GroupHandler {
	return &GroupHandler{store: store, cfg: cfg}
}

// CreateGroup handles POST /groups
// The caller becomes the leader and receives the leader's credentials.
func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req models.CreateGroupRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	group, leader, err := h.store.CreateGroup(r.Context(), req.Name, req.LeaderName)
	if err != nil {
		writeError(w, err, "failed to create group")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreateGroupResponse{
		GroupID:     group.ID,
		MemberID:    leader.ID,
		MemberToken: auth.GenerateMemberToken(leader.ID, h.cfg.MemberTokenSalt),
	})
}

// AddMember handles POST /groups/{id}/members (leader only)
func (h *GroupHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")
	callerID, ok := caller(w, r, h.cfg)
	if !ok {
		return
	}

	var req models.AddMemberRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	member, err := h.store.AddMember(r.Context(), groupID, callerID, req.DisplayName)
	if err != nil {
		writeError(w, err, "failed to add member")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.AddMemberResponse{
		MemberID:    member.ID,
		MemberToken: auth.GenerateMemberToken(member.ID, h.cfg.MemberTokenSalt),
	})
}

// GetGroup handles GET /groups/{id} (members only)
func (h *GroupHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")
	callerID, ok := caller(w, r, h.cfg)
	if !ok {
		return
	}

	group, err := h.store.Group(r.Context(), groupID)
	if err != nil {
		writeError(w, err, "failed to get group")
		return
	}
	members, err := h.store.Members(r.Context(), groupID)
	if err != nil {
		writeError(w, err, "failed to get members")
		return
	}

	isMember := false
	for _, m := range members {
		if m.ID == callerID {
			isMember = true
			break
		}
	}
	if !isMember {
		writeError(w, tuning.ErrForbidden, "")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.GroupDetail{
		Group:   group,
		Members: members,
	})
}
