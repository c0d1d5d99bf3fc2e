// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/quickly-meet/auth"
	"github.com/danielhkuo/quickly-meet/models"
	"github.com/danielhkuo/quickly-meet/testutil"
)

func TestCreateGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	store, _ := testutil.NewTestServices(t, db, cfg, nil)
	handler := NewGroupHandler(store, cfg)

	t.Run("valid group", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/groups", models.CreateGroupRequest{
			Name:       "Study Group",
			LeaderName: "Alice",
		}, nil)
		w := httptest.NewRecorder()

		handler.CreateGroup(w, req)

		testutil.AssertStatus(t, w, http.StatusCreated)

		var resp models.CreateGroupResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.GroupID == "" || resp.MemberID == "" {
			t.Fatalf("Expected ids in response, got %+v", resp)
		}
		if err := auth.ValidateMemberToken(resp.MemberID, resp.MemberToken, cfg.MemberTokenSalt); err != nil {
			t.Errorf("Expected a valid leader token, got %v", err)
		}
	})

	testCases := []struct {
		name string
		body interface{}
	}{
		{"missing name", models.CreateGroupRequest{LeaderName: "Alice"}},
		{"missing leader", models.CreateGroupRequest{Name: "Study Group"}},
		{"blank leader", models.CreateGroupRequest{Name: "Study Group", LeaderName: "   "}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/groups", tc.body, nil)
			w := httptest.NewRecorder()

			handler.CreateGroup(w, req)

			testutil.AssertStatus(t, w, http.StatusBadRequest)
		})
	}

	t.Run("invalid JSON", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/groups", nil)
		w := httptest.NewRecorder()

		handler.CreateGroup(w, req)

		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})
}

func TestAddMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	store, _ := testutil.NewTestServices(t, db, cfg, nil)
	groupID, members := testutil.CreateTestGroup(t, store, cfg, "Leader", "Member")
	handler := NewGroupHandler(store, cfg)

	add := func(headers map[string]string, name string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/groups/"+groupID+"/members",
			models.AddMemberRequest{DisplayName: name}, headers)
		req.SetPathValue("id", groupID)
		w := httptest.NewRecorder()
		handler.AddMember(w, req)
		return w
	}

	t.Run("leader adds member", func(t *testing.T) {
		w := add(members[0].Headers(), "Carol")
		testutil.AssertStatus(t, w, http.StatusCreated)

		var resp models.AddMemberResponse
		testutil.AssertJSON(t, w, &resp)
		if err := auth.ValidateMemberToken(resp.MemberID, resp.MemberToken, cfg.MemberTokenSalt); err != nil {
			t.Errorf("Expected a valid member token, got %v", err)
		}
	})

	t.Run("non-leader is forbidden", func(t *testing.T) {
		w := add(members[1].Headers(), "Dave")
		testutil.AssertStatus(t, w, http.StatusForbidden)
	})

	t.Run("missing credentials", func(t *testing.T) {
		w := add(nil, "Dave")
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("forged token", func(t *testing.T) {
		headers := members[0].Headers()
		headers["X-Member-Token"] = members[1].Token
		w := add(headers, "Dave")
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})

	t.Run("empty display name", func(t *testing.T) {
		w := add(members[0].Headers(), "")
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})
}

func TestGetGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	store, _ := testutil.NewTestServices(t, db, cfg, nil)
	groupID, members := testutil.CreateTestGroup(t, store, cfg, "Leader", "Bob", "Carol")
	_, outsiders := testutil.CreateTestGroup(t, store, cfg, "Outsider")
	handler := NewGroupHandler(store, cfg)

	get := func(id string, headers map[string]string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("GET", "/groups/"+id, nil, headers)
		req.SetPathValue("id", id)
		w := httptest.NewRecorder()
		handler.GetGroup(w, req)
		return w
	}

	t.Run("member sees roster in join order", func(t *testing.T) {
		w := get(groupID, members[2].Headers())
		testutil.AssertStatus(t, w, http.StatusOK)

		var detail models.GroupDetail
		testutil.AssertJSON(t, w, &detail)
		if detail.Group.Name != "Test Group" {
			t.Errorf("Expected group name 'Test Group', got '%s'", detail.Group.Name)
		}
		if len(detail.Members) != len(members) {
			t.Fatalf("Expected %d members, got %d", len(members), len(detail.Members))
		}
		for i, m := range detail.Members {
			if m.ID != members[i].ID {
				t.Errorf("Member %d: expected %s, got %s", i, members[i].ID, m.ID)
			}
		}
		if !detail.Members[0].IsLeader || detail.Members[1].IsLeader {
			t.Error("Expected only the first member to be leader")
		}
	})

	t.Run("outsider is forbidden", func(t *testing.T) {
		w := get(groupID, outsiders[0].Headers())
		testutil.AssertStatus(t, w, http.StatusForbidden)
	})

	t.Run("unknown group", func(t *testing.T) {
		w := get("no-such-group", members[0].Headers())
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}
