package models

import "time"

// Tuning session status constants
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Request types

type CreateGroupRequest struct {
	Name       string `json:"name"`
	LeaderName string `json:"leader_name"`
}

type AddMemberRequest struct {
	DisplayName string `json:"display_name"`
}

// Dates are "2006-01-02", times of day are "15:04"
type CreateTuningRequest struct {
	Title              string `json:"title"`
	Content            string `json:"content"`
	StartDate          string `json:"start_date"`
	EndDate            string `json:"end_date"`
	AvailableStartTime string `json:"available_start_time"`
	AvailableEndTime   string `json:"available_end_time"`
	SlotMinutes        int    `json:"slot_minutes,omitempty"`
}

// Zero-based slot indices; an empty list clears every selection
type SubmitVotesRequest struct {
	SlotIndices []int `json:"slot_indices"`
}

// start_time/end_time are RFC 3339 or "2006-01-02T15:04:05" in the server timezone
type CompleteTuningRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Response types

type CreateGroupResponse struct {
	GroupID     string `json:"group_id"`
	MemberID    string `json:"member_id"`
	MemberToken string `json:"member_token"`
}

type AddMemberResponse struct {
	MemberID    string `json:"member_id"`
	MemberToken string `json:"member_token"`
}

type CreateTuningResponse struct {
	TuningID string `json:"tuning_id"`
}

type SubmitVotesResponse struct {
	Message string `json:"message"`
}

type CompleteTuningResponse struct {
	Success   bool   `json:"success"`
	MeetingID string `json:"meeting_id"`
}

// Domain types

type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// GroupDetail is a group with its roster in join order
type GroupDetail struct {
	Group   Group    `json:"group"`
	Members []Member `json:"members"`
}

type Member struct {
	ID          string    `json:"id"`
	GroupID     string    `json:"group_id"`
	DisplayName string    `json:"display_name"`
	IsLeader    bool      `json:"is_leader"`
	JoinedAt    time.Time `json:"joined_at"`
}

type TuningSession struct {
	ID          string     `json:"id"`
	GroupID     string     `json:"group_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StartDate   string     `json:"start_date"`
	EndDate     string     `json:"end_date"`
	DailyStart  string     `json:"available_start_time"`
	DailyEnd    string     `json:"available_end_time"`
	SlotMinutes int        `json:"slot_minutes"`
	Timezone    string     `json:"timezone"`
	Status      string     `json:"status"`
	MeetingID   *string    `json:"meeting_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// TuningSummary is one row of the pending session list
type TuningSummary struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type SlotView struct {
	Index     int       `json:"index"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available int       `json:"available"` // popcount of the occupancy mask
	Mask      string    `json:"mask"`      // hex, bit i = candidate 2^i
}

// RankedSlot is a slot ordered by how many participants can attend
type RankedSlot struct {
	Rank      int       `json:"rank"`
	Index     int       `json:"index"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available int       `json:"available"`
	RunLength int       `json:"run_length"` // consecutive slots with the same attendees, this one included
	Everyone  bool      `json:"everyone"`
}

type ParticipantView struct {
	MemberID        string     `json:"member_id"`
	Name            string     `json:"name"`
	CandidateNumber int64      `json:"candidate_number"`
	VotedAt         *time.Time `json:"voted_at,omitempty"`
}

type TuningDetail struct {
	Session      TuningSession     `json:"session"`
	Start        time.Time         `json:"available_start"`
	End          time.Time         `json:"available_end"`
	Slots        []SlotView        `json:"slots"`
	Participants []ParticipantView `json:"participants"`
}

type Meeting struct {
	ID          string    `json:"id"`
	GroupID     string    `json:"group_id"`
	TuningID    string    `json:"tuning_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	CreatedAt   time.Time `json:"created_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
