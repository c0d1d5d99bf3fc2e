// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateGroupRequest: name, leader_name
  - AddMemberRequest: display_name
  - CreateTuningRequest: title, content, start_date, end_date,
    available_start_time, available_end_time, slot_minutes
  - SubmitVotesRequest: slot_indices ([]int)
  - CompleteTuningRequest: title, content, start_time, end_time

# Response Types

Types for JSON responses:

  - CreateGroupResponse: group_id, member_id, member_token
  - AddMemberResponse: member_id, member_token
  - CreateTuningResponse: tuning_id
  - SubmitVotesResponse: message
  - CompleteTuningResponse: success, meeting_id
  - ErrorResponse: error, message

# Domain Types

  - Group, Member: membership snapshot source
  - TuningSession: session metadata and lifecycle state
  - TuningSummary: one pending session in a list
  - GroupDetail: group with its roster in join order
  - TuningDetail: session with per-slot popcounts and participants
  - RankedSlot: a slot ordered by attendance, with its run length
  - Meeting: the confirmed meeting created on completion

# Constants

Status values:

	StatusPending   = "pending"
	StatusCompleted = "completed"
*/
package models
