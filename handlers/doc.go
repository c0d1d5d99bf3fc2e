// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Meet API.

# Handler Types

Each handler is a struct holding its service and the config:

  - GroupHandler: Group creation, roster and member credentials
  - TuningHandler: Tuning session lifecycle, availability and ranking
  - MeetingHandler: Confirmed meetings and their iCalendar export

Handlers are created via constructor functions:

	tuningHandler := handlers.NewTuningHandler(svc, cfg)

# Identity

Every call except POST /groups needs X-Member-ID and X-Member-Token. Missing
or mismatched credentials get 401 before any service call is made.

# Tuning Lifecycle

Sessions move from pending to completed exactly once:

	POST /groups/{id}/tunings  → CreateTuning (leader)
	POST /tunings/{id}/votes   → SubmitVotes (participants, replaces selection)
	GET  /tunings/{id}/ranking → RankSlots
	PUT  /tunings/{id}/complete → CompleteTuning (leader, returns meeting_id)

# Error Mapping

Service errors map onto status codes by category: validation 400,
authorization 403, not found 404, state 409. A session lock that could not be
taken in time is 503 with Retry-After. Anything else is logged and returned
as 500.
*/
package handlers
