// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Meet API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(store, svc, cfg)

# Endpoints

Health:

	GET /health

Groups (X-Member-ID and X-Member-Token except on creation):

	POST /groups               - Create group, returns leader credentials
	GET  /groups/{id}          - Group and roster (members)
	POST /groups/{id}/members  - Add member (leader)

Tuning sessions:

	POST /groups/{id}/tunings  - Create session (leader)
	GET  /groups/{id}/tunings  - Pending sessions, newest first (members)
	GET  /tunings/{id}         - Slots, popcounts and participants (members)
	GET  /tunings/{id}/ranking - Slots by attendance (members)
	POST /tunings/{id}/votes   - Replace caller's availability (participants)
	PUT  /tunings/{id}/complete - Confirm meeting (leader)

Meetings:

	GET /groups/{id}/meetings - Confirmed meetings by start time (members)
	GET /meetings/{id}     - Meeting JSON (members)
	GET /meetings/{id}/ics - Meeting as text/calendar (members)
*/
package router
