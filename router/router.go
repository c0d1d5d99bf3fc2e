// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/quickly-meet/cliparse"
	"github.com/danielhkuo/quickly-meet/groups"
	"github.com/danielhkuo/quickly-meet/handlers"
	"github.com/danielhkuo/quickly-meet/middleware"
	"github.com/danielhkuo/quickly-meet/tuning"
)

func NewRouter(store *groups.Store, svc *tuning.Service, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	groupHandler := handlers.NewGroupHandler(store, cfg)
	tuningHandler := handlers.NewTuningHandler(svc, cfg)
	meetingHandler := handlers.NewMeetingHandler(svc, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Groups and membership
	mux.HandleFunc("POST /groups", middleware.WithLogging(groupHandler.CreateGroup))
	mux.HandleFunc("GET /groups/{id}", middleware.WithLogging(groupHandler.GetGroup))
	mux.HandleFunc("POST /groups/{id}/members", middleware.WithLogging(groupHandler.AddMember))

	// Tuning sessions
	mux.HandleFunc("POST /groups/{id}/tunings", middleware.WithLogging(tuningHandler.CreateTuning))
	mux.HandleFunc("GET /groups/{id}/tunings", middleware.WithLogging(tuningHandler.ListTunings))
	mux.HandleFunc("GET /tunings/{id}", middleware.WithLogging(tuningHandler.GetTuning))
	mux.HandleFunc("GET /tunings/{id}/ranking", middleware.WithLogging(tuningHandler.RankSlots))
	mux.HandleFunc("POST /tunings/{id}/votes", middleware.WithLogging(tuningHandler.SubmitVotes))
	mux.HandleFunc("PUT /tunings/{id}/complete", middleware.WithLogging(tuningHandler.CompleteTuning))

	// Confirmed meetings
	mux.HandleFunc("GET /groups/{id}/meetings", middleware.WithLogging(meetingHandler.ListMeetings))
	mux.HandleFunc("GET /meetings/{id}", middleware.WithLogging(meetingHandler.GetMeeting))
	mux.HandleFunc("GET /meetings/{id}/ics", middleware.WithLogging(meetingHandler.GetMeetingICS))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-meet API v1"))
	})

	return mux
}
