// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/huddle/canvas"
	"github.com/danielhkuo/huddle/cliparse"
	"github.com/danielhkuo/huddle/db"
	"github.com/danielhkuo/huddle/handlers"
	"github.com/danielhkuo/huddle/host"
	"github.com/danielhkuo/huddle/livestate"
	"github.com/danielhkuo/huddle/middleware"
)

func NewRouter(store *db.Store, hub *livestate.Hub, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Shared dependencies
	resolver := host.NewResolver(store, cfg.ParticipantTokenSalt)
	watcher := host.NewWatcher()
	scope := handlers.NewScope(store, hub, resolver)
	viewports := canvas.NewViewports()
	hub.OnEvict(viewports.Drop)

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(store, scope, watcher, cfg)
	pollHandler := handlers.NewPollHandler(scope)
	calendarHandler := handlers.NewCalendarHandler(scope, cfg)
	canvasHandler := handlers.NewCanvasHandler(scope, viewports)
	cardHandler := handlers.NewCardHandler(scope)
	syncHandler := handlers.NewSyncHandler(scope, watcher)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Sessions and participants
	mux.HandleFunc("POST /sessions", middleware.WithLogging(sessionHandler.CreateSession))
	mux.HandleFunc("POST /sessions/{id}/join", middleware.WithLogging(sessionHandler.JoinSession))
	mux.HandleFunc("GET /sessions/{id}/participants", middleware.WithLogging(sessionHandler.ListParticipants))
	mux.HandleFunc("GET /sessions/{id}/context", middleware.WithLogging(sessionHandler.GetContext))
	mux.HandleFunc("PUT /sessions/{id}/theme", middleware.WithLogging(sessionHandler.SetTheme))
	mux.HandleFunc("GET /join/{code}", middleware.WithLogging(sessionHandler.LookupJoinCode))

	// Polls
	mux.HandleFunc("GET /sessions/{id}/polls", middleware.WithLogging(pollHandler.ListPolls))
	mux.HandleFunc("POST /sessions/{id}/polls", middleware.WithLogging(pollHandler.CreatePoll))
	mux.HandleFunc("POST /sessions/{id}/polls/dialog", middleware.WithLogging(pollHandler.CreatePollFromDialog))
	mux.HandleFunc("POST /sessions/{id}/polls/{pollID}/votes", middleware.WithLogging(pollHandler.Vote))
	mux.HandleFunc("POST /sessions/{id}/polls/{pollID}/votes/dialog", middleware.WithLogging(pollHandler.VoteFromDialog))
	mux.HandleFunc("POST /sessions/{id}/polls/{pollID}/close", middleware.WithLogging(pollHandler.ClosePoll))
	mux.HandleFunc("DELETE /sessions/{id}/polls/{pollID}", middleware.WithLogging(pollHandler.DeletePoll))
	mux.HandleFunc("GET /sessions/{id}/polls/{pollID}/results", middleware.WithLogging(pollHandler.GetResults))
	mux.HandleFunc("GET /sessions/{id}/polls/{pollID}/card", middleware.WithLogging(pollHandler.GetVoteCard))

	// Calendar
	mux.HandleFunc("GET /sessions/{id}/events", middleware.WithLogging(calendarHandler.ListEvents))
	mux.HandleFunc("POST /sessions/{id}/events", middleware.WithLogging(calendarHandler.CreateEvent))
	mux.HandleFunc("POST /sessions/{id}/events/dialog", middleware.WithLogging(calendarHandler.CreateEventFromDialog))
	mux.HandleFunc("GET /sessions/{id}/events/{eventID}", middleware.WithLogging(calendarHandler.GetEvent))
	mux.HandleFunc("DELETE /sessions/{id}/events/{eventID}", middleware.WithLogging(calendarHandler.DeleteEvent))
	mux.HandleFunc("GET /sessions/{id}/events/occurrences", middleware.WithLogging(calendarHandler.ListOccurrences))
	mux.HandleFunc("GET /sessions/{id}/calendar.ics", middleware.WithLogging(calendarHandler.ExportICS))
	mux.HandleFunc("POST /sessions/{id}/calendar.ics", middleware.WithLogging(calendarHandler.ImportICS))

	// Canvas
	mux.HandleFunc("GET /sessions/{id}/canvas/strokes", middleware.WithLogging(canvasHandler.ListStrokes))
	mux.HandleFunc("POST /sessions/{id}/canvas/strokes", middleware.WithLogging(canvasHandler.AddStroke))
	mux.HandleFunc("DELETE /sessions/{id}/canvas/strokes", middleware.WithLogging(canvasHandler.ClearStrokes))
	mux.HandleFunc("GET /sessions/{id}/canvas/viewport", middleware.WithLogging(canvasHandler.GetViewport))
	mux.HandleFunc("POST /sessions/{id}/canvas/viewport", middleware.WithLogging(canvasHandler.ApplyViewport))

	// Dialog cards and the change stream
	mux.HandleFunc("GET /sessions/{id}/cards/{name}", middleware.WithLogging(cardHandler.GetCard))
	mux.HandleFunc("GET /sessions/{id}/sync", middleware.WithLogging(syncHandler.Sync))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("huddle API v1"))
	})

	return mux
}
