// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/huddle/calendar"
	"github.com/danielhkuo/huddle/canvas"
	"github.com/danielhkuo/huddle/db"
	"github.com/danielhkuo/huddle/dialog"
	"github.com/danielhkuo/huddle/host"
	"github.com/danielhkuo/huddle/livestate"
	"github.com/danielhkuo/huddle/middleware"
	"github.com/danielhkuo/huddle/models"
	"github.com/danielhkuo/huddle/poll"
)

const maxBodyBytes = 1 << 20

// Scope resolves the session and caller of a /sessions/{id}/... request.
type Scope struct {
	store    *db.Store
	hub      *livestate.Hub
	resolver *host.Resolver
}

func NewScope(store *db.Store, hub *livestate.Hub, resolver *host.Resolver) *Scope {
	return &Scope{store: store, hub: hub, resolver: resolver}
}

// request is one authenticated call against a live session.
type request struct {
	record  models.Session
	session *livestate.Session
	caller  host.Context
}

// open loads the session, authenticates the caller and attaches the live
// containers. It writes the error response itself and reports false on
// failure.
func (s *Scope) open(w http.ResponseWriter, r *http.Request) (request, bool) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session id is required")
		return request{}, false
	}

	record, err := s.store.GetSession(r.Context(), sessionID)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return request{}, false
	}
	if err != nil {
		slog.Error("failed to query session", "session_id", sessionID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return request{}, false
	}

	caller, err := s.resolver.Resolve(r, sessionID)
	switch {
	case errors.Is(err, host.ErrNoParticipant):
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Participant-ID header is required")
		return request{}, false
	case errors.Is(err, host.ErrUnauthorized), errors.Is(err, db.ErrNotFound):
		slog.Warn("rejected participant", "session_id", sessionID, "user_id", r.Header.Get(host.HeaderParticipantID))
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid participant credentials")
		return request{}, false
	case err != nil:
		slog.Error("failed to resolve participant", "session_id", sessionID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return request{}, false
	}

	session, err := s.attach(r.Context(), sessionID)
	if err != nil {
		slog.Error("failed to attach session", "session_id", sessionID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to load session state")
		return request{}, false
	}

	return request{record: record, session: session, caller: caller}, true
}

// attach returns the live session with every container seeded. Seeding is
// idempotent, so restored containers keep their state.
func (s *Scope) attach(ctx context.Context, sessionID string) (*livestate.Session, error) {
	session, err := s.hub.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.Polls.Initialize(ctx, []models.Poll{}); err != nil {
		return nil, err
	}
	if err := session.Calendar.Initialize(ctx, []models.Event{}); err != nil {
		return nil, err
	}
	if err := session.Canvas.Initialize(ctx, []models.Stroke{}); err != nil {
		return nil, err
	}
	return session, nil
}

// statusFor maps controller errors to HTTP status codes.
func statusFor(err error) int {
	if _, ok := dialog.IsRejection(err); ok {
		return http.StatusBadRequest
	}
	switch {
	case errors.Is(err, host.ErrNoParticipant), errors.Is(err, host.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, poll.ErrNotCreator):
		return http.StatusForbidden
	case errors.Is(err, poll.ErrPollNotFound),
		errors.Is(err, calendar.ErrEventNotFound),
		errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, poll.ErrPollClosed):
		return http.StatusConflict
	case errors.Is(err, poll.ErrUnknownOption),
		errors.Is(err, poll.ErrSingleSelection),
		errors.Is(err, poll.ErrQuestionRequired),
		errors.Is(err, poll.ErrTooFewOptions),
		errors.Is(err, calendar.ErrTitleRequired),
		errors.Is(err, calendar.ErrDatesRequired),
		errors.Is(err, calendar.ErrInvalidRange),
		errors.Is(err, calendar.ErrInvalidRecurrence),
		errors.Is(err, calendar.ErrUnknownView),
		errors.Is(err, calendar.ErrWindowTooLarge),
		errors.Is(err, calendar.ErrInvalidFeed),
		errors.Is(err, canvas.ErrUnknownTool),
		errors.Is(err, canvas.ErrNoPoints),
		errors.Is(err, canvas.ErrNotDrawable),
		errors.Is(err, canvas.ErrInvalidWidth),
		errors.Is(err, canvas.ErrUnknownAction),
		errors.Is(err, canvas.ErrUnknownDirection),
		errors.Is(err, host.ErrUnknownTheme):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// writeError logs and writes a controller error. 5xx messages are replaced
// with fallback.
func writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Error(fallback, "path", r.URL.Path, "error", err)
		middleware.ErrorResponse(w, status, fallback)
		return
	}
	slog.Warn("request rejected", "path", r.URL.Path, "status", status, "error", err)
	middleware.ErrorResponse(w, status, err.Error())
}

// readBody reads a raw request body such as a dialog result or an
// iCalendar feed.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	defer r.Body.Close()
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Failed to read request body")
		return nil, false
	}
	return raw, true
}
