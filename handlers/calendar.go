// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/huddle/calendar"
	"github.com/danielhkuo/huddle/cliparse"
	"github.com/danielhkuo/huddle/middleware"
	"github.com/danielhkuo/huddle/models"
)

// defaultOccurrenceWindow is used when /occurrences has no "to"
const defaultOccurrenceWindow = 7 * 24 * time.Hour

type CalendarHandler struct {
	scope *Scope
	cfg   cliparse.Config
}

func NewCalendarHandler(scope *Scope, cfg cliparse.Config) *CalendarHandler {
	return &CalendarHandler{scope: scope, cfg: cfg}
}

// ListEvents handles GET /sessions/{id}/events?view=all|upcoming
func (h *CalendarHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	req, ok := h.scope.open(w, r)
	if !ok {
		return
	}

	view := r.URL.Query().Get("view")
	if view == "" {
		view = models.ViewAll
	}
	events, err := calendar.NewController(req.session.Calendar).List(view)
	if err != nil {
		writeError(w, r, err, "Failed to list events")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, events)
}

// CreateEvent handles POST /sessions/{id}/events
func (h *CalendarHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	req, ok := h.scope.open(w, r)
	if !ok {
		return
	}

	var body models.CreateEventRequest
	if err := middleware.ParseJSONBody(r, &body); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	h.create(w, r, req, body)
}

// CreateEventFromDialog handles POST /sessions/{id}/events/dialog
// Dates in the card are read in the configured timezone.
func (h *CalendarHandler) CreateEventFromDialog(w http.ResponseWriter, r *http.Request) {
	req, ok := h.scope.open(w, r)
	if !ok {
		return
	}

	raw, ok := readBody(w, r)
	if !ok {
		return
	}
	body, err := calendar.ParseCreateEventResult(raw, h.cfg.Location())
	if err != nil {
		writeError(w, r, err, "Failed to create event")
		return
	}
	h.create(w, r, req, body)
}

func (h *CalendarHandler) create(w http.ResponseWriter, r *http.Request, req request, body models.CreateEventRequest) {
	e, err := calendar.NewController(req.session.Calendar).Create(r.Context(), req.caller.User.ID, body)
	if err != nil {
		writeError(w, r, err, "Failed to create event")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, e)
}

// GetEvent handles GET /sessions/{id}/events/{eventID}
func (h *CalendarHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	req, ok := h.scope.open(w, r)
	if !ok {
		return
	}

	e, err := calendar.NewController(req.session.Calendar).Get(r.PathValue("eventID"))
	if err != nil {
		writeError(w, r, err, "Failed to get event")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, e)
}

// DeleteEvent handles DELETE /sessions/{id}/events/{eventID}
func (h *CalendarHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	req, ok := h.scope.open(w, r)
	if !ok {
		return
	}

	err := calendar.NewController(req.session.Calendar).Delete(r.Context(), req.caller.User.ID, r.PathValue("eventID"))
	if err != nil {
		writeError(w, r, err, "Failed to delete event")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListOccurrences handles GET /sessions/{id}/events/occurrences?from=&to=
// Both bounds are RFC 3339. from defaults to now, to to a week after from.
func (h *CalendarHandler) ListOccurrences(w http.ResponseWriter, r *http.Request) {
	req, ok := h.scope.open(w, r)
	if !ok {
		return
	}

	from := time.Now()
	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "from must be an RFC 3339 timestamp")
			return
		}
		from = t
	}
	to := from.Add(defaultOccurrenceWindow)
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "to must be an RFC 3339 timestamp")
			return
		}
		to = t
	}

	occurrences, err := calendar.NewController(req.session.Calendar).Occurrences(from, to)
	if err != nil {
		writeError(w, r, err, "Failed to expand events")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, occurrences)
}

// ExportICS handles GET /sessions/{id}/calendar.ics
func (h *CalendarHandler) ExportICS(w http.ResponseWriter, r *http.Request) {
	req, ok := h.scope.open(w, r)
	if !ok {
		return
	}

	events, err := calendar.NewController(req.session.Calendar).List(models.ViewAll)
	if err != nil {
		writeError(w, r, err, "Failed to export calendar")
		return
	}

	var buf bytes.Buffer
	if err := calendar.ExportICS(&buf, req.record.Title, events, time.Now()); err != nil {
		writeError(w, r, err, "Failed to export calendar")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="calendar.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("failed to write calendar", "error", err)
	}
}

// ImportICS handles POST /sessions/{id}/calendar.ics
// Every VEVENT of the feed is created in one write.
func (h *CalendarHandler) ImportICS(w http.ResponseWriter, r *http.Request) {
	req, ok := h.scope.open(w, r)
	if !ok {
		return
	}

	raw, ok := readBody(w, r)
	if !ok {
		return
	}
	created, err := calendar.NewController(req.session.Calendar).Import(r.Context(), req.caller.User.ID, bytes.NewReader(raw))
	if err != nil {
		writeError(w, r, err, "Failed to import calendar")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, created)
}
