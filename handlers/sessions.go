// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/huddle/auth"
	"github.com/danielhkuo/huddle/cliparse"
	"github.com/danielhkuo/huddle/db"
	"github.com/danielhkuo/huddle/host"
	"github.com/danielhkuo/huddle/middleware"
	"github.com/danielhkuo/huddle/models"
)

type SessionHandler struct {
	store   *db.Store
	scope   *Scope
	watcher *host.Watcher
	cfg     cliparse.Config
}

func NewSessionHandler(store *db.Store, scope *Scope, watcher *host.Watcher, cfg cliparse.Config) *SessionHandler {
	return &SessionHandler{store: store, scope: scope, watcher: watcher, cfg: cfg}
}

// CreateSession handles POST /sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}

	sessionID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate session ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}
	joinCode := auth.GenerateJoinCode(sessionID, h.cfg.JoinCodeSalt)

	err = h.store.CreateSession(r.Context(), models.Session{
		ID:        sessionID,
		Title:     title,
		JoinCode:  joinCode,
		CreatedAt: time.Now(),
	})
	if err != nil {
		slog.Error("failed to insert session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	if _, err := h.scope.attach(r.Context(), sessionID); err != nil {
		slog.Error("failed to attach session", "session_id", sessionID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	slog.Info("session created", "session_id", sessionID, "title", title)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateSessionResponse{
		SessionID: sessionID,
		JoinCode:  joinCode,
	})
}

// JoinSession handles POST /sessions/{id}/join
// Rejoining updates the display name and theme and returns the same token.
// A user_id that already joined is only accepted again with its
// X-Participant-Token.
func (h *SessionHandler) JoinSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session id is required")
		return
	}

	var req models.JoinSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "user_id is required")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	theme, err := host.ParseTheme(req.Theme)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	_, err = h.store.GetSession(r.Context(), sessionID)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return
	}
	if err != nil {
		slog.Error("failed to query session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	_, err = h.store.GetParticipant(r.Context(), sessionID, userID)
	switch {
	case err == nil:
		token := r.Header.Get(host.HeaderParticipantToken)
		if err := auth.ValidateParticipantToken(sessionID, userID, token, h.cfg.ParticipantTokenSalt); err != nil {
			slog.Warn("rejected rejoin", "session_id", sessionID, "user_id", userID)
			middleware.ErrorResponse(w, http.StatusConflict, "user_id already joined; rejoin with its X-Participant-Token")
			return
		}
	case !errors.Is(err, db.ErrNotFound):
		slog.Error("failed to query participant", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	p, err := h.store.UpsertParticipant(r.Context(), models.Participant{
		SessionID: sessionID,
		UserID:    userID,
		Name:      name,
		Theme:     string(theme),
	})
	if err != nil {
		slog.Error("failed to upsert participant", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to join session")
		return
	}

	if _, err := h.scope.attach(r.Context(), sessionID); err != nil {
		slog.Error("failed to attach session", "session_id", sessionID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to join session")
		return
	}

	slog.Info("participant joined", "session_id", sessionID, "user_id", userID)

	middleware.JSONResponse(w, http.StatusOK, models.JoinSessionResponse{
		SessionID:        sessionID,
		UserID:           p.UserID,
		ParticipantToken: auth.GenerateParticipantToken(sessionID, p.UserID, h.cfg.ParticipantTokenSalt),
		Theme:            p.Theme,
	})
}

// GetContext handles GET /sessions/{id}/context
func (h *SessionHandler) GetContext(w http.ResponseWriter, r *http.Request) {
	req, ok := h.scope.open(w, r)
	if !ok {
		return
	}
	if err := h.store.TouchParticipant(r.Context(), req.record.ID, req.caller.User.ID); err != nil {
		slog.Warn("failed to touch participant", "user_id", req.caller.User.ID, "error", err)
	}
	middleware.JSONResponse(w, http.StatusOK, req.caller)
}

// ListParticipants handles GET /sessions/{id}/participants
func (h *SessionHandler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	req, ok := h.scope.open(w, r)
	if !ok {
		return
	}
	participants, err := h.store.ListParticipants(r.Context(), req.record.ID)
	if err != nil {
		slog.Error("failed to list participants", "session_id", req.record.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, participants)
}

// SetTheme handles PUT /sessions/{id}/theme
func (h *SessionHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	req, ok := h.scope.open(w, r)
	if !ok {
		return
	}

	var body models.SetThemeRequest
	if err := middleware.ParseJSONBody(r, &body); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if body.Theme == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "theme is required")
		return
	}
	theme, err := host.ParseTheme(body.Theme)
	if err != nil {
		writeError(w, r, err, "Failed to set theme")
		return
	}

	userID := req.caller.User.ID
	if err := h.store.SetParticipantTheme(r.Context(), req.record.ID, userID, string(theme)); err != nil {
		writeError(w, r, err, "Failed to set theme")
		return
	}

	h.watcher.Notify(host.ThemeChange{SessionID: req.record.ID, UserID: userID, Theme: theme})
	slog.Info("theme changed", "session_id", req.record.ID, "user_id", userID, "theme", theme)

	ctx, _ := host.NewContext(req.record.ID, userID, req.caller.User.Name, theme)
	middleware.JSONResponse(w, http.StatusOK, ctx)
}

// LookupJoinCode handles GET /join/{code}
func (h *SessionHandler) LookupJoinCode(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "join code is required")
		return
	}

	session, err := h.store.GetSessionByJoinCode(r.Context(), code)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return
	}
	if err != nil {
		slog.Error("failed to query session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, session)
}
