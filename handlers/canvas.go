// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/huddle/canvas"
	"github.com/danielhkuo/huddle/middleware"
	"github.com/danielhkuo/huddle/models"
)

type CanvasHandler struct {
	scope     *Scope
	viewports *canvas.Viewports
}

func NewCanvasHandler(scope *Scope, viewports *canvas.Viewports) *CanvasHandler {
	return &CanvasHandler{scope: scope, viewports: viewports}
}

// ListStrokes handles GET /sessions/{id}/canvas/strokes
func (h *CanvasHandler) ListStrokes(w http.ResponseWriter, r *http.Request) {
	req, ok := h.scope.open(w, r)
	if !ok {
		return
	}

	strokes, err := canvas.NewBoard(req.session.Canvas).Strokes()
	if err != nil {
		writeError(w, r, err, "Failed to list strokes")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, strokes)
}

// AddStroke handles POST /sessions/{id}/canvas/strokes
func (h *CanvasHandler) AddStroke(w http.ResponseWriter, r *http.Request) {
	req, ok := h.scope.open(w, r)
	if !ok {
		return
	}

	var body models.AddStrokeRequest
	if err := middleware.ParseJSONBody(r, &body); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	stroke, err := canvas.NewBoard(req.session.Canvas).AddStroke(r.Context(), req.caller.User.ID, body)
	if err != nil {
		writeError(w, r, err, "Failed to add stroke")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, stroke)
}

// ClearStrokes handles DELETE /sessions/{id}/canvas/strokes
func (h *CanvasHandler) ClearStrokes(w http.ResponseWriter, r *http.Request) {
	req, ok := h.scope.open(w, r)
	if !ok {
		return
	}

	if err := canvas.NewBoard(req.session.Canvas).Clear(r.Context(), req.caller.User.ID); err != nil {
		writeError(w, r, err, "Failed to clear canvas")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetViewport handles GET /sessions/{id}/canvas/viewport
func (h *CanvasHandler) GetViewport(w http.ResponseWriter, r *http.Request) {
	req, ok := h.scope.open(w, r)
	if !ok {
		return
	}
	v := h.viewport(req)
	middleware.JSONResponse(w, http.StatusOK, v.State())
}

// ApplyViewport handles POST /sessions/{id}/canvas/viewport
// The viewport is per caller and never changes the shared strokes.
func (h *CanvasHandler) ApplyViewport(w http.ResponseWriter, r *http.Request) {
	req, ok := h.scope.open(w, r)
	if !ok {
		return
	}

	var body models.ViewportRequest
	if err := middleware.ParseJSONBody(r, &body); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	v := h.viewport(req)
	if err := v.Apply(body); err != nil {
		writeError(w, r, err, "Failed to update viewport")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, v.State())
}

func (h *CanvasHandler) viewport(req request) *canvas.Viewport {
	board := canvas.NewBoard(req.session.Canvas)
	return h.viewports.Get(req.record.ID, req.caller.User.ID, board)
}
