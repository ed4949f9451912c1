// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"testing"

	"github.com/danielhkuo/huddle/canvas"
	"github.com/danielhkuo/huddle/models"
	"github.com/danielhkuo/huddle/testutil"
)

func TestAddStroke(t *testing.T) {
	env := newTestEnv(t)
	alice := env.join(t, "alice")
	handler := env.canvas(canvas.NewViewports())
	line := []models.Point{{X: 0, Y: 0}, {X: 10, Y: 10}}

	tests := []struct {
		name           string
		body           models.AddStrokeRequest
		expectedStatus int
	}{
		{"pen", models.AddStrokeRequest{Tool: models.ToolPen, Points: line}, http.StatusCreated},
		{"highlighter", models.AddStrokeRequest{Tool: models.ToolHighlighter, Color: "#FFFF00", Width: 8, Points: line}, http.StatusCreated},
		{"eraser", models.AddStrokeRequest{Tool: models.ToolEraser, Points: line}, http.StatusBadRequest},
		{"unknown tool", models.AddStrokeRequest{Tool: "crayon", Points: line}, http.StatusBadRequest},
		{"no points", models.AddStrokeRequest{Tool: models.ToolPen}, http.StatusBadRequest},
		{"negative width", models.AddStrokeRequest{Tool: models.ToolPen, Width: -1, Points: line}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.serve(handler.AddStroke, "POST", "/canvas/strokes", tt.body, alice)
			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusCreated {
				var s models.Stroke
				testutil.AssertJSON(t, w, &s)
				if s.ID == "" || s.CreatedBy != "alice" || len(s.Points) != 2 {
					t.Errorf("Unexpected stroke: %+v", s)
				}
			}
		})
	}

	w := env.serve(handler.ListStrokes, "GET", "/canvas/strokes", nil, alice)
	testutil.AssertStatus(t, w, http.StatusOK)
	var strokes []models.Stroke
	testutil.AssertJSON(t, w, &strokes)
	if len(strokes) != 2 {
		t.Errorf("Expected 2 strokes, got %d", len(strokes))
	}
}

func TestClearStrokes(t *testing.T) {
	env := newTestEnv(t)
	alice := env.join(t, "alice")
	bob := env.join(t, "bob")
	handler := env.canvas(canvas.NewViewports())

	body := models.AddStrokeRequest{Tool: models.ToolPen, Points: []models.Point{{X: 1, Y: 1}}}
	w := env.serve(handler.AddStroke, "POST", "/canvas/strokes", body, alice)
	testutil.AssertStatus(t, w, http.StatusCreated)

	w = env.serve(handler.ClearStrokes, "DELETE", "/canvas/strokes", nil, bob)
	testutil.AssertStatus(t, w, http.StatusNoContent)

	w = env.serve(handler.ListStrokes, "GET", "/canvas/strokes", nil, alice)
	var strokes []models.Stroke
	testutil.AssertJSON(t, w, &strokes)
	if len(strokes) != 0 {
		t.Errorf("Expected empty canvas, got %d strokes", len(strokes))
	}
}

func TestViewportIsPerUser(t *testing.T) {
	env := newTestEnv(t)
	alice := env.join(t, "alice")
	bob := env.join(t, "bob")
	handler := env.canvas(canvas.NewViewports())

	steps := []struct {
		body           models.ViewportRequest
		expectedStatus int
	}{
		{models.ViewportRequest{Action: "zoom_in"}, http.StatusOK},
		{models.ViewportRequest{Action: "pan", Direction: "right", Amount: 20}, http.StatusOK},
		{models.ViewportRequest{Action: "tool", Tool: models.ToolHighlighter}, http.StatusOK},
		{models.ViewportRequest{Action: "pan", Direction: "sideways", Amount: 20}, http.StatusBadRequest},
		{models.ViewportRequest{Action: "tool", Tool: "crayon"}, http.StatusBadRequest},
		{models.ViewportRequest{Action: "spin"}, http.StatusBadRequest},
	}
	for _, step := range steps {
		w := env.serve(handler.ApplyViewport, "POST", "/canvas/viewport", step.body, alice)
		testutil.AssertStatus(t, w, step.expectedStatus)
	}

	w := env.serve(handler.GetViewport, "GET", "/canvas/viewport", nil, alice)
	testutil.AssertStatus(t, w, http.StatusOK)
	var got models.ViewportResponse
	testutil.AssertJSON(t, w, &got)
	if got.Scale != 1.1 || got.OffsetX != 20 || got.Tool != models.ToolHighlighter {
		t.Errorf("Unexpected viewport for alice: %+v", got)
	}

	w = env.serve(handler.GetViewport, "GET", "/canvas/viewport", nil, bob)
	var other models.ViewportResponse
	testutil.AssertJSON(t, w, &other)
	if other.Scale != 1 || other.OffsetX != 0 || other.Tool != models.ToolPen {
		t.Errorf("Bob's viewport should be untouched, got %+v", other)
	}
}

func TestViewportLeavesStrokesAlone(t *testing.T) {
	env := newTestEnv(t)
	alice := env.join(t, "alice")
	handler := env.canvas(canvas.NewViewports())

	body := models.AddStrokeRequest{Tool: models.ToolPen, Points: []models.Point{{X: 1, Y: 1}, {X: 5, Y: 5}}}
	w := env.serve(handler.AddStroke, "POST", "/canvas/strokes", body, alice)
	testutil.AssertStatus(t, w, http.StatusCreated)

	session, ok := env.hub.Lookup(env.sessionID)
	if !ok {
		t.Fatal("Expected session to be live")
	}
	before := session.Canvas.Version()

	for _, action := range []models.ViewportRequest{
		{Action: "tool", Tool: models.ToolEraser},
		{Action: "pointer_down", Button: 1, X: 0, Y: 0},
		{Action: "pointer_move", X: 40, Y: 40},
		{Action: "pointer_up", Button: 1},
		{Action: "wheel", DeltaY: 100, Ctrl: true},
		{Action: "pan", Direction: "down", Amount: 10},
		{Action: "reset"},
	} {
		w := env.serve(handler.ApplyViewport, "POST", "/canvas/viewport", action, alice)
		testutil.AssertStatus(t, w, http.StatusOK)
	}

	if got := session.Canvas.Version(); got != before {
		t.Errorf("Viewport actions wrote the canvas: version %d -> %d", before, got)
	}
	if strokes := session.Canvas.State(); len(strokes) != 1 {
		t.Errorf("Expected the stroke to survive, got %d strokes", len(strokes))
	}
}

func TestViewportZoomSteps(t *testing.T) {
	env := newTestEnv(t)
	alice := env.join(t, "alice")
	handler := env.canvas(canvas.NewViewports())

	tests := []struct {
		action        models.ViewportRequest
		expectedScale float64
	}{
		{models.ViewportRequest{Action: "zoom_in"}, 1.1},
		{models.ViewportRequest{Action: "zoom_in"}, 1.2},
		{models.ViewportRequest{Action: "wheel", DeltaY: 100, Ctrl: true}, 1.1},
		{models.ViewportRequest{Action: "wheel", DeltaY: -100}, 1.1},
		{models.ViewportRequest{Action: "zoom_out"}, 1},
		{models.ViewportRequest{Action: "reset"}, 1},
	}

	for _, tt := range tests {
		w := env.serve(handler.ApplyViewport, "POST", "/canvas/viewport", tt.action, alice)
		testutil.AssertStatus(t, w, http.StatusOK)

		var got models.ViewportResponse
		testutil.AssertJSON(t, w, &got)
		if got.Scale != tt.expectedScale {
			t.Errorf("After %+v: expected scale %v, got %v", tt.action, tt.expectedScale, got.Scale)
		}
	}
}
