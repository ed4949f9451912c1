// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package canvas

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/danielhkuo/huddle/models"
)

const (
	ZoomStep     = 0.1
	MinScale     = 0.1
	MiddleButton = 1
)

var (
	ErrUnknownAction    = errors.New("unknown viewport action")
	ErrUnknownDirection = errors.New("unknown pan direction")
)

type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// InkingManager is the surface the viewport drives.
type InkingManager interface {
	Tool() string
	SetTool(tool string) error
	Scale() float64
	SetScale(scale float64)
	Offset() models.Point
	SetOffset(p models.Point)
	Clear(ctx context.Context) error
}

// Surface is one participant's view of a Board: tool, zoom and pan are
// local, the strokes are shared.
type Surface struct {
	board  *Board
	userID string

	mu     sync.Mutex
	tool   string
	scale  float64
	offset models.Point
}

func NewSurface(board *Board, userID string) *Surface {
	return &Surface{board: board, userID: userID, tool: models.ToolPen, scale: 1}
}

func (s *Surface) Tool() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tool
}

func (s *Surface) SetTool(tool string) error {
	if !ValidTool(tool) {
		return fmt.Errorf("%w: %q", ErrUnknownTool, tool)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tool = tool
	return nil
}

func (s *Surface) Scale() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scale
}

func (s *Surface) SetScale(scale float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scale = scale
}

func (s *Surface) Offset() models.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offset
}

func (s *Surface) SetOffset(p models.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offset = p
}

func (s *Surface) Clear(ctx context.Context) error {
	return s.board.Clear(ctx, s.userID)
}

// Viewport turns pointer, wheel and toolbar input into scale and offset
// changes on an InkingManager.
type Viewport struct {
	ink InkingManager

	mu      sync.Mutex
	panning bool
	lastX   float64
	lastY   float64
}

func NewViewport(ink InkingManager) *Viewport {
	return &Viewport{ink: ink}
}

func (v *Viewport) Ink() InkingManager { return v.ink }

// PointerDown starts a pan when the middle button is pressed.
func (v *Viewport) PointerDown(button int, x, y float64) {
	if button != MiddleButton {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.panning = true
	v.lastX, v.lastY = x, y
}

// PointerMove pans by the pointer delta while panning.
func (v *Viewport) PointerMove(x, y float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.panning {
		return
	}
	off := v.ink.Offset()
	v.ink.SetOffset(models.Point{X: off.X + x - v.lastX, Y: off.Y + y - v.lastY})
	v.lastX, v.lastY = x, y
}

func (v *Viewport) PointerUp(button int) {
	if button != MiddleButton {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.panning = false
}

func (v *Viewport) Panning() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.panning
}

// Wheel zooms only with ctrl or meta held: scrolling up zooms in.
// It reports whether the event was consumed.
func (v *Viewport) Wheel(deltaY float64, ctrl bool) bool {
	if !ctrl {
		return false
	}
	step := -ZoomStep
	if deltaY < 0 {
		step = ZoomStep
	}
	v.ink.SetScale(math.Max(MinScale, round(v.ink.Scale()+step)))
	return true
}

func (v *Viewport) ZoomIn() {
	v.ink.SetScale(round(v.ink.Scale() + ZoomStep))
}

func (v *Viewport) ZoomOut() {
	if s := v.ink.Scale(); s > MinScale {
		v.ink.SetScale(round(s - ZoomStep))
	}
}

func (v *Viewport) Reset() {
	v.ink.SetScale(1)
	v.ink.SetOffset(models.Point{})
}

func (v *Viewport) Pan(d Direction, amount float64) error {
	off := v.ink.Offset()
	switch d {
	case Up:
		off.Y -= amount
	case Down:
		off.Y += amount
	case Left:
		off.X -= amount
	case Right:
		off.X += amount
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDirection, d)
	}
	v.ink.SetOffset(off)
	return nil
}

// Apply dispatches a viewport request.
func (v *Viewport) Apply(req models.ViewportRequest) error {
	switch req.Action {
	case "pointer_down":
		v.PointerDown(req.Button, req.X, req.Y)
	case "pointer_move":
		v.PointerMove(req.X, req.Y)
	case "pointer_up":
		v.PointerUp(req.Button)
	case "wheel":
		v.Wheel(req.DeltaY, req.Ctrl)
	case "zoom_in":
		v.ZoomIn()
	case "zoom_out":
		v.ZoomOut()
	case "reset":
		v.Reset()
	case "pan":
		return v.Pan(Direction(req.Direction), req.Amount)
	case "tool":
		return v.ink.SetTool(req.Tool)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
	}
	return nil
}

// State reports the viewport as a response body.
func (v *Viewport) State() models.ViewportResponse {
	off := v.ink.Offset()
	return models.ViewportResponse{
		Tool:    v.ink.Tool(),
		Scale:   v.ink.Scale(),
		OffsetX: off.X,
		OffsetY: off.Y,
		Panning: v.Panning(),
	}
}

// round to two decimals so repeated 0.1 steps land on exact values
func round(f float64) float64 {
	return math.Round(f*100) / 100
}
