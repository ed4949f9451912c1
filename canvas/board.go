// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package canvas

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/huddle/host"
	"github.com/danielhkuo/huddle/livestate"
	"github.com/danielhkuo/huddle/models"
)

const (
	defaultColor = "#000000"
	defaultWidth = 2
)

var (
	ErrUnknownTool  = errors.New("unknown inking tool")
	ErrNoPoints     = errors.New("stroke has no points")
	ErrNotDrawable  = errors.New("tool does not draw strokes")
	ErrInvalidWidth = errors.New("stroke width must be positive")
)

// ValidTool reports whether tool is one of the inking tools.
func ValidTool(tool string) bool {
	switch tool {
	case models.ToolPen, models.ToolLaserPointer, models.ToolHighlighter, models.ToolEraser:
		return true
	}
	return false
}

// Board is the shared ink of a session, stored in the LIVE-CANVAS container.
type Board struct {
	strokes *livestate.Container[models.Stroke]
	newID   func() string
	now     func() time.Time
}

func NewBoard(strokes *livestate.Container[models.Stroke]) *Board {
	return &Board{strokes: strokes, newID: uuid.NewString, now: time.Now}
}

func (b *Board) check(userID string) error {
	if b == nil || b.strokes == nil {
		return livestate.ErrNotAttached
	}
	if userID == "" {
		return host.ErrNoParticipant
	}
	return nil
}

func (b *Board) Strokes() ([]models.Stroke, error) {
	if b == nil || b.strokes == nil {
		return nil, livestate.ErrNotAttached
	}
	return b.strokes.State(), nil
}

// AddStroke appends a finished stroke. The eraser does not draw.
func (b *Board) AddStroke(ctx context.Context, userID string, req models.AddStrokeRequest) (models.Stroke, error) {
	if err := b.check(userID); err != nil {
		return models.Stroke{}, err
	}
	if !ValidTool(req.Tool) {
		return models.Stroke{}, ErrUnknownTool
	}
	if req.Tool == models.ToolEraser {
		return models.Stroke{}, ErrNotDrawable
	}
	if len(req.Points) == 0 {
		return models.Stroke{}, ErrNoPoints
	}
	if req.Width < 0 {
		return models.Stroke{}, ErrInvalidWidth
	}

	s := models.Stroke{
		ID:        b.newID(),
		Tool:      req.Tool,
		Color:     req.Color,
		Width:     req.Width,
		Points:    slices.Clone(req.Points),
		CreatedBy: userID,
		CreatedAt: b.now().UnixMilli(),
	}
	if s.Color == "" {
		s.Color = defaultColor
	}
	if s.Width == 0 {
		s.Width = defaultWidth
	}

	_, err := b.strokes.Update(ctx, func(cur []models.Stroke) ([]models.Stroke, error) {
		return append(cur, s), nil
	})
	if err != nil {
		return models.Stroke{}, err
	}
	b.strokes.Emit(models.EventStrokeAdded, s)
	return s, nil
}

// Clear removes every stroke for every participant.
func (b *Board) Clear(ctx context.Context, userID string) error {
	if err := b.check(userID); err != nil {
		return err
	}
	if err := b.strokes.Set(ctx, []models.Stroke{}); err != nil {
		return err
	}
	b.strokes.Emit(models.EventCanvasCleared, userID)
	slog.Info("canvas cleared", "cleared_by", userID)
	return nil
}
