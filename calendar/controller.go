// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package calendar

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/huddle/host"
	"github.com/danielhkuo/huddle/livestate"
	"github.com/danielhkuo/huddle/models"
)

// Palette is the set of colors assigned to events created without one.
var Palette = []string{
	"#0078D4", // blue
	"#107C10", // green
	"#E81123", // red
	"#FF8C00", // orange
	"#5C2D91", // purple
	"#008272", // teal
}

// Controller applies calendar writes to a session's LIVE-CALENDAR container.
type Controller struct {
	events *livestate.Container[models.Event]
	newID  func() string
	now    func() time.Time
	color  func() string
}

func NewController(events *livestate.Container[models.Event]) *Controller {
	return &Controller{
		events: events,
		newID:  uuid.NewString,
		now:    time.Now,
		color:  func() string { return Palette[rand.N(len(Palette))] },
	}
}

func (c *Controller) check(userID string) error {
	if c == nil || c.events == nil {
		return livestate.ErrNotAttached
	}
	if userID == "" {
		return host.ErrNoParticipant
	}
	return nil
}

// List returns the events of a view, ordered by start date.
func (c *Controller) List(view string) ([]models.Event, error) {
	if c == nil || c.events == nil {
		return nil, livestate.ErrNotAttached
	}
	return Filter(c.events.State(), view, c.now())
}

// Get returns one event by id.
func (c *Controller) Get(eventID string) (models.Event, error) {
	if c == nil || c.events == nil {
		return models.Event{}, livestate.ErrNotAttached
	}
	e, ok := Find(c.events.State(), eventID)
	if !ok {
		return models.Event{}, ErrEventNotFound
	}
	return e, nil
}

// Occurrences expands the calendar between from and to, at most
// MaxOccurrenceWindow apart.
func (c *Controller) Occurrences(from, to time.Time) ([]models.Occurrence, error) {
	if c == nil || c.events == nil {
		return nil, livestate.ErrNotAttached
	}
	if to.Before(from) {
		return nil, ErrInvalidRange
	}
	if to.Sub(from) > MaxOccurrenceWindow {
		return nil, ErrWindowTooLarge
	}
	return Occurrences(c.events.State(), from, to), nil
}

// Create appends a new event. Events without a color get one from Palette.
func (c *Controller) Create(ctx context.Context, userID string, req models.CreateEventRequest) (models.Event, error) {
	if err := c.check(userID); err != nil {
		return models.Event{}, err
	}
	if req.Color == "" {
		req.Color = c.color()
	}
	e, err := NewEvent(c.newID(), req, userID, c.now().UnixMilli())
	if err != nil {
		return models.Event{}, err
	}

	next, err := c.events.Update(ctx, func(cur []models.Event) ([]models.Event, error) {
		return ApplyCreate(cur, e), nil
	})
	if err != nil {
		return models.Event{}, err
	}

	c.events.Emit(models.EventEventCreated, next)
	slog.Info("event created", "event_id", e.ID, "created_by", userID)
	return e, nil
}

// Delete removes an event. Any participant may delete.
func (c *Controller) Delete(ctx context.Context, userID, eventID string) error {
	if err := c.check(userID); err != nil {
		return err
	}

	next, err := c.events.Update(ctx, func(cur []models.Event) ([]models.Event, error) {
		return ApplyDelete(cur, eventID), nil
	})
	if err != nil {
		return err
	}

	c.events.Emit(models.EventEventDeleted, next)
	slog.Info("event deleted", "event_id", eventID, "deleted_by", userID)
	return nil
}

// Import creates one event per VEVENT of an iCalendar feed in a single
// write. The whole feed is rejected if any event is invalid.
func (c *Controller) Import(ctx context.Context, userID string, r io.Reader) ([]models.Event, error) {
	if err := c.check(userID); err != nil {
		return nil, err
	}
	reqs, err := ImportICS(r)
	if err != nil {
		return nil, err
	}

	now := c.now().UnixMilli()
	created := make([]models.Event, 0, len(reqs))
	for i, req := range reqs {
		if req.Color == "" {
			req.Color = c.color()
		}
		e, err := NewEvent(c.newID(), req, userID, now)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i+1, err)
		}
		created = append(created, e)
	}

	next, err := c.events.Update(ctx, func(cur []models.Event) ([]models.Event, error) {
		for _, e := range created {
			cur = ApplyCreate(cur, e)
		}
		return cur, nil
	})
	if err != nil {
		return nil, err
	}

	c.events.Emit(models.EventEventCreated, next)
	slog.Info("calendar imported", "events", len(created), "imported_by", userID)
	return created, nil
}
