// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package calendar

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/danielhkuo/huddle/models"
)

var (
	ErrTitleRequired     = errors.New("title is required")
	ErrDatesRequired     = errors.New("start and end dates are required")
	ErrInvalidRange      = errors.New("event ends before it starts")
	ErrInvalidRecurrence = errors.New("invalid recurrence rule")
	ErrEventNotFound     = errors.New("event not found")
)

// NewEvent validates a create request and builds the event.
func NewEvent(id string, req models.CreateEventRequest, createdBy string, createdAt int64) (models.Event, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return models.Event{}, ErrTitleRequired
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return models.Event{}, ErrDatesRequired
	}
	if req.EndDate.Before(req.StartDate) {
		return models.Event{}, ErrInvalidRange
	}

	recurrence := normalizeRule(req.Recurrence)
	if recurrence != "" {
		if _, err := parseRule(recurrence, req.StartDate); err != nil {
			return models.Event{}, fmt.Errorf("%w: %v", ErrInvalidRecurrence, err)
		}
	}

	return models.Event{
		ID:          id,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		CreatedBy:   createdBy,
		CreatedAt:   createdAt,
		Color:       req.Color,
		Recurrence:  recurrence,
	}, nil
}

// ApplyCreate appends e. The input slice is never written to.
func ApplyCreate(events []models.Event, e models.Event) []models.Event {
	return append(slices.Clip(events), e)
}

// ApplyDelete removes the event with the given id; other events are left
// untouched. Unknown ids are a no-op.
func ApplyDelete(events []models.Event, eventID string) []models.Event {
	return slices.DeleteFunc(slices.Clone(events), func(e models.Event) bool {
		return e.ID == eventID
	})
}

func Find(events []models.Event, eventID string) (models.Event, bool) {
	i := slices.IndexFunc(events, func(e models.Event) bool { return e.ID == eventID })
	if i < 0 {
		return models.Event{}, false
	}
	return events[i], true
}
