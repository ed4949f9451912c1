// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package calendar

import (
	"errors"
	"slices"
	"time"

	"github.com/danielhkuo/huddle/models"
)

var ErrUnknownView = errors.New("unknown calendar view")

// Filter returns the events for a view, ordered by start date. "upcoming"
// keeps events starting at or after now; "all" (or empty) keeps everything.
func Filter(events []models.Event, view string, now time.Time) ([]models.Event, error) {
	var out []models.Event
	switch view {
	case "", models.ViewAll:
		out = slices.Clone(events)
	case models.ViewUpcoming:
		out = make([]models.Event, 0, len(events))
		for _, e := range events {
			if !e.StartDate.Before(now) {
				out = append(out, e)
			}
		}
	default:
		return nil, ErrUnknownView
	}

	slices.SortStableFunc(out, func(a, b models.Event) int {
		return a.StartDate.Compare(b.StartDate)
	})
	if out == nil {
		out = []models.Event{}
	}
	return out, nil
}
