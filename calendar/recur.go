// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package calendar

import (
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/danielhkuo/huddle/models"
)

const (
	// caps runaway rules such as FREQ=SECONDLY
	maxOccurrencesPerEvent = 500
	// bounds the walk over occurrences that end before the window
	maxRecurrenceSteps = 100_000

	MaxOccurrenceWindow = 366 * 24 * time.Hour
)

var ErrWindowTooLarge = errors.New("occurrence window is longer than 366 days")

func normalizeRule(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 6 && strings.EqualFold(s[:6], "RRULE:") {
		s = s[6:]
	}
	return s
}

func parseRule(rule string, start time.Time) (*rrule.RRule, error) {
	r, err := rrule.StrToRRule(rule)
	if err != nil {
		return nil, err
	}
	r.DTStart(start)
	return r, nil
}

// Occurrences expands events into concrete occurrences overlapping
// [from, to], sorted by start. Recurring events keep their duration.
func Occurrences(events []models.Event, from, to time.Time) []models.Occurrence {
	out := make([]models.Occurrence, 0)
	for _, e := range events {
		if e.Recurrence == "" {
			if !e.EndDate.Before(from) && !e.StartDate.After(to) {
				out = append(out, occurrence(e, e.StartDate, e.EndDate))
			}
			continue
		}

		r, err := parseRule(e.Recurrence, e.StartDate)
		if err != nil {
			slog.Warn("skipping event with bad recurrence", "event_id", e.ID, "rrule", e.Recurrence, "error", err)
			continue
		}

		duration := e.EndDate.Sub(e.StartDate)
		starts, truncated := expand(r, from, to, duration)
		if truncated {
			slog.Warn("recurrence truncated", "event_id", e.ID, "occurrences", len(starts))
		}
		for _, start := range starts {
			out = append(out, occurrence(e, start, start.Add(duration)))
		}
	}

	slices.SortStableFunc(out, func(a, b models.Occurrence) int {
		return a.StartDate.Compare(b.StartDate)
	})
	return out
}

// expand walks the rule up to to. Occurrences that started before from but
// are still running are included.
func expand(r *rrule.RRule, from, to time.Time, duration time.Duration) (starts []time.Time, truncated bool) {
	next := r.Iterator()
	lower := from.Add(-duration)
	for range maxRecurrenceSteps {
		start, ok := next()
		if !ok || start.After(to) {
			return starts, false
		}
		if start.Before(lower) {
			continue
		}
		if len(starts) == maxOccurrencesPerEvent {
			return starts, true
		}
		starts = append(starts, start)
	}
	return starts, true
}

func occurrence(e models.Event, start, end time.Time) models.Occurrence {
	return models.Occurrence{
		EventID:   e.ID,
		Title:     e.Title,
		Color:     e.Color,
		StartDate: start,
		EndDate:   end,
	}
}
