// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package calendar

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/danielhkuo/huddle/models"
)

const productID = "-//huddle//shared calendar//EN"

var ErrInvalidFeed = errors.New("invalid iCalendar feed")

// ExportICS writes the events as an iCalendar feed.
func ExportICS(w io.Writer, name string, events []models.Event, now time.Time) error {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	if name != "" {
		cal.SetName(name)
	}

	for _, e := range events {
		ve := cal.AddEvent(e.ID)
		ve.SetDtStampTime(now)
		ve.SetCreatedTime(time.UnixMilli(e.CreatedAt))
		ve.SetStartAt(e.StartDate)
		ve.SetEndAt(e.EndDate)
		ve.SetSummary(e.Title)
		if e.Description != "" {
			ve.SetDescription(e.Description)
		}
		if e.Color != "" {
			ve.SetColor(e.Color)
		}
		if e.Recurrence != "" {
			ve.AddRrule(e.Recurrence)
		}
	}

	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return fmt.Errorf("failed to write calendar: %w", err)
	}
	return nil
}

// ImportICS reads the VEVENTs of an iCalendar feed as create requests.
// Events without a start are skipped.
func ImportICS(r io.Reader) ([]models.CreateEventRequest, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFeed, err)
	}

	out := make([]models.CreateEventRequest, 0)
	for _, ve := range cal.Events() {
		start, err := ve.GetStartAt()
		if err != nil {
			slog.Warn("skipping event without start", "error", err)
			continue
		}
		end, err := ve.GetEndAt()
		if err != nil {
			end = start
		}

		req := models.CreateEventRequest{StartDate: start, EndDate: end}
		if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
			req.Title = p.Value
		}
		if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
			req.Description = p.Value
		}
		if p := ve.GetProperty(ical.ComponentPropertyColor); p != nil {
			req.Color = p.Value
		}
		if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
			req.Recurrence = p.Value
		}
		out = append(out, req)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no events", ErrInvalidFeed)
	}
	return out, nil
}
