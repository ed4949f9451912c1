// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package calendar

import (
	"time"

	"github.com/danielhkuo/huddle/dialog"
	"github.com/danielhkuo/huddle/models"
)

const ActionCreateEvent = "createEvent"

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// CreateEventCard collects a title, optional description, a date and a
// start and end time on that date.
func CreateEventCard() dialog.Card {
	title := dialog.TextInput("title", "Title", true)
	title.Placeholder = "Enter event title"

	description := dialog.TextInput("description", "Description", false)
	description.Placeholder = "Enter event description (optional)"
	description.IsMultiline = true

	return dialog.NewCard(
		[]dialog.Element{
			dialog.Heading("Create New Event"),
			title,
			description,
			{Type: "Input.Date", ID: "date", Label: "Date", IsRequired: true},
			{Type: "Input.Time", ID: "startTime", Label: "Start Time", IsRequired: true},
			{Type: "Input.Time", ID: "endTime", Label: "End Time", IsRequired: true},
		},
		dialog.Submit("Create Event", ActionCreateEvent),
	)
}

type CreateEventResult struct {
	Action      string `json:"action"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
}

// ParseCreateEventResult validates a create-event card result. Date and
// times are interpreted in loc.
func ParseCreateEventResult(raw []byte, loc *time.Location) (models.CreateEventRequest, error) {
	var res CreateEventResult
	if err := dialog.Decode(raw, &res); err != nil {
		return models.CreateEventRequest{}, err
	}
	if err := dialog.ExpectAction(res.Action, ActionCreateEvent); err != nil {
		return models.CreateEventRequest{}, err
	}
	title, err := dialog.Required("title", res.Title)
	if err != nil {
		return models.CreateEventRequest{}, err
	}
	date, err := dialog.Required("date", res.Date)
	if err != nil {
		return models.CreateEventRequest{}, err
	}
	startTime, err := dialog.Required("startTime", res.StartTime)
	if err != nil {
		return models.CreateEventRequest{}, err
	}
	endTime, err := dialog.Required("endTime", res.EndTime)
	if err != nil {
		return models.CreateEventRequest{}, err
	}

	if loc == nil {
		loc = time.UTC
	}
	start, err := time.ParseInLocation(dateLayout+" "+timeLayout, date+" "+startTime, loc)
	if err != nil {
		return models.CreateEventRequest{}, dialog.Reject("invalid start: %v", err)
	}
	end, err := time.ParseInLocation(dateLayout+" "+timeLayout, date+" "+endTime, loc)
	if err != nil {
		return models.CreateEventRequest{}, dialog.Reject("invalid end: %v", err)
	}
	if end.Before(start) {
		return models.CreateEventRequest{}, dialog.Reject("end time is before start time")
	}

	return models.CreateEventRequest{
		Title:       title,
		Description: res.Description,
		StartDate:   start,
		EndDate:     end,
	}, nil
}
