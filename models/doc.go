// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

Entities held in shared containers (each has an EntityID method):

  - Poll: question, positional options, per-participant vote map
  - Event: calendar entry with start/end, optional color and RRULE
  - Stroke: inking stroke drawn on the shared canvas

Session bookkeeping:

  - Session: meeting session with join code
  - Participant: host user attached to a session, with theme

# Container Keys

Every participant in a session attaches to the same container per feature:

	PollKey     = "LIVE-POLL"
	CalendarKey = "LIVE-CALENDAR"
	CanvasKey   = "LIVE-CANVAS"

# Notification Events

Secondary events emitted on a container after a successful write:

	EventNewPollCreated = "newPollCreated"
	EventPollVoted      = "pollVoted"

and so on for close, delete, calendar and canvas changes.

# Request / Response Types

  - CreateSessionRequest / CreateSessionResponse
  - JoinSessionRequest / JoinSessionResponse
  - CreatePollRequest, VoteRequest, PollResults
  - CreateEventRequest, Occurrence
  - AddStrokeRequest, ViewportRequest / ViewportResponse
  - ErrorResponse: error, message
*/
package models
