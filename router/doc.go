// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Huddle API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(store, hub, cfg)

# Endpoints

Health:

	GET /health

Sessions:

	POST /sessions                   - Create session
	POST /sessions/{id}/join         - Join as participant
	GET  /sessions/{id}/participants - Roster
	GET  /sessions/{id}/context      - Caller's context
	PUT  /sessions/{id}/theme        - Change caller's theme
	GET  /join/{code}                - Look up session by join code

Polls (participant headers required):

	GET    /sessions/{id}/polls                         - Polls with results
	POST   /sessions/{id}/polls                         - Create poll
	POST   /sessions/{id}/polls/dialog                  - Create from card result
	POST   /sessions/{id}/polls/{pollID}/votes          - Vote
	POST   /sessions/{id}/polls/{pollID}/votes/dialog   - Vote from card result
	POST   /sessions/{id}/polls/{pollID}/close          - Close (creator only)
	DELETE /sessions/{id}/polls/{pollID}                - Delete
	GET    /sessions/{id}/polls/{pollID}/results        - Tally
	GET    /sessions/{id}/polls/{pollID}/card           - Vote card

Calendar:

	GET    /sessions/{id}/events                - List (?view=all|upcoming)
	POST   /sessions/{id}/events                - Create event
	POST   /sessions/{id}/events/dialog         - Create from card result
	GET    /sessions/{id}/events/{eventID}      - One event
	DELETE /sessions/{id}/events/{eventID}      - Delete
	GET    /sessions/{id}/events/occurrences    - Expand recurrences
	GET    /sessions/{id}/calendar.ics          - Export
	POST   /sessions/{id}/calendar.ics          - Import

Canvas:

	GET    /sessions/{id}/canvas/strokes   - List strokes
	POST   /sessions/{id}/canvas/strokes   - Add stroke
	DELETE /sessions/{id}/canvas/strokes   - Clear
	GET    /sessions/{id}/canvas/viewport  - Caller's viewport
	POST   /sessions/{id}/canvas/viewport  - Apply viewport action

Other:

	GET /sessions/{id}/cards/{name} - Dialog card template
	GET /sessions/{id}/sync         - Websocket stream

# Handler Initialization

The router creates one Scope and host.Watcher shared by all handlers, so a
theme change made through SessionHandler reaches open sync streams.
*/
package router
