// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Huddle API.

# Handler Types

  - SessionHandler: Sessions, joining, participant context and themes
  - PollHandler: Poll lifecycle, votes and results
  - CalendarHandler: Events, occurrences and iCalendar import/export
  - CanvasHandler: Shared strokes and per-participant viewports
  - CardHandler: Adaptive card templates for dialogs
  - SyncHandler: Websocket stream of live state

Feature handlers share a Scope, which resolves the session and the caller
and attaches the session's live containers:

	scope := handlers.NewScope(store, hub, resolver)
	pollHandler := handlers.NewPollHandler(scope)

# Participants

Callers identify themselves with the X-Participant-ID and
X-Participant-Token headers returned by JoinSession. X-Theme overrides the
stored theme for one request.

# Dialogs

Routes ending in /dialog take the raw result of a submitted card. The
result may be an object or a JSON string holding one. Invalid results are
answered with 400 and the rejection reason.

# Sync Stream

GET /sessions/{id}/sync upgrades to a websocket. The stream starts with one
stateChanged frame per container, followed by every later change, custom
events and the caller's own theme changes. ?codec=cbor switches frames from
JSON text to CBOR binary messages.
*/
package handlers
