// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package host models the meeting host's view of a participant: who they are,
which session they are in, and the theme their client renders with.

Theme names map to UI themes:

	default  → teamsTheme
	dark     → teamsDarkTheme
	contrast → teamsHighContrastTheme

Watcher replaces the host SDK's theme-change handler registration. Register
returns a func that removes the handler.

Resolver authenticates HTTP callers from the X-Participant-ID and
X-Participant-Token headers issued by the join endpoint.
*/
package host
