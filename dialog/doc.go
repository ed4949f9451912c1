// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package dialog builds adaptive cards for the host's structured dialogs and
validates what comes back.

Results arrive either as a JSON object or as a string containing one.
Decode accepts both and returns a *Rejection for anything else:

	var res poll.CreatePollResult
	if err := dialog.Decode(body, &res); err != nil {
		// err is a *dialog.Rejection
	}

Feature packages own their card layouts and result types; this package only
provides the card model and the parse helpers.
*/
package dialog
