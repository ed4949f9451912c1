// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth issues the credentials participants use against a session.

# Participant Tokens

Tokens are HMAC-SHA256 over the session id and the participant id:

	token := auth.GenerateParticipantToken(sessionID, userID, salt)
	err := auth.ValidateParticipantToken(sessionID, userID, token, salt)

The token is URL-safe base64 without padding. It is returned once by the
join endpoint and sent back in the X-Participant-Token header. Since it is
deterministic, validation needs no database lookup.

# Join Codes

Join codes are short base62 strings derived from the session id:

	code := auth.GenerateJoinCode(sessionID, salt)

# ID Generation

Random hex IDs for sessions:

	id, err := auth.GenerateID(8)  // 16 hex characters
*/
package auth
