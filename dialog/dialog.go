// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package dialog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Rejection is returned when a dialog result cannot be turned into a typed
// value. Reason is safe to show to the participant.
type Rejection struct {
	Reason string
}

func (r *Rejection) Error() string {
	return "dialog result rejected: " + r.Reason
}

// Reject builds a Rejection with a formatted reason.
func Reject(format string, args ...any) *Rejection {
	return &Rejection{Reason: fmt.Sprintf(format, args...)}
}

// IsRejection reports whether err carries a Rejection and returns it.
func IsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

// Decode unmarshals a dialog result into v. Hosts hand results back either
// as a JSON object or as a string holding the JSON object; both are accepted.
func Decode(raw []byte, v any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Reject("empty result")
	}

	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return Reject("malformed string result: %v", err)
		}
		raw = []byte(strings.TrimSpace(inner))
		if len(raw) == 0 {
			return Reject("empty result")
		}
	}

	if raw[0] != '{' {
		return Reject("result is not an object")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return Reject("malformed result: %v", err)
	}
	return nil
}

// Required trims s and rejects it when empty.
func Required(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", Reject("%s is required", field)
	}
	return s, nil
}

// ExpectAction rejects results submitted by a different card action.
func ExpectAction(got, want string) error {
	if got != want {
		return Reject("unexpected action %q, want %q", got, want)
	}
	return nil
}

// ParseToggle reads an Input.Toggle value using the card's valueOn/valueOff.
func ParseToggle(field, v string) (bool, error) {
	switch v {
	case ToggleOn:
		return true, nil
	case ToggleOff, "":
		return false, nil
	default:
		return false, Reject("%s must be %q or %q", field, ToggleOn, ToggleOff)
	}
}
