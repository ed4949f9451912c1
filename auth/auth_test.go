// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	tests := []struct {
		name    string
		byteLen int
		wantLen int
	}{
		{"8 bytes", 8, 16},
		{"16 bytes", 16, 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := GenerateID(tt.byteLen)
			if err != nil {
				t.Fatalf("GenerateID() error = %v", err)
			}
			if len(id) != tt.wantLen {
				t.Errorf("GenerateID() length = %d, want %d", len(id), tt.wantLen)
			}
		})
	}

	id1, _ := GenerateID(16)
	id2, _ := GenerateID(16)
	if id1 == id2 {
		t.Error("GenerateID() produced duplicate IDs (extremely unlikely)")
	}
}

func TestParticipantToken(t *testing.T) {
	token := GenerateParticipantToken("session1", "alice", "salt")

	if token == "" {
		t.Fatal("GenerateParticipantToken() returned empty string")
	}
	if strings.ContainsAny(token, "+/=") {
		t.Errorf("Token is not URL-safe: %s", token)
	}
	if token != GenerateParticipantToken("session1", "alice", "salt") {
		t.Error("GenerateParticipantToken() is not deterministic")
	}

	tests := []struct {
		name      string
		sessionID string
		userID    string
		token     string
		salt      string
		wantErr   bool
	}{
		{"valid", "session1", "alice", token, "salt", false},
		{"other user", "session1", "bob", token, "salt", true},
		{"other session", "session2", "alice", token, "salt", true},
		{"other salt", "session1", "alice", token, "pepper", true},
		{"empty token", "session1", "alice", "", "salt", true},
		// the separator keeps ("ab","c") and ("a","bc") apart
		{"shifted boundary", "session1a", "lice", token, "salt", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateParticipantToken(tt.sessionID, tt.userID, tt.token, tt.salt)
			if tt.wantErr && !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Expected ErrInvalidToken, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestGenerateJoinCode(t *testing.T) {
	code := GenerateJoinCode("session1", "salt")
	if code == "" || len(code) > 11 {
		t.Errorf("Unexpected join code length: %q", code)
	}
	for _, c := range code {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
			t.Errorf("Join code contains non-base62 char: %c", c)
		}
	}
	if code != GenerateJoinCode("session1", "salt") {
		t.Error("GenerateJoinCode() is not deterministic")
	}
	if code == GenerateJoinCode("session2", "salt") {
		t.Error("Different sessions produced the same join code")
	}
}

func TestBase62Encode(t *testing.T) {
	tests := []struct {
		in   []byte
		want string
	}{
		{[]byte{0}, "0"},
		{[]byte{61}, "Z"},
		{[]byte{62}, "10"},
	}
	for _, tt := range tests {
		if got := base62Encode(tt.in); got != tt.want {
			t.Errorf("base62Encode(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
