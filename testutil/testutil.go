// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/huddle/auth"
	"github.com/danielhkuo/huddle/cliparse"
	"github.com/danielhkuo/huddle/db"
	"github.com/danielhkuo/huddle/host"
	"github.com/danielhkuo/huddle/models"
)

// TestDBURL is an in-memory sqlite database, private to one connection
const TestDBURL = ":memory:"

// SetupTestDB creates a fresh test database with the full schema
func SetupTestDB(t *testing.T) *db.Store {
	t.Helper()

	conn, err := db.Open(context.Background(), "sqlite", TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return db.NewStore(conn)
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:                 cliparse.DefaultPort,
		DatabaseURL:          TestDBURL,
		DatabaseType:         "sqlite",
		ParticipantTokenSalt: "test-token-salt",
		JoinCodeSalt:         "test-code-salt",
		SnapshotSchedule:     cliparse.DefaultSnapshotSchedule,
		Timezone:             "UTC",
	}
}

// CreateTestSession inserts a session and returns its id and join code
func CreateTestSession(t *testing.T, store *db.Store, cfg cliparse.Config) (sessionID, joinCode string) {
	t.Helper()

	sessionID, _ = auth.GenerateID(16)
	joinCode = auth.GenerateJoinCode(sessionID, cfg.JoinCodeSalt)

	err := store.CreateSession(context.Background(), models.Session{
		ID:        sessionID,
		Title:     "Test Meeting",
		JoinCode:  joinCode,
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}

	return sessionID, joinCode
}

// JoinTestParticipant joins userID to a session and returns the headers
// that authenticate it
func JoinTestParticipant(t *testing.T, store *db.Store, cfg cliparse.Config, sessionID, userID string) map[string]string {
	t.Helper()

	_, err := store.UpsertParticipant(context.Background(), models.Participant{
		SessionID: sessionID,
		UserID:    userID,
		Name:      userID,
		Theme:     string(host.ThemeDefault),
	})
	if err != nil {
		t.Fatalf("Failed to join test participant: %v", err)
	}

	return map[string]string{
		host.HeaderParticipantID:    userID,
		host.HeaderParticipantToken: auth.GenerateParticipantToken(sessionID, userID, cfg.ParticipantTokenSalt),
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body any, headers map[string]string) *http.Request {
	var req *http.Request
	switch b := body.(type) {
	case nil:
		req = httptest.NewRequest(method, path, nil)
	case string:
		req = httptest.NewRequest(method, path, bytes.NewReader([]byte(b)))
	default:
		jsonBody, _ := json.Marshal(b)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
