// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/huddle/canvas"
	"github.com/danielhkuo/huddle/cliparse"
	"github.com/danielhkuo/huddle/db"
	"github.com/danielhkuo/huddle/host"
	"github.com/danielhkuo/huddle/livestate"
	"github.com/danielhkuo/huddle/testutil"
)

// testEnv is one session backed by an in-memory database
type testEnv struct {
	store     *db.Store
	hub       *livestate.Hub
	cfg       cliparse.Config
	scope     *Scope
	watcher   *host.Watcher
	sessionID string
	joinCode  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	hub := livestate.NewHub(store)
	sessionID, joinCode := testutil.CreateTestSession(t, store, cfg)

	return &testEnv{
		store:     store,
		hub:       hub,
		cfg:       cfg,
		scope:     NewScope(store, hub, host.NewResolver(store, cfg.ParticipantTokenSalt)),
		watcher:   host.NewWatcher(),
		sessionID: sessionID,
		joinCode:  joinCode,
	}
}

func (e *testEnv) join(t *testing.T, userID string) map[string]string {
	t.Helper()
	return testutil.JoinTestParticipant(t, e.store, e.cfg, e.sessionID, userID)
}

func (e *testEnv) sessions() *SessionHandler {
	return NewSessionHandler(e.store, e.scope, e.watcher, e.cfg)
}

func (e *testEnv) polls() *PollHandler { return NewPollHandler(e.scope) }

func (e *testEnv) calendar() *CalendarHandler { return NewCalendarHandler(e.scope, e.cfg) }

func (e *testEnv) canvas(viewports *canvas.Viewports) *CanvasHandler {
	return NewCanvasHandler(e.scope, viewports)
}

// serve runs handler on a request for the session, with extra path values
// given as name, value pairs
func (e *testEnv) serve(handler http.HandlerFunc, method, path string, body any, headers map[string]string, pathValues ...string) *httptest.ResponseRecorder {
	req := testutil.MakeRequest(method, path, body, headers)
	req.SetPathValue("id", e.sessionID)
	for i := 0; i+1 < len(pathValues); i += 2 {
		req.SetPathValue(pathValues[i], pathValues[i+1])
	}
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}
