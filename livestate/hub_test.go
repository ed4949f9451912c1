// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package livestate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/huddle/models"
)

type memoryStore struct {
	mu    sync.Mutex
	snaps map[string]map[string]Snapshot
	saves int
	fail  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{snaps: make(map[string]map[string]Snapshot)}
}

func (m *memoryStore) SaveSnapshot(ctx context.Context, s Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	if m.snaps[s.SessionID] == nil {
		m.snaps[s.SessionID] = make(map[string]Snapshot)
	}
	m.snaps[s.SessionID][s.Key] = s
	m.saves++
	return nil
}

func (m *memoryStore) LoadSnapshots(ctx context.Context, sessionID string) ([]Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Snapshot
	for _, s := range m.snaps[sessionID] {
		out = append(out, s)
	}
	return out, nil
}

func TestHubSessionIsShared(t *testing.T) {
	hub := NewHub(nil)
	ctx := context.Background()

	a, err := hub.Session(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	b, err := hub.Session(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("Expected the same live session for the same id")
	}
	if a.Polls.Key() != models.PollKey || a.Calendar.Key() != models.CalendarKey || a.Canvas.Key() != models.CanvasKey {
		t.Error("Unexpected container keys")
	}

	if _, ok := hub.Lookup("s2"); ok {
		t.Error("Lookup must not create sessions")
	}
	if evicted, err := hub.EvictIdle(ctx, 0); err != nil || len(evicted) != 0 {
		t.Errorf("Memory-only hub must keep its sessions, evicted %v (%v)", evicted, err)
	}
}

func TestHubEvictIdle(t *testing.T) {
	store := newMemoryStore()
	ctx := context.Background()
	hub := NewHub(store)
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	hub.now = func() time.Time { return now }

	var dropped []string
	hub.OnEvict(func(id string) { dropped = append(dropped, id) })

	quiet, _ := hub.Session(ctx, "quiet")
	if err := quiet.Polls.Initialize(ctx, []models.Poll{{ID: "p1", Question: "Lunch?", IsOpen: true}}); err != nil {
		t.Fatal(err)
	}
	watched, _ := hub.Session(ctx, "watched")
	unsubscribe := watched.Canvas.Subscribe(func(StateChange[models.Stroke]) {})
	defer unsubscribe()

	now = now.Add(10 * time.Minute)
	if _, err := hub.Session(ctx, "busy"); err != nil {
		t.Fatal(err)
	}

	evicted, err := hub.EvictIdle(ctx, 5*time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if len(evicted) != 1 || evicted[0] != "quiet" {
		t.Fatalf("Expected only the quiet session to be evicted, got %v", evicted)
	}
	if len(dropped) != 1 || dropped[0] != "quiet" {
		t.Errorf("Expected eviction callback for quiet, got %v", dropped)
	}
	if _, ok := hub.Lookup("quiet"); ok {
		t.Error("Evicted session is still live")
	}
	for _, id := range []string{"watched", "busy"} {
		if _, ok := hub.Lookup(id); !ok {
			t.Errorf("Session %s should stay live", id)
		}
	}

	// evicted state is written before it is forgotten
	back, err := hub.Session(ctx, "quiet")
	if err != nil {
		t.Fatal(err)
	}
	if back == quiet {
		t.Error("Expected a fresh session after eviction")
	}
	if got := back.Polls.State(); len(got) != 1 || got[0].Question != "Lunch?" {
		t.Errorf("Unexpected restored polls: %+v", got)
	}
}

func TestHubEvictKeepsUnsavedSessions(t *testing.T) {
	store := newMemoryStore()
	store.fail = errors.New("disk full")
	ctx := context.Background()
	hub := NewHub(store)
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	hub.now = func() time.Time { return now }

	s, _ := hub.Session(ctx, "s1")
	if err := s.Calendar.Initialize(ctx, []models.Event{}); err != nil {
		t.Fatal(err)
	}
	now = now.Add(time.Hour)

	evicted, err := hub.EvictIdle(ctx, time.Minute)
	if err == nil {
		t.Error("Expected the failed flush to surface")
	}
	if len(evicted) != 0 {
		t.Errorf("Expected no eviction without a saved snapshot, got %v", evicted)
	}
	if _, ok := hub.Lookup("s1"); !ok {
		t.Error("Unsaved session must stay live")
	}
}

func TestHubFlushAndRestore(t *testing.T) {
	store := newMemoryStore()
	ctx := context.Background()

	hub := NewHub(store)
	s, err := hub.Session(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Polls.Initialize(ctx, []models.Poll{}); err != nil {
		t.Fatal(err)
	}
	poll := models.Poll{
		ID:       "p1",
		Question: "Lunch?",
		Options:  []models.PollOption{{ID: "o1", Text: "Pizza"}, {ID: "o2", Text: "Sushi"}},
		Votes:    models.VoteMap{"u1": {"o1"}},
		IsOpen:   true,
	}
	if err := s.Polls.Set(ctx, []models.Poll{poll}); err != nil {
		t.Fatal(err)
	}

	if err := hub.Flush(ctx); err != nil {
		t.Fatal(err)
	}
	if store.saves != 1 {
		t.Errorf("Expected 1 save (only polls changed), got %d", store.saves)
	}

	// no change, no write
	if err := hub.Flush(ctx); err != nil {
		t.Fatal(err)
	}
	if store.saves != 1 {
		t.Errorf("Expected flush to skip unchanged containers, got %d saves", store.saves)
	}

	restarted := NewHub(store)
	r, err := restarted.Session(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if r.Polls.InitializeState() != Initialized {
		t.Error("Restored polls container should be initialized")
	}
	if r.Calendar.InitializeState() != InitializeNeeded {
		t.Error("Calendar was never written and should need initialization")
	}
	got := r.Polls.State()
	if len(got) != 1 || got[0].Question != "Lunch?" || got[0].Votes["u1"][0] != "o1" {
		t.Errorf("Unexpected restored polls: %+v", got)
	}
}

func TestHubFlushError(t *testing.T) {
	store := newMemoryStore()
	store.fail = errors.New("disk full")
	ctx := context.Background()

	hub := NewHub(store)
	s, _ := hub.Session(ctx, "s1")
	if err := s.Canvas.Initialize(ctx, []models.Stroke{}); err != nil {
		t.Fatal(err)
	}

	if err := hub.Flush(ctx); err == nil {
		t.Error("Expected flush error to surface")
	}

	// failed containers are retried on the next flush
	store.fail = nil
	if err := hub.Flush(ctx); err != nil {
		t.Fatal(err)
	}
	if store.saves != 1 {
		t.Errorf("Expected retry to save, got %d saves", store.saves)
	}
}

func TestFlusher(t *testing.T) {
	store := newMemoryStore()
	ctx := context.Background()
	hub := NewHub(store)
	s, _ := hub.Session(ctx, "s1")
	if err := s.Calendar.Initialize(ctx, []models.Event{}); err != nil {
		t.Fatal(err)
	}

	if _, err := NewFlusher(hub, "not a schedule"); err == nil {
		t.Error("Expected invalid schedule error")
	}

	f, err := NewFlusher(hub, "@every 1h")
	if err != nil {
		t.Fatal(err)
	}
	f.Start()

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := f.Stop(stopCtx); err != nil {
		t.Fatal(err)
	}
	if store.saves != 1 {
		t.Errorf("Expected final flush on stop, got %d saves", store.saves)
	}
}

func TestFlusherEvictsIdleSessions(t *testing.T) {
	store := newMemoryStore()
	ctx := context.Background()
	hub := NewHub(store)
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	hub.now = func() time.Time { return now }
	s, _ := hub.Session(ctx, "s1")
	if err := s.Canvas.Initialize(ctx, []models.Stroke{}); err != nil {
		t.Fatal(err)
	}

	f, err := NewFlusher(hub, "@every 1h")
	if err != nil {
		t.Fatal(err)
	}
	f.run()
	if _, ok := hub.Lookup("s1"); !ok {
		t.Fatal("Recently used session should survive a flush")
	}

	now = now.Add(SessionIdleTimeout + time.Second)
	f.run()
	if _, ok := hub.Lookup("s1"); ok {
		t.Error("Expected idle session to be evicted")
	}
	if store.saves != 1 {
		t.Errorf("Expected 1 save, got %d", store.saves)
	}
}
