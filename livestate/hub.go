// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package livestate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/danielhkuo/huddle/models"
)

// Snapshot is a persisted container document.
type Snapshot struct {
	SessionID string
	Key       string
	Version   uint64
	Document  []byte
}

// SnapshotStore persists container documents between process restarts.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, s Snapshot) error
	LoadSnapshots(ctx context.Context, sessionID string) ([]Snapshot, error)
}

// persistable is the non-generic face of a Container used for snapshots.
type persistable interface {
	Key() string
	Version() uint64
	Entries() ([]Entry, uint64, error)
	Restore(entries []Entry) error
	Subscribers() int
}

// Session holds the shared containers of one meeting session. It lives as
// long as the session; views and controllers only borrow it.
type Session struct {
	ID       string
	Polls    *Container[models.Poll]
	Calendar *Container[models.Event]
	Canvas   *Container[models.Stroke]

	flushMu sync.Mutex
	docs    map[string]*Document
	flushed map[string]uint64

	// last Hub.Session call, guarded by Hub.mu
	touched time.Time
}

func NewSession(id string) *Session {
	return &Session{
		ID:       id,
		Polls:    NewContainer[models.Poll](models.PollKey),
		Calendar: NewContainer[models.Event](models.CalendarKey),
		Canvas:   NewContainer[models.Stroke](models.CanvasKey),
		docs:     make(map[string]*Document),
		flushed:  make(map[string]uint64),
	}
}

func (s *Session) containers() []persistable {
	return []persistable{s.Polls, s.Calendar, s.Canvas}
}

func (s *Session) restore(snapshots []Snapshot) error {
	byKey := make(map[string]persistable)
	for _, c := range s.containers() {
		byKey[c.Key()] = c
	}

	s.flushMu.Lock()
	defer s.flushMu.Unlock()
	for _, snap := range snapshots {
		c, ok := byKey[snap.Key]
		if !ok {
			slog.Warn("ignoring snapshot for unknown container", "session_id", s.ID, "key", snap.Key)
			continue
		}
		doc, err := LoadDocument(snap.Document)
		if err != nil {
			return fmt.Errorf("session %s container %s: %w", s.ID, snap.Key, err)
		}
		entries, err := doc.Entries()
		if err != nil {
			return fmt.Errorf("session %s container %s: %w", s.ID, snap.Key, err)
		}
		if err := c.Restore(entries); err != nil {
			return fmt.Errorf("session %s container %s: %w", s.ID, snap.Key, err)
		}
		s.docs[snap.Key] = doc
		s.flushed[snap.Key] = c.Version()
	}
	return nil
}

// attached reports whether any view, stream or listener still uses the
// session.
func (s *Session) attached() bool {
	for _, c := range s.containers() {
		if c.Subscribers() > 0 {
			return true
		}
	}
	return false
}

// clean reports whether every container is persisted at its current version.
func (s *Session) clean() bool {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()
	for _, c := range s.containers() {
		if c.Version() != s.flushed[c.Key()] {
			return false
		}
	}
	return true
}

// flush writes every container whose version moved since the last flush.
func (s *Session) flush(ctx context.Context, store SnapshotStore) (int, error) {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	written := 0
	var errs []error
	for _, c := range s.containers() {
		if c.Version() == s.flushed[c.Key()] {
			continue
		}
		entries, version, err := c.Entries()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		doc, ok := s.docs[c.Key()]
		if !ok {
			doc = NewDocument()
			s.docs[c.Key()] = doc
		}
		if _, err := doc.Apply(entries); err != nil {
			errs = append(errs, fmt.Errorf("container %s: %w", c.Key(), err))
			continue
		}
		err = store.SaveSnapshot(ctx, Snapshot{
			SessionID: s.ID,
			Key:       c.Key(),
			Version:   version,
			Document:  doc.Save(),
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("container %s: %w", c.Key(), err))
			continue
		}
		s.flushed[c.Key()] = version
		written++
	}
	return written, errors.Join(errs...)
}

// Hub maps session ids to their live sessions.
type Hub struct {
	store SnapshotStore
	now   func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
	onEvict  []func(sessionID string)
}

// NewHub creates a hub. store may be nil, in which case sessions are
// memory-only.
func NewHub(store SnapshotStore) *Hub {
	return &Hub{store: store, now: time.Now, sessions: make(map[string]*Session)}
}

// Session returns the live session, restoring it from persisted snapshots
// on first use.
func (h *Hub) Session(ctx context.Context, id string) (*Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if s, ok := h.sessions[id]; ok {
		s.touched = h.now()
		return s, nil
	}

	s := NewSession(id)
	if h.store != nil {
		snapshots, err := h.store.LoadSnapshots(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load snapshots: %w", err)
		}
		if err := s.restore(snapshots); err != nil {
			return nil, err
		}
		if len(snapshots) > 0 {
			slog.Info("session restored", "session_id", id, "containers", len(snapshots))
		}
	}
	s.touched = h.now()
	h.sessions[id] = s
	return s, nil
}

// Lookup returns a session only if it is already live.
func (h *Hub) Lookup(id string) (*Session, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[id]
	return s, ok
}

// OnEvict registers fn to run with the id of every evicted session.
func (h *Hub) OnEvict(fn func(sessionID string)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onEvict = append(h.onEvict, fn)
}

// EvictIdle persists and forgets sessions that nothing is attached to and
// that were not used for longer than idle. The next Session call restores
// them from their snapshots. Memory-only hubs never evict.
func (h *Hub) EvictIdle(ctx context.Context, idle time.Duration) ([]string, error) {
	if h.store == nil {
		return nil, nil
	}
	cutoff := h.now().Add(-idle)

	h.mu.Lock()
	var candidates []*Session
	for _, s := range h.sessions {
		if s.touched.Before(cutoff) && !s.attached() {
			candidates = append(candidates, s)
		}
	}
	h.mu.Unlock()

	var evicted []string
	var errs []error
	for _, s := range candidates {
		if _, err := s.flush(ctx, h.store); err != nil {
			errs = append(errs, fmt.Errorf("session %s: %w", s.ID, err))
			continue
		}

		h.mu.Lock()
		// sessions picked up or written while flushing stay live
		if h.sessions[s.ID] == s && s.touched.Before(cutoff) && !s.attached() && s.clean() {
			delete(h.sessions, s.ID)
			evicted = append(evicted, s.ID)
		}
		h.mu.Unlock()
	}

	h.mu.Lock()
	hooks := append([]func(string){}, h.onEvict...)
	h.mu.Unlock()
	for _, id := range evicted {
		for _, fn := range hooks {
			fn(id)
		}
		slog.Info("session evicted", "session_id", id)
	}
	return evicted, errors.Join(errs...)
}

// Flush persists every changed container of every live session.
func (h *Hub) Flush(ctx context.Context) error {
	if h.store == nil {
		return nil
	}

	h.mu.Lock()
	sessions := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.Unlock()

	var errs []error
	for _, s := range sessions {
		written, err := s.flush(ctx, h.store)
		if err != nil {
			errs = append(errs, fmt.Errorf("session %s: %w", s.ID, err))
		}
		if written > 0 {
			slog.Info("session flushed", "session_id", s.ID, "containers", written)
		}
	}
	return errors.Join(errs...)
}
