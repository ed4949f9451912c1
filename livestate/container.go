// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package livestate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

var (
	ErrNotAttached   = errors.New("container not attached")
	ErrDuplicateID   = errors.New("duplicate entity id")
	ErrEmptyID       = errors.New("entity id is empty")
	ErrInitialized   = errors.New("container already initialized")
	ErrUninitialized = errors.New("container not initialized")
)

// Entity is anything stored in a Container. IDs must be unique within one
// container.
type Entity interface {
	EntityID() string
}

type InitializeState string

const (
	InitializeNeeded InitializeState = "needed"
	Initialized      InitializeState = "initialized"
)

// StateChange is delivered to subscribers after every committed write.
type StateChange[T Entity] struct {
	Key     string
	Version uint64
	State   []T
}

// CustomEvent is an application-defined notification that rides alongside
// the container. Delivery is best effort to the listeners registered at the
// time of Emit.
type CustomEvent struct {
	Key     string
	Name    string
	Payload any
}

// Entry is one entity in its persisted form.
type Entry struct {
	ID      string
	Payload []byte
}

// Container is a session-replicated list of entities. Writes are serialized
// by a per-container lock and every write replaces the whole collection.
type Container[T Entity] struct {
	key string

	mu          sync.Mutex
	state       []T
	initialized bool
	version     uint64

	// serializes writers and the delivery of their notifications, so
	// subscribers observe commits in version order
	writeMu sync.Mutex

	subMu     sync.Mutex
	nextSub   uint64
	subs      map[uint64]func(StateChange[T])
	listeners map[uint64]func(CustomEvent)
}

func NewContainer[T Entity](key string) *Container[T] {
	return &Container[T]{
		key:       key,
		state:     []T{},
		subs:      make(map[uint64]func(StateChange[T])),
		listeners: make(map[uint64]func(CustomEvent)),
	}
}

func (c *Container[T]) Key() string { return c.key }

// State returns a copy of the current collection.
func (c *Container[T]) State() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneSlice(c.state)
}

// Snapshot returns a copy of the current collection with its version.
func (c *Container[T]) Snapshot() ([]T, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneSlice(c.state), c.version
}

func (c *Container[T]) Version() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

func (c *Container[T]) InitializeState() InitializeState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initialized {
		return Initialized
	}
	return InitializeNeeded
}

// Initialize seeds the container. Seeding an initialized container is a
// no-op so concurrent first joiners cannot overwrite each other.
func (c *Container[T]) Initialize(ctx context.Context, seed []T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkIDs(seed); err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.Lock()
	if c.initialized {
		c.mu.Unlock()
		return nil
	}
	c.initialized = true
	c.state = cloneSlice(seed)
	c.version++
	change := StateChange[T]{Key: c.key, Version: c.version, State: cloneSlice(c.state)}
	c.mu.Unlock()

	c.notify(change)
	return nil
}

// Set replaces the whole collection.
func (c *Container[T]) Set(ctx context.Context, next []T) error {
	_, err := c.Update(ctx, func([]T) ([]T, error) {
		return next, nil
	})
	return err
}

// Update runs fn against the current collection while holding the write
// lock and commits its result. fn must not call back into the container.
// Concurrent updates never lose each other's changes.
func (c *Container[T]) Update(ctx context.Context, fn func(current []T) ([]T, error)) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.Lock()
	if !c.initialized {
		c.mu.Unlock()
		return nil, ErrUninitialized
	}
	next, err := fn(cloneSlice(c.state))
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if err := checkIDs(next); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if next == nil {
		next = []T{}
	}
	c.state = cloneSlice(next)
	c.version++
	change := StateChange[T]{Key: c.key, Version: c.version, State: cloneSlice(c.state)}
	c.mu.Unlock()

	c.notify(change)
	return cloneSlice(next), nil
}

// Subscribe registers fn for every state change. The returned func removes
// the subscription. fn runs on the writer's goroutine and may read the
// container but must not write to it.
func (c *Container[T]) Subscribe(fn func(StateChange[T])) (unsubscribe func()) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			c.subMu.Lock()
			defer c.subMu.Unlock()
			delete(c.subs, id)
		})
	}
}

// OnEvent registers fn for custom events emitted on this container.
func (c *Container[T]) OnEvent(fn func(CustomEvent)) (unsubscribe func()) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			c.subMu.Lock()
			defer c.subMu.Unlock()
			delete(c.listeners, id)
		})
	}
}

// Subscribers counts registered state and event callbacks.
func (c *Container[T]) Subscribers() int {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	return len(c.subs) + len(c.listeners)
}

// Emit sends a custom event to the current listeners.
func (c *Container[T]) Emit(name string, payload any) {
	c.subMu.Lock()
	fns := make([]func(CustomEvent), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()

	ev := CustomEvent{Key: c.key, Name: name, Payload: payload}
	for _, fn := range fns {
		fn(ev)
	}
}

// notify must be called with writeMu held.
func (c *Container[T]) notify(change StateChange[T]) {
	c.subMu.Lock()
	fns := make([]func(StateChange[T]), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()

	for _, fn := range fns {
		fn(change)
	}
}

// Entries encodes the current collection for persistence.
func (c *Container[T]) Entries() ([]Entry, uint64, error) {
	state, version := c.Snapshot()
	entries := make([]Entry, 0, len(state))
	for _, item := range state {
		payload, err := json.Marshal(item)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to encode %s entity %q: %w", c.key, item.EntityID(), err)
		}
		entries = append(entries, Entry{ID: item.EntityID(), Payload: payload})
	}
	return entries, version, nil
}

// Restore loads persisted entries into an uninitialized container. A
// container that is already initialized keeps its live state.
func (c *Container[T]) Restore(entries []Entry) error {
	items := make([]T, 0, len(entries))
	for _, e := range entries {
		var item T
		if err := json.Unmarshal(e.Payload, &item); err != nil {
			return fmt.Errorf("failed to decode %s entity %q: %w", c.key, e.ID, err)
		}
		items = append(items, item)
	}
	if err := checkIDs(items); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initialized {
		return ErrInitialized
	}
	c.state = items
	c.initialized = true
	c.version++
	return nil
}

func checkIDs[T Entity](items []T) error {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		id := item.EntityID()
		if id == "" {
			return ErrEmptyID
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateID, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
