// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package livestate

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var ErrViewClosed = errors.New("view closed")

type Phase int

const (
	Uninitialized Phase = iota
	Initializing
	Synced
)

func (p Phase) String() string {
	switch p {
	case Uninitialized:
		return "uninitialized"
	case Initializing:
		return "initializing"
	case Synced:
		return "synced"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// View mirrors a container into local state for one attached participant.
// It hydrates from the container's current value on attach and then follows
// every change notification until closed.
type View[T Entity] struct {
	mu          sync.Mutex
	phase       Phase
	items       []T
	version     uint64
	cancelled   bool
	unsubscribe func()
	onChange    func(items []T, version uint64)
}

// NewView creates a view. onChange, if non-nil, is called after every
// accepted update, including the initial hydration.
func NewView[T Entity](onChange func(items []T, version uint64)) *View[T] {
	return &View[T]{items: []T{}, onChange: onChange}
}

// Attach resolves the container, seeds it if it was never initialized, and
// hydrates the view. Seeding is attempted once; on failure the view stays in
// Initializing and the error is returned. Attaching an attached view replaces
// its subscription.
func (v *View[T]) Attach(ctx context.Context, c *Container[T]) error {
	if c == nil {
		return ErrNotAttached
	}

	v.mu.Lock()
	if v.cancelled {
		v.mu.Unlock()
		return ErrViewClosed
	}
	// the new container may restart its versions
	v.detach()
	v.version = 0
	v.phase = Initializing
	v.mu.Unlock()

	if c.InitializeState() == InitializeNeeded {
		if err := c.Initialize(ctx, []T{}); err != nil {
			return fmt.Errorf("failed to seed %s: %w", c.Key(), err)
		}
	}

	unsubscribe := c.Subscribe(func(change StateChange[T]) {
		v.apply(change.State, change.Version)
	})

	v.mu.Lock()
	if v.cancelled {
		v.mu.Unlock()
		unsubscribe()
		return ErrViewClosed
	}
	// a concurrent Attach may have subscribed since the first check
	v.detach()
	v.unsubscribe = unsubscribe
	v.mu.Unlock()

	// late joiner hydration
	state, version := c.Snapshot()
	v.apply(state, version)
	return nil
}

// Reattach drops the current subscription and attaches again, e.g. after the
// participant reconnects.
func (v *View[T]) Reattach(ctx context.Context, c *Container[T]) error {
	v.mu.Lock()
	if v.cancelled {
		v.mu.Unlock()
		return ErrViewClosed
	}
	v.detach()
	v.phase = Uninitialized
	v.mu.Unlock()

	return v.Attach(ctx, c)
}

// detach drops the current subscription. v.mu must be held.
func (v *View[T]) detach() {
	if v.unsubscribe != nil {
		v.unsubscribe()
		v.unsubscribe = nil
	}
}

// Close unsubscribes. An Attach still in flight will not commit state.
func (v *View[T]) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cancelled = true
	v.detach()
}

func (v *View[T]) Phase() Phase {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.phase
}

func (v *View[T]) Items() []T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return cloneSlice(v.items)
}

func (v *View[T]) Version() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.version
}

func (v *View[T]) apply(items []T, version uint64) {
	v.mu.Lock()
	if v.cancelled || version < v.version {
		v.mu.Unlock()
		return
	}
	v.items = cloneSlice(items)
	v.version = version
	v.phase = Synced
	onChange := v.onChange
	v.mu.Unlock()

	if onChange != nil {
		onChange(cloneSlice(items), version)
	}
}
