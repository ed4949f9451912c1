// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package livestate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

type item struct {
	ID    string `json:"id"`
	Value int    `json:"value"`
}

func (i item) EntityID() string { return i.ID }

func newSeeded(t *testing.T) *Container[item] {
	t.Helper()
	c := NewContainer[item]("TEST")
	if err := c.Initialize(context.Background(), []item{}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	return c
}

func TestInitializeState(t *testing.T) {
	c := NewContainer[item]("TEST")
	if c.InitializeState() != InitializeNeeded {
		t.Fatalf("Expected needed, got %s", c.InitializeState())
	}

	ctx := context.Background()
	if err := c.Initialize(ctx, []item{{ID: "a"}}); err != nil {
		t.Fatal(err)
	}
	if c.InitializeState() != Initialized {
		t.Fatalf("Expected initialized, got %s", c.InitializeState())
	}

	// Second seed must not clobber existing state
	if err := c.Initialize(ctx, []item{}); err != nil {
		t.Fatal(err)
	}
	if got := c.State(); len(got) != 1 || got[0].ID != "a" {
		t.Errorf("Expected seed to be kept, got %+v", got)
	}
}

func TestUpdateRequiresInitialize(t *testing.T) {
	c := NewContainer[item]("TEST")
	err := c.Set(context.Background(), []item{{ID: "a"}})
	if !errors.Is(err, ErrUninitialized) {
		t.Errorf("Expected ErrUninitialized, got %v", err)
	}
}

func TestSetRejectsBadIDs(t *testing.T) {
	c := newSeeded(t)
	ctx := context.Background()

	tests := []struct {
		name string
		next []item
		want error
	}{
		{"duplicate", []item{{ID: "a"}, {ID: "a"}}, ErrDuplicateID},
		{"empty", []item{{ID: ""}}, ErrEmptyID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := c.Set(ctx, tt.next); !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
			if len(c.State()) != 0 {
				t.Error("Rejected write must not change state")
			}
		})
	}
}

func TestStateIsCopy(t *testing.T) {
	c := newSeeded(t)
	if err := c.Set(context.Background(), []item{{ID: "a", Value: 1}}); err != nil {
		t.Fatal(err)
	}
	got := c.State()
	got[0].Value = 99
	if c.State()[0].Value != 1 {
		t.Error("Mutating State() result leaked into container")
	}
}

func TestCanceledContext(t *testing.T) {
	c := newSeeded(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Set(ctx, []item{{ID: "a"}}); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestSubscribeOrderAndUnsubscribe(t *testing.T) {
	c := newSeeded(t)
	ctx := context.Background()

	var versions []uint64
	unsubscribe := c.Subscribe(func(change StateChange[item]) {
		versions = append(versions, change.Version)
	})

	for i := 0; i < 3; i++ {
		if err := c.Set(ctx, []item{{ID: fmt.Sprint(i)}}); err != nil {
			t.Fatal(err)
		}
	}
	unsubscribe()
	unsubscribe() // idempotent
	if err := c.Set(ctx, []item{}); err != nil {
		t.Fatal(err)
	}

	if len(versions) != 3 {
		t.Fatalf("Expected 3 notifications, got %d", len(versions))
	}
	for i := 1; i < len(versions); i++ {
		if versions[i] <= versions[i-1] {
			t.Errorf("Notifications out of order: %v", versions)
		}
	}
}

func TestSubscriberMayRead(t *testing.T) {
	c := newSeeded(t)
	var seen int
	c.Subscribe(func(StateChange[item]) {
		seen = len(c.State())
	})
	if err := c.Set(context.Background(), []item{{ID: "a"}, {ID: "b"}}); err != nil {
		t.Fatal(err)
	}
	if seen != 2 {
		t.Errorf("Expected subscriber to read 2 items, got %d", seen)
	}
}

func TestEmit(t *testing.T) {
	c := newSeeded(t)
	var got []CustomEvent
	off := c.OnEvent(func(ev CustomEvent) { got = append(got, ev) })

	c.Emit("pollVoted", 1)
	off()
	c.Emit("pollVoted", 2)

	if len(got) != 1 || got[0].Name != "pollVoted" || got[0].Key != "TEST" {
		t.Errorf("Unexpected events: %+v", got)
	}
}

// TestConcurrentUpdates verifies that read-modify-write through Update never
// loses a concurrent append
func TestConcurrentUpdates(t *testing.T) {
	c := newSeeded(t)
	ctx := context.Background()

	n := 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := c.Update(ctx, func(cur []item) ([]item, error) {
				return append(cur, item{ID: fmt.Sprint(i)}), nil
			})
			if err != nil {
				t.Errorf("Update failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if got := len(c.State()); got != n {
		t.Errorf("Expected %d items, got %d", n, got)
	}
	if c.Version() != uint64(n+1) {
		t.Errorf("Expected version %d, got %d", n+1, c.Version())
	}
}

func TestEntriesRestore(t *testing.T) {
	c := newSeeded(t)
	if err := c.Set(context.Background(), []item{{ID: "a", Value: 1}, {ID: "b", Value: 2}}); err != nil {
		t.Fatal(err)
	}
	entries, _, err := c.Entries()
	if err != nil {
		t.Fatal(err)
	}

	restored := NewContainer[item]("TEST")
	if err := restored.Restore(entries); err != nil {
		t.Fatal(err)
	}
	got := restored.State()
	if len(got) != 2 || got[0] != (item{ID: "a", Value: 1}) || got[1] != (item{ID: "b", Value: 2}) {
		t.Errorf("Unexpected restored state: %+v", got)
	}
	if restored.InitializeState() != Initialized {
		t.Error("Restored container should be initialized")
	}

	if err := restored.Restore(entries); !errors.Is(err, ErrInitialized) {
		t.Errorf("Expected ErrInitialized, got %v", err)
	}
}
