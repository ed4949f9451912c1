// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package livestate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	flushTimeout = 30 * time.Second

	// SessionIdleTimeout is how long a session with no attached views
	// stays in memory after its last use.
	SessionIdleTimeout = 30 * time.Minute
)

// Flusher persists the hub on a cron schedule, e.g. "@every 10s" or
// "*/1 * * * *", and evicts idle sessions after each successful flush.
type Flusher struct {
	hub  *Hub
	cron *cron.Cron
	idle time.Duration
}

func NewFlusher(hub *Hub, schedule string) (*Flusher, error) {
	f := &Flusher{hub: hub, cron: cron.New(), idle: SessionIdleTimeout}
	if _, err := f.cron.AddFunc(schedule, f.run); err != nil {
		return nil, fmt.Errorf("invalid snapshot schedule %q: %w", schedule, err)
	}
	return f, nil
}

func (f *Flusher) Start() {
	f.cron.Start()
}

// Stop waits for a running flush to finish and then flushes one last time.
func (f *Flusher) Stop(ctx context.Context) error {
	done := f.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	return f.hub.Flush(ctx)
}

func (f *Flusher) run() {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	if err := f.hub.Flush(ctx); err != nil {
		slog.Error("snapshot flush failed", "error", err)
		return
	}
	if _, err := f.hub.EvictIdle(ctx, f.idle); err != nil {
		slog.Error("session eviction failed", "error", err)
	}
}
