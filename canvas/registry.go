// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package canvas

import (
	"strings"
	"sync"
)

// Viewports keeps one Viewport per participant per session.
type Viewports struct {
	mu    sync.Mutex
	byKey map[string]*Viewport
}

func NewViewports() *Viewports {
	return &Viewports{byKey: make(map[string]*Viewport)}
}

// Get returns the participant's viewport, creating it over board if needed.
func (r *Viewports) Get(sessionID, userID string, board *Board) *Viewport {
	key := sessionID + "/" + userID
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.byKey[key]; ok {
		return v
	}
	v := NewViewport(NewSurface(board, userID))
	r.byKey[key] = v
	return v
}

// Drop forgets every viewport of a session.
func (r *Viewports) Drop(sessionID string) {
	prefix := sessionID + "/"
	r.mu.Lock()
	defer r.mu.Unlock()
	for k := range r.byKey {
		if strings.HasPrefix(k, prefix) {
			delete(r.byKey, k)
		}
	}
}
