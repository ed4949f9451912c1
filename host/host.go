// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package host

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrNoParticipant = errors.New("participant id is required")
	ErrUnknownTheme  = errors.New("unknown theme")
)

// Theme is the host's theme name.
type Theme string

const (
	ThemeDefault  Theme = "default"
	ThemeDark     Theme = "dark"
	ThemeContrast Theme = "contrast"
)

// UI theme identifiers the front end renders with.
const (
	UITheme             = "teamsTheme"
	UIDarkTheme         = "teamsDarkTheme"
	UIHighContrastTheme = "teamsHighContrastTheme"
)

// ParseTheme validates a theme name. An empty name is the default theme.
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case "", ThemeDefault:
		return ThemeDefault, nil
	case ThemeDark:
		return ThemeDark, nil
	case ThemeContrast:
		return ThemeContrast, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTheme, s)
}

// UITheme maps the host theme to the UI theme identifier. Unknown themes
// fall back to the default theme.
func (t Theme) UITheme() string {
	switch t {
	case ThemeDark:
		return UIDarkTheme
	case ThemeContrast:
		return UIHighContrastTheme
	default:
		return UITheme
	}
}

type User struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type App struct {
	Theme   Theme  `json:"theme"`
	UITheme string `json:"uiTheme"`
}

// Context is what a participant knows about itself and the meeting host.
type Context struct {
	SessionID string `json:"sessionId"`
	User      User   `json:"user"`
	App       App    `json:"app"`
}

// NewContext builds a Context, rejecting an empty participant id.
func NewContext(sessionID, userID, name string, theme Theme) (Context, error) {
	if userID == "" {
		return Context{}, ErrNoParticipant
	}
	return Context{
		SessionID: sessionID,
		User:      User{ID: userID, Name: name},
		App:       App{Theme: theme, UITheme: theme.UITheme()},
	}, nil
}

// ThemeChange is delivered to Watcher handlers.
type ThemeChange struct {
	SessionID string
	UserID    string
	Theme     Theme
}

// Watcher fans theme changes out to registered handlers, per session.
type Watcher struct {
	mu       sync.Mutex
	next     uint64
	handlers map[string]map[uint64]func(ThemeChange)
}

func NewWatcher() *Watcher {
	return &Watcher{handlers: make(map[string]map[uint64]func(ThemeChange))}
}

// Register adds fn for theme changes in sessionID and returns a func that
// removes it.
func (w *Watcher) Register(sessionID string, fn func(ThemeChange)) (unregister func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := w.next
	w.next++
	if w.handlers[sessionID] == nil {
		w.handlers[sessionID] = make(map[uint64]func(ThemeChange))
	}
	w.handlers[sessionID][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			w.mu.Lock()
			defer w.mu.Unlock()
			delete(w.handlers[sessionID], id)
			if len(w.handlers[sessionID]) == 0 {
				delete(w.handlers, sessionID)
			}
		})
	}
}

// Notify delivers a theme change to every handler of its session.
func (w *Watcher) Notify(change ThemeChange) {
	w.mu.Lock()
	fns := make([]func(ThemeChange), 0, len(w.handlers[change.SessionID]))
	for _, fn := range w.handlers[change.SessionID] {
		fns = append(fns, fn)
	}
	w.mu.Unlock()

	for _, fn := range fns {
		fn(change)
	}
}
