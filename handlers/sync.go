// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/gorilla/websocket"

	"github.com/danielhkuo/huddle/host"
	"github.com/danielhkuo/huddle/livestate"
	"github.com/danielhkuo/huddle/middleware"
	"github.com/danielhkuo/huddle/models"
)

// Frame types sent on the sync stream
const (
	FrameStateChanged = "stateChanged"
	FrameEvent        = "event"
	FrameThemeChanged = "themeChanged"
)

// Frame codecs, selected with ?codec=
const (
	CodecJSON = "json"
	CodecCBOR = "cbor"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 64
	readLimit  = 512
)

// frameEncMode writes times as RFC 3339 text so CBOR frames carry the same
// instants as JSON ones.
var frameEncMode cbor.EncMode

func init() {
	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	var err error
	frameEncMode, err = opts.EncMode()
	if err != nil {
		panic("handlers: CBOR encoder initialization failed: " + err.Error())
	}
}

// Frame is one message of the sync stream.
type Frame struct {
	Type    string `json:"type"`
	Key     string `json:"key,omitempty"`
	Version uint64 `json:"version,omitempty"`
	State   any    `json:"state,omitempty"`
	Name    string `json:"name,omitempty"`
	Payload any    `json:"payload,omitempty"`
	Theme   string `json:"theme,omitempty"`
	UITheme string `json:"uiTheme,omitempty"`
}

type SyncHandler struct {
	scope    *Scope
	watcher  *host.Watcher
	upgrader websocket.Upgrader
}

func NewSyncHandler(scope *Scope, watcher *host.Watcher) *SyncHandler {
	return &SyncHandler{
		scope:   scope,
		watcher: watcher,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// CORS already admits every origin
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Sync handles GET /sessions/{id}/sync
// Browsers cannot set headers on a websocket handshake, so the participant
// credentials may also come from ?participant_id=&token=&theme=.
func (h *SyncHandler) Sync(w http.ResponseWriter, r *http.Request) {
	promoteQueryCredentials(r)

	codec := r.URL.Query().Get("codec")
	if codec == "" {
		codec = CodecJSON
	}
	if codec != CodecJSON && codec != CodecCBOR {
		middleware.ErrorResponse(w, http.StatusBadRequest, "codec must be json or cbor")
		return
	}

	req, ok := h.scope.open(w, r)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	s := &stream{conn: conn, codec: codec, send: make(chan Frame, sendBuffer), cancel: cancel}
	sessionID, userID := req.record.ID, req.caller.User.ID

	detach, err := s.attach(ctx, req.session, h.watcher, userID)
	defer detach()
	if err != nil {
		slog.Error("failed to attach sync stream", "session_id", sessionID, "error", err)
		return
	}

	if err := h.scope.store.TouchParticipant(ctx, sessionID, userID); err != nil {
		slog.Warn("failed to touch participant", "user_id", userID, "error", err)
	}
	slog.Info("sync connected", "session_id", sessionID, "user_id", userID, "codec", codec)

	go s.readPump()
	s.writePump(ctx)

	slog.Info("sync disconnected", "session_id", sessionID, "user_id", userID)
}

func promoteQueryCredentials(r *http.Request) {
	q := r.URL.Query()
	for header, param := range map[string]string{
		host.HeaderParticipantID:    "participant_id",
		host.HeaderParticipantToken: "token",
		host.HeaderTheme:            "theme",
	} {
		if r.Header.Get(header) == "" && q.Get(param) != "" {
			r.Header.Set(header, q.Get(param))
		}
	}
}

// stream is one websocket subscriber. Container callbacks run on the
// writer's goroutine, so they only queue frames; a full queue drops the
// connection.
type stream struct {
	conn   *websocket.Conn
	codec  string
	send   chan Frame
	cancel context.CancelFunc

	overflow sync.Once
}

func (s *stream) push(f Frame) {
	select {
	case s.send <- f:
	default:
		s.overflow.Do(func() {
			slog.Warn("sync stream too slow, dropping connection")
			s.cancel()
		})
	}
}

func (s *stream) event(ev livestate.CustomEvent) {
	s.push(Frame{Type: FrameEvent, Key: ev.Key, Name: ev.Name, Payload: ev.Payload})
}

// attach hydrates a view per container and subscribes to custom events and
// the caller's theme changes. The returned func undoes all of it.
func (s *stream) attach(ctx context.Context, session *livestate.Session, watcher *host.Watcher, userID string) (func(), error) {
	var cleanup []func()
	detach := func() {
		for _, fn := range cleanup {
			fn()
		}
	}

	polls := livestate.NewView(func(items []models.Poll, version uint64) {
		s.push(Frame{Type: FrameStateChanged, Key: models.PollKey, Version: version, State: items})
	})
	events := livestate.NewView(func(items []models.Event, version uint64) {
		s.push(Frame{Type: FrameStateChanged, Key: models.CalendarKey, Version: version, State: items})
	})
	strokes := livestate.NewView(func(items []models.Stroke, version uint64) {
		s.push(Frame{Type: FrameStateChanged, Key: models.CanvasKey, Version: version, State: items})
	})
	cleanup = append(cleanup, polls.Close, events.Close, strokes.Close)

	if err := polls.Attach(ctx, session.Polls); err != nil {
		return detach, err
	}
	if err := events.Attach(ctx, session.Calendar); err != nil {
		return detach, err
	}
	if err := strokes.Attach(ctx, session.Canvas); err != nil {
		return detach, err
	}

	cleanup = append(cleanup,
		session.Polls.OnEvent(s.event),
		session.Calendar.OnEvent(s.event),
		session.Canvas.OnEvent(s.event),
		watcher.Register(session.ID, func(c host.ThemeChange) {
			if c.UserID != userID {
				return
			}
			s.push(Frame{Type: FrameThemeChanged, Theme: string(c.Theme), UITheme: c.Theme.UITheme()})
		}),
	)
	return detach, nil
}

// readPump drains client messages so control frames are processed. The
// stream is closed when the client goes away.
func (s *stream) readPump() {
	defer s.cancel()
	s.conn.SetReadLimit(readLimit)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("sync read failed", "error", err)
			}
			return
		}
	}
}

func (s *stream) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case f := <-s.send:
			if err := s.write(f); err != nil {
				slog.Warn("sync write failed", "error", err)
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ctx.Done():
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			return
		}
	}
}

func (s *stream) write(f Frame) error {
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if s.codec == CodecCBOR {
		b, err := frameEncMode.Marshal(f)
		if err != nil {
			return err
		}
		return s.conn.WriteMessage(websocket.BinaryMessage, b)
	}
	return s.conn.WriteJSON(f)
}
