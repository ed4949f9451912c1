// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/huddle/calendar"
	"github.com/danielhkuo/huddle/dialog"
	"github.com/danielhkuo/huddle/middleware"
	"github.com/danielhkuo/huddle/poll"
)

// Card names served by GetCard
const (
	CardCreatePoll  = "create-poll"
	CardCreateEvent = "create-event"
)

var cards = map[string]func() dialog.Card{
	CardCreatePoll:  poll.CreatePollCard,
	CardCreateEvent: calendar.CreateEventCard,
}

type CardHandler struct {
	scope *Scope
}

func NewCardHandler(scope *Scope) *CardHandler {
	return &CardHandler{scope: scope}
}

// GetCard handles GET /sessions/{id}/cards/{name}
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.scope.open(w, r); !ok {
		return
	}

	build, ok := cards[r.PathValue("name")]
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Card not found")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, build())
}
