// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/huddle/middleware"
	"github.com/danielhkuo/huddle/models"
	"github.com/danielhkuo/huddle/poll"
)

type PollHandler struct {
	scope *Scope
}

func NewPollHandler(scope *Scope) *PollHandler {
	return &PollHandler{scope: scope}
}

// ListPolls handles GET /sessions/{id}/polls
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	req, ok := h.scope.open(w, r)
	if !ok {
		return
	}

	polls, err := poll.NewController(req.session.Polls).List()
	if err != nil {
		writeError(w, r, err, "Failed to list polls")
		return
	}

	out := make([]models.PollWithResults, 0, len(polls))
	for _, p := range polls {
		out = append(out, poll.WithResults(p, req.caller.User.ID))
	}
	middleware.JSONResponse(w, http.StatusOK, out)
}

// CreatePoll handles POST /sessions/{id}/polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	req, ok := h.scope.open(w, r)
	if !ok {
		return
	}

	var body models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &body); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	h.create(w, r, req, body)
}

// CreatePollFromDialog handles POST /sessions/{id}/polls/dialog
func (h *PollHandler) CreatePollFromDialog(w http.ResponseWriter, r *http.Request) {
	req, ok := h.scope.open(w, r)
	if !ok {
		return
	}

	raw, ok := readBody(w, r)
	if !ok {
		return
	}
	body, err := poll.ParseCreatePollResult(raw)
	if err != nil {
		writeError(w, r, err, "Failed to create poll")
		return
	}
	h.create(w, r, req, body)
}

func (h *PollHandler) create(w http.ResponseWriter, r *http.Request, req request, body models.CreatePollRequest) {
	userID := req.caller.User.ID
	p, err := poll.NewController(req.session.Polls).Create(r.Context(), userID, body)
	if err != nil {
		writeError(w, r, err, "Failed to create poll")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, poll.WithResults(p, userID))
}

// Vote handles POST /sessions/{id}/polls/{pollID}/votes
// The selection replaces the caller's previous one; an empty selection
// retracts the vote.
func (h *PollHandler) Vote(w http.ResponseWriter, r *http.Request) {
	req, ok := h.scope.open(w, r)
	if !ok {
		return
	}

	var body models.VoteRequest
	if err := middleware.ParseJSONBody(r, &body); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	h.vote(w, r, req, body.OptionIDs)
}

// VoteFromDialog handles POST /sessions/{id}/polls/{pollID}/votes/dialog
func (h *PollHandler) VoteFromDialog(w http.ResponseWriter, r *http.Request) {
	req, ok := h.scope.open(w, r)
	if !ok {
		return
	}

	raw, ok := readBody(w, r)
	if !ok {
		return
	}
	optionIDs, err := poll.ParseVoteResult(raw)
	if err != nil {
		writeError(w, r, err, "Failed to vote")
		return
	}
	h.vote(w, r, req, optionIDs)
}

func (h *PollHandler) vote(w http.ResponseWriter, r *http.Request, req request, optionIDs []string) {
	userID := req.caller.User.ID
	p, err := poll.NewController(req.session.Polls).Vote(r.Context(), userID, r.PathValue("pollID"), optionIDs)
	if err != nil {
		writeError(w, r, err, "Failed to vote")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, poll.WithResults(p, userID))
}

// ClosePoll handles POST /sessions/{id}/polls/{pollID}/close
func (h *PollHandler) ClosePoll(w http.ResponseWriter, r *http.Request) {
	req, ok := h.scope.open(w, r)
	if !ok {
		return
	}

	userID := req.caller.User.ID
	p, err := poll.NewController(req.session.Polls).Close(r.Context(), userID, r.PathValue("pollID"))
	if err != nil {
		writeError(w, r, err, "Failed to close poll")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, poll.WithResults(p, userID))
}

// DeletePoll handles DELETE /sessions/{id}/polls/{pollID}
func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	req, ok := h.scope.open(w, r)
	if !ok {
		return
	}

	err := poll.NewController(req.session.Polls).Delete(r.Context(), req.caller.User.ID, r.PathValue("pollID"))
	if err != nil {
		writeError(w, r, err, "Failed to delete poll")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetResults handles GET /sessions/{id}/polls/{pollID}/results
func (h *PollHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	req, ok := h.scope.open(w, r)
	if !ok {
		return
	}

	p, err := poll.NewController(req.session.Polls).Get(r.PathValue("pollID"))
	if err != nil {
		writeError(w, r, err, "Failed to load results")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, poll.Tally(p))
}

// GetVoteCard handles GET /sessions/{id}/polls/{pollID}/card
func (h *PollHandler) GetVoteCard(w http.ResponseWriter, r *http.Request) {
	req, ok := h.scope.open(w, r)
	if !ok {
		return
	}

	p, err := poll.NewController(req.session.Polls).Get(r.PathValue("pollID"))
	if err != nil {
		writeError(w, r, err, "Failed to load poll")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, poll.VoteCard(p))
}
