// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package poll

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/danielhkuo/huddle/models"
)

var (
	ErrPollNotFound     = errors.New("poll not found")
	ErrPollClosed       = errors.New("poll is closed")
	ErrUnknownOption    = errors.New("unknown option")
	ErrSingleSelection  = errors.New("poll allows a single selection")
	ErrNotCreator       = errors.New("only the poll creator can do this")
	ErrQuestionRequired = errors.New("question is required")
	ErrTooFewOptions    = errors.New("a poll needs at least two options")
)

// NewPoll builds an open poll. Blank options are dropped and the remaining
// ones get their position as id.
func NewPoll(id, question string, options []string, allowMultiple bool, createdBy string, createdAt int64) (models.Poll, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return models.Poll{}, ErrQuestionRequired
	}

	opts := make([]models.PollOption, 0, len(options))
	for _, text := range options {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		opts = append(opts, models.PollOption{ID: strconv.Itoa(len(opts)), Text: text})
	}
	if len(opts) < 2 {
		return models.Poll{}, ErrTooFewOptions
	}

	return models.Poll{
		ID:            id,
		Question:      question,
		Options:       opts,
		AllowMultiple: allowMultiple,
		Votes:         models.VoteMap{},
		CreatedBy:     createdBy,
		CreatedAt:     createdAt,
		IsOpen:        true,
	}, nil
}

// ApplyCreate appends p. The input slice is never written to.
func ApplyCreate(polls []models.Poll, p models.Poll) []models.Poll {
	return append(slices.Clip(polls), p)
}

// ApplyDelete removes the poll with the given id. Unknown ids leave the
// list unchanged.
func ApplyDelete(polls []models.Poll, pollID string) []models.Poll {
	return slices.DeleteFunc(slices.Clone(polls), func(p models.Poll) bool {
		return p.ID == pollID
	})
}

// ApplyVote replaces userID's selection on one poll. Duplicate option ids
// collapse; an empty selection retracts the participant's vote.
func ApplyVote(polls []models.Poll, pollID, userID string, optionIDs []string) ([]models.Poll, error) {
	i := slices.IndexFunc(polls, func(p models.Poll) bool { return p.ID == pollID })
	if i < 0 {
		return nil, ErrPollNotFound
	}
	p := polls[i]
	if !p.IsOpen {
		return nil, ErrPollClosed
	}

	selection := make([]string, 0, len(optionIDs))
	for _, id := range optionIDs {
		if !hasOption(p, id) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownOption, id)
		}
		if !slices.Contains(selection, id) {
			selection = append(selection, id)
		}
	}
	if !p.AllowMultiple && len(selection) > 1 {
		return nil, ErrSingleSelection
	}

	votes := maps.Clone(p.Votes)
	if votes == nil {
		votes = models.VoteMap{}
	}
	if len(selection) == 0 {
		delete(votes, userID)
	} else {
		votes[userID] = selection
	}
	p.Votes = votes

	next := slices.Clone(polls)
	next[i] = p
	return next, nil
}

// ApplyClose marks a poll closed. Only its creator may close it; closing a
// closed poll is a no-op.
func ApplyClose(polls []models.Poll, pollID, userID string) ([]models.Poll, error) {
	i := slices.IndexFunc(polls, func(p models.Poll) bool { return p.ID == pollID })
	if i < 0 {
		return nil, ErrPollNotFound
	}
	if polls[i].CreatedBy != userID {
		return nil, ErrNotCreator
	}
	next := slices.Clone(polls)
	next[i].IsOpen = false
	return next, nil
}

// Find returns the poll with the given id.
func Find(polls []models.Poll, pollID string) (models.Poll, bool) {
	i := slices.IndexFunc(polls, func(p models.Poll) bool { return p.ID == pollID })
	if i < 0 {
		return models.Poll{}, false
	}
	return polls[i], true
}

func hasOption(p models.Poll, optionID string) bool {
	return slices.ContainsFunc(p.Options, func(o models.PollOption) bool {
		return o.ID == optionID
	})
}
