// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package poll

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/huddle/host"
	"github.com/danielhkuo/huddle/livestate"
	"github.com/danielhkuo/huddle/models"
)

// Controller applies poll writes to a session's LIVE-POLL container and
// emits the matching notification events.
type Controller struct {
	polls *livestate.Container[models.Poll]
	newID func() string
	now   func() time.Time
}

func NewController(polls *livestate.Container[models.Poll]) *Controller {
	return &Controller{
		polls: polls,
		newID: uuid.NewString,
		now:   time.Now,
	}
}

func (c *Controller) check(userID string) error {
	if c == nil || c.polls == nil {
		return livestate.ErrNotAttached
	}
	if userID == "" {
		return host.ErrNoParticipant
	}
	return nil
}

// List returns the current polls.
func (c *Controller) List() ([]models.Poll, error) {
	if c == nil || c.polls == nil {
		return nil, livestate.ErrNotAttached
	}
	return c.polls.State(), nil
}

// Get returns one poll.
func (c *Controller) Get(pollID string) (models.Poll, error) {
	polls, err := c.List()
	if err != nil {
		return models.Poll{}, err
	}
	p, ok := Find(polls, pollID)
	if !ok {
		return models.Poll{}, ErrPollNotFound
	}
	return p, nil
}

// Create appends a new open poll created by userID.
func (c *Controller) Create(ctx context.Context, userID string, req models.CreatePollRequest) (models.Poll, error) {
	if err := c.check(userID); err != nil {
		return models.Poll{}, err
	}
	p, err := NewPoll(c.newID(), req.Question, req.Options, req.AllowMultiple, userID, c.now().UnixMilli())
	if err != nil {
		return models.Poll{}, err
	}

	next, err := c.polls.Update(ctx, func(cur []models.Poll) ([]models.Poll, error) {
		return ApplyCreate(cur, p), nil
	})
	if err != nil {
		return models.Poll{}, err
	}

	c.polls.Emit(models.EventNewPollCreated, next)
	slog.Info("poll created", "poll_id", p.ID, "created_by", userID, "options", len(p.Options))
	return p, nil
}

// Vote replaces userID's selection on a poll.
func (c *Controller) Vote(ctx context.Context, userID, pollID string, optionIDs []string) (models.Poll, error) {
	if err := c.check(userID); err != nil {
		return models.Poll{}, err
	}

	next, err := c.polls.Update(ctx, func(cur []models.Poll) ([]models.Poll, error) {
		return ApplyVote(cur, pollID, userID, optionIDs)
	})
	if err != nil {
		return models.Poll{}, err
	}

	c.polls.Emit(models.EventPollVoted, next)
	p, _ := Find(next, pollID)
	return p, nil
}

// Close stops voting on a poll. Only the creator may close it.
func (c *Controller) Close(ctx context.Context, userID, pollID string) (models.Poll, error) {
	if err := c.check(userID); err != nil {
		return models.Poll{}, err
	}

	next, err := c.polls.Update(ctx, func(cur []models.Poll) ([]models.Poll, error) {
		return ApplyClose(cur, pollID, userID)
	})
	if err != nil {
		return models.Poll{}, err
	}

	c.polls.Emit(models.EventPollClosed, next)
	slog.Info("poll closed", "poll_id", pollID)
	p, _ := Find(next, pollID)
	return p, nil
}

// Delete removes a poll. Any participant may delete; a missing id is a
// no-op.
func (c *Controller) Delete(ctx context.Context, userID, pollID string) error {
	if err := c.check(userID); err != nil {
		return err
	}

	next, err := c.polls.Update(ctx, func(cur []models.Poll) ([]models.Poll, error) {
		return ApplyDelete(cur, pollID), nil
	})
	if err != nil {
		return err
	}

	c.polls.Emit(models.EventPollDeleted, next)
	slog.Info("poll deleted", "poll_id", pollID, "deleted_by", userID)
	return nil
}
