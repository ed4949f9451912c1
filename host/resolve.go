// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package host

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielhkuo/huddle/auth"
	"github.com/danielhkuo/huddle/models"
)

const (
	HeaderParticipantID    = "X-Participant-ID"
	HeaderParticipantToken = "X-Participant-Token"
	HeaderTheme            = "X-Theme"
)

var ErrUnauthorized = errors.New("invalid participant credentials")

// ParticipantLookup loads a joined participant.
type ParticipantLookup interface {
	GetParticipant(ctx context.Context, sessionID, userID string) (models.Participant, error)
}

// Resolver turns request headers into a Context.
type Resolver struct {
	participants ParticipantLookup
	tokenSalt    string
}

func NewResolver(participants ParticipantLookup, tokenSalt string) *Resolver {
	return &Resolver{participants: participants, tokenSalt: tokenSalt}
}

// Resolve authenticates the caller of a session request. The participant
// token is the one issued on join. An X-Theme header overrides the stored
// theme for this request only.
func (r *Resolver) Resolve(req *http.Request, sessionID string) (Context, error) {
	userID := req.Header.Get(HeaderParticipantID)
	if userID == "" {
		return Context{}, ErrNoParticipant
	}
	token := req.Header.Get(HeaderParticipantToken)
	if err := auth.ValidateParticipantToken(sessionID, userID, token, r.tokenSalt); err != nil {
		return Context{}, ErrUnauthorized
	}

	p, err := r.participants.GetParticipant(req.Context(), sessionID, userID)
	if err != nil {
		return Context{}, err
	}

	theme, err := ParseTheme(p.Theme)
	if err != nil {
		theme = ThemeDefault
	}
	if h := req.Header.Get(HeaderTheme); h != "" {
		if override, err := ParseTheme(h); err == nil {
			theme = override
		}
	}

	return NewContext(sessionID, p.UserID, p.Name, theme)
}
