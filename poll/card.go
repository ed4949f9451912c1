// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package poll

import (
	"strings"

	"github.com/danielhkuo/huddle/dialog"
	"github.com/danielhkuo/huddle/models"
)

const (
	ActionCreatePoll = "createPoll"
	ActionSubmitVote = "submitVote"
)

// CreatePollCard is the dialog that collects a question, up to four options
// and the multi-select toggle.
func CreatePollCard() dialog.Card {
	question := dialog.TextInput("question", "Poll question", true)
	question.Placeholder = "What should we vote on?"

	options := dialog.Heading("Options")
	options.Size = ""
	options.Spacing = "Medium"

	return dialog.NewCard(
		[]dialog.Element{
			dialog.Heading("🗳️ Create a Poll"),
			question,
			options,
			dialog.TextInput("option1", "Option 1", true),
			dialog.TextInput("option2", "Option 2", true),
			dialog.TextInput("option3", "Option 3 (optional)", false),
			dialog.TextInput("option4", "Option 4 (optional)", false),
			dialog.Toggle("allowMultiple", "Allow multiple selections"),
		},
		dialog.Submit("Create poll", ActionCreatePoll),
	)
}

// VoteCard renders a poll as a choice set.
func VoteCard(p models.Poll) dialog.Card {
	choices := make([]dialog.Choice, 0, len(p.Options))
	for _, o := range p.Options {
		choices = append(choices, dialog.Choice{Title: o.Text, Value: o.ID})
	}
	card := dialog.NewCard(
		[]dialog.Element{
			{Type: "TextBlock", Text: p.Question, Weight: "Bolder"},
			{Type: "Input.ChoiceSet", ID: "vote", Style: "expanded", IsMultiSelect: p.AllowMultiple, Choices: choices},
		},
		dialog.Submit("Submit vote", ActionSubmitVote),
	)
	card.Schema = ""
	return card
}

// CreatePollResult is what the create-poll card submits.
type CreatePollResult struct {
	Action        string `json:"action"`
	Question      string `json:"question"`
	Option1       string `json:"option1"`
	Option2       string `json:"option2"`
	Option3       string `json:"option3,omitempty"`
	Option4       string `json:"option4,omitempty"`
	AllowMultiple string `json:"allowMultiple"`
}

// ParseCreatePollResult validates a create-poll card result into a request.
func ParseCreatePollResult(raw []byte) (models.CreatePollRequest, error) {
	var res CreatePollResult
	if err := dialog.Decode(raw, &res); err != nil {
		return models.CreatePollRequest{}, err
	}
	if err := dialog.ExpectAction(res.Action, ActionCreatePoll); err != nil {
		return models.CreatePollRequest{}, err
	}
	question, err := dialog.Required("question", res.Question)
	if err != nil {
		return models.CreatePollRequest{}, err
	}
	if _, err := dialog.Required("option1", res.Option1); err != nil {
		return models.CreatePollRequest{}, err
	}
	if _, err := dialog.Required("option2", res.Option2); err != nil {
		return models.CreatePollRequest{}, err
	}
	allowMultiple, err := dialog.ParseToggle("allowMultiple", res.AllowMultiple)
	if err != nil {
		return models.CreatePollRequest{}, err
	}

	return models.CreatePollRequest{
		Question:      question,
		Options:       []string{res.Option1, res.Option2, res.Option3, res.Option4},
		AllowMultiple: allowMultiple,
	}, nil
}

// VoteResult is what the vote card submits. Multi-select choice sets
// return a comma separated list.
type VoteResult struct {
	Action string `json:"action"`
	Vote   string `json:"vote"`
}

func ParseVoteResult(raw []byte) ([]string, error) {
	var res VoteResult
	if err := dialog.Decode(raw, &res); err != nil {
		return nil, err
	}
	if err := dialog.ExpectAction(res.Action, ActionSubmitVote); err != nil {
		return nil, err
	}
	ids := []string{}
	for _, id := range strings.Split(res.Vote, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
