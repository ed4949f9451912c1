// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package poll

import (
	"math"
	"slices"

	"github.com/danielhkuo/huddle/models"
)

// VoteCount is the number of participants whose selection includes optionID
func VoteCount(p models.Poll, optionID string) int {
	n := 0
	for _, selection := range p.Votes {
		if slices.Contains(selection, optionID) {
			n++
		}
	}
	return n
}

// TotalVoters counts participants with a non-empty selection
func TotalVoters(p models.Poll) int {
	n := 0
	for _, selection := range p.Votes {
		if len(selection) > 0 {
			n++
		}
	}
	return n
}

// Percentage is round(count/total*100), or 0 when nobody voted. On a
// multi-select poll the percentages can sum past 100.
func Percentage(p models.Poll, optionID string) int {
	total := TotalVoters(p)
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(VoteCount(p, optionID)) / float64(total) * 100))
}

// Tally computes the results of a poll in option order
func Tally(p models.Poll) models.PollResults {
	results := models.PollResults{
		PollID:      p.ID,
		Question:    p.Question,
		IsOpen:      p.IsOpen,
		TotalVoters: TotalVoters(p),
		Options:     make([]models.OptionTally, 0, len(p.Options)),
	}
	for _, o := range p.Options {
		results.Options = append(results.Options, models.OptionTally{
			OptionID:   o.ID,
			Text:       o.Text,
			Votes:      VoteCount(p, o.ID),
			Percentage: Percentage(p, o.ID),
		})
	}
	return results
}

// WithResults pairs a poll with its tally and the caller's current vote
func WithResults(p models.Poll, userID string) models.PollWithResults {
	myVote := p.Votes[userID]
	if myVote == nil {
		myVote = []string{}
	}
	return models.PollWithResults{
		Poll:    p,
		Results: Tally(p),
		MyVote:  myVote,
	}
}
