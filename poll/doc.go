// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package poll implements the polling widget: the write deltas against the
LIVE-POLL container, the vote math, and the dialog cards.

# Deltas

Every write is a pure function from the current list to the next one:

	next := poll.ApplyCreate(cur, p)
	next, err := poll.ApplyVote(cur, pollID, userID, []string{"0"})
	next, err := poll.ApplyClose(cur, pollID, userID)
	next := poll.ApplyDelete(cur, pollID)

Option ids are the option's position at creation ("0", "1", ...). A vote
overwrites the participant's previous selection. An empty selection
retracts it. Single-select polls reject more than one option.

# Controller

Controller runs the deltas through Container.Update so concurrent writers
never lose each other's changes, then emits newPollCreated, pollVoted,
pollClosed or pollDeleted with the updated list as payload.

# Results

	VoteCount(p, id)   participants whose selection contains id
	TotalVoters(p)     participants with a non-empty selection
	Percentage(p, id)  round(count / total * 100), 0 with no voters

On multi-select polls percentages may add up to more than 100.
*/
package poll
