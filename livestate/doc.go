// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package livestate implements the shared containers that back every
collaborative feature of a meeting session.

# Containers

A Container holds an ordered list of entities for one feature of one
session. Every participant of the session attaches to the same container:

	polls := livestate.NewContainer[models.Poll](models.PollKey)
	_ = polls.Initialize(ctx, []models.Poll{})

Writes replace the whole list. Update runs a delta against the current list
under the container's write lock, so concurrent writers never drop each
other's changes:

	_, err := polls.Update(ctx, func(cur []models.Poll) ([]models.Poll, error) {
		return append(cur, p), nil
	})

Set is the plain whole-value replace. Both reject lists with duplicate or
empty ids.

# Notifications

Subscribe returns an unsubscribe func. Subscribers see every committed
version, in order:

	unsubscribe := polls.Subscribe(func(c livestate.StateChange[models.Poll]) {
		render(c.State)
	})
	defer unsubscribe()

Emit / OnEvent carry secondary application events ("newPollCreated",
"pollVoted") with best-effort delivery.

# Views

A View is one participant's mirror of a container. Attach seeds the
container if needed, subscribes, and hydrates from the current value so
late joiners see existing state:

	Uninitialized → Initializing → Synced

Close cancels the view; Reattach re-resolves after a reconnect.

# Sessions and Persistence

Hub maps session ids to Sessions (one container per feature). Containers are
persisted as automerge documents keyed by entity id through a SnapshotStore,
on a cron schedule driven by Flusher and once more on shutdown. After each
flush, sessions nobody is subscribed to and that were unused for
SessionIdleTimeout are evicted; the next Hub.Session call restores them.
*/
package livestate
