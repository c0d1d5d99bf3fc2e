// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package tuning implements tuning sessions: time-slot polls a group uses to find
a meeting time.

# Lifecycle

A session is created pending by the group leader, collects votes, and is
completed exactly once when the leader confirms a meeting:

	svc, _ := tuning.NewService(conn, cfg, groupStore, tuning.LogNotifier{})
	id, _ := svc.Create(ctx, leaderID, params)
	_ = svc.Submit(ctx, id, memberID, []int{0, 2, 3})
	meeting, _ := svc.Complete(ctx, id, leaderID, tuning.CompleteParams{...})

# Voting

Creation snapshots the group's members in order; member i gets candidate
number 2^i and owns bit i of every slot's occupancy mask. Submit sets the bit
on selected slots and clears it everywhere else, so each call replaces the
previous selection.

# Locking

Writers take the in-process SessionLocks entry for the session, then lock all
slot rows in ascending index order inside one transaction. Status and
membership are checked once before locking and again after. A lock wait
longer than LOCK_TIMEOUT returns ErrBusy.

# Errors

Returned errors wrap one of ErrValidation, ErrAuthorization, ErrState or
ErrNotFound; ErrBusy marks a retryable lock timeout. Anything else is internal.
*/
package tuning
