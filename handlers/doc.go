// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the campus polls API.

# Handler Types

Each handler is a struct with store and config dependencies:

  - PollHandler: Admin operations (create, activate, deactivate, delete, cleanup)
  - VotingHandler: The vote-casting protocol
  - ResultsHandler: Poll retrieval and live tallies
  - NotificationsHandler: Persisted admin-action notifications

Handlers are created via constructor functions that accept *db.Store and Config:

	pollHandler := handlers.NewPollHandler(store, cfg)

# Poll Lifecycle

A poll's state is derived, never stored: upcoming, active, paused, or
ended, computed from is_active and the voting window. Admins flip
is_active; time does the rest. Activation of an ended poll is rejected
with 409 invalid_transition. Admin operations require the X-Admin-Key
header.

# Vote Casting

CastVote runs a fixed sequence: authenticate (X-Voter-ID), load poll,
check the derived state is active, check the option belongs to the
poll, insert the ballot, then bump the counters. The ballot insert
comes first and the UNIQUE(poll_id, voter_id) constraint decides
duplicates; a 409 already_voted is the constraint talking. A counter
failure after the ballot commit is logged and left for reconciliation.

# Tallying

ComputeResults and Reconcile live in tally.go:

	results, err := handlers.ComputeResults(store, poll, voterID)
	changed, err := handlers.Reconcile(store, poll)

Results are always computed from ballots. Reconcile overwrites the
denormalized counters from the ballot set and is run by the admin
detail view whenever drift is detected.

# Notifications

Admin actions persist a notification for the poll creator (best
effort). GET /notifications lists them for the requester.
*/
package handlers
