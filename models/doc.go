// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API,
plus the derived poll lifecycle state machine.

# Request Types

Types for parsing incoming JSON:

  - CreatePollRequest: title, description, category, creator_id, window, options
  - CastVoteRequest: option_id

# Response Types

Types for JSON responses:

  - CreatePollResponse: poll_id, admin_key
  - CastVoteResponse: ballot_id, poll_title, option_text, message
  - PollResults: tally view with per-option votes and percentages
  - PollWithStatus: poll plus the requester's voted status
  - CleanupResponse: removed
  - ErrorResponse: error, code, message

# Domain Types

Internal data structures:

  - Poll: poll metadata, voting window, denormalized total_votes
  - Option: voting option with denormalized vote_count
  - Ballot: immutable vote record; voter ID never serialized
  - Notification: persisted record of an admin action

# Lifecycle

A poll's state is never stored. DeriveState computes it from is_active
and the voting window:

	upcoming  now < start_time
	active    is_active and start_time <= now <= end_time
	paused    !is_active and start_time <= now <= end_time
	ended     now > end_time

Votes are accepted only in the active state. CanActivate rejects
activation once the window has closed; deactivation is always legal.
*/
package models
