// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation and storage access.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

The schema includes:

  - poll: Poll metadata, voting window, denormalized total_votes
  - option: Voting options with denormalized vote_count, PK (poll_id, id)
  - ballot: One ballot per voter per poll
  - notification: Persisted admin-action records

# Concurrency Model

The ballot table's UNIQUE(poll_id, voter_id) constraint is the sole
arbiter of one-vote-per-voter. Store.CreateBallot inserts first and maps
the constraint violation to ErrDuplicateBallot; there is no
check-then-write anywhere.

Counters are only ever changed by storage-side arithmetic
(AtomicIncrement's SET n = n + 1) or wholesale replacement from the
ballot set (OverwriteCounters, used by reconciliation). Ballots are the
source of truth; counters are a rebuildable cache.

# Drivers

Works against modernc.org/sqlite (dev, tests) and lib/pq (production).
Unique violations are detected by error text for both.
*/
package db
