// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"math"
	"time"

	"github.com/Hega136903/unimate.ai-sub000/db"
	"github.com/Hega136903/unimate.ai-sub000/models"
)

// ComputeResults builds the authoritative tally for a poll directly
// from its ballots. The denormalized counters are ignored here; they
// are a cache for list views, not an input to results.
//
// voterID may be "" for unauthenticated requesters. On anonymous polls
// the requester still learns that they voted, but not which option.
func ComputeResults(store *db.Store, poll models.Poll, voterID string) (models.PollResults, error) {
	ballots, err := store.ListBallots(poll.ID)
	if err != nil {
		return models.PollResults{}, fmt.Errorf("failed to list ballots: %w", err)
	}

	counts := make(map[string]int)
	var requester models.RequesterStatus
	for _, ballot := range ballots {
		counts[ballot.OptionID]++
		if voterID != "" && ballot.VoterID == voterID {
			requester.HasVoted = true
			if !poll.Anonymous {
				requester.OptionID = ballot.OptionID
			}
		}
	}

	total := len(ballots)
	tallies := make([]models.OptionTally, 0, len(poll.Options))
	for _, opt := range poll.Options {
		votes := counts[opt.ID]
		percentage := 0
		if total > 0 {
			percentage = int(math.Round(float64(votes) / float64(total) * 100))
		}
		tallies = append(tallies, models.OptionTally{
			OptionID:   opt.ID,
			Text:       opt.Text,
			Votes:      votes,
			Percentage: percentage,
		})
	}

	return models.PollResults{
		PollID:     poll.ID,
		Title:      poll.Title,
		Anonymous:  poll.Anonymous,
		State:      poll.DerivedState(time.Now()),
		TotalVotes: total,
		Options:    tallies,
		Requester:  requester,
	}, nil
}

// Reconcile overwrites the poll's denormalized counters with values
// recomputed from the ballot set. Ballots are never touched. Running it
// twice in a row is a no-op the second time; it reports whether
// anything had drifted.
func Reconcile(store *db.Store, poll models.Poll) (bool, error) {
	ballots, err := store.ListBallots(poll.ID)
	if err != nil {
		return false, fmt.Errorf("failed to list ballots: %w", err)
	}

	counts := make(map[string]int)
	for _, ballot := range ballots {
		counts[ballot.OptionID]++
	}
	total := len(ballots)

	drifted := total != poll.TotalVotes
	for _, opt := range poll.Options {
		if counts[opt.ID] != opt.VoteCount {
			drifted = true
		}
	}
	if !drifted {
		return false, nil
	}

	if err := store.OverwriteCounters(poll.ID, counts, total); err != nil {
		return false, fmt.Errorf("failed to overwrite counters: %w", err)
	}

	return true, nil
}
