// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// DeriveState computes the lifecycle state of a poll at the given
// instant. The window boundaries are inclusive: a poll is still votable
// at exactly end_time.
func DeriveState(isActive bool, start, end, now time.Time) string {
	switch {
	case now.After(end):
		return StateEnded
	case now.Before(start):
		return StateUpcoming
	case isActive:
		return StateActive
	default:
		return StatePaused
	}
}

// DerivedState is DeriveState over the poll's own fields.
func (p *Poll) DerivedState(now time.Time) string {
	return DeriveState(p.IsActive, p.StartTime, p.EndTime, now)
}

// VotingOpen reports whether a vote may be cast right now. Only the
// active state accepts ballots.
func (p *Poll) VotingOpen(now time.Time) bool {
	return p.DerivedState(now) == StateActive
}

// CanActivate reports whether activation is a legal transition. Ended
// polls stay ended; everything else may be switched on, including polls
// whose start is still in the future (they derive to upcoming until the
// window opens).
func CanActivate(end, now time.Time) bool {
	return !now.After(end)
}
