// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"testing"
	"time"
)

func TestDeriveState(t *testing.T) {
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		isActive bool
		start    time.Time
		end      time.Time
		expected string
	}{
		{
			name:     "active inside window",
			isActive: true,
			start:    now.Add(-time.Hour),
			end:      now.Add(time.Hour),
			expected: StateActive,
		},
		{
			name:     "paused inside window",
			isActive: false,
			start:    now.Add(-time.Hour),
			end:      now.Add(time.Hour),
			expected: StatePaused,
		},
		{
			name:     "upcoming before start even when flagged active",
			isActive: true,
			start:    now.Add(time.Hour),
			end:      now.Add(2 * time.Hour),
			expected: StateUpcoming,
		},
		{
			name:     "ended after end even when flagged active",
			isActive: true,
			start:    now.Add(-2 * time.Hour),
			end:      now.Add(-time.Hour),
			expected: StateEnded,
		},
		{
			name:     "exactly at start is inside the window",
			isActive: true,
			start:    now,
			end:      now.Add(time.Hour),
			expected: StateActive,
		},
		{
			name:     "exactly at end is inside the window",
			isActive: true,
			start:    now.Add(-time.Hour),
			end:      now,
			expected: StateActive,
		},
		{
			name:     "one instant past end is ended",
			isActive: true,
			start:    now.Add(-time.Hour),
			end:      now.Add(-time.Nanosecond),
			expected: StateEnded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveState(tt.isActive, tt.start, tt.end, now)
			if got != tt.expected {
				t.Errorf("DeriveState() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestVotingOpen(t *testing.T) {
	now := time.Now()

	poll := Poll{
		IsActive:  true,
		StartTime: now.Add(-time.Hour),
		EndTime:   now.Add(time.Hour),
	}
	if !poll.VotingOpen(now) {
		t.Error("Expected voting open for an active poll inside its window")
	}

	poll.IsActive = false
	if poll.VotingOpen(now) {
		t.Error("Expected voting closed for a paused poll")
	}

	poll.IsActive = true
	poll.StartTime = now.Add(time.Minute)
	poll.EndTime = now.Add(time.Hour)
	if poll.VotingOpen(now) {
		t.Error("Expected voting closed before start_time")
	}
}

func TestCanActivate(t *testing.T) {
	now := time.Now()

	if CanActivate(now.Add(-time.Second), now) {
		t.Error("Expected activation rejected once end_time has passed")
	}
	if !CanActivate(now.Add(time.Hour), now) {
		t.Error("Expected activation allowed before end_time")
	}
	if !CanActivate(now, now) {
		t.Error("Expected activation allowed exactly at end_time")
	}
}
