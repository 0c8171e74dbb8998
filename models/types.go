// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Derived poll states. Never stored; computed from is_active and the
// voting window on every read.
const (
	StateUpcoming = "upcoming"
	StateActive   = "active"
	StatePaused   = "paused"
	StateEnded    = "ended"
)

// Machine-readable error codes carried in ErrorResponse.Code so clients
// can branch without parsing message text.
const (
	CodeUnauthenticated   = "unauthenticated"
	CodeNotFound          = "not_found"
	CodeValidation        = "validation"
	CodeInvalidOption     = "invalid_option"
	CodeVotingClosed      = "voting_closed"
	CodeAlreadyVoted      = "already_voted"
	CodeInvalidTransition = "invalid_transition"
	CodeStorage           = "storage_unavailable"
)

// Option count bounds per poll
const (
	MinOptions = 2
	MaxOptions = 10
)

// Request types

type CreateOptionRequest struct {
	Text        string `json:"text"`
	Description string `json:"description"`
}

type CreatePollRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Category    string                `json:"category"`
	CreatorID   string                `json:"creator_id"`
	Anonymous   bool                  `json:"anonymous"`
	IsActive    bool                  `json:"is_active"`
	StartTime   time.Time             `json:"start_time"`
	EndTime     time.Time             `json:"end_time"`
	Options     []CreateOptionRequest `json:"options"`
}

type CastVoteRequest struct {
	OptionID string `json:"option_id"`
}

// Response types

type CreatePollResponse struct {
	PollID   string `json:"poll_id"`
	AdminKey string `json:"admin_key"`
}

type CastVoteResponse struct {
	BallotID   string `json:"ballot_id"`
	PollTitle  string `json:"poll_title"`
	OptionText string `json:"option_text"`
	Message    string `json:"message"`
}

type CleanupResponse struct {
	Removed int64 `json:"removed"`
}

// Domain types

type Poll struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	CreatorID   string    `json:"creator_id"`
	Anonymous   bool      `json:"anonymous"`
	IsActive    bool      `json:"is_active"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	TotalVotes  int       `json:"total_votes"`
	State       string    `json:"state"` // derived, filled at read time
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Options     []Option  `json:"options,omitempty"`
}

// Option IDs are unique within a poll, not globally.
type Option struct {
	ID          string `json:"id"`
	PollID      string `json:"poll_id"`
	Text        string `json:"text"`
	Description string `json:"description,omitempty"`
	VoteCount   int    `json:"vote_count"`
}

// Ballot rows are immutable once written. The UNIQUE(poll_id, voter_id)
// constraint on the ballot table is the one-vote-per-voter arbiter.
type Ballot struct {
	ID        string    `json:"id"`
	PollID    string    `json:"poll_id"`
	VoterID   string    `json:"-"` // Never expose in JSON
	OptionID  string    `json:"option_id"`
	Anonymous bool      `json:"anonymous"`
	CastAt    time.Time `json:"cast_at"`
}

// PollUpdate carries a partial update; nil fields are left untouched.
type PollUpdate struct {
	Title       *string
	Description *string
	Category    *string
	IsActive    *bool
	StartTime   *time.Time
	EndTime     *time.Time
}

// Results types

type RequesterStatus struct {
	HasVoted bool   `json:"has_voted"`
	OptionID string `json:"option_id,omitempty"` // withheld on anonymous polls
}

type OptionTally struct {
	OptionID   string `json:"option_id"`
	Text       string `json:"text"`
	Votes      int    `json:"votes"`
	Percentage int    `json:"percentage"`
}

type PollResults struct {
	PollID     string          `json:"poll_id"`
	Title      string          `json:"title"`
	Anonymous  bool            `json:"anonymous"`
	State      string          `json:"state"`
	TotalVotes int             `json:"total_votes"`
	Options    []OptionTally   `json:"options"`
	Requester  RequesterStatus `json:"requester"`
}

type PollWithStatus struct {
	Poll      Poll            `json:"poll"`
	Requester RequesterStatus `json:"requester"`
}

// Notifications

type Notification struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"-"` // Never expose in JSON
	PollID      string    `json:"poll_id"`
	Kind        string    `json:"kind"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}

type NotificationView struct {
	Notification
	CreatedAgo string `json:"created_ago"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}
