// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Hega136903/unimate.ai-sub000/cliparse"
	"github.com/Hega136903/unimate.ai-sub000/db"
	"github.com/Hega136903/unimate.ai-sub000/middleware"
	"github.com/Hega136903/unimate.ai-sub000/models"
)

type VotingHandler struct {
	store *db.Store
	cfg   cliparse.Config
}

func NewVotingHandler(store *db.Store, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{store: store, cfg: cfg}
}

// CastVote handles POST /polls/{id}/vote.
//
// Order matters: the ballot insert comes before any counter write, and
// the unique constraint on (poll_id, voter_id) decides duplicates. A
// counter failure after the ballot is committed leaves the vote in
// place; reconciliation repairs the counters later.
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")

	voterID := middleware.VoterID(r)
	if voterID == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.CodeUnauthenticated, "X-Voter-ID header required")
		return
	}

	// Parse request
	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Invalid JSON")
		return
	}
	if req.OptionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "option_id is required")
		return
	}

	poll, err := h.store.GetPollByID(pollID)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to query poll", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeStorage, "Database error")
		return
	}

	now := time.Now()

	// Votes are accepted only while the derived state is active
	if !poll.VotingOpen(now) {
		middleware.ErrorResponse(w, http.StatusConflict, models.CodeVotingClosed, "Poll is not open for voting")
		return
	}

	// Option must belong to this poll
	var option *models.Option
	for i := range poll.Options {
		if poll.Options[i].ID == req.OptionID {
			option = &poll.Options[i]
			break
		}
	}
	if option == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeInvalidOption, "Invalid option_id: "+req.OptionID)
		return
	}

	// Insert first; the constraint is the arbiter under concurrency
	ballot := models.Ballot{
		ID:        uuid.NewString(),
		PollID:    poll.ID,
		VoterID:   voterID,
		OptionID:  option.ID,
		Anonymous: poll.Anonymous,
		CastAt:    now,
	}
	err = h.store.CreateBallot(ballot)
	if errors.Is(err, db.ErrDuplicateBallot) {
		middleware.ErrorResponse(w, http.StatusConflict, models.CodeAlreadyVoted, "You have already voted in this poll")
		return
	}
	if err != nil {
		slog.Error("failed to insert ballot", "error", err, "poll_id", poll.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeStorage, "Failed to cast vote")
		return
	}

	// The ballot is committed; a counter failure here must not fail the
	// vote and must never be silent.
	if err := h.store.AtomicIncrement(poll.ID, option.ID, 1, 1); err != nil {
		slog.Error("counter update failed after ballot commit, reconcile will repair",
			"error", err, "poll_id", poll.ID, "option_id", option.ID, "ballot_id", ballot.ID)
	}

	slog.Info("vote cast", "poll_id", poll.ID, "option_id", option.ID, "ballot_id", ballot.ID)

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		BallotID:   ballot.ID,
		PollTitle:  poll.Title,
		OptionText: option.Text,
		Message:    "Vote recorded",
	})
}
