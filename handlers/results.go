// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Hega136903/unimate.ai-sub000/cliparse"
	"github.com/Hega136903/unimate.ai-sub000/db"
	"github.com/Hega136903/unimate.ai-sub000/middleware"
	"github.com/Hega136903/unimate.ai-sub000/models"
)

type ResultsHandler struct {
	store *db.Store
	cfg   cliparse.Config
}

func NewResultsHandler(store *db.Store, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{store: store, cfg: cfg}
}

// ListPolls handles GET /polls
// Derived state is filled on every poll; options are omitted.
func (h *ResultsHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	polls, err := h.store.ListPolls()
	if err != nil {
		slog.Error("failed to list polls", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeStorage, "Database error")
		return
	}

	now := time.Now()
	for i := range polls {
		polls[i].State = polls[i].DerivedState(now)
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]interface{}{
		"polls": polls,
	})
}

// GetPoll handles GET /polls/{id}
// Returns the poll, its options, and the requester's voted status when
// an X-Voter-ID header is present.
func (h *ResultsHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")

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
	poll.State = poll.DerivedState(time.Now())

	var requester models.RequesterStatus
	if voterID := middleware.VoterID(r); voterID != "" {
		ballot, err := h.store.FindBallot(pollID, voterID)
		switch {
		case err == nil:
			requester.HasVoted = true
			if !poll.Anonymous {
				requester.OptionID = ballot.OptionID
			}
		case errors.Is(err, db.ErrNotFound):
			// Has not voted
		default:
			slog.Error("failed to query ballot", "error", err, "poll_id", pollID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeStorage, "Database error")
			return
		}
	}

	middleware.JSONResponse(w, http.StatusOK, models.PollWithStatus{
		Poll:      poll,
		Requester: requester,
	})
}

// GetResults handles GET /polls/{id}/results
// The tally is computed live from ballots; results are visible in every
// lifecycle state.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")

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

	results, err := ComputeResults(h.store, poll, middleware.VoterID(r))
	if err != nil {
		slog.Error("failed to compute results", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeStorage, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, results)
}
