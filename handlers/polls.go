// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/Hega136903/unimate.ai-sub000/auth"
	"github.com/Hega136903/unimate.ai-sub000/cliparse"
	"github.com/Hega136903/unimate.ai-sub000/db"
	"github.com/Hega136903/unimate.ai-sub000/middleware"
	"github.com/Hega136903/unimate.ai-sub000/models"
)

type PollHandler struct {
	store *db.Store
	cfg   cliparse.Config
}

func NewPollHandler(store *db.Store, cfg cliparse.Config) *PollHandler {
	return &PollHandler{store: store, cfg: cfg}
}

// CreatePoll handles POST /polls
// The poll is created complete: options are part of the request, not
// added afterwards.
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Invalid JSON")
		return
	}

	// Validate input
	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "title is required")
		return
	}
	if req.CreatorID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "creator_id is required")
		return
	}
	if len(req.Options) < models.MinOptions || len(req.Options) > models.MaxOptions {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "polls must have between 2 and 10 options")
		return
	}
	for _, opt := range req.Options {
		if opt.Text == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "option text is required")
			return
		}
	}
	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "start_time and end_time are required")
		return
	}
	if !req.EndTime.After(req.StartTime) {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "end_time must be after start_time")
		return
	}

	now := time.Now()
	if req.IsActive && !models.CanActivate(req.EndTime, now) {
		middleware.ErrorResponse(w, http.StatusConflict, models.CodeInvalidTransition, "Cannot create an active poll whose end_time has passed")
		return
	}

	poll := models.Poll{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		CreatorID:   req.CreatorID,
		Anonymous:   req.Anonymous,
		IsActive:    req.IsActive,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range req.Options {
		poll.Options = append(poll.Options, models.Option{
			ID:          uuid.NewString(),
			PollID:      poll.ID,
			Text:        opt.Text,
			Description: opt.Description,
		})
	}

	if err := h.store.CreatePoll(poll); err != nil {
		slog.Error("failed to insert poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeStorage, "Failed to create poll")
		return
	}

	adminKey := auth.GenerateAdminKey(poll.ID, h.cfg.AdminKeySalt)

	slog.Info("poll created", "poll_id", poll.ID, "creator_id", req.CreatorID, "options", len(poll.Options))

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePollResponse{
		PollID:   poll.ID,
		AdminKey: adminKey,
	})
}

// requireAdmin validates the X-Admin-Key header and loads the poll.
// Writes the error response itself; callers bail out when ok is false.
func (h *PollHandler) requireAdmin(w http.ResponseWriter, r *http.Request, pollID string) (models.Poll, bool) {
	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(pollID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.CodeUnauthenticated, "Invalid admin key")
		return models.Poll{}, false
	}

	poll, err := h.store.GetPollByID(pollID)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "Poll not found")
		return models.Poll{}, false
	}
	if err != nil {
		slog.Error("failed to query poll", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeStorage, "Database error")
		return models.Poll{}, false
	}

	return poll, true
}

// ActivatePoll handles POST /polls/{id}/activate
// Activation is rejected once the voting window has closed; an ended
// poll never comes back. Activating before start_time is fine, the
// derived state stays upcoming until the window opens.
func (h *PollHandler) ActivatePoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")

	poll, ok := h.requireAdmin(w, r, pollID)
	if !ok {
		return
	}

	now := time.Now()
	if !models.CanActivate(poll.EndTime, now) {
		middleware.ErrorResponse(w, http.StatusConflict, models.CodeInvalidTransition, "Cannot activate a poll that has already ended")
		return
	}

	active := true
	if err := h.store.UpdatePollFields(pollID, models.PollUpdate{IsActive: &active}); err != nil {
		slog.Error("failed to activate poll", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeStorage, "Failed to activate poll")
		return
	}
	poll.IsActive = true
	poll.State = poll.DerivedState(now)

	notifyCreator(h.store, poll, "poll_activated", "Poll \""+poll.Title+"\" was activated")

	slog.Info("poll activated", "poll_id", pollID, "state", poll.State)

	middleware.JSONResponse(w, http.StatusOK, poll)
}

// DeactivatePoll handles POST /polls/{id}/deactivate
// Always a legal transition.
func (h *PollHandler) DeactivatePoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")

	poll, ok := h.requireAdmin(w, r, pollID)
	if !ok {
		return
	}

	active := false
	if err := h.store.UpdatePollFields(pollID, models.PollUpdate{IsActive: &active}); err != nil {
		slog.Error("failed to deactivate poll", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeStorage, "Failed to deactivate poll")
		return
	}
	poll.IsActive = false
	poll.State = poll.DerivedState(time.Now())

	notifyCreator(h.store, poll, "poll_deactivated", "Poll \""+poll.Title+"\" was paused")

	slog.Info("poll deactivated", "poll_id", pollID, "state", poll.State)

	middleware.JSONResponse(w, http.StatusOK, poll)
}

// DeletePoll handles DELETE /polls/{id}
// Removes the poll with its options and ballots.
func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")

	poll, ok := h.requireAdmin(w, r, pollID)
	if !ok {
		return
	}

	// Record before the poll row disappears
	notifyCreator(h.store, poll, "poll_deleted", "Poll \""+poll.Title+"\" was deleted")

	if err := h.store.DeletePollCascade(pollID); err != nil {
		slog.Error("failed to delete poll", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeStorage, "Failed to delete poll")
		return
	}

	slog.Info("poll deleted", "poll_id", pollID)

	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"message": "Poll deleted",
	})
}

// GetPollAdmin handles GET /polls/{id}/admin
// The admin view compares the denormalized counters against the ballot
// set and reconciles on drift, so admins always see healed numbers.
func (h *PollHandler) GetPollAdmin(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")

	poll, ok := h.requireAdmin(w, r, pollID)
	if !ok {
		return
	}

	reconciled, err := Reconcile(h.store, poll)
	if err != nil {
		slog.Error("failed to reconcile poll", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeStorage, "Database error")
		return
	}
	if reconciled {
		slog.Warn("counter drift repaired", "poll_id", pollID)
		poll, err = h.store.GetPollByID(pollID)
		if err != nil {
			slog.Error("failed to reload poll", "error", err, "poll_id", pollID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeStorage, "Database error")
			return
		}
	}

	ballotCount, err := h.store.CountBallots(pollID)
	if err != nil {
		slog.Error("failed to count ballots", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeStorage, "Database error")
		return
	}

	now := time.Now()
	poll.State = poll.DerivedState(now)

	middleware.JSONResponse(w, http.StatusOK, map[string]interface{}{
		"poll":         poll,
		"ballot_count": ballotCount,
		"reconciled":   reconciled,
		"ends":         humanize.Time(poll.EndTime),
	})
}

// CleanupBallots handles POST /admin/ballots/cleanup
// Service-wide maintenance: removes ballots that carry no voter
// identity. Guarded by the maintenance key, not a per-poll admin key.
func (h *PollHandler) CleanupBallots(w http.ResponseWriter, r *http.Request) {
	key := r.Header.Get("X-Maintenance-Key")
	if err := auth.ValidateMaintenanceKey(key, h.cfg.MaintenanceKey); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.CodeUnauthenticated, "Invalid maintenance key")
		return
	}

	removed, err := h.store.CleanupInvalidBallots()
	if err != nil {
		slog.Error("failed to clean up ballots", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeStorage, "Failed to clean up ballots")
		return
	}

	slog.Info("invalid ballots removed", "removed", removed)

	middleware.JSONResponse(w, http.StatusOK, models.CleanupResponse{
		Removed: removed,
	})
}
