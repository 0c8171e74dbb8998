// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/Hega136903/unimate.ai-sub000/cliparse"
	"github.com/Hega136903/unimate.ai-sub000/db"
	"github.com/Hega136903/unimate.ai-sub000/middleware"
	"github.com/Hega136903/unimate.ai-sub000/models"
)

// notifyCreator persists a notification for the poll's creator.
// Non-fatal: the admin action already succeeded, so a failed insert is
// logged and swallowed.
func notifyCreator(store *db.Store, poll models.Poll, kind, message string) {
	n := models.Notification{
		ID:          uuid.NewString(),
		RecipientID: poll.CreatorID,
		PollID:      poll.ID,
		Kind:        kind,
		Message:     message,
		CreatedAt:   time.Now(),
	}
	if err := store.InsertNotification(n); err != nil {
		slog.Warn("failed to record notification", "error", err, "poll_id", poll.ID, "kind", kind)
	}
}

type NotificationsHandler struct {
	store *db.Store
	cfg   cliparse.Config
}

func NewNotificationsHandler(store *db.Store, cfg cliparse.Config) *NotificationsHandler {
	return &NotificationsHandler{store: store, cfg: cfg}
}

// ListNotifications handles GET /notifications
// Returns the requester's notifications, newest first, with a
// humanized created_ago field for display.
func (h *NotificationsHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	recipientID := middleware.VoterID(r)
	if recipientID == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.CodeUnauthenticated, "X-Voter-ID header required")
		return
	}

	notifications, err := h.store.ListNotifications(recipientID)
	if err != nil {
		slog.Error("failed to list notifications", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeStorage, "Database error")
		return
	}

	views := make([]models.NotificationView, 0, len(notifications))
	for _, n := range notifications {
		views = append(views, models.NotificationView{
			Notification: n,
			CreatedAgo:   humanize.Time(n.CreatedAt),
		})
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]interface{}{
		"notifications": views,
	})
}
