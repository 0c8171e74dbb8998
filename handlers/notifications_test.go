// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Hega136903/unimate.ai-sub000/models"
	"github.com/Hega136903/unimate.ai-sub000/testutil"
)

func TestAdminActionsRecordNotifications(t *testing.T) {
	store := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	pollHandler := NewPollHandler(store, cfg)
	notifHandler := NewNotificationsHandler(store, cfg)

	pollID, adminKey, _ := testutil.CreateTestPoll(t, store, cfg, testutil.TestPoll{})

	w := httptest.NewRecorder()
	pollHandler.ActivatePoll(w, adminRequest("POST", "/polls/"+pollID+"/activate", pollID, adminKey))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = httptest.NewRecorder()
	pollHandler.DeactivatePoll(w, adminRequest("POST", "/polls/"+pollID+"/deactivate", pollID, adminKey))
	testutil.AssertStatus(t, w, http.StatusOK)

	// The test poll's creator is creator-1
	req := testutil.MakeRequest("GET", "/notifications", nil, map[string]string{"X-Voter-ID": "creator-1"})
	w = httptest.NewRecorder()
	notifHandler.ListNotifications(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp struct {
		Notifications []models.NotificationView `json:"notifications"`
	}
	testutil.AssertJSON(t, w, &resp)

	if len(resp.Notifications) != 2 {
		t.Fatalf("Expected 2 notifications, got %d", len(resp.Notifications))
	}
	kinds := map[string]bool{}
	for _, n := range resp.Notifications {
		kinds[n.Kind] = true
	}
	if !kinds["poll_activated"] || !kinds["poll_deactivated"] {
		t.Errorf("Expected activate and deactivate notifications, got %v", kinds)
	}
	for _, n := range resp.Notifications {
		if n.PollID != pollID {
			t.Errorf("Expected poll_id %q, got %q", pollID, n.PollID)
		}
		if n.CreatedAgo == "" {
			t.Error("Expected humanized created_ago field")
		}
	}
}

func TestListNotificationsRequiresIdentity(t *testing.T) {
	store := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewNotificationsHandler(store, cfg)

	req := testutil.MakeRequest("GET", "/notifications", nil, nil)
	w := httptest.NewRecorder()
	handler.ListNotifications(w, req)

	testutil.AssertStatus(t, w, http.StatusUnauthorized)
	testutil.AssertErrorCode(t, w, models.CodeUnauthenticated)
}

func TestNotificationsSurvivePollDeletion(t *testing.T) {
	store := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	pollHandler := NewPollHandler(store, cfg)
	notifHandler := NewNotificationsHandler(store, cfg)

	pollID, adminKey, _ := testutil.CreateTestPoll(t, store, cfg, testutil.TestPoll{})

	w := httptest.NewRecorder()
	pollHandler.DeletePoll(w, adminRequest("DELETE", "/polls/"+pollID, pollID, adminKey))
	testutil.AssertStatus(t, w, http.StatusOK)

	req := testutil.MakeRequest("GET", "/notifications", nil, map[string]string{"X-Voter-ID": "creator-1"})
	w = httptest.NewRecorder()
	notifHandler.ListNotifications(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp struct {
		Notifications []models.NotificationView `json:"notifications"`
	}
	testutil.AssertJSON(t, w, &resp)
	if len(resp.Notifications) != 1 {
		t.Fatalf("Expected the deletion notification to survive, got %d", len(resp.Notifications))
	}
	if resp.Notifications[0].Kind != "poll_deleted" {
		t.Errorf("Expected kind poll_deleted, got %q", resp.Notifications[0].Kind)
	}
}
