// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Hega136903/unimate.ai-sub000/models"
	"github.com/Hega136903/unimate.ai-sub000/testutil"
)

// TestFullVotingWorkflow tests the complete end-to-end workflow:
// 1. Create poll (inactive)
// 2. Activate it
// 3. Two voters cast votes
// 4. Check the live results
// 5. Deactivate and verify votes are refused
// 6. Delete the poll
func TestFullVotingWorkflow(t *testing.T) {
	store := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	pollHandler := NewPollHandler(store, cfg)
	votingHandler := NewVotingHandler(store, cfg)
	resultsHandler := NewResultsHandler(store, cfg)

	// Step 1: Create a poll
	now := time.Now()
	createReq := models.CreatePollRequest{
		Title:       "Best Mascot",
		Description: "Pick the new campus mascot",
		Category:    "campus-life",
		CreatorID:   "student-council",
		StartTime:   now.Add(-time.Minute),
		EndTime:     now.Add(time.Hour),
		Options: []models.CreateOptionRequest{
			{Text: "Huskies"},
			{Text: "Owls"},
		},
	}
	req := testutil.MakeRequest("POST", "/polls", createReq, nil)
	w := httptest.NewRecorder()
	pollHandler.CreatePoll(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var created models.CreatePollResponse
	testutil.AssertJSON(t, w, &created)

	// Votes are refused while the poll is paused
	poll, err := store.GetPollByID(created.PollID)
	if err != nil {
		t.Fatalf("GetPollByID failed: %v", err)
	}
	optionIDs := []string{poll.Options[0].ID, poll.Options[1].ID}

	w = castVote(t, votingHandler, created.PollID, "u1", optionIDs[0])
	testutil.AssertStatus(t, w, http.StatusConflict)
	testutil.AssertErrorCode(t, w, models.CodeVotingClosed)

	// Step 2: Activate
	w = httptest.NewRecorder()
	pollHandler.ActivatePoll(w, adminRequest("POST", "/polls/"+created.PollID+"/activate", created.PollID, created.AdminKey))
	testutil.AssertStatus(t, w, http.StatusOK)

	// Step 3: Two voters
	w = castVote(t, votingHandler, created.PollID, "u1", optionIDs[0])
	testutil.AssertStatus(t, w, http.StatusCreated)
	w = castVote(t, votingHandler, created.PollID, "u2", optionIDs[1])
	testutil.AssertStatus(t, w, http.StatusCreated)

	// Step 4: Results
	w = getResults(t, resultsHandler, created.PollID, "u1")
	testutil.AssertStatus(t, w, http.StatusOK)

	var results models.PollResults
	testutil.AssertJSON(t, w, &results)
	if results.TotalVotes != 2 {
		t.Errorf("Expected total_votes 2, got %d", results.TotalVotes)
	}
	for _, tally := range results.Options {
		if tally.Percentage != 50 {
			t.Errorf("Expected 50%% for %q, got %d%%", tally.Text, tally.Percentage)
		}
	}

	// Step 5: Deactivate, then a late voter is refused
	w = httptest.NewRecorder()
	pollHandler.DeactivatePoll(w, adminRequest("POST", "/polls/"+created.PollID+"/deactivate", created.PollID, created.AdminKey))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = castVote(t, votingHandler, created.PollID, "u3", optionIDs[0])
	testutil.AssertStatus(t, w, http.StatusConflict)
	testutil.AssertErrorCode(t, w, models.CodeVotingClosed)

	// Step 6: Delete
	w = httptest.NewRecorder()
	pollHandler.DeletePoll(w, adminRequest("DELETE", "/polls/"+created.PollID, created.PollID, created.AdminKey))
	testutil.AssertStatus(t, w, http.StatusOK)

	req = testutil.MakeRequest("GET", "/polls/"+created.PollID, nil, nil)
	req.SetPathValue("id", created.PollID)
	w = httptest.NewRecorder()
	resultsHandler.GetPoll(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}
