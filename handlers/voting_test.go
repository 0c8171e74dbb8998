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

func castVote(t *testing.T, handler *VotingHandler, pollID, voterID, optionID string) *httptest.ResponseRecorder {
	t.Helper()

	headers := map[string]string{}
	if voterID != "" {
		headers["X-Voter-ID"] = voterID
	}
	req := testutil.MakeRequest("POST", "/polls/"+pollID+"/vote", models.CastVoteRequest{OptionID: optionID}, headers)
	req.SetPathValue("id", pollID)
	w := httptest.NewRecorder()
	handler.CastVote(w, req)
	return w
}

// Two voters pick the first option; the first voter's second attempt
// (for a different option) must bounce off the unique constraint and
// change nothing.
func TestCastVoteScenario(t *testing.T) {
	store := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(store, cfg)

	pollID, _, optionIDs := testutil.CreateTestPoll(t, store, cfg, testutil.TestPoll{
		Active:  true,
		Options: []string{"Huskies", "Owls"},
	})

	// u1 votes o1
	w := castVote(t, handler, pollID, "u1", optionIDs[0])
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.CastVoteResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.BallotID == "" {
		t.Error("Expected non-empty ballot_id")
	}
	if resp.PollTitle != "Test Poll" {
		t.Errorf("Expected poll title in confirmation, got %q", resp.PollTitle)
	}
	if resp.OptionText != "Huskies" {
		t.Errorf("Expected option text in confirmation, got %q", resp.OptionText)
	}

	// u1 tries again with a different option
	w = castVote(t, handler, pollID, "u1", optionIDs[1])
	testutil.AssertStatus(t, w, http.StatusConflict)
	testutil.AssertErrorCode(t, w, models.CodeAlreadyVoted)

	// u2 votes o1
	w = castVote(t, handler, pollID, "u2", optionIDs[0])
	testutil.AssertStatus(t, w, http.StatusCreated)

	poll, err := store.GetPollByID(pollID)
	if err != nil {
		t.Fatalf("GetPollByID failed: %v", err)
	}
	if poll.TotalVotes != 2 {
		t.Errorf("Expected total_votes 2, got %d", poll.TotalVotes)
	}
	for _, opt := range poll.Options {
		switch opt.ID {
		case optionIDs[0]:
			if opt.VoteCount != 2 {
				t.Errorf("Expected 2 votes on first option, got %d", opt.VoteCount)
			}
		case optionIDs[1]:
			if opt.VoteCount != 0 {
				t.Errorf("Expected 0 votes on second option, got %d", opt.VoteCount)
			}
		}
	}
}

func TestCastVoteUnauthenticated(t *testing.T) {
	store := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(store, cfg)

	pollID, _, optionIDs := testutil.CreateTestPoll(t, store, cfg, testutil.TestPoll{Active: true})

	w := castVote(t, handler, pollID, "", optionIDs[0])
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
	testutil.AssertErrorCode(t, w, models.CodeUnauthenticated)
}

func TestCastVotePollNotFound(t *testing.T) {
	store := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(store, cfg)

	w := castVote(t, handler, "no-such-poll", "u1", "o1")
	testutil.AssertStatus(t, w, http.StatusNotFound)
	testutil.AssertErrorCode(t, w, models.CodeNotFound)
}

func TestCastVoteInvalidOption(t *testing.T) {
	store := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(store, cfg)

	pollID, _, _ := testutil.CreateTestPoll(t, store, cfg, testutil.TestPoll{Active: true})

	w := castVote(t, handler, pollID, "u1", "not-an-option")
	testutil.AssertStatus(t, w, http.StatusBadRequest)
	testutil.AssertErrorCode(t, w, models.CodeInvalidOption)

	// No ballot, no counter movement
	count, err := store.CountBallots(pollID)
	if err != nil {
		t.Fatalf("CountBallots failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 ballots after rejected vote, got %d", count)
	}
	poll, _ := store.GetPollByID(pollID)
	if poll.TotalVotes != 0 {
		t.Errorf("Expected total_votes 0 after rejected vote, got %d", poll.TotalVotes)
	}
}

func TestCastVoteClosedStates(t *testing.T) {
	store := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(store, cfg)

	now := time.Now()

	tests := []struct {
		name string
		poll testutil.TestPoll
	}{
		{
			name: "paused poll",
			poll: testutil.TestPoll{Active: false},
		},
		{
			name: "upcoming poll flagged active",
			poll: testutil.TestPoll{
				Active:    true,
				StartTime: now.Add(time.Hour),
				EndTime:   now.Add(2 * time.Hour),
			},
		},
		{
			name: "ended poll flagged active",
			poll: testutil.TestPoll{
				Active:    true,
				StartTime: now.Add(-2 * time.Hour),
				EndTime:   now.Add(-time.Hour),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pollID, _, optionIDs := testutil.CreateTestPoll(t, store, cfg, tt.poll)

			w := castVote(t, handler, pollID, "u1", optionIDs[0])
			testutil.AssertStatus(t, w, http.StatusConflict)
			testutil.AssertErrorCode(t, w, models.CodeVotingClosed)
		})
	}
}

func TestCastVoteMissingOptionID(t *testing.T) {
	store := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(store, cfg)

	pollID, _, _ := testutil.CreateTestPoll(t, store, cfg, testutil.TestPoll{Active: true})

	req := testutil.MakeRequest("POST", "/polls/"+pollID+"/vote", models.CastVoteRequest{}, map[string]string{
		"X-Voter-ID": "u1",
	})
	req.SetPathValue("id", pollID)
	w := httptest.NewRecorder()
	handler.CastVote(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
	testutil.AssertErrorCode(t, w, models.CodeValidation)
}

// Anonymous polls record the flag on the ballot itself.
func TestCastVoteAnonymousFlag(t *testing.T) {
	store := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(store, cfg)

	pollID, _, optionIDs := testutil.CreateTestPoll(t, store, cfg, testutil.TestPoll{Active: true, Anonymous: true})

	w := castVote(t, handler, pollID, "u1", optionIDs[0])
	testutil.AssertStatus(t, w, http.StatusCreated)

	ballot, err := store.FindBallot(pollID, "u1")
	if err != nil {
		t.Fatalf("FindBallot failed: %v", err)
	}
	if !ballot.Anonymous {
		t.Error("Expected ballot to carry the poll's anonymous flag")
	}
}
