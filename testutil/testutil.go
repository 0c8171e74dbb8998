// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Hega136903/unimate.ai-sub000/auth"
	"github.com/Hega136903/unimate.ai-sub000/cliparse"
	"github.com/Hega136903/unimate.ai-sub000/db"
	"github.com/Hega136903/unimate.ai-sub000/models"
)

// SetupTestDB creates a fresh sqlite-backed store with the full schema.
// One connection with a busy timeout keeps concurrent handler tests
// deterministic.
func SetupTestDB(t *testing.T) *db.Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") +
		"?_pragma=foreign_keys(1)&_pragma=busy_timeout(10000)"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return db.NewStore(conn)
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           8080,
		DatabaseURL:    "test.db",
		DatabaseType:   "sqlite",
		AdminKeySalt:   "test-admin-salt",
		MaintenanceKey: "test-maintenance-key",
	}
}

// TestPoll describes the poll a test needs. Zero values get sensible
// defaults: a two-option poll whose window opened an hour ago and
// closes in an hour.
type TestPoll struct {
	Active    bool
	Anonymous bool
	StartTime time.Time
	EndTime   time.Time
	Options   []string
}

// CreateTestPoll inserts a poll and returns its ID, admin key, and
// option IDs in the order given.
func CreateTestPoll(t *testing.T, store *db.Store, cfg cliparse.Config, tp TestPoll) (pollID, adminKey string, optionIDs []string) {
	t.Helper()

	if tp.StartTime.IsZero() {
		tp.StartTime = time.Now().Add(-time.Hour)
	}
	if tp.EndTime.IsZero() {
		tp.EndTime = time.Now().Add(time.Hour)
	}
	if len(tp.Options) == 0 {
		tp.Options = []string{"Option A", "Option B"}
	}

	poll := models.Poll{
		ID:        uuid.NewString(),
		Title:     "Test Poll",
		CreatorID: "creator-1",
		Anonymous: tp.Anonymous,
		IsActive:  tp.Active,
		StartTime: tp.StartTime,
		EndTime:   tp.EndTime,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	for _, text := range tp.Options {
		opt := models.Option{ID: uuid.NewString(), PollID: poll.ID, Text: text}
		poll.Options = append(poll.Options, opt)
		optionIDs = append(optionIDs, opt.ID)
	}

	if err := store.CreatePoll(poll); err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	return poll.ID, auth.GenerateAdminKey(poll.ID, cfg.AdminKeySalt), optionIDs
}

// CastTestBallot inserts a ballot and bumps the counters, the same two
// writes the vote handler performs.
func CastTestBallot(t *testing.T, store *db.Store, pollID, voterID, optionID string) string {
	t.Helper()

	ballot := models.Ballot{
		ID:       uuid.NewString(),
		PollID:   pollID,
		VoterID:  voterID,
		OptionID: optionID,
		CastAt:   time.Now(),
	}
	if err := store.CreateBallot(ballot); err != nil {
		t.Fatalf("Failed to create test ballot: %v", err)
	}
	if err := store.AtomicIncrement(pollID, optionID, 1, 1); err != nil {
		t.Fatalf("Failed to increment counters: %v", err)
	}

	return ballot.ID
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// AssertErrorCode checks the machine code in an error response body
func AssertErrorCode(t *testing.T, w *httptest.ResponseRecorder, expected string) {
	t.Helper()
	var body models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if body.Code != expected {
		t.Errorf("Expected error code %q, got %q (message: %q)", expected, body.Code, body.Message)
	}
}
