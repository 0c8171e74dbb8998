// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Hega136903/unimate.ai-sub000/models"
)

var (
	// ErrNotFound is returned when a poll, option, or ballot does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateBallot is returned when the ballot table's
	// UNIQUE(poll_id, voter_id) constraint rejects an insert. The
	// constraint, not application logic, decides who voted first.
	ErrDuplicateBallot = errors.New("duplicate ballot")
)

// Store wraps a *sql.DB with the queries the handlers need. Works
// against both the sqlite and postgres drivers.
type Store struct {
	DB *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

// isUniqueViolation matches the constraint error text of both supported
// drivers (modernc sqlite and lib/pq).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}

// CreatePoll inserts a poll and its options in one transaction.
func (s *Store) CreatePoll(poll models.Poll) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO poll (id, title, description, category, creator_id, anonymous, is_active, start_time, end_time, total_votes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, $10, $10)`,
		poll.ID, poll.Title, poll.Description, poll.Category, poll.CreatorID,
		poll.Anonymous, poll.IsActive, poll.StartTime, poll.EndTime, poll.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert poll: %w", err)
	}

	for _, opt := range poll.Options {
		_, err = tx.Exec(`
			INSERT INTO option (poll_id, id, text, description, vote_count)
			VALUES ($1, $2, $3, $4, 0)`,
			poll.ID, opt.ID, opt.Text, opt.Description)
		if err != nil {
			return fmt.Errorf("failed to insert option: %w", err)
		}
	}

	return tx.Commit()
}

// GetPollByID loads a poll with its options. Returns ErrNotFound if the
// poll does not exist.
func (s *Store) GetPollByID(pollID string) (models.Poll, error) {
	var poll models.Poll
	err := s.DB.QueryRow(`
		SELECT id, title, description, category, creator_id, anonymous, is_active, start_time, end_time, total_votes, created_at, updated_at
		FROM poll WHERE id = $1`, pollID).Scan(
		&poll.ID, &poll.Title, &poll.Description, &poll.Category, &poll.CreatorID,
		&poll.Anonymous, &poll.IsActive, &poll.StartTime, &poll.EndTime,
		&poll.TotalVotes, &poll.CreatedAt, &poll.UpdatedAt)
	if err == sql.ErrNoRows {
		return models.Poll{}, ErrNotFound
	}
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to query poll: %w", err)
	}

	rows, err := s.DB.Query(`
		SELECT poll_id, id, text, description, vote_count
		FROM option WHERE poll_id = $1 ORDER BY id`, pollID)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to query options: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var opt models.Option
		if err := rows.Scan(&opt.PollID, &opt.ID, &opt.Text, &opt.Description, &opt.VoteCount); err != nil {
			return models.Poll{}, fmt.Errorf("failed to scan option: %w", err)
		}
		poll.Options = append(poll.Options, opt)
	}

	return poll, rows.Err()
}

// ListPolls returns all polls without their options, newest first.
func (s *Store) ListPolls() ([]models.Poll, error) {
	rows, err := s.DB.Query(`
		SELECT id, title, description, category, creator_id, anonymous, is_active, start_time, end_time, total_votes, created_at, updated_at
		FROM poll ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query polls: %w", err)
	}
	defer rows.Close()

	var polls []models.Poll
	for rows.Next() {
		var poll models.Poll
		if err := rows.Scan(
			&poll.ID, &poll.Title, &poll.Description, &poll.Category, &poll.CreatorID,
			&poll.Anonymous, &poll.IsActive, &poll.StartTime, &poll.EndTime,
			&poll.TotalVotes, &poll.CreatedAt, &poll.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		polls = append(polls, poll)
	}

	return polls, rows.Err()
}

// UpdatePollFields applies a partial update; nil fields are untouched.
// updated_at always advances. Returns ErrNotFound for unknown polls.
func (s *Store) UpdatePollFields(pollID string, fields models.PollUpdate) error {
	var set []string
	var args []any

	add := func(column string, value any) {
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, value)
	}

	if fields.Title != nil {
		add("title", *fields.Title)
	}
	if fields.Description != nil {
		add("description", *fields.Description)
	}
	if fields.Category != nil {
		add("category", *fields.Category)
	}
	if fields.IsActive != nil {
		add("is_active", *fields.IsActive)
	}
	if fields.StartTime != nil {
		add("start_time", *fields.StartTime)
	}
	if fields.EndTime != nil {
		add("end_time", *fields.EndTime)
	}
	add("updated_at", time.Now().UTC())

	args = append(args, pollID)
	query := fmt.Sprintf("UPDATE poll SET %s WHERE id = $%d", strings.Join(set, ", "), len(args))

	res, err := s.DB.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update poll: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}

// DeletePollCascade removes a poll, its options, and its ballots in one
// transaction. Deletes are explicit so behavior does not depend on the
// driver's foreign-key enforcement.
func (s *Store) DeletePollCascade(pollID string) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM ballot WHERE poll_id = $1`, pollID); err != nil {
		return fmt.Errorf("failed to delete ballots: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM option WHERE poll_id = $1`, pollID); err != nil {
		return fmt.Errorf("failed to delete options: %w", err)
	}

	res, err := tx.Exec(`DELETE FROM poll WHERE id = $1`, pollID)
	if err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// CreateBallot inserts a ballot. Insert-first: a second ballot for the
// same (poll, voter) fails with ErrDuplicateBallot from the unique
// constraint, regardless of how many requests race.
func (s *Store) CreateBallot(ballot models.Ballot) error {
	_, err := s.DB.Exec(`
		INSERT INTO ballot (id, poll_id, voter_id, option_id, anonymous, cast_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		ballot.ID, ballot.PollID, ballot.VoterID, ballot.OptionID, ballot.Anonymous, ballot.CastAt)
	if isUniqueViolation(err) {
		return ErrDuplicateBallot
	}
	if err != nil {
		return fmt.Errorf("failed to insert ballot: %w", err)
	}

	return nil
}

// FindBallot returns the requester's ballot in a poll, or ErrNotFound.
func (s *Store) FindBallot(pollID, voterID string) (models.Ballot, error) {
	var ballot models.Ballot
	err := s.DB.QueryRow(`
		SELECT id, poll_id, voter_id, option_id, anonymous, cast_at
		FROM ballot WHERE poll_id = $1 AND voter_id = $2`, pollID, voterID).Scan(
		&ballot.ID, &ballot.PollID, &ballot.VoterID, &ballot.OptionID, &ballot.Anonymous, &ballot.CastAt)
	if err == sql.ErrNoRows {
		return models.Ballot{}, ErrNotFound
	}
	if err != nil {
		return models.Ballot{}, fmt.Errorf("failed to query ballot: %w", err)
	}

	return ballot, nil
}

// ListBallots returns every ballot for a poll in cast order.
func (s *Store) ListBallots(pollID string) ([]models.Ballot, error) {
	rows, err := s.DB.Query(`
		SELECT id, poll_id, voter_id, option_id, anonymous, cast_at
		FROM ballot WHERE poll_id = $1 ORDER BY cast_at, id`, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ballots: %w", err)
	}
	defer rows.Close()

	var ballots []models.Ballot
	for rows.Next() {
		var ballot models.Ballot
		if err := rows.Scan(&ballot.ID, &ballot.PollID, &ballot.VoterID, &ballot.OptionID, &ballot.Anonymous, &ballot.CastAt); err != nil {
			return nil, fmt.Errorf("failed to scan ballot: %w", err)
		}
		ballots = append(ballots, ballot)
	}

	return ballots, rows.Err()
}

// CountBallots returns the true ballot count for a poll, bypassing the
// denormalized counters.
func (s *Store) CountBallots(pollID string) (int, error) {
	var count int
	err := s.DB.QueryRow(`SELECT COUNT(*) FROM ballot WHERE poll_id = $1`, pollID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count ballots: %w", err)
	}

	return count, nil
}

// AtomicIncrement bumps the option and poll counters by storage-side
// addition. Counters are never read before writing, so concurrent
// increments cannot lose updates. Returns ErrNotFound if the option
// does not belong to the poll.
func (s *Store) AtomicIncrement(pollID, optionID string, deltaOption, deltaTotal int) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE option SET vote_count = vote_count + $1
		WHERE poll_id = $2 AND id = $3`, deltaOption, pollID, optionID)
	if err != nil {
		return fmt.Errorf("failed to increment option counter: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	_, err = tx.Exec(`
		UPDATE poll SET total_votes = total_votes + $1, updated_at = $2
		WHERE id = $3`, deltaTotal, time.Now().UTC(), pollID)
	if err != nil {
		return fmt.Errorf("failed to increment poll counter: %w", err)
	}

	return tx.Commit()
}

// OverwriteCounters replaces every counter for a poll with the given
// authoritative values. Options absent from counts are reset to zero.
// Used by reconciliation only.
func (s *Store) OverwriteCounters(pollID string, counts map[string]int, total int) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE option SET vote_count = 0 WHERE poll_id = $1`, pollID); err != nil {
		return fmt.Errorf("failed to reset option counters: %w", err)
	}
	for optionID, count := range counts {
		if _, err := tx.Exec(`
			UPDATE option SET vote_count = $1
			WHERE poll_id = $2 AND id = $3`, count, pollID, optionID); err != nil {
			return fmt.Errorf("failed to write option counter: %w", err)
		}
	}

	if _, err := tx.Exec(`
		UPDATE poll SET total_votes = $1, updated_at = $2
		WHERE id = $3`, total, time.Now().UTC(), pollID); err != nil {
		return fmt.Errorf("failed to write poll counter: %w", err)
	}

	return tx.Commit()
}

// CleanupInvalidBallots deletes ballots with no voter identity and
// returns how many were removed. Counters are not touched here; the
// next reconcile absorbs the difference.
func (s *Store) CleanupInvalidBallots() (int64, error) {
	res, err := s.DB.Exec(`DELETE FROM ballot WHERE voter_id IS NULL OR voter_id = ''`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete invalid ballots: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}

	return n, nil
}

// InsertNotification persists a notification record.
func (s *Store) InsertNotification(n models.Notification) error {
	_, err := s.DB.Exec(`
		INSERT INTO notification (id, recipient_id, poll_id, kind, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		n.ID, n.RecipientID, n.PollID, n.Kind, n.Message, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}

	return nil
}

// ListNotifications returns a recipient's notifications, newest first.
func (s *Store) ListNotifications(recipientID string) ([]models.Notification, error) {
	rows, err := s.DB.Query(`
		SELECT id, recipient_id, poll_id, kind, message, created_at
		FROM notification WHERE recipient_id = $1 ORDER BY created_at DESC, id`, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.PollID, &n.Kind, &n.Message, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}
