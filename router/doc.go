// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the campus polls API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(store, cfg)

# Endpoints

Health:

	GET /health

Poll management (admin, requires X-Admin-Key):

	POST   /polls                  - Create poll (returns admin_key)
	GET    /polls/{id}/admin       - Admin detail view, reconciles drift
	POST   /polls/{id}/activate    - Turn voting on
	POST   /polls/{id}/deactivate  - Pause voting
	DELETE /polls/{id}             - Delete poll and ballots

Maintenance (requires X-Maintenance-Key):

	POST /admin/ballots/cleanup - Remove voterless ballots

Voting (requires X-Voter-ID):

	POST /polls/{id}/vote - Cast a vote

Retrieval (public, X-Voter-ID optional for voted status):

	GET /polls              - List polls with derived state
	GET /polls/{id}         - Poll, options, requester status
	GET /polls/{id}/results - Live tally

Notifications (requires X-Voter-ID):

	GET /notifications

# Handler Initialization

The router creates handler instances with dependency injection:

	pollHandler := handlers.NewPollHandler(store, cfg)
	votingHandler := handlers.NewVotingHandler(store, cfg)
	resultsHandler := handlers.NewResultsHandler(store, cfg)
	notificationsHandler := handlers.NewNotificationsHandler(store, cfg)

All handlers receive the store and configuration.
*/
package router
