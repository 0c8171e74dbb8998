// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/Hega136903/unimate.ai-sub000/cliparse"
	"github.com/Hega136903/unimate.ai-sub000/db"
	"github.com/Hega136903/unimate.ai-sub000/handlers"
	"github.com/Hega136903/unimate.ai-sub000/middleware"
)

func NewRouter(store *db.Store, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	pollHandler := handlers.NewPollHandler(store, cfg)
	votingHandler := handlers.NewVotingHandler(store, cfg)
	resultsHandler := handlers.NewResultsHandler(store, cfg)
	notificationsHandler := handlers.NewNotificationsHandler(store, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Poll management (admin operations)
	mux.HandleFunc("POST /polls", middleware.WithLogging(pollHandler.CreatePoll))
	mux.HandleFunc("GET /polls/{id}/admin", middleware.WithLogging(pollHandler.GetPollAdmin))
	mux.HandleFunc("POST /polls/{id}/activate", middleware.WithLogging(pollHandler.ActivatePoll))
	mux.HandleFunc("POST /polls/{id}/deactivate", middleware.WithLogging(pollHandler.DeactivatePoll))
	mux.HandleFunc("DELETE /polls/{id}", middleware.WithLogging(pollHandler.DeletePoll))
	mux.HandleFunc("POST /admin/ballots/cleanup", middleware.WithLogging(pollHandler.CleanupBallots))

	// Voting operations
	mux.HandleFunc("POST /polls/{id}/vote", middleware.WithLogging(votingHandler.CastVote))

	// Poll and results retrieval (public)
	mux.HandleFunc("GET /polls", middleware.WithLogging(resultsHandler.ListPolls))
	mux.HandleFunc("GET /polls/{id}", middleware.WithLogging(resultsHandler.GetPoll))
	mux.HandleFunc("GET /polls/{id}/results", middleware.WithLogging(resultsHandler.GetResults))

	// Notifications
	mux.HandleFunc("GET /notifications", middleware.WithLogging(notificationsHandler.ListNotifications))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("unimate polls API v1"))
	})

	return mux
}
