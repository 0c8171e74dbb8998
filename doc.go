// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the campus polls API server.

The service is the voting core of a campus portal: poll administration,
a vote-casting protocol with storage-enforced one-vote-per-voter,
denormalized counters reconciled from ballots, and a time-derived poll
lifecycle (upcoming, active, paused, ended).

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=polls.db go run main.go

Or with flags:

	go run main.go -p 8080 -t postgres -d "postgres://..."

A .env file in the working directory is loaded if present.

# Configuration

Required settings:

  - DATABASE_URL (-d): Connection string (postgres) or file path (sqlite)
  - ADMIN_KEY_SALT (--admin-salt): Secret for admin key HMAC
  - MAINTENANCE_KEY (--maintenance-key): Secret for maintenance endpoints

Optional settings:

  - PORT (-p): Server port (default: 8080)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (polls, voting, results, tally, notifications)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers, voter identity
  - models: Request/response types and the derived lifecycle
  - auth: Admin and maintenance key validation
  - db: Schema creation and storage access
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
