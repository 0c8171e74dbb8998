// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 8080)
  - DatabaseURL: Database connection string or file path (required)
  - DatabaseType: "sqlite" or "postgres" (default: sqlite)
  - AdminKeySalt: Secret for admin key HMAC (required)
  - MaintenanceKey: Secret for service-wide maintenance ops (required)

# CLI Flags

	-p                Server port
	-d                Database URL
	-t                Database type
	--admin-salt      Admin key salt
	--maintenance-key Maintenance key

# Environment Variables

Flags fall back to environment variables:

	PORT            → -p
	DATABASE_URL    → -d
	DATABASE_TYPE   → -t
	ADMIN_KEY_SALT  → --admin-salt
	MAINTENANCE_KEY → --maintenance-key

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing:

  - DATABASE_URL must be provided
  - DATABASE_TYPE must be sqlite or postgres when set
  - ADMIN_KEY_SALT must be provided
  - MAINTENANCE_KEY must be provided
*/
package cliparse
