// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides admin key generation and validation.

# Admin Keys

Admin keys use HMAC-SHA256 to create deterministic, verifiable keys:

	adminKey := auth.GenerateAdminKey(pollID, salt)
	err := auth.ValidateAdminKey(pollID, adminKey, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same poll ID and salt always produce the same key. This allows validation
without storing the key in the database.

# Maintenance Key

Service-wide maintenance operations (ballot cleanup) are guarded by a
single configured key rather than a per-poll one:

	err := auth.ValidateMaintenanceKey(presented, cfg.MaintenanceKey)

Both comparisons are constant time.
*/
package auth
