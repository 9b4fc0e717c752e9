// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: SQLite path or PostgreSQL connection string (required)
  - DatabaseType: "sqlite" or "postgres" (default: sqlite)
  - AdminPassword: Shared secret for privileged calls (required)
  - AppURL: Frontend base URL for QR-join redirects and CORS
  - IdentityMode: "name" or "token" voter identity resolution
  - NominationQuota: Nominations per person per session (default: 3)
  - MaxSelections: Nominations selectable on one ballot (default: 3)
  - AllowRollback: Whether backward phase moves are legal (default: true)

# Environment Variables

Flags fall back to environment variables:

	PORT             → -p
	DATABASE_URL     → -d
	DATABASE_TYPE    → -t
	ADMIN_PASSWORD   → --admin-password
	APP_URL          → --app-url
	IDENTITY_MODE    → --identity
	NOMINATION_QUOTA → --quota
	MAX_SELECTIONS   → --max-selections
	PHASE_ROLLBACK   → --rollback

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing or malformed:

  - DATABASE_URL must be provided
  - ADMIN_PASSWORD must be provided
  - DATABASE_TYPE must be sqlite or postgres
  - IDENTITY_MODE must be name or token
  - NOMINATION_QUOTA must be at least 1

The quota, selection cap, and rollback policy are deliberately configuration
rather than constants: all three have changed between deployments.
*/
package cliparse
