// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Kudos API server.

Kudos runs single-round, anonymous-by-name peer recognition sessions: a
privileged organizer opens a session, participants nominate peers during the
nomination phase, vote during the voting phase, and everyone sees the tallied
results. When a session closes, its nominations and votes are purged.

# Starting the Server

The server reads configuration from a .env file, environment variables, or
CLI flags:

	DATABASE_URL=kudos.db ADMIN_PASSWORD=secret go run main.go

Or with flags:

	go run main.go -p 3318 -d kudos.db --admin-password secret

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - ADMIN_PASSWORD (--admin-password): shared secret for privileged calls

Optional settings:

  - PORT (-p): server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - APP_URL: frontend base URL for QR-join redirects and CORS
  - IDENTITY_MODE: name or token (default: name)
  - NOMINATION_QUOTA: nominations per person per session (default: 3)
  - MAX_SELECTIONS: nominations selectable on one ballot (default: 3)
  - PHASE_ROLLBACK: allow backward phase moves (default: true)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (sessions, nominations, votes, results, participants)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Domain types, phase transition tables, error kinds
  - identity: Pluggable voter/nominator identity resolution
  - auth: Admin secret check and token generation
  - db: Driver selection and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
