// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Kudos API.

# Route Registration

NewRouter creates the full handler chain (mux wrapped in CORS):

	h := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Session lifecycle (admin ops require Authorization: Bearer secret):

	GET   /api/auth/check      - Verify admin credential
	GET   /api/session         - Active session (or ?session_id=), tally when results/closed
	POST  /api/session/create  - Create session in setup (admin)
	PATCH /api/session/patch   - Phase transition; closing purges children (admin)
	GET   /api/session/results - On-demand tally, any phase
	GET   /api/qr-join         - Redirect to the frontend voting page

Nominations:

	GET    /api/nominations             - List, ordered by nominee name
	POST   /api/nominations/create      - Submit (nomination phase, under quota)
	DELETE /api/nominations/{id}/delete - Hard delete (admin)

Votes:

	POST /api/votes/create - Submit one ballot (voting phase, once per identity)

Participant roster (token identity mode, both admin):

	GET  /api/participants
	POST /api/participants/create

# Handler Initialization

The router builds the deployment's identity.Resolver once and injects it
into the ledger handlers:

	resolver := identity.NewResolver(cfg, db)
	voteHandler := handlers.NewVoteHandler(db, cfg, resolver)

All handlers receive the database connection and configuration.
*/
package router
