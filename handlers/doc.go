// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Kudos API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - SessionHandler: Session lifecycle (create, phase patch, active lookup, QR join)
  - NominationHandler: Nomination submit, list, privileged delete
  - VoteHandler: Ballot submission with one-shot enforcement
  - ResultsHandler: On-demand tally retrieval
  - ParticipantHandler: Roster registration for token identity mode

Handlers are created via constructor functions that accept *sql.DB and
Config; the ledger handlers additionally take an identity.Resolver:

	sessionHandler := handlers.NewSessionHandler(db, cfg)
	voteHandler := handlers.NewVoteHandler(db, cfg, resolver)

# Session Lifecycle

Sessions progress through five phases:

	setup → nomination → voting → results → closed

The transition graph comes from models.TransitionTable; the PHASE_ROLLBACK
config adds backward edges (nomination→setup, voting→nomination,
results→voting). Closed is terminal, and reaching it purges the session's
votes and nominations in the same transaction as the phase write.

	POST  /api/session/create → CreateSession (admin)
	PATCH /api/session/patch  → PatchSession (admin)
	GET   /api/session        → GetSession (active or by id, tally embedded in results/closed)

Admin operations require Authorization: Bearer <ADMIN_PASSWORD>.

# Submissions

Nominations are accepted only in the nomination phase, up to
NOMINATION_QUOTA per identity per session. Ballots are accepted only in the
voting phase, at most MAX_SELECTIONS choices, and exactly once per identity
per session -- enforced transactionally plus a UNIQUE constraint backstop.
An empty ballot means "none of the above" and still spends the one vote.

	POST /api/nominations/create → CreateNomination
	POST /api/votes/create       → CreateVote

# Tally

The tally is implemented in tally.go as a pure derivation:

	tally, err := ComputeTally(db, sessionID)

Counts aggregate by nominee display name, sorted by count descending with a
stable sort (ties keep nomination insertion order); winners are every name
at the maximum count when that maximum is positive.

# Error Bodies

Failures return {"error": "<kind>", "message": "..."} where kind is one of
the models.ErrKind* constants (wrong_phase, quota_exceeded, already_voted,
too_many_selections, invalid_transition, ...).
*/
package handlers
