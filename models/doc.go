// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateSessionRequest: title, meeting_date
  - PatchSessionRequest: session_id, phase
  - CreateNominationRequest: session_id, nominator_name/token, nominee_name, reason
  - CreateVoteRequest: session_id, voter_name/token, nomination_ids
  - CreateParticipantRequest: email

# Response Types

Types for JSON responses:

  - SessionResponse: session
  - SessionStateResponse: session plus tally fields (populated in results/closed)
  - NominationsResponse / CreateNominationResponse
  - CreateVoteResponse
  - ParticipantResponse / ParticipantsResponse
  - TallyResult: vote_counts, winners, none_of_above_count
  - OKResponse: ok
  - ErrorResponse: error (machine kind), message

# Domain Types

Internal data structures:

  - Session: recognition round metadata and lifecycle phase
  - Nomination: one nominee pitch, owned by a session
  - Vote: one ballot per identity per session, owning its selection set
  - Participant: roster entry for token identity mode
  - VoteCount: aggregated per-nominee count

# Phases and Transitions

Phase values:

	PhaseSetup      = "setup"
	PhaseNomination = "nomination"
	PhaseVoting     = "voting"
	PhaseResults    = "results"
	PhaseClosed     = "closed"

TransitionTable(allowRollback) builds the directed transition graph; the
rollback flag adds nomination→setup, voting→nomination, and results→voting.
Closed is terminal under either policy. CanTransition checks an edge.

# Error Kinds

Every error body carries a machine-distinguishable kind:

	validation_error, wrong_phase, quota_exceeded, too_many_selections,
	already_voted, invalid_transition, not_found, unauthorized,
	unknown_token, internal
*/
package models
