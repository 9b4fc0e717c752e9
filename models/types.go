// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Default session title when none is supplied
const DefaultSessionTitle = "Fortnightly Goal Review"

// Error kinds; every error body carries one so clients can branch on it
const (
	ErrKindValidation        = "validation_error"
	ErrKindWrongPhase        = "wrong_phase"
	ErrKindQuotaExceeded     = "quota_exceeded"
	ErrKindTooManySelections = "too_many_selections"
	ErrKindAlreadyVoted      = "already_voted"
	ErrKindInvalidTransition = "invalid_transition"
	ErrKindNotFound          = "not_found"
	ErrKindUnauthorized      = "unauthorized"
	ErrKindUnknownToken      = "unknown_token"
	ErrKindInternal          = "internal"
)

// Request types

type CreateSessionRequest struct {
	Title       string `json:"title"`
	MeetingDate string `json:"meeting_date"`
}

type PatchSessionRequest struct {
	SessionID string `json:"session_id"`
	Phase     string `json:"phase"`
}

type CreateNominationRequest struct {
	SessionID     string `json:"session_id"`
	NominatorName string `json:"nominator_name"`
	Token         string `json:"token"`
	NomineeName   string `json:"nominee_name"`
	Reason        string `json:"reason"`
}

type CreateVoteRequest struct {
	SessionID     string   `json:"session_id"`
	VoterName     string   `json:"voter_name"`
	Token         string   `json:"token"`
	NominationIDs []string `json:"nomination_ids"`
}

type CreateParticipantRequest struct {
	Email string `json:"email"`
}

// Response types

type SessionResponse struct {
	Session *Session `json:"session"`
}

// SessionStateResponse is the GET /api/session payload. The tally fields are
// populated only while the session is in results or closed; earlier phases
// get empty slices and zero.
type SessionStateResponse struct {
	Session          *Session    `json:"session"`
	VoteCounts       []VoteCount `json:"vote_counts"`
	Winners          []string    `json:"winners"`
	NoneOfAboveCount int         `json:"none_of_above_count"`
	Error            string      `json:"error,omitempty"`
}

type NominationsResponse struct {
	Nominations []Nomination `json:"nominations"`
}

type CreateNominationResponse struct {
	Nomination Nomination `json:"nomination"`
}

type CreateVoteResponse struct {
	Vote Vote `json:"vote"`
}

type ParticipantResponse struct {
	Participant Participant `json:"participant"`
}

type ParticipantsResponse struct {
	Participants []Participant `json:"participants"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

// Domain types

type Session struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	MeetingDate *string   `json:"meeting_date"`
	Phase       string    `json:"phase"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Nomination struct {
	ID            string    `json:"id"`
	SessionID     string    `json:"session_id"`
	NominatorKey  string    `json:"-"` // dedup handle, never exposed
	NominatorName string    `json:"nominator_name"`
	NomineeName   string    `json:"nominee_name"`
	Reason        string    `json:"reason"`
	CreatedAt     time.Time `json:"created_at"`
}

type Vote struct {
	ID            string    `json:"id"`
	SessionID     string    `json:"session_id"`
	VoterKey      string    `json:"-"` // dedup handle, never exposed
	VoterName     string    `json:"-"` // ballots are anonymous once cast
	NominationIDs []string  `json:"nomination_ids"`
	CreatedAt     time.Time `json:"created_at"`
}

type Participant struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

// Tally types

type VoteCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TallyResult is derived on demand from persisted votes; never stored.
type TallyResult struct {
	VoteCounts       []VoteCount `json:"vote_counts"`
	Winners          []string    `json:"winners"`
	NoneOfAboveCount int         `json:"none_of_above_count"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
