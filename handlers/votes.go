// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/kudos/cliparse"
	"github.com/danielhkuo/kudos/identity"
	"github.com/danielhkuo/kudos/middleware"
	"github.com/danielhkuo/kudos/models"
)

type VoteHandler struct {
	db       *sql.DB
	cfg      cliparse.Config
	resolver identity.Resolver
}

func NewVoteHandler(db *sql.DB, cfg cliparse.Config, resolver identity.Resolver) *VoteHandler {
	return &VoteHandler{db: db, cfg: cfg, resolver: resolver}
}

// isUniqueViolation matches constraint errors from both supported drivers.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // modernc.org/sqlite
		strings.Contains(msg, "duplicate key value violates unique constraint") // lib/pq
}

// CreateVote handles POST /api/votes/create
// One ballot per identity per session, ever. The existence check and insert
// share a transaction, and the UNIQUE (session_id, voter_key) constraint is
// the backstop for the race two concurrent submissions would otherwise win.
func (h *VoteHandler) CreateVote(w http.ResponseWriter, r *http.Request) {
	var req models.CreateVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrKindValidation, "Invalid JSON")
		return
	}

	ident, ok := resolveIdentity(w, h.resolver, identity.Claim{Name: req.VoterName, Token: req.Token})
	if !ok {
		return
	}

	session, err := resolveSession(h.db, req.SessionID)
	if err != nil {
		slog.Error("failed to resolve session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrKindInternal, "Database error")
		return
	}
	if session == nil {
		middleware.ErrorResponse(w, http.StatusNotFound, models.ErrKindNotFound, "Session not found")
		return
	}
	if session.Phase != models.PhaseVoting {
		middleware.ErrorResponse(w, http.StatusConflict, models.ErrKindWrongPhase, "Session not in voting phase")
		return
	}

	if len(req.NominationIDs) > h.cfg.MaxSelections {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrKindTooManySelections,
			fmt.Sprintf("You can select up to %d candidates", h.cfg.MaxSelections))
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrKindInternal, "Database error")
		return
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM vote WHERE session_id = $1 AND voter_key = $2)
	`, session.ID, ident.Key).Scan(&exists)
	if err != nil {
		slog.Error("failed to check existing vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrKindInternal, "Database error")
		return
	}
	if exists {
		middleware.ErrorResponse(w, http.StatusConflict, models.ErrKindAlreadyVoted, "You have already voted")
		return
	}

	vote := models.Vote{
		ID:        uuid.NewString(),
		SessionID: session.ID,
		VoterKey:  ident.Key,
		VoterName: ident.Name,
		CreatedAt: time.Now(),
	}

	_, err = tx.Exec(`
		INSERT INTO vote (id, session_id, voter_key, voter_name, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, vote.ID, vote.SessionID, vote.VoterKey, vote.VoterName, vote.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, models.ErrKindAlreadyVoted, "You have already voted")
			return
		}
		slog.Error("failed to insert vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrKindInternal, "Failed to submit vote")
		return
	}

	// Selections outside this session are silently dropped; the ballot
	// still stands. Empty selection set = none of the above.
	kept, err := filterSessionNominations(tx, session.ID, req.NominationIDs)
	if err != nil {
		slog.Error("failed to filter selections", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrKindInternal, "Failed to submit vote")
		return
	}
	for _, nominationID := range kept {
		_, err = tx.Exec(`
			INSERT INTO vote_selection (vote_id, nomination_id)
			VALUES ($1, $2)
		`, vote.ID, nominationID)
		if err != nil {
			slog.Error("failed to insert selection", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrKindInternal, "Failed to submit vote")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, models.ErrKindAlreadyVoted, "You have already voted")
			return
		}
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrKindInternal, "Failed to submit vote")
		return
	}

	vote.NominationIDs = kept

	slog.Info("vote submitted", "session_id", session.ID, "vote_id", vote.ID, "selections", len(kept))

	middleware.JSONResponse(w, http.StatusCreated, models.CreateVoteResponse{Vote: vote})
}

// filterSessionNominations returns the subset of ids that name nominations
// belonging to the session, deduplicated, in submission order.
func filterSessionNominations(tx *sql.Tx, sessionID string, ids []string) ([]string, error) {
	kept := []string{}
	if len(ids) == 0 {
		return kept, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, sessionID)
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args = append(args, id)
	}

	rows, err := tx.Query(`
		SELECT id FROM nomination
		WHERE session_id = $1 AND id IN (`+strings.Join(placeholders, ", ")+`)
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	valid := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		valid[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, id := range ids {
		if valid[id] {
			kept = append(kept, id)
			valid[id] = false // dedupe repeated ids in one ballot
		}
	}
	return kept, nil
}
