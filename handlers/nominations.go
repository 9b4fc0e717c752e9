// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/kudos/auth"
	"github.com/danielhkuo/kudos/cliparse"
	"github.com/danielhkuo/kudos/identity"
	"github.com/danielhkuo/kudos/middleware"
	"github.com/danielhkuo/kudos/models"
)

type NominationHandler struct {
	db       *sql.DB
	cfg      cliparse.Config
	resolver identity.Resolver
}

func NewNominationHandler(db *sql.DB, cfg cliparse.Config, resolver identity.Resolver) *NominationHandler {
	return &NominationHandler{db: db, cfg: cfg, resolver: resolver}
}

// resolveIdentity maps resolver failures onto the API error taxonomy.
// Returns false after writing the response when resolution failed.
func resolveIdentity(w http.ResponseWriter, resolver identity.Resolver, claim identity.Claim) (identity.Identity, bool) {
	ident, err := resolver.Resolve(claim)
	switch err {
	case nil:
		return ident, true
	case identity.ErrMissingName, identity.ErrMissingToken:
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrKindValidation, err.Error())
	case identity.ErrUnknownToken:
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.ErrKindUnknownToken, err.Error())
	default:
		slog.Error("failed to resolve identity", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrKindInternal, "Database error")
	}
	return identity.Identity{}, false
}

// ListNominations handles GET /api/nominations
// Ordered by case-insensitive nominee name; insertion order breaks ties.
func (h *NominationHandler) ListNominations(w http.ResponseWriter, r *http.Request) {
	session, err := resolveSession(h.db, r.URL.Query().Get("session_id"))
	if err != nil {
		slog.Error("failed to resolve session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrKindInternal, "Database error")
		return
	}

	nominations := []models.Nomination{}
	if session == nil {
		middleware.JSONResponse(w, http.StatusOK, models.NominationsResponse{Nominations: nominations})
		return
	}

	rows, err := h.db.Query(`
		SELECT id, session_id, nominator_key, nominator_name, nominee_name, reason, created_at
		FROM nomination
		WHERE session_id = $1
		ORDER BY LOWER(nominee_name), created_at
	`, session.ID)
	if err != nil {
		slog.Error("failed to query nominations", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrKindInternal, "Database error")
		return
	}
	defer rows.Close()

	for rows.Next() {
		var n models.Nomination
		if err := rows.Scan(&n.ID, &n.SessionID, &n.NominatorKey, &n.NominatorName, &n.NomineeName, &n.Reason, &n.CreatedAt); err != nil {
			slog.Error("failed to scan nomination", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrKindInternal, "Database error")
			return
		}
		nominations = append(nominations, n)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate nominations", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrKindInternal, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.NominationsResponse{Nominations: nominations})
}

// CreateNomination handles POST /api/nominations/create
func (h *NominationHandler) CreateNomination(w http.ResponseWriter, r *http.Request) {
	var req models.CreateNominationRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrKindValidation, "Invalid JSON")
		return
	}

	nominee := strings.TrimSpace(req.NomineeName)
	reason := strings.TrimSpace(req.Reason)
	if nominee == "" || reason == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrKindValidation, "nominee_name and reason are required")
		return
	}

	ident, ok := resolveIdentity(w, h.resolver, identity.Claim{Name: req.NominatorName, Token: req.Token})
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
	if session.Phase != models.PhaseNomination {
		middleware.ErrorResponse(w, http.StatusConflict, models.ErrKindWrongPhase, "Session not in nomination phase")
		return
	}

	// Quota check and insert share one transaction so two concurrent
	// submissions from the same identity cannot both pass the count.
	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrKindInternal, "Database error")
		return
	}
	defer tx.Rollback()

	var count int
	err = tx.QueryRow(`
		SELECT COUNT(*) FROM nomination WHERE session_id = $1 AND nominator_key = $2
	`, session.ID, ident.Key).Scan(&count)
	if err != nil {
		slog.Error("failed to count nominations", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrKindInternal, "Database error")
		return
	}
	if count >= h.cfg.NominationQuota {
		middleware.ErrorResponse(w, http.StatusConflict, models.ErrKindQuotaExceeded,
			"Nomination limit reached for this session")
		return
	}

	nomination := models.Nomination{
		ID:            uuid.NewString(),
		SessionID:     session.ID,
		NominatorKey:  ident.Key,
		NominatorName: ident.Name,
		NomineeName:   nominee,
		Reason:        reason,
		CreatedAt:     time.Now(),
	}

	_, err = tx.Exec(`
		INSERT INTO nomination (id, session_id, nominator_key, nominator_name, nominee_name, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, nomination.ID, nomination.SessionID, nomination.NominatorKey, nomination.NominatorName,
		nomination.NomineeName, nomination.Reason, nomination.CreatedAt)
	if err != nil {
		slog.Error("failed to insert nomination", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrKindInternal, "Failed to create nomination")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrKindInternal, "Failed to create nomination")
		return
	}

	slog.Info("nomination created", "session_id", session.ID, "nomination_id", nomination.ID, "nominee", nominee)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateNominationResponse{Nomination: nomination})
}

// DeleteNomination handles DELETE /api/nominations/{id}/delete (privileged)
// Unconditional hard delete; no phase restriction.
func (h *NominationHandler) DeleteNomination(w http.ResponseWriter, r *http.Request) {
	if err := auth.VerifyBearer(r.Header.Get("Authorization"), h.cfg.AdminPassword); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.ErrKindUnauthorized, "Admin credential required")
		return
	}

	nominationID := r.PathValue("id")
	if nominationID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrKindValidation, "nomination id is required")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrKindInternal, "Database error")
		return
	}
	defer tx.Rollback()

	// Drop any ballot selections pointing at it first
	if _, err := tx.Exec(`DELETE FROM vote_selection WHERE nomination_id = $1`, nominationID); err != nil {
		slog.Error("failed to delete nomination selections", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrKindInternal, "Failed to delete nomination")
		return
	}

	res, err := tx.Exec(`DELETE FROM nomination WHERE id = $1`, nominationID)
	if err != nil {
		slog.Error("failed to delete nomination", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrKindInternal, "Failed to delete nomination")
		return
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, models.ErrKindNotFound, "Nomination not found")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrKindInternal, "Failed to delete nomination")
		return
	}

	slog.Info("nomination deleted", "nomination_id", nominationID)

	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}
