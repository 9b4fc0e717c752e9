// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/kudos/auth"
	"github.com/danielhkuo/kudos/cliparse"
	"github.com/danielhkuo/kudos/middleware"
	"github.com/danielhkuo/kudos/models"
)

type SessionHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewSessionHandler(db *sql.DB, cfg cliparse.Config) *SessionHandler {
	return &SessionHandler{db: db, cfg: cfg}
}

const sessionColumns = `id, title, meeting_date, phase, created_at, updated_at`

func scanSession(row *sql.Row) (*models.Session, error) {
	var s models.Session
	var meetingDate sql.NullString
	err := row.Scan(&s.ID, &s.Title, &meetingDate, &s.Phase, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if meetingDate.Valid {
		s.MeetingDate = &meetingDate.String
	}
	return &s, nil
}

// getSessionByID returns the session or (nil, nil) when absent.
func getSessionByID(db *sql.DB, id string) (*models.Session, error) {
	s, err := scanSession(db.QueryRow(`
		SELECT `+sessionColumns+` FROM session WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

// activeSession returns the most-recently-updated non-closed session, or
// (nil, nil) when none exists. "Active" is a convention, not a constraint:
// nothing stops several non-closed sessions from coexisting.
func activeSession(db *sql.DB) (*models.Session, error) {
	s, err := scanSession(db.QueryRow(`
		SELECT ` + sessionColumns + ` FROM session
		WHERE phase != 'closed'
		ORDER BY updated_at DESC
		LIMIT 1
	`))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

// resolveSession picks the session a submission targets: the explicit id if
// given (any phase), else the most-recently-updated session of any phase.
func resolveSession(db *sql.DB, explicitID string) (*models.Session, error) {
	if explicitID != "" {
		return getSessionByID(db, explicitID)
	}
	s, err := scanSession(db.QueryRow(`
		SELECT ` + sessionColumns + ` FROM session
		ORDER BY updated_at DESC
		LIMIT 1
	`))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

// GetSession handles GET /api/session
// Returns the session selected by ?session_id, or the active one. Tally
// fields are populated only in the results and closed phases.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	resp := models.SessionStateResponse{
		VoteCounts: []models.VoteCount{},
		Winners:    []string{},
	}

	var session *models.Session
	var err error
	if sid := r.URL.Query().Get("session_id"); sid != "" {
		session, err = getSessionByID(h.db, sid)
		if err == nil && session == nil {
			resp.Error = "Session not found"
		}
	} else {
		session, err = activeSession(h.db)
	}
	if err != nil {
		slog.Error("failed to query session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrKindInternal, "Database error")
		return
	}

	resp.Session = session
	if session != nil && (session.Phase == models.PhaseResults || session.Phase == models.PhaseClosed) {
		tally, err := ComputeTally(h.db, session.ID)
		if err != nil {
			slog.Error("failed to compute tally", "error", err, "session_id", session.ID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrKindInternal, "Failed to compute results")
			return
		}
		resp.VoteCounts = tally.VoteCounts
		resp.Winners = tally.Winners
		resp.NoneOfAboveCount = tally.NoneOfAboveCount
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// CreateSession handles POST /api/session/create (privileged)
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	if err := auth.VerifyBearer(r.Header.Get("Authorization"), h.cfg.AdminPassword); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.ErrKindUnauthorized, "Admin credential required")
		return
	}

	var req models.CreateSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrKindValidation, "Invalid JSON")
		return
	}

	title := req.Title
	if title == "" {
		title = models.DefaultSessionTitle
	}
	meetingDate := req.MeetingDate
	if meetingDate == "" {
		meetingDate = time.Now().Format("2006-01-02")
	}

	now := time.Now()
	session := models.Session{
		ID:          uuid.NewString(),
		Title:       title,
		MeetingDate: &meetingDate,
		Phase:       models.PhaseSetup,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := h.db.Exec(`
		INSERT INTO session (id, title, meeting_date, phase, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, session.ID, session.Title, meetingDate, session.Phase, now, now)
	if err != nil {
		slog.Error("failed to insert session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrKindInternal, "Failed to create session")
		return
	}

	slog.Info("session created", "session_id", session.ID, "title", title)

	middleware.JSONResponse(w, http.StatusCreated, models.SessionResponse{Session: &session})
}

// PatchSession handles PATCH /api/session/patch (privileged)
// Applies one phase transition. The phase write, timestamp refresh, and --
// for the closed transition -- the purge of the session's votes and
// nominations happen in a single transaction.
func (h *SessionHandler) PatchSession(w http.ResponseWriter, r *http.Request) {
	if err := auth.VerifyBearer(r.Header.Get("Authorization"), h.cfg.AdminPassword); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.ErrKindUnauthorized, "Admin credential required")
		return
	}

	var req models.PatchSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrKindValidation, "Invalid JSON")
		return
	}
	if req.SessionID == "" || req.Phase == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrKindValidation, "session_id and phase required")
		return
	}

	session, err := getSessionByID(h.db, req.SessionID)
	if err != nil {
		slog.Error("failed to query session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrKindInternal, "Database error")
		return
	}
	if session == nil {
		middleware.ErrorResponse(w, http.StatusNotFound, models.ErrKindNotFound, "Session not found")
		return
	}

	table := models.TransitionTable(h.cfg.AllowRollback)
	if !models.CanTransition(table, session.Phase, req.Phase) {
		middleware.ErrorResponse(w, http.StatusConflict, models.ErrKindInvalidTransition,
			"Cannot transition from '"+session.Phase+"' to '"+req.Phase+"'")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrKindInternal, "Database error")
		return
	}
	defer tx.Rollback()

	now := time.Now()

	// Conditional on the phase we validated against, so a concurrent patch
	// that won the race makes this one a no-op instead of a blind overwrite.
	res, err := tx.Exec(`
		UPDATE session SET phase = $1, updated_at = $2
		WHERE id = $3 AND phase = $4
	`, req.Phase, now, session.ID, session.Phase)
	if err != nil {
		slog.Error("failed to update session phase", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrKindInternal, "Failed to update session")
		return
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		middleware.ErrorResponse(w, http.StatusConflict, models.ErrKindInvalidTransition,
			"Session phase changed concurrently; re-read and retry")
		return
	}

	if req.Phase == models.PhaseClosed {
		// Purge children atomically with the phase flip. Explicit deletes,
		// child tables first, rather than trusting driver cascade settings.
		if _, err := tx.Exec(`
			DELETE FROM vote_selection WHERE vote_id IN (SELECT id FROM vote WHERE session_id = $1)
		`, session.ID); err != nil {
			slog.Error("failed to purge vote selections", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrKindInternal, "Failed to close session")
			return
		}
		if _, err := tx.Exec(`DELETE FROM vote WHERE session_id = $1`, session.ID); err != nil {
			slog.Error("failed to purge votes", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrKindInternal, "Failed to close session")
			return
		}
		if _, err := tx.Exec(`DELETE FROM nomination WHERE session_id = $1`, session.ID); err != nil {
			slog.Error("failed to purge nominations", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrKindInternal, "Failed to close session")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrKindInternal, "Failed to update session")
		return
	}

	session.Phase = req.Phase
	session.UpdatedAt = now

	slog.Info("session phase changed", "session_id", session.ID, "phase", req.Phase)

	middleware.JSONResponse(w, http.StatusOK, models.SessionResponse{Session: session})
}

// QRJoin handles GET /api/qr-join
// Redirects a scanned QR code to the frontend voting page, attaching an
// error query param when the session is missing, unknown, or ended.
func (h *SessionHandler) QRJoin(w http.ResponseWriter, r *http.Request) {
	base := h.cfg.AppURL
	for len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}

	sid := r.URL.Query().Get("session_id")
	if sid == "" {
		http.Redirect(w, r, base+"/vote?error=missing_session", http.StatusFound)
		return
	}

	session, err := getSessionByID(h.db, sid)
	if err != nil {
		slog.Error("failed to query session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrKindInternal, "Database error")
		return
	}
	if session == nil {
		http.Redirect(w, r, base+"/vote?error=invalid_session", http.StatusFound)
		return
	}
	if session.Phase == models.PhaseClosed {
		http.Redirect(w, r, base+"/vote?session_id="+sid+"&error=session_ended", http.StatusFound)
		return
	}

	http.Redirect(w, r, base+"/vote?session_id="+sid, http.StatusFound)
}

// AuthCheck handles GET /api/auth/check (privileged)
// Lets the frontend verify a stored admin secret without side effects.
func (h *SessionHandler) AuthCheck(w http.ResponseWriter, r *http.Request) {
	if err := auth.VerifyBearer(r.Header.Get("Authorization"), h.cfg.AdminPassword); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.ErrKindUnauthorized, "Admin credential required")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}
