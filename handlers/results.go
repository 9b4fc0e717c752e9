// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/kudos/cliparse"
	"github.com/danielhkuo/kudos/middleware"
	"github.com/danielhkuo/kudos/models"
)

type ResultsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewResultsHandler(db *sql.DB, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{db: db, cfg: cfg}
}

// GetResults handles GET /api/session/results
// The tally is computed on demand and is legal to request in any phase;
// before results it simply reflects whatever votes exist so far (none, in
// the phases where voting is closed off). It is never persisted, so a
// closed session's purged votes yield an empty tally.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	session, err := resolveSession(h.db, r.URL.Query().Get("session_id"))
	if err != nil {
		slog.Error("failed to resolve session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrKindInternal, "Database error")
		return
	}
	if session == nil {
		middleware.ErrorResponse(w, http.StatusNotFound, models.ErrKindNotFound, "Session not found")
		return
	}

	tally, err := ComputeTally(h.db, session.ID)
	if err != nil {
		slog.Error("failed to compute tally", "error", err, "session_id", session.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrKindInternal, "Failed to compute results")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, tally)
}
