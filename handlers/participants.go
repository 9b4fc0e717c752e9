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
	"github.com/danielhkuo/kudos/middleware"
	"github.com/danielhkuo/kudos/models"
)

type ParticipantHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewParticipantHandler(db *sql.DB, cfg cliparse.Config) *ParticipantHandler {
	return &ParticipantHandler{db: db, cfg: cfg}
}

// CreateParticipant handles POST /api/participants/create (privileged)
// Adds a roster entry and issues its opaque token. Only meaningful in token
// identity mode, but registration is allowed regardless so a roster can be
// prepared before switching modes.
func (h *ParticipantHandler) CreateParticipant(w http.ResponseWriter, r *http.Request) {
	if err := auth.VerifyBearer(r.Header.Get("Authorization"), h.cfg.AdminPassword); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.ErrKindUnauthorized, "Admin credential required")
		return
	}

	var req models.CreateParticipantRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrKindValidation, "Invalid JSON")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrKindValidation, "valid email is required")
		return
	}

	token, err := auth.GenerateToken()
	if err != nil {
		slog.Error("failed to generate participant token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrKindInternal, "Failed to register participant")
		return
	}

	participant := models.Participant{
		ID:        uuid.NewString(),
		Email:     email,
		Token:     token,
		CreatedAt: time.Now(),
	}

	_, err = h.db.Exec(`
		INSERT INTO participant (id, email, token, created_at)
		VALUES ($1, $2, $3, $4)
	`, participant.ID, participant.Email, participant.Token, participant.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, models.ErrKindValidation, "Email already registered")
			return
		}
		slog.Error("failed to insert participant", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrKindInternal, "Failed to register participant")
		return
	}

	slog.Info("participant registered", "participant_id", participant.ID, "email", email)

	middleware.JSONResponse(w, http.StatusCreated, models.ParticipantResponse{Participant: participant})
}

// ListParticipants handles GET /api/participants (privileged)
func (h *ParticipantHandler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	if err := auth.VerifyBearer(r.Header.Get("Authorization"), h.cfg.AdminPassword); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.ErrKindUnauthorized, "Admin credential required")
		return
	}

	rows, err := h.db.Query(`
		SELECT id, email, token, created_at FROM participant ORDER BY created_at, email
	`)
	if err != nil {
		slog.Error("failed to query participants", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrKindInternal, "Database error")
		return
	}
	defer rows.Close()

	participants := []models.Participant{}
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.Email, &p.Token, &p.CreatedAt); err != nil {
			slog.Error("failed to scan participant", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrKindInternal, "Database error")
			return
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate participants", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrKindInternal, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ParticipantsResponse{Participants: participants})
}
