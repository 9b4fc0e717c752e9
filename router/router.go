// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/kudos/cliparse"
	"github.com/danielhkuo/kudos/handlers"
	"github.com/danielhkuo/kudos/identity"
	"github.com/danielhkuo/kudos/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()

	// Identity strategy is fixed per deployment
	resolver := identity.NewResolver(cfg, db)

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(db, cfg)
	nominationHandler := handlers.NewNominationHandler(db, cfg, resolver)
	voteHandler := handlers.NewVoteHandler(db, cfg, resolver)
	resultsHandler := handlers.NewResultsHandler(db, cfg)
	participantHandler := handlers.NewParticipantHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Admin credential check
	mux.HandleFunc("GET /api/auth/check", middleware.WithLogging(sessionHandler.AuthCheck))

	// Session lifecycle
	mux.HandleFunc("GET /api/session", middleware.WithLogging(sessionHandler.GetSession))
	mux.HandleFunc("POST /api/session/create", middleware.WithLogging(sessionHandler.CreateSession))
	mux.HandleFunc("PATCH /api/session/patch", middleware.WithLogging(sessionHandler.PatchSession))
	mux.HandleFunc("GET /api/session/results", middleware.WithLogging(resultsHandler.GetResults))
	mux.HandleFunc("GET /api/qr-join", middleware.WithLogging(sessionHandler.QRJoin))

	// Nominations
	mux.HandleFunc("GET /api/nominations", middleware.WithLogging(nominationHandler.ListNominations))
	mux.HandleFunc("POST /api/nominations/create", middleware.WithLogging(nominationHandler.CreateNomination))
	mux.HandleFunc("DELETE /api/nominations/{id}/delete", middleware.WithLogging(nominationHandler.DeleteNomination))

	// Votes
	mux.HandleFunc("POST /api/votes/create", middleware.WithLogging(voteHandler.CreateVote))

	// Participant roster (token identity mode)
	mux.HandleFunc("GET /api/participants", middleware.WithLogging(participantHandler.ListParticipants))
	mux.HandleFunc("POST /api/participants/create", middleware.WithLogging(participantHandler.CreateParticipant))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("kudos API v1"))
	})

	return middleware.CORS(mux, cfg.AppURL)
}
