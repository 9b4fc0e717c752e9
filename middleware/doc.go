// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and JSON helpers.

# Request Logging

WithLogging wraps handlers with slog request/completion logging:

	mux.HandleFunc("GET /api/session", middleware.WithLogging(handler.GetSession))

# JSON Helpers

JSONResponse writes any value as JSON with a status code. ErrorResponse
writes the standard error body; the kind is one of the machine-readable
models.ErrKind* constants so clients can branch without parsing prose:

	middleware.ErrorResponse(w, http.StatusConflict, models.ErrKindWrongPhase,
		"Session not in voting phase")

ParseJSONBody decodes a request body into a struct.

# CORS

CORS restricts cross-origin requests to the configured frontend origin
(APP_URL); with no origin configured it reflects the caller's, for local
development against a Vite dev server.
*/
package middleware
