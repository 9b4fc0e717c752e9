// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/kudos/models"
	"github.com/danielhkuo/kudos/testutil"
)

func setupRouter(t *testing.T) http.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { db.Close() })
	return NewRouter(db, testutil.GetTestConfig())
}

func serve(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestRouterBasics(t *testing.T) {
	handler := setupRouter(t)

	t.Run("health check", func(t *testing.T) {
		w := serve(handler, testutil.MakeRequest("GET", "/health", nil, nil))
		testutil.AssertStatus(t, w, http.StatusOK)
		if w.Body.String() != "OK" {
			t.Errorf("expected OK, got %q", w.Body.String())
		}
	})

	t.Run("root endpoint", func(t *testing.T) {
		w := serve(handler, testutil.MakeRequest("GET", "/", nil, nil))
		testutil.AssertStatus(t, w, http.StatusOK)
	})

	t.Run("method mismatch rejected", func(t *testing.T) {
		w := serve(handler, testutil.MakeRequest("GET", "/api/votes/create", nil, nil))
		testutil.AssertStatus(t, w, http.StatusMethodNotAllowed)
	})

	t.Run("cors headers on every response", func(t *testing.T) {
		w := serve(handler, testutil.MakeRequest("GET", "/api/session", nil, nil))
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
			t.Errorf("expected frontend origin allowed, got %q", got)
		}
	})

	t.Run("preflight", func(t *testing.T) {
		w := serve(handler, testutil.MakeRequest("OPTIONS", "/api/votes/create", nil, nil))
		testutil.AssertStatus(t, w, http.StatusOK)
		if got := w.Header().Get("Access-Control-Allow-Methods"); got == "" {
			t.Error("expected allowed methods header")
		}
	})

	t.Run("auth check", func(t *testing.T) {
		w := serve(handler, testutil.MakeRequest("GET", "/api/auth/check", nil, testutil.AdminHeaders()))
		testutil.AssertStatus(t, w, http.StatusOK)

		w = serve(handler, testutil.MakeRequest("GET", "/api/auth/check", nil, nil))
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})
}

// TestFullEventWorkflow drives one recognition event end to end through the
// public API: create, collect nominations, vote, read results, close.
func TestFullEventWorkflow(t *testing.T) {
	handler := setupRouter(t)

	// Admin opens the event
	w := serve(handler, testutil.MakeRequest("POST", "/api/session/create",
		models.CreateSessionRequest{Title: "Sprint 42 Recognition"}, testutil.AdminHeaders()))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var created models.SessionResponse
	testutil.AssertJSON(t, w, &created)
	sessionID := created.Session.ID

	nominate := func(nominator, nominee, reason string) *httptest.ResponseRecorder {
		return serve(handler, testutil.MakeRequest("POST", "/api/nominations/create",
			models.CreateNominationRequest{
				SessionID: sessionID, NominatorName: nominator, NomineeName: nominee, Reason: reason,
			}, nil))
	}
	vote := func(voter string, ids []string) *httptest.ResponseRecorder {
		return serve(handler, testutil.MakeRequest("POST", "/api/votes/create",
			models.CreateVoteRequest{SessionID: sessionID, VoterName: voter, NominationIDs: ids}, nil))
	}
	patch := func(phase string) *httptest.ResponseRecorder {
		return serve(handler, testutil.MakeRequest("PATCH", "/api/session/patch",
			models.PatchSessionRequest{SessionID: sessionID, Phase: phase}, testutil.AdminHeaders()))
	}

	// Nominations are closed while still in setup
	w = nominate("Alice", "Bob", "unblocked the whole team")
	testutil.AssertStatus(t, w, http.StatusConflict)
	testutil.AssertErrorKind(t, w, models.ErrKindWrongPhase)

	testutil.AssertStatus(t, patch(models.PhaseNomination), http.StatusOK)

	w = nominate("Alice", "Bob", "unblocked the whole team")
	testutil.AssertStatus(t, w, http.StatusCreated)
	var nom1 models.CreateNominationResponse
	testutil.AssertJSON(t, w, &nom1)

	w = nominate("Carol", "Dave", "caught the billing bug")
	testutil.AssertStatus(t, w, http.StatusCreated)
	var nom2 models.CreateNominationResponse
	testutil.AssertJSON(t, w, &nom2)

	// Voting has not opened yet
	w = vote("Erin", []string{nom1.Nomination.ID})
	testutil.AssertStatus(t, w, http.StatusConflict)
	testutil.AssertErrorKind(t, w, models.ErrKindWrongPhase)

	testutil.AssertStatus(t, patch(models.PhaseVoting), http.StatusOK)

	// Nominations are closed once voting opens
	w = nominate("Frank", "Grace", "too late")
	testutil.AssertStatus(t, w, http.StatusConflict)
	testutil.AssertErrorKind(t, w, models.ErrKindWrongPhase)

	testutil.AssertStatus(t, vote("Erin", []string{nom1.Nomination.ID, nom2.Nomination.ID}), http.StatusCreated)
	testutil.AssertStatus(t, vote("Frank", []string{nom1.Nomination.ID}), http.StatusCreated)

	// One ballot per identity
	w = vote("erin", []string{nom2.Nomination.ID})
	testutil.AssertStatus(t, w, http.StatusConflict)
	testutil.AssertErrorKind(t, w, models.ErrKindAlreadyVoted)

	// Abstention is a valid ballot
	testutil.AssertStatus(t, vote("Grace", nil), http.StatusCreated)

	testutil.AssertStatus(t, patch(models.PhaseResults), http.StatusOK)

	// The active-session view now embeds the tally
	w = serve(handler, testutil.MakeRequest("GET", "/api/session", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var state models.SessionStateResponse
	testutil.AssertJSON(t, w, &state)
	if state.Session == nil || state.Session.ID != sessionID {
		t.Fatalf("expected active session %s, got %+v", sessionID, state.Session)
	}
	if len(state.VoteCounts) != 2 {
		t.Fatalf("expected 2 tally entries, got %+v", state.VoteCounts)
	}
	if state.VoteCounts[0].Name != "Bob" || state.VoteCounts[0].Count != 2 {
		t.Errorf("expected Bob leading with 2, got %+v", state.VoteCounts[0])
	}
	if len(state.Winners) != 1 || state.Winners[0] != "Bob" {
		t.Errorf("expected winner Bob, got %v", state.Winners)
	}
	if state.NoneOfAboveCount != 1 {
		t.Errorf("expected 1 abstention, got %d", state.NoneOfAboveCount)
	}

	// Standalone results endpoint agrees
	w = serve(handler, testutil.MakeRequest("GET", "/api/session/results?session_id="+sessionID, nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var tally models.TallyResult
	testutil.AssertJSON(t, w, &tally)
	if len(tally.Winners) != 1 || tally.Winners[0] != "Bob" {
		t.Errorf("expected winner Bob from results endpoint, got %v", tally.Winners)
	}

	// Closing purges the ledgers and retires the session
	testutil.AssertStatus(t, patch(models.PhaseClosed), http.StatusOK)

	w = serve(handler, testutil.MakeRequest("GET", "/api/session", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	state = models.SessionStateResponse{}
	testutil.AssertJSON(t, w, &state)
	if state.Session != nil {
		t.Errorf("expected no active session after close, got %+v", state.Session)
	}

	w = serve(handler, testutil.MakeRequest("GET", "/api/nominations?session_id="+sessionID, nil, nil))
	var noms models.NominationsResponse
	testutil.AssertJSON(t, w, &noms)
	if len(noms.Nominations) != 0 {
		t.Errorf("expected nominations purged, got %d", len(noms.Nominations))
	}
}
