// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/kudos/identity"
	"github.com/danielhkuo/kudos/models"
	"github.com/danielhkuo/kudos/testutil"
)

func newNominationHandler(t *testing.T) (*NominationHandler, *TestEnv) {
	t.Helper()
	env := NewTestEnv(t)
	return NewNominationHandler(env.DB, env.Cfg, identity.NewResolver(env.Cfg, env.DB)), env
}

func TestCreateNomination(t *testing.T) {
	tests := []struct {
		name           string
		phase          string
		body           models.CreateNominationRequest
		expectedStatus int
		expectedKind   string
	}{
		{
			name:  "accepted in nomination phase",
			phase: models.PhaseNomination,
			body: models.CreateNominationRequest{
				NominatorName: "Alice", NomineeName: "Bob", Reason: "carried the release",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:  "rejected in setup phase",
			phase: models.PhaseSetup,
			body: models.CreateNominationRequest{
				NominatorName: "Alice", NomineeName: "Bob", Reason: "carried the release",
			},
			expectedStatus: http.StatusConflict,
			expectedKind:   models.ErrKindWrongPhase,
		},
		{
			name:  "rejected in voting phase",
			phase: models.PhaseVoting,
			body: models.CreateNominationRequest{
				NominatorName: "Alice", NomineeName: "Bob", Reason: "carried the release",
			},
			expectedStatus: http.StatusConflict,
			expectedKind:   models.ErrKindWrongPhase,
		},
		{
			name:  "missing nominee rejected",
			phase: models.PhaseNomination,
			body: models.CreateNominationRequest{
				NominatorName: "Alice", NomineeName: "   ", Reason: "carried the release",
			},
			expectedStatus: http.StatusBadRequest,
			expectedKind:   models.ErrKindValidation,
		},
		{
			name:  "missing reason rejected",
			phase: models.PhaseNomination,
			body: models.CreateNominationRequest{
				NominatorName: "Alice", NomineeName: "Bob",
			},
			expectedStatus: http.StatusBadRequest,
			expectedKind:   models.ErrKindValidation,
		},
		{
			name:  "missing nominator identity rejected",
			phase: models.PhaseNomination,
			body: models.CreateNominationRequest{
				NomineeName: "Bob", Reason: "carried the release",
			},
			expectedStatus: http.StatusBadRequest,
			expectedKind:   models.ErrKindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, env := newNominationHandler(t)
			sessionID := testutil.CreateTestSession(t, env.DB, tt.phase)
			tt.body.SessionID = sessionID

			req := testutil.MakeRequest("POST", "/api/nominations/create", tt.body, nil)
			w := httptest.NewRecorder()
			handler.CreateNomination(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedKind != "" {
				testutil.AssertErrorKind(t, w, tt.expectedKind)
				if n := testutil.CountRows(t, env.DB, "nomination", sessionID); n != 0 {
					t.Errorf("expected no nomination persisted, found %d", n)
				}
				return
			}

			var resp models.CreateNominationResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Nomination.NomineeName != tt.body.NomineeName {
				t.Errorf("expected nominee %q, got %q", tt.body.NomineeName, resp.Nomination.NomineeName)
			}
			if resp.Nomination.Reason != tt.body.Reason {
				t.Errorf("expected reason preserved, got %q", resp.Nomination.Reason)
			}
			if resp.Nomination.SessionID != sessionID {
				t.Errorf("expected session %s, got %s", sessionID, resp.Nomination.SessionID)
			}
		})
	}
}

func TestCreateNomination_NoSession(t *testing.T) {
	handler, _ := newNominationHandler(t)

	req := testutil.MakeRequest("POST", "/api/nominations/create", models.CreateNominationRequest{
		NominatorName: "Alice", NomineeName: "Bob", Reason: "carried the release",
	}, nil)
	w := httptest.NewRecorder()
	handler.CreateNomination(w, req)

	testutil.AssertStatus(t, w, http.StatusNotFound)
	testutil.AssertErrorKind(t, w, models.ErrKindNotFound)
}

func TestCreateNomination_Quota(t *testing.T) {
	env := NewTestEnv(t)
	env.Cfg.NominationQuota = 2
	handler := NewNominationHandler(env.DB, env.Cfg, identity.NewResolver(env.Cfg, env.DB))

	sessionID := testutil.CreateTestSession(t, env.DB, models.PhaseNomination)

	submit := func(nominator, nominee string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/api/nominations/create", models.CreateNominationRequest{
			SessionID: sessionID, NominatorName: nominator, NomineeName: nominee, Reason: "kept us shipping",
		}, nil)
		w := httptest.NewRecorder()
		handler.CreateNomination(w, req)
		return w
	}

	testutil.AssertStatus(t, submit("Alice", "Bob"), http.StatusCreated)
	testutil.AssertStatus(t, submit("Alice", "Carol"), http.StatusCreated)

	// Third from the same identity hits the quota
	w := submit("Alice", "Dave")
	testutil.AssertStatus(t, w, http.StatusConflict)
	testutil.AssertErrorKind(t, w, models.ErrKindQuotaExceeded)

	// Name normalization: casing and whitespace map to the same identity
	w = submit("  ALICE ", "Dave")
	testutil.AssertStatus(t, w, http.StatusConflict)
	testutil.AssertErrorKind(t, w, models.ErrKindQuotaExceeded)

	// A different identity is unaffected
	testutil.AssertStatus(t, submit("Erin", "Dave"), http.StatusCreated)

	if n := testutil.CountRows(t, env.DB, "nomination", sessionID); n != 3 {
		t.Errorf("expected 3 nominations, got %d", n)
	}
}

func TestListNominations(t *testing.T) {
	handler, env := newNominationHandler(t)
	sessionID := testutil.CreateTestSession(t, env.DB, models.PhaseNomination)

	testutil.CreateTestNomination(t, env.DB, sessionID, "Alice", "zoe", "late-night debugging")
	testutil.CreateTestNomination(t, env.DB, sessionID, "Bob", "Carol", "onboarding docs")
	testutil.CreateTestNomination(t, env.DB, sessionID, "Carol", "Bob", "incident response")

	req := testutil.MakeRequest("GET", "/api/nominations?session_id="+sessionID, nil, nil)
	w := httptest.NewRecorder()
	handler.ListNominations(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.NominationsResponse
	testutil.AssertJSON(t, w, &resp)
	if len(resp.Nominations) != 3 {
		t.Fatalf("expected 3 nominations, got %d", len(resp.Nominations))
	}

	// Case-insensitive nominee-name ordering
	want := []string{"Bob", "Carol", "zoe"}
	for i, n := range resp.Nominations {
		if n.NomineeName != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], n.NomineeName)
		}
	}
}

func TestListNominations_NoSession(t *testing.T) {
	handler, _ := newNominationHandler(t)

	req := testutil.MakeRequest("GET", "/api/nominations", nil, nil)
	w := httptest.NewRecorder()
	handler.ListNominations(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.NominationsResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Nominations == nil {
		t.Error("expected empty list, got null")
	}
	if len(resp.Nominations) != 0 {
		t.Errorf("expected 0 nominations, got %d", len(resp.Nominations))
	}
}

func TestDeleteNomination(t *testing.T) {
	handler, env := newNominationHandler(t)
	sessionID := testutil.CreateTestSession(t, env.DB, models.PhaseVoting)
	nominationID := testutil.CreateTestNomination(t, env.DB, sessionID, "Alice", "Bob", "review queue hero")
	testutil.CreateTestVote(t, env.DB, sessionID, "Carol", []string{nominationID})

	// Requires admin
	req := testutil.MakeRequest("DELETE", "/api/nominations/"+nominationID+"/delete", nil, nil)
	req.SetPathValue("id", nominationID)
	w := httptest.NewRecorder()
	handler.DeleteNomination(w, req)
	testutil.AssertStatus(t, w, http.StatusUnauthorized)

	// Deletes the nomination and any ballot selections pointing at it
	req = testutil.MakeRequest("DELETE", "/api/nominations/"+nominationID+"/delete", nil, testutil.AdminHeaders())
	req.SetPathValue("id", nominationID)
	w = httptest.NewRecorder()
	handler.DeleteNomination(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	if n := testutil.CountRows(t, env.DB, "nomination", sessionID); n != 0 {
		t.Errorf("expected nomination deleted, found %d", n)
	}
	var selections int
	if err := env.DB.QueryRow(`SELECT COUNT(*) FROM vote_selection WHERE nomination_id = $1`, nominationID).Scan(&selections); err != nil {
		t.Fatal(err)
	}
	if selections != 0 {
		t.Errorf("expected selections purged, found %d", selections)
	}
	// The ballot itself survives; the identity's one vote stays spent
	if n := testutil.CountRows(t, env.DB, "vote", sessionID); n != 1 {
		t.Errorf("expected vote row preserved, found %d", n)
	}

	// Unknown id
	req = testutil.MakeRequest("DELETE", "/api/nominations/missing/delete", nil, testutil.AdminHeaders())
	req.SetPathValue("id", "missing")
	w = httptest.NewRecorder()
	handler.DeleteNomination(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
	testutil.AssertErrorKind(t, w, models.ErrKindNotFound)
}
