// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/kudos/auth"
	"github.com/danielhkuo/kudos/cliparse"
	"github.com/danielhkuo/kudos/db"
	"github.com/danielhkuo/kudos/models"
)

// TestAdminPassword is the shared admin secret used across tests
const TestAdminPassword = "test-admin-secret"

var testDBSeq atomic.Int64

// SetupTestDB creates a fresh in-memory SQLite database with the full
// schema. Each call gets its own database; the single-connection pool keeps
// the shared-cache memory DB alive and serializes writers.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:kudos_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            3318,
		DatabaseURL:     "file:kudos_test?mode=memory",
		DatabaseType:    "sqlite",
		AdminPassword:   TestAdminPassword,
		AppURL:          "http://localhost:3000",
		IdentityMode:    cliparse.IdentityName,
		NominationQuota: 3,
		MaxSelections:   3,
		AllowRollback:   true,
	}
}

// AdminHeaders returns the Authorization header privileged calls need
func AdminHeaders() map[string]string {
	return map[string]string{"Authorization": "Bearer " + TestAdminPassword}
}

// IdentityKey mirrors the name resolver's normalization so fixtures agree
// with handler-created rows.
func IdentityKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// CreateTestSession inserts a session in the given phase and returns its ID
func CreateTestSession(t *testing.T, conn *sql.DB, phase string) string {
	t.Helper()

	id := uuid.NewString()
	now := time.Now()
	_, err := conn.Exec(`
		INSERT INTO session (id, title, meeting_date, phase, created_at, updated_at)
		VALUES ($1, 'Test Session', '2026-02-19', $2, $3, $4)
	`, id, phase, now, now)
	if err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}

	return id
}

// CreateTestNomination inserts a nomination and returns its ID
func CreateTestNomination(t *testing.T, conn *sql.DB, sessionID, nominator, nominee, reason string) string {
	t.Helper()

	id := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO nomination (id, session_id, nominator_key, nominator_name, nominee_name, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id, sessionID, IdentityKey(nominator), nominator, nominee, reason, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test nomination: %v", err)
	}

	return id
}

// CreateTestVote inserts a ballot with its selections and returns the vote ID
func CreateTestVote(t *testing.T, conn *sql.DB, sessionID, voter string, nominationIDs []string) string {
	t.Helper()

	id := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO vote (id, session_id, voter_key, voter_name, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, id, sessionID, IdentityKey(voter), voter, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}

	for _, nominationID := range nominationIDs {
		_, err := conn.Exec(`
			INSERT INTO vote_selection (vote_id, nomination_id)
			VALUES ($1, $2)
		`, id, nominationID)
		if err != nil {
			t.Fatalf("Failed to create test selection: %v", err)
		}
	}

	return id
}

// CreateTestParticipant inserts a roster entry and returns its token
func CreateTestParticipant(t *testing.T, conn *sql.DB, email string) string {
	t.Helper()

	token, _ := auth.GenerateToken()
	_, err := conn.Exec(`
		INSERT INTO participant (id, email, token, created_at)
		VALUES ($1, $2, $3, $4)
	`, uuid.NewString(), email, token, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test participant: %v", err)
	}

	return token
}

// SessionPhase reads a session's current phase straight from the store
func SessionPhase(t *testing.T, conn *sql.DB, sessionID string) string {
	t.Helper()

	var phase string
	if err := conn.QueryRow(`SELECT phase FROM session WHERE id = $1`, sessionID).Scan(&phase); err != nil {
		t.Fatalf("Failed to read session phase: %v", err)
	}
	return phase
}

// CountRows counts rows in table scoped to one session
func CountRows(t *testing.T, conn *sql.DB, table, sessionID string) int {
	t.Helper()

	var count int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM `+table+` WHERE session_id = $1`, sessionID).Scan(&count); err != nil {
		t.Fatalf("Failed to count %s rows: %v", table, err)
	}
	return count
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// AssertErrorKind checks the machine-readable kind in an error body
func AssertErrorKind(t *testing.T, w *httptest.ResponseRecorder, kind string) {
	t.Helper()
	var resp models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if resp.Error != kind {
		t.Errorf("Expected error kind %q, got %q (message: %s)", kind, resp.Error, resp.Message)
	}
}
