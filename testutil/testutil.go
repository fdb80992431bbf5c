// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/JayRathod341997/poll-quiz/auth"
	"github.com/JayRathod341997/poll-quiz/cliparse"
	"github.com/JayRathod341997/poll-quiz/db"
	"github.com/JayRathod341997/poll-quiz/poll"
	"github.com/JayRathod341997/poll-quiz/survey"
)

// SetupTestDB opens a fresh SQLite database in a temp dir with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", "file:"+filepath.Join(t.TempDir(), "poll.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn, db.DialectSQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port: 3318,
		Storage: cliparse.Storage{
			Backend:     cliparse.BackendSQLite,
			DatabaseURL: "file::memory:",
		},
		SessionSalt: "test-session-salt",
		AdminKey:    "test-admin-key",
	}
}

// NewTestService wires the default poll to the SQLite store and guard on conn
func NewTestService(t *testing.T, conn *sql.DB, opts ...survey.Option) (*survey.Service, *survey.Aggregator) {
	t.Helper()

	schema := poll.Default()
	store := db.NewAnswerStore(conn, db.DialectSQLite, schema)
	svc := survey.NewService(schema, store, db.NewGuard(conn, db.DialectSQLite), opts...)
	if err := svc.Initialize(context.Background()); err != nil {
		t.Fatalf("Failed to initialize service: %v", err)
	}
	return svc, survey.NewAggregator(schema, store, nil)
}

// AllAnswers returns a valid answer for every question of the default poll
func AllAnswers() map[string]string {
	return map[string]string{
		"q1": "Python",
		"q2": "Daily",
		"q3": "VSCode",
		"q4": "AI/ML",
		"q5": "Docs",
		"q6": "4-6",
		"q7": "Go",
	}
}

// CreateTestRespondent issues a respondent id and its signed token
func CreateTestRespondent(cfg cliparse.Config) (respondentID, token string) {
	respondentID = auth.GenerateRespondentID()
	return respondentID, auth.SignRespondent(respondentID, cfg.SessionSalt)
}

// CountResponses returns the number of stored answer rows
func CountResponses(t *testing.T, conn *sql.DB) int {
	t.Helper()
	var n int
	if err := conn.QueryRow("SELECT COUNT(*) FROM response").Scan(&n); err != nil {
		t.Fatalf("Failed to count responses: %v", err)
	}
	return n
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
