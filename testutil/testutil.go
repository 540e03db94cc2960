// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/db"
	"github.com/danielhkuo/ballotbox/models"
)

// TestPassword is the plaintext password of every fixture account
const TestPassword = "password123"

// T0 is the reference instant fixtures and clocks are built around
var T0 = time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)

var civicSeq atomic.Int64

// SetupTestDB opens a private in-memory SQLite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.OpenSQLite(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(context.Background(), conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:               5001,
		DatabaseURL:        ":memory:",
		DatabaseType:       cliparse.DatabaseSQLite,
		Environment:        "test",
		JWTSecret:          "test-jwt-secret",
		TokenIssuer:        "ballotbox-test",
		TokenTTL:           time.Hour,
		StatusSyncInterval: 0,
	}
}

// TokenIssuer returns the issuer matching GetTestConfig
func TokenIssuer() *auth.TokenIssuer {
	cfg := GetTestConfig()
	return auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenIssuer, cfg.TokenTTL)
}

// FixedClock is a settable time source safe for concurrent use
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now.UTC()}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FixedClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now.UTC()
}

func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// NextCivicID returns a fresh 12-digit civic identifier
func NextCivicID() string {
	return fmt.Sprintf("%012d", 100000000000+civicSeq.Add(1))
}

// CreateTestAccount inserts a verified account with TestPassword
func CreateTestAccount(t *testing.T, conn *sql.DB, role, name string) *models.Account {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	civicID := NextCivicID()
	a := &models.Account{
		ID:           auth.GenerateID(),
		CivicID:      civicID,
		Email:        "user" + civicID + "@example.com",
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
		IsVerified:   true,
		HasVoted:     []string{},
		CreatedAt:    T0,
		UpdatedAt:    T0,
	}

	_, err = conn.Exec(`
		INSERT INTO account (id, civic_id, email, name, password_hash, role, is_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, a.ID, a.CivicID, a.Email, a.Name, a.PasswordHash, a.Role, a.IsVerified, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create test account: %v", err)
	}

	return a
}

// CreateTestElection inserts an election with the given window. The stored
// status snapshot is "pending"; readers derive the real status.
func CreateTestElection(t *testing.T, conn *sql.DB, creatorID, name string, start, end time.Time) *models.Election {
	t.Helper()

	e := &models.Election{
		ID:          auth.GenerateID(),
		Name:        name,
		Description: "A test election",
		StartTime:   start.UTC(),
		EndTime:     end.UTC(),
		Status:      models.StatusPending,
		CreatedBy:   creatorID,
		CreatedAt:   T0,
		UpdatedAt:   T0,
	}

	_, err := conn.Exec(`
		INSERT INTO election (id, name, description, start_time, end_time, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, e.ID, e.Name, e.Description, e.StartTime, e.EndTime, e.Status, e.CreatedBy, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create test election: %v", err)
	}

	return e
}

// AddTestCandidate appends a candidate to an election's roster
func AddTestCandidate(t *testing.T, conn *sql.DB, electionID, name string) *models.Candidate {
	t.Helper()

	c := &models.Candidate{
		ID:         auth.GenerateID(),
		ElectionID: electionID,
		Name:       name,
		Party:      name + " Party",
		CreatedAt:  T0,
		UpdatedAt:  T0,
	}

	err := conn.QueryRow(`SELECT COALESCE(MAX(seq), 0) + 1 FROM candidate WHERE election_id = $1`, electionID).Scan(&c.Seq)
	if err != nil {
		t.Fatalf("Failed to read candidate seq: %v", err)
	}

	_, err = conn.Exec(`
		INSERT INTO candidate (id, election_id, seq, name, party, symbol_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, '', $6, $7)
	`, c.ID, c.ElectionID, c.Seq, c.Name, c.Party, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}

	return c
}

// CastTestBallot records a ballot together with the voter's history row
func CastTestBallot(t *testing.T, conn *sql.DB, voterID, electionID, candidateID string) string {
	t.Helper()

	ballotID := auth.GenerateID()
	_, err := conn.Exec(`
		INSERT INTO ballot (id, voter_id, election_id, candidate_id, cast_at)
		VALUES ($1, $2, $3, $4, $5)
	`, ballotID, voterID, electionID, candidateID, T0)
	if err != nil {
		t.Fatalf("Failed to create test ballot: %v", err)
	}

	_, err = conn.Exec(`
		INSERT INTO voted_election (account_id, election_id, voted_at)
		VALUES ($1, $2, $3)
	`, voterID, electionID, T0)
	if err != nil {
		t.Fatalf("Failed to record voting history: %v", err)
	}

	return ballotID
}

// BearerHeader returns an Authorization header for the account
func BearerHeader(t *testing.T, a *models.Account) map[string]string {
	t.Helper()

	token, err := TokenIssuer().NewToken(a.ID, a.Role)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
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
