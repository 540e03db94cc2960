// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/store"
	"github.com/danielhkuo/ballotbox/testutil"
)

// fixture wires every service to one in-memory database and a settable clock
type fixture struct {
	conn  *sql.DB
	store *store.Store
	clock *testutil.FixedClock

	elections  *ElectionService
	candidates *CandidateService
	votes      *VoteService
	tally      *TallyService
	accounts   *AccountService

	admin *models.Account
	voter *models.Account
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	st := store.NewStore(conn)
	clock := testutil.NewFixedClock(testutil.T0)

	return &fixture{
		conn:       conn,
		store:      st,
		clock:      clock,
		elections:  NewElectionService(st, clock),
		candidates: NewCandidateService(st, clock),
		votes:      NewVoteService(st, clock),
		tally:      NewTallyService(st, clock, nil),
		accounts:   NewAccountService(st, testutil.TokenIssuer(), clock),
		admin:      testutil.CreateTestAccount(t, conn, models.RoleAdmin, "Admin"),
		voter:      testutil.CreateTestAccount(t, conn, models.RoleVoter, "Voter"),
	}
}

// election creates an election whose window is [T0+startIn, T0+startIn+length]
func (f *fixture) election(t *testing.T, name string, startIn, length time.Duration) *models.Election {
	t.Helper()
	start := testutil.T0.Add(startIn)
	return testutil.CreateTestElection(t, f.conn, f.admin.ID, name, start, start.Add(length))
}

func (f *fixture) countRows(t *testing.T, query string, args ...any) int {
	t.Helper()
	var n int
	if err := f.conn.QueryRowContext(context.Background(), query, args...).Scan(&n); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	return n
}

func assertCode(t *testing.T, err error, code ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected %s error, got nil", code)
	}
	se, ok := AsServiceError(err)
	if !ok {
		t.Fatalf("Expected ServiceError, got %T: %v", err, err)
	}
	if se.Code != code {
		t.Fatalf("Expected %s error, got %s: %s", code, se.Code, se.Message)
	}
}
