// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"context"
	"testing"
	"time"

	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/testutil"
)

func TestDeriveStatus(t *testing.T) {
	start := testutil.T0
	end := start.Add(time.Hour)

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"before start", start.Add(-time.Nanosecond), models.StatusPending},
		{"at start", start, models.StatusActive},
		{"midway", start.Add(30 * time.Minute), models.StatusActive},
		{"at end", end, models.StatusActive},
		{"after end", end.Add(time.Nanosecond), models.StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveStatus(start, end, tt.now)
			if got != tt.want {
				t.Errorf("DeriveStatus() = %s, want %s", got, tt.want)
			}
			// Same inputs, same answer
			if again := DeriveStatus(start, end, tt.now); again != got {
				t.Errorf("DeriveStatus() not deterministic: %s then %s", got, again)
			}
		})
	}
}

func TestElectionCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e, err := f.elections.Create(ctx, f.admin.ID, models.CreateElectionRequest{
		Name:      "  City Council  ",
		StartTime: testutil.T0.Add(time.Hour),
		EndTime:   testutil.T0.Add(2 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if e.Status != models.StatusPending {
		t.Errorf("Expected pending, got %s", e.Status)
	}
	if e.Name != "City Council" {
		t.Errorf("Expected trimmed name, got %q", e.Name)
	}
	if e.CreatedBy != f.admin.ID {
		t.Errorf("Expected creator %s, got %s", f.admin.ID, e.CreatedBy)
	}

	t.Run("duplicate name", func(t *testing.T) {
		_, err := f.elections.Create(ctx, f.admin.ID, models.CreateElectionRequest{
			Name:      "City Council",
			StartTime: testutil.T0.Add(time.Hour),
			EndTime:   testutil.T0.Add(2 * time.Hour),
		})
		assertCode(t, err, ErrorValidation)
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := f.elections.Create(ctx, f.admin.ID, models.CreateElectionRequest{
			Name:      "Backwards",
			StartTime: testutil.T0.Add(2 * time.Hour),
			EndTime:   testutil.T0.Add(time.Hour),
		})
		assertCode(t, err, ErrorValidation)
	})

	t.Run("window already open", func(t *testing.T) {
		e, err := f.elections.Create(ctx, f.admin.ID, models.CreateElectionRequest{
			Name:      "Late Start",
			StartTime: testutil.T0.Add(-time.Minute),
			EndTime:   testutil.T0.Add(time.Hour),
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if e.Status != models.StatusActive {
			t.Errorf("Expected derived status active, got %s", e.Status)
		}
	})
}

func TestElectionUpdate(t *testing.T) {
	ctx := context.Background()
	newName := "Renamed"
	later := testutil.T0.Add(5 * time.Hour)

	t.Run("pending accepts any field", func(t *testing.T) {
		f := newFixture(t)
		e := f.election(t, "Pending", time.Hour, time.Hour)

		updated, err := f.elections.Update(ctx, e.ID, models.UpdateElectionRequest{Name: &newName, EndTime: &later})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if updated.Name != newName || !updated.EndTime.Equal(later) {
			t.Errorf("Update() did not apply patch: %+v", updated)
		}
	})

	t.Run("pending rejects inverted window", func(t *testing.T) {
		f := newFixture(t)
		e := f.election(t, "Pending", time.Hour, time.Hour)
		early := testutil.T0.Add(30 * time.Minute)

		_, err := f.elections.Update(ctx, e.ID, models.UpdateElectionRequest{EndTime: &early})
		assertCode(t, err, ErrorValidation)
	})

	t.Run("active accepts metadata", func(t *testing.T) {
		f := newFixture(t)
		e := f.election(t, "Active", -time.Minute, time.Hour)
		desc := "new description"

		updated, err := f.elections.Update(ctx, e.ID, models.UpdateElectionRequest{Name: &newName, Description: &desc})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if updated.Description != desc {
			t.Errorf("Expected description %q, got %q", desc, updated.Description)
		}
	})

	t.Run("active rejects timing change", func(t *testing.T) {
		f := newFixture(t)
		e := f.election(t, "Active", -time.Minute, time.Hour)

		_, err := f.elections.Update(ctx, e.ID, models.UpdateElectionRequest{EndTime: &later})
		assertCode(t, err, ErrorInvalidState)
	})

	t.Run("active accepts unchanged timing", func(t *testing.T) {
		f := newFixture(t)
		e := f.election(t, "Active", -time.Minute, time.Hour)
		sameEnd := e.EndTime

		if _, err := f.elections.Update(ctx, e.ID, models.UpdateElectionRequest{Name: &newName, EndTime: &sameEnd}); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
	})

	t.Run("completed is frozen", func(t *testing.T) {
		f := newFixture(t)
		e := f.election(t, "Done", -2*time.Hour, time.Hour)

		_, err := f.elections.Update(ctx, e.ID, models.UpdateElectionRequest{Name: &newName})
		assertCode(t, err, ErrorInvalidState)
	})

	t.Run("missing", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.elections.Update(ctx, "00000000-0000-0000-0000-000000000000", models.UpdateElectionRequest{Name: &newName})
		assertCode(t, err, ErrorNotFound)
	})
}

func TestElectionDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("pending election and roster removed", func(t *testing.T) {
		f := newFixture(t)
		e := f.election(t, "Pending", time.Hour, time.Hour)
		testutil.AddTestCandidate(t, f.conn, e.ID, "Alice")
		testutil.AddTestCandidate(t, f.conn, e.ID, "Bob")

		if err := f.elections.Delete(ctx, e.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if n := f.countRows(t, "SELECT COUNT(*) FROM candidate WHERE election_id = $1", e.ID); n != 0 {
			t.Errorf("Expected roster removed, %d candidates remain", n)
		}
		if n := f.countRows(t, "SELECT COUNT(*) FROM election WHERE id = $1", e.ID); n != 0 {
			t.Error("Expected election removed")
		}
	})

	t.Run("active refused", func(t *testing.T) {
		f := newFixture(t)
		e := f.election(t, "Active", -time.Minute, time.Hour)

		assertCode(t, f.elections.Delete(ctx, e.ID), ErrorInvalidState)
	})

	t.Run("completed refused", func(t *testing.T) {
		f := newFixture(t)
		e := f.election(t, "Done", -2*time.Hour, time.Hour)

		assertCode(t, f.elections.Delete(ctx, e.ID), ErrorInvalidState)
	})

	t.Run("malformed id", func(t *testing.T) {
		f := newFixture(t)
		assertCode(t, f.elections.Delete(ctx, "nope"), ErrorNotFound)
	})
}

func TestElectionList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.election(t, "Upcoming", 2*time.Hour, time.Hour)
	f.election(t, "Running", -time.Minute, time.Hour)
	f.election(t, "Finished", -3*time.Hour, time.Hour)

	admin, err := f.elections.List(ctx, models.RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}
	if len(admin) != 3 {
		t.Fatalf("Admin should see 3 elections, got %d", len(admin))
	}
	// Ordered by start time
	wantOrder := []string{"Finished", "Running", "Upcoming"}
	for i, name := range wantOrder {
		if admin[i].Name != name {
			t.Errorf("Position %d: expected %s, got %s", i, name, admin[i].Name)
		}
	}

	voter, err := f.elections.List(ctx, models.RoleVoter)
	if err != nil {
		t.Fatal(err)
	}
	if len(voter) != 2 {
		t.Fatalf("Voter should see 2 elections, got %d", len(voter))
	}
	for _, e := range voter {
		if e.Status == models.StatusCompleted {
			t.Errorf("Voter listing includes completed election %s", e.Name)
		}
	}
}

func TestElectionGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e := f.election(t, "Upcoming", time.Hour, time.Hour)
	testutil.AddTestCandidate(t, f.conn, e.ID, "Alice")

	detail, err := f.elections.Get(ctx, e.ID, models.RoleVoter)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(detail.Candidates) != 0 {
		t.Errorf("Voter should not see roster before start, got %d candidates", len(detail.Candidates))
	}
	if detail.Election.OpensIn != "1 hour from now" {
		t.Errorf("Expected opensIn '1 hour from now', got %q", detail.Election.OpensIn)
	}

	detail, err = f.elections.Get(ctx, e.ID, models.RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}
	if len(detail.Candidates) != 1 {
		t.Errorf("Admin should see roster before start, got %d candidates", len(detail.Candidates))
	}

	f.clock.Advance(90 * time.Minute)
	detail, err = f.elections.Get(ctx, e.ID, models.RoleVoter)
	if err != nil {
		t.Fatal(err)
	}
	if detail.Election.Status != models.StatusActive {
		t.Errorf("Expected active, got %s", detail.Election.Status)
	}
	if len(detail.Candidates) != 1 {
		t.Errorf("Voter should see roster once started, got %d candidates", len(detail.Candidates))
	}
	if detail.Election.ClosesIn != "30 minutes from now" {
		t.Errorf("Expected closesIn '30 minutes from now', got %q", detail.Election.ClosesIn)
	}

	_, err = f.elections.Get(ctx, "00000000-0000-0000-0000-000000000000", models.RoleVoter)
	assertCode(t, err, ErrorNotFound)
}

func TestSyncStatuses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.election(t, "Soon", time.Hour, time.Hour)
	f.election(t, "Later", 5*time.Hour, time.Hour)

	n, err := f.elections.SyncStatuses(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("Expected no transitions yet, got %d", n)
	}

	f.clock.Advance(90 * time.Minute)
	if n, _ = f.elections.SyncStatuses(ctx); n != 1 {
		t.Errorf("Expected 1 transition, got %d", n)
	}
	if n, _ = f.elections.SyncStatuses(ctx); n != 0 {
		t.Errorf("Sync should be idempotent, got %d transitions", n)
	}

	var status string
	if err := f.conn.QueryRow("SELECT status FROM election WHERE name = 'Soon'").Scan(&status); err != nil {
		t.Fatal(err)
	}
	if status != models.StatusActive {
		t.Errorf("Expected stored snapshot active, got %s", status)
	}
}
