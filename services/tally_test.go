// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/testutil"
)

func roster(names ...string) []models.Candidate {
	out := make([]models.Candidate, len(names))
	for i, n := range names {
		out[i] = models.Candidate{ID: n, Name: n, Seq: i + 1}
	}
	return out
}

func TestComputeTally(t *testing.T) {
	tests := []struct {
		name      string
		roster    []models.Candidate
		counts    map[string]int
		wantTotal int
		wantOrder []string
		wantRanks []int
		wantPct   []float64
	}{
		{
			name:      "no ballots",
			roster:    roster("A", "B"),
			counts:    map[string]int{},
			wantTotal: 0,
			wantOrder: []string{"A", "B"},
			wantRanks: []int{1, 1},
			wantPct:   []float64{0, 0},
		},
		{
			name:      "clear winner",
			roster:    roster("A", "B", "C"),
			counts:    map[string]int{"A": 1, "B": 3},
			wantTotal: 4,
			wantOrder: []string{"B", "A", "C"},
			wantRanks: []int{1, 2, 3},
			wantPct:   []float64{75, 25, 0},
		},
		{
			name:      "tie keeps roster order and shares rank",
			roster:    roster("A", "B", "C"),
			counts:    map[string]int{"A": 1, "B": 2, "C": 2},
			wantTotal: 5,
			wantOrder: []string{"B", "C", "A"},
			wantRanks: []int{1, 1, 3},
			wantPct:   []float64{40, 40, 20},
		},
		{
			name:      "thirds round to two decimals",
			roster:    roster("A", "B", "C"),
			counts:    map[string]int{"A": 1, "B": 1, "C": 1},
			wantTotal: 3,
			wantOrder: []string{"A", "B", "C"},
			wantRanks: []int{1, 1, 1},
			wantPct:   []float64{33.33, 33.33, 33.33},
		},
		{
			name:      "two thirds",
			roster:    roster("A", "B"),
			counts:    map[string]int{"A": 2, "B": 1},
			wantTotal: 3,
			wantOrder: []string{"A", "B"},
			wantRanks: []int{1, 2},
			wantPct:   []float64{66.67, 33.33},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, results := ComputeTally(tt.roster, tt.counts)
			if total != tt.wantTotal {
				t.Errorf("total = %d, want %d", total, tt.wantTotal)
			}
			if len(results) != len(tt.wantOrder) {
				t.Fatalf("got %d results, want %d", len(results), len(tt.wantOrder))
			}
			sum := 0
			for i, r := range results {
				if r.CandidateID != tt.wantOrder[i] {
					t.Errorf("position %d = %s, want %s", i, r.CandidateID, tt.wantOrder[i])
				}
				if r.Rank != tt.wantRanks[i] {
					t.Errorf("%s rank = %d, want %d", r.CandidateID, r.Rank, tt.wantRanks[i])
				}
				if r.Percentage != tt.wantPct[i] {
					t.Errorf("%s percentage = %v, want %v", r.CandidateID, r.Percentage, tt.wantPct[i])
				}
				sum += r.Votes
			}
			if sum != total {
				t.Errorf("votes sum to %d, total is %d", sum, total)
			}
		})
	}
}

func TestComputeTally_Deterministic(t *testing.T) {
	// Roster given out of order; seq decides tie order
	candidates := []models.Candidate{
		{ID: "C", Seq: 3},
		{ID: "A", Seq: 1},
		{ID: "B", Seq: 2},
	}
	counts := map[string]int{"A": 4, "B": 4, "C": 4}

	_, first := ComputeTally(candidates, counts)
	for i := 0; i < 20; i++ {
		_, again := ComputeTally(candidates, counts)
		for j := range first {
			if first[j] != again[j] {
				t.Fatalf("run %d differs at %d: %+v vs %+v", i, j, first[j], again[j])
			}
		}
	}
	if first[0].CandidateID != "A" || first[2].CandidateID != "C" {
		t.Errorf("Expected roster order A, B, C; got %s, %s, %s",
			first[0].CandidateID, first[1].CandidateID, first[2].CandidateID)
	}
	if candidates[0].ID != "C" {
		t.Error("ComputeTally reordered its input")
	}
}

func TestResults_Visibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.election(t, "E", 0, time.Hour)
	c := testutil.AddTestCandidate(t, f.conn, e.ID, "C1")
	testutil.CastTestBallot(t, f.conn, f.voter.ID, e.ID, c.ID)

	_, err := f.tally.Results(ctx, e.ID, models.RoleVoter)
	assertCode(t, err, ErrorForbidden)

	live, err := f.tally.Results(ctx, e.ID, models.RoleAdmin)
	if err != nil {
		t.Fatalf("Admin Results() during voting error = %v", err)
	}
	if live.Status != models.StatusActive || live.TotalVotesCast != 1 {
		t.Errorf("Unexpected live results: %+v", live)
	}

	f.clock.Advance(2 * time.Hour)
	final, err := f.tally.Results(ctx, e.ID, models.RoleVoter)
	if err != nil {
		t.Fatalf("Voter Results() after close error = %v", err)
	}
	if final.Status != models.StatusCompleted {
		t.Errorf("Expected completed, got %s", final.Status)
	}
	if final.Results[0].Percentage != 100 {
		t.Errorf("Expected 100%%, got %v", final.Results[0].Percentage)
	}

	_, err = f.tally.Results(ctx, "00000000-0000-0000-0000-000000000000", models.RoleAdmin)
	assertCode(t, err, ErrorNotFound)
}

func TestResults_ReadOnly(t *testing.T) {
	f := newFixture(t)
	e := f.election(t, "E", -2*time.Hour, time.Hour)
	c := testutil.AddTestCandidate(t, f.conn, e.ID, "C1")
	testutil.CastTestBallot(t, f.conn, f.voter.ID, e.ID, c.ID)

	for i := 0; i < 3; i++ {
		if _, err := f.tally.Results(context.Background(), e.ID, models.RoleVoter); err != nil {
			t.Fatal(err)
		}
	}
	if n := f.countRows(t, "SELECT COUNT(*) FROM ballot"); n != 1 {
		t.Errorf("Tally changed ballot count to %d", n)
	}
}

type stubCache struct {
	entries map[string]*models.ElectionResults
	gets    int
	sets    int
	failGet bool
}

func newStubCache() *stubCache {
	return &stubCache{entries: map[string]*models.ElectionResults{}}
}

func (c *stubCache) Get(_ context.Context, id string) (*models.ElectionResults, bool, error) {
	c.gets++
	if c.failGet {
		return nil, false, errors.New("cache down")
	}
	r, ok := c.entries[id]
	return r, ok, nil
}

func (c *stubCache) Set(_ context.Context, r *models.ElectionResults) error {
	c.sets++
	c.entries[r.ElectionID] = r
	return nil
}

func TestResults_CacheOnlyCompleted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cache := newStubCache()
	tally := NewTallyService(f.store, f.clock, cache)

	e := f.election(t, "E", 0, time.Hour)
	c := testutil.AddTestCandidate(t, f.conn, e.ID, "C1")
	testutil.CastTestBallot(t, f.conn, f.voter.ID, e.ID, c.ID)

	if _, err := tally.Results(ctx, e.ID, models.RoleAdmin); err != nil {
		t.Fatal(err)
	}
	if cache.gets != 0 || cache.sets != 0 {
		t.Errorf("Active election touched cache: gets=%d sets=%d", cache.gets, cache.sets)
	}

	f.clock.Advance(2 * time.Hour)
	if _, err := tally.Results(ctx, e.ID, models.RoleVoter); err != nil {
		t.Fatal(err)
	}
	if cache.sets != 1 {
		t.Errorf("Expected completed tally cached once, got %d sets", cache.sets)
	}

	cached, err := tally.Results(ctx, e.ID, models.RoleVoter)
	if err != nil {
		t.Fatal(err)
	}
	if cache.sets != 1 || cache.gets != 2 {
		t.Errorf("Expected cache hit, got gets=%d sets=%d", cache.gets, cache.sets)
	}
	if cached.TotalVotesCast != 1 {
		t.Errorf("Cached total = %d, want 1", cached.TotalVotesCast)
	}
}

func TestResults_CacheFailureFallsBack(t *testing.T) {
	f := newFixture(t)
	cache := newStubCache()
	cache.failGet = true
	tally := NewTallyService(f.store, f.clock, cache)

	e := f.election(t, "E", -2*time.Hour, time.Hour)
	testutil.AddTestCandidate(t, f.conn, e.ID, "C1")

	results, err := tally.Results(context.Background(), e.ID, models.RoleVoter)
	if err != nil {
		t.Fatalf("Results() with failing cache error = %v", err)
	}
	if len(results.Results) != 1 {
		t.Errorf("Expected 1 result, got %d", len(results.Results))
	}
}
