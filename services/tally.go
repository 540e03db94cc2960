// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"github.com/danielhkuo/ballotbox/metrics"
	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/store"
)

// ResultsCache stores tallies of completed elections. A completed election
// never changes, so entries need no invalidation.
type ResultsCache interface {
	Get(ctx context.Context, electionID string) (*models.ElectionResults, bool, error)
	Set(ctx context.Context, results *models.ElectionResults) error
}

type TallyService struct {
	store *store.Store
	clock Clock
	cache ResultsCache // optional
}

func NewTallyService(st *store.Store, clock Clock, cache ResultsCache) *TallyService {
	return &TallyService{store: st, clock: clock, cache: cache}
}

// Results tallies an election. Non-administrators only see completed
// elections. Never writes to the ledger.
func (s *TallyService) Results(ctx context.Context, electionID, role string) (*models.ElectionResults, error) {
	e, err := loadElection(ctx, s.store.Queries, electionID, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if !CanViewResults(role, e.Status) {
		return nil, NewForbiddenError("results are not yet available for this election")
	}

	completed := e.Status == models.StatusCompleted
	if completed && s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, e.ID)
		switch {
		case err != nil:
			slog.Warn("results cache read failed", "election_id", e.ID, "error", err)
		case ok:
			metrics.ResultsCache.WithLabelValues("hit").Inc()
			return cached, nil
		default:
			metrics.ResultsCache.WithLabelValues("miss").Inc()
		}
	}

	candidates, err := s.store.ListCandidates(ctx, e.ID)
	if err != nil {
		return nil, NewStorageError(err)
	}
	counts, err := s.store.CountBallotsByCandidate(ctx, e.ID)
	if err != nil {
		return nil, NewStorageError(err)
	}

	total, ranked := ComputeTally(candidates, counts)
	results := &models.ElectionResults{
		ElectionID:     e.ID,
		ElectionName:   e.Name,
		Status:         e.Status,
		TotalVotesCast: total,
		Results:        ranked,
	}

	if completed && s.cache != nil {
		if err := s.cache.Set(ctx, results); err != nil {
			slog.Warn("results cache write failed", "election_id", e.ID, "error", err)
		}
	}
	return results, nil
}

// ComputeTally ranks a roster by ballot count. Candidates without ballots
// get zero; equal counts keep roster order and share a rank. The total is
// the number of ballots counted.
func ComputeTally(candidates []models.Candidate, counts map[string]int) (int, []models.CandidateResult) {
	total := 0
	for _, n := range counts {
		total += n
	}

	roster := make([]models.Candidate, len(candidates))
	copy(roster, candidates)
	sort.SliceStable(roster, func(i, j int) bool { return roster[i].Seq < roster[j].Seq })

	results := make([]models.CandidateResult, 0, len(roster))
	for _, c := range roster {
		results = append(results, models.CandidateResult{
			CandidateID: c.ID,
			Name:        c.Name,
			Party:       c.Party,
			Votes:       counts[c.ID],
			Percentage:  percentage(counts[c.ID], total),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Votes > results[j].Votes
	})

	for i := range results {
		if i > 0 && results[i].Votes == results[i-1].Votes {
			results[i].Rank = results[i-1].Rank
		} else {
			results[i].Rank = i + 1
		}
	}

	return total, results
}

// percentage of total, rounded to two decimals
func percentage(votes, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(votes)*10000/float64(total)) / 100
}
