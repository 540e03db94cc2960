// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"context"
	"log/slog"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/db"
	"github.com/danielhkuo/ballotbox/metrics"
	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/store"
)

// VoteService owns the ballot ledger
type VoteService struct {
	store *store.Store
	clock Clock
}

func NewVoteService(st *store.Store, clock Clock) *VoteService {
	return &VoteService{store: st, clock: clock}
}

// Cast records voterID's ballot. The existence checks only short-circuit the
// common case; UNIQUE(voter_id, election_id) inside the transaction decides
// concurrent attempts.
func (s *VoteService) Cast(ctx context.Context, voterID string, req models.CastVoteRequest) (*models.Ballot, error) {
	if err := req.Validate(); err != nil {
		return nil, reject(metrics.ReasonInvalidRequest, NewValidationError(err.Error()))
	}

	now := s.clock.Now()
	e, err := loadElection(ctx, s.store.Queries, req.ElectionID, now)
	if err != nil {
		if IsCode(err, ErrorNotFound) {
			return nil, reject(metrics.ReasonNotFound, err)
		}
		return nil, reject(metrics.ReasonStorage, err)
	}
	if e.Status != models.StatusActive {
		return nil, reject(metrics.ReasonNotActive, NewInvalidStateError("election is not active"))
	}

	exists, err := s.store.BallotExists(ctx, voterID, e.ID)
	if err != nil {
		return nil, reject(metrics.ReasonStorage, NewStorageError(err))
	}
	if !exists {
		// Advisory: the account's own history
		exists, err = s.store.HasVotedIn(ctx, voterID, e.ID)
		if err != nil {
			return nil, reject(metrics.ReasonStorage, NewStorageError(err))
		}
	}
	if exists {
		return nil, reject(metrics.ReasonAlreadyVoted, NewForbiddenError("already voted"))
	}

	if _, err := getCandidate(ctx, s.store.Queries, e.ID, req.CandidateID); err != nil {
		if IsCode(err, ErrorNotFound) {
			return nil, reject(metrics.ReasonInvalidCandidate,
				NewValidationError("candidate does not belong to this election"))
		}
		return nil, reject(metrics.ReasonStorage, err)
	}

	b := &models.Ballot{
		ID:          auth.GenerateID(),
		VoterID:     voterID,
		ElectionID:  e.ID,
		CandidateID: req.CandidateID,
		CastAt:      now,
	}

	err = s.store.WithTx(ctx, func(q *store.Queries) error {
		if err := q.InsertBallot(ctx, b); err != nil {
			return err
		}
		return q.InsertVotedElection(ctx, voterID, e.ID, now)
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, reject(metrics.ReasonConflict, NewConflictError("already voted in this election"))
		}
		return nil, reject(metrics.ReasonStorage, NewStorageError(err))
	}

	metrics.VotesCast.Inc()
	slog.Info("ballot cast", "election_id", e.ID, "ballot_id", b.ID)
	return b, nil
}

func reject(reason string, err error) error {
	metrics.VoteRejections.WithLabelValues(reason).Inc()
	return err
}

// MyVotes returns the ids of the elections voterID has voted in
func (s *VoteService) MyVotes(ctx context.Context, voterID string) ([]string, error) {
	ids, err := s.store.VotedElections(ctx, voterID)
	if err != nil {
		return nil, NewStorageError(err)
	}
	return ids, nil
}

// Reconcile compares the ballot ledger with the per-account voting history
// and reports every pair present on one side only
func (s *VoteService) Reconcile(ctx context.Context) (*models.IntegrityReport, error) {
	ballots, err := s.store.ListBallotPairs(ctx)
	if err != nil {
		return nil, NewStorageError(err)
	}
	flags, err := s.store.ListVotedPairs(ctx)
	if err != nil {
		return nil, NewStorageError(err)
	}

	report := &models.IntegrityReport{
		CheckedAt:          s.clock.Now(),
		Ballots:            len(ballots),
		VotedFlags:         len(flags),
		BallotsWithoutFlag: missingFrom(ballots, flags),
		FlagsWithoutBallot: missingFrom(flags, ballots),
	}
	report.Consistent = len(report.BallotsWithoutFlag) == 0 && len(report.FlagsWithoutBallot) == 0

	if !report.Consistent {
		slog.Warn("ledger inconsistency detected",
			"ballots_without_flag", len(report.BallotsWithoutFlag),
			"flags_without_ballot", len(report.FlagsWithoutBallot),
		)
	}
	return report, nil
}

// missingFrom returns the pairs of a that do not appear in b, in a's order
func missingFrom(a, b []models.LedgerPair) []models.LedgerPair {
	seen := make(map[models.LedgerPair]struct{}, len(b))
	for _, p := range b {
		seen[p] = struct{}{}
	}
	missing := []models.LedgerPair{}
	for _, p := range a {
		if _, ok := seen[p]; !ok {
			missing = append(missing, p)
		}
	}
	return missing
}
