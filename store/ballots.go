// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"

	"github.com/danielhkuo/ballotbox/models"
)

// InsertBallot appends a ballot. UNIQUE(voter_id, election_id) rejects a
// second ballot from the same voter.
func (q *Queries) InsertBallot(ctx context.Context, b *models.Ballot) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO ballot (id, voter_id, election_id, candidate_id, cast_at)
		VALUES ($1, $2, $3, $4, $5)
	`, b.ID, b.VoterID, b.ElectionID, b.CandidateID, b.CastAt)
	if err != nil {
		return fmt.Errorf("insert ballot: %w", err)
	}
	return nil
}

func (q *Queries) BallotExists(ctx context.Context, voterID, electionID string) (bool, error) {
	var n int
	err := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM ballot WHERE voter_id = $1 AND election_id = $2
	`, voterID, electionID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check ballot: %w", err)
	}
	return n > 0, nil
}

// CountBallotsByCandidate returns candidate id -> ballots for one election.
// Candidates without ballots are absent from the map.
func (q *Queries) CountBallotsByCandidate(ctx context.Context, electionID string) (map[string]int, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT candidate_id, COUNT(*) FROM ballot WHERE election_id = $1 GROUP BY candidate_id
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("count ballots: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var candidateID string
		var n int
		if err := rows.Scan(&candidateID, &n); err != nil {
			return nil, fmt.Errorf("scan ballot count: %w", err)
		}
		counts[candidateID] = n
	}
	return counts, rows.Err()
}

func (q *Queries) CountBallots(ctx context.Context) (int, error) {
	var n int
	if err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ballot`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count ballots: %w", err)
	}
	return n, nil
}

// ListBallotPairs returns the (voter, election) pair of every ballot
func (q *Queries) ListBallotPairs(ctx context.Context) ([]models.LedgerPair, error) {
	return q.listPairs(ctx, `SELECT voter_id, election_id FROM ballot ORDER BY voter_id, election_id`)
}
