// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"

	"github.com/danielhkuo/ballotbox/models"
)

const candidateColumns = `id, election_id, seq, name, party, symbol_url, created_at, updated_at`

func scanCandidate(row scanner) (*models.Candidate, error) {
	var c models.Candidate
	err := row.Scan(&c.ID, &c.ElectionID, &c.Seq, &c.Name, &c.Party, &c.SymbolURL, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// InsertCandidate appends c to its election's roster, assigning the next
// sequence number. Run it inside a transaction so the read of MAX(seq) and
// the insert see the same roster; a concurrent append surfaces as a unique
// violation on (election_id, seq).
func (q *Queries) InsertCandidate(ctx context.Context, c *models.Candidate) error {
	err := q.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0) + 1 FROM candidate WHERE election_id = $1
	`, c.ElectionID).Scan(&c.Seq)
	if err != nil {
		return fmt.Errorf("next candidate seq: %w", err)
	}

	_, err = q.db.ExecContext(ctx, `
		INSERT INTO candidate (id, election_id, seq, name, party, symbol_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, c.ID, c.ElectionID, c.Seq, c.Name, c.Party, c.SymbolURL, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert candidate: %w", err)
	}
	return nil
}

// GetCandidate loads a candidate that belongs to electionID
func (q *Queries) GetCandidate(ctx context.Context, electionID, candidateID string) (*models.Candidate, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+candidateColumns+` FROM candidate WHERE id = $1 AND election_id = $2
	`, candidateID, electionID)
	c, err := scanCandidate(row)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

// ListCandidates returns the roster in insertion order
func (q *Queries) ListCandidates(ctx context.Context, electionID string) ([]models.Candidate, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+candidateColumns+` FROM candidate WHERE election_id = $1 ORDER BY seq
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		candidates = append(candidates, *c)
	}
	return candidates, rows.Err()
}

func (q *Queries) UpdateCandidate(ctx context.Context, c *models.Candidate) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE candidate SET name = $1, party = $2, symbol_url = $3, updated_at = $4
		WHERE id = $5 AND election_id = $6
	`, c.Name, c.Party, c.SymbolURL, c.UpdatedAt, c.ID, c.ElectionID)
	if err != nil {
		return fmt.Errorf("update candidate: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (q *Queries) DeleteCandidate(ctx context.Context, electionID, candidateID string) error {
	res, err := q.db.ExecContext(ctx, `
		DELETE FROM candidate WHERE id = $1 AND election_id = $2
	`, candidateID, electionID)
	if err != nil {
		return fmt.Errorf("delete candidate: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCandidatesByElection clears a roster and reports how many rows went
func (q *Queries) DeleteCandidatesByElection(ctx context.Context, electionID string) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM candidate WHERE election_id = $1`, electionID)
	if err != nil {
		return 0, fmt.Errorf("delete candidates: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
