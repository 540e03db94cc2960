// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/danielhkuo/ballotbox/models"
)

const accountColumns = `id, civic_id, email, name, password_hash, role, is_verified, created_at, updated_at`

func scanAccount(row scanner) (*models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.CivicID, &a.Email, &a.Name, &a.PasswordHash,
		&a.Role, &a.IsVerified, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (q *Queries) CreateAccount(ctx context.Context, a *models.Account) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO account (id, civic_id, email, name, password_hash, role, is_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, a.ID, a.CivicID, a.Email, a.Name, a.PasswordHash, a.Role, a.IsVerified, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetAccount loads an account by id, without its voting history
func (q *Queries) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM account WHERE id = $1`, id)
	a, err := scanAccount(row)
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

func (q *Queries) GetAccountByCivicID(ctx context.Context, civicID string) (*models.Account, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM account WHERE civic_id = $1`, civicID)
	a, err := scanAccount(row)
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

// UpdateAccount writes the mutable profile fields. civic_id and role never change.
func (q *Queries) UpdateAccount(ctx context.Context, a *models.Account) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE account SET name = $1, email = $2, password_hash = $3, updated_at = $4
		WHERE id = $5
	`, a.Name, a.Email, a.PasswordHash, a.UpdatedAt, a.ID)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (q *Queries) ListAccountsByRole(ctx context.Context, role string) ([]models.Account, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+accountColumns+` FROM account WHERE role = $1 ORDER BY name, civic_id
	`, role)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}

// CountAccounts returns the number of accounts with role, and how many of
// those are verified
func (q *Queries) CountAccounts(ctx context.Context, role string) (total, verified int, err error) {
	err = q.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN is_verified THEN 1 ELSE 0 END), 0)
		FROM account WHERE role = $1
	`, role).Scan(&total, &verified)
	if err != nil {
		return 0, 0, fmt.Errorf("count accounts: %w", err)
	}
	return total, verified, nil
}

// Voting history (Account.HasVoted)

func (q *Queries) InsertVotedElection(ctx context.Context, accountID, electionID string, at time.Time) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO voted_election (account_id, election_id, voted_at)
		VALUES ($1, $2, $3)
	`, accountID, electionID, at)
	if err != nil {
		return fmt.Errorf("insert voted election: %w", err)
	}
	return nil
}

// VotedElections returns the ids of the elections accountID has voted in
func (q *Queries) VotedElections(ctx context.Context, accountID string) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT election_id FROM voted_election WHERE account_id = $1 ORDER BY election_id
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list voted elections: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan voted election: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (q *Queries) HasVotedIn(ctx context.Context, accountID, electionID string) (bool, error) {
	var n int
	err := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM voted_election WHERE account_id = $1 AND election_id = $2
	`, accountID, electionID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check voted election: %w", err)
	}
	return n > 0, nil
}

// ListVotedPairs returns every voting history row
func (q *Queries) ListVotedPairs(ctx context.Context) ([]models.LedgerPair, error) {
	return q.listPairs(ctx, `SELECT account_id, election_id FROM voted_election ORDER BY account_id, election_id`)
}

func (q *Queries) listPairs(ctx context.Context, query string) ([]models.LedgerPair, error) {
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list pairs: %w", err)
	}
	defer rows.Close()

	pairs := []models.LedgerPair{}
	for rows.Next() {
		var p models.LedgerPair
		if err := rows.Scan(&p.AccountID, &p.ElectionID); err != nil {
			return nil, fmt.Errorf("scan pair: %w", err)
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}
