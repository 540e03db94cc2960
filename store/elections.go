// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/danielhkuo/ballotbox/models"
)

const electionColumns = `id, name, description, start_time, end_time, status, created_by, created_at, updated_at`

func scanElection(row scanner) (*models.Election, error) {
	var e models.Election
	err := row.Scan(&e.ID, &e.Name, &e.Description, &e.StartTime, &e.EndTime,
		&e.Status, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.StartTime = e.StartTime.UTC()
	e.EndTime = e.EndTime.UTC()
	return &e, nil
}

func (q *Queries) CreateElection(ctx context.Context, e *models.Election) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO election (id, name, description, start_time, end_time, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, e.ID, e.Name, e.Description, e.StartTime.UTC(), e.EndTime.UTC(), e.Status, e.CreatedBy, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert election: %w", err)
	}
	return nil
}

func (q *Queries) GetElection(ctx context.Context, id string) (*models.Election, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+electionColumns+` FROM election WHERE id = $1`, id)
	e, err := scanElection(row)
	if err != nil {
		return nil, notFound(err)
	}
	return e, nil
}

// ListElections returns every election ordered by name. Callers filter and
// order by time themselves.
func (q *Queries) ListElections(ctx context.Context) ([]models.Election, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+electionColumns+` FROM election ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list elections: %w", err)
	}
	defer rows.Close()

	elections := []models.Election{}
	for rows.Next() {
		e, err := scanElection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan election: %w", err)
		}
		elections = append(elections, *e)
	}
	return elections, rows.Err()
}

func (q *Queries) UpdateElection(ctx context.Context, e *models.Election) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE election
		SET name = $1, description = $2, start_time = $3, end_time = $4, status = $5, updated_at = $6
		WHERE id = $7
	`, e.Name, e.Description, e.StartTime.UTC(), e.EndTime.UTC(), e.Status, e.UpdatedAt, e.ID)
	if err != nil {
		return fmt.Errorf("update election: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetElectionStatus rewrites only the stored status snapshot
func (q *Queries) SetElectionStatus(ctx context.Context, id, status string, at time.Time) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE election SET status = $1, updated_at = $2 WHERE id = $3
	`, status, at, id)
	if err != nil {
		return fmt.Errorf("update election status: %w", err)
	}
	return nil
}

func (q *Queries) DeleteElection(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM election WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete election: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
