// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/danielhkuo/ballotbox/db"
)

// ErrNotFound is returned when a single-row lookup matches nothing
var ErrNotFound = errors.New("not found")

// DBTX is satisfied by both *sql.DB and *sql.Tx
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries runs every statement against one DBTX, either the pool or a
// transaction
type Queries struct {
	db DBTX
}

func New(conn DBTX) *Queries {
	return &Queries{db: conn}
}

type Store struct {
	*Queries
	DB *sql.DB
}

func NewStore(conn *sql.DB) *Store {
	return &Store{Queries: New(conn), DB: conn}
}

// WithTx runs fn with Queries bound to a single transaction. Inside fn only
// the given Queries may be used; the pool may hold a single connection.
func (s *Store) WithTx(ctx context.Context, fn func(*Queries) error) error {
	return db.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		return fn(New(tx))
	})
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

type scanner interface {
	Scan(dest ...any) error
}
