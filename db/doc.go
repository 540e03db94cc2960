// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles connections, transactions and schema creation.

# Drivers

Open picks the driver from the configured database type:

  - sqlite (default): modernc.org/sqlite, pure Go, one connection
  - postgres: github.com/lib/pq

	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - account: Voters and administrators
  - election: Election metadata, window and status snapshot
  - candidate: Roster entries, ordered by seq
  - ballot: One ballot per voter per election
  - voted_election: Per-account voting history

# Relationships

	account 1──* election (created_by)
	election 1──* candidate
	election 1──* ballot
	candidate 1──* ballot
	account 1──* ballot
	account 1──* voted_election

Candidates cascade with their election. Ballots never cascade: an election
with ballots is never pending, and only pending elections can be deleted.

# Uniqueness

The constraints the application relies on for correctness:

  - account.civic_id, account.email
  - election.name
  - ballot.(voter_id, election_id)
  - voted_election.(account_id, election_id)
  - candidate.(election_id, seq)

IsUniqueViolation recognises violations from both drivers.
*/
package db
