// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the ballotbox API server.

ballotbox runs elections: voters register and cast one ballot per election,
administrators schedule elections, manage candidates and read tallies.

# Starting the Server

	JWT_SECRET=change-me DATABASE_URL=ballotbox.db go run .

Or with flags:

	go run . -p 5001 -t postgres -d "postgres://..." -jwt-secret change-me

An optional .env file in the working directory is loaded first.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file path or PostgreSQL connection string
  - JWT_SECRET (-jwt-secret): token signing secret

Optional settings:

  - PORT (-p): server port (default: 5001)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - TOKEN_ISSUER, TOKEN_TTL: token claims (defaults: ballotbox, 720h)
  - REDIS_ADDR (-redis), REDIS_PASSWORD: cache for final results
  - STATUS_SYNC_INTERVAL: status snapshot refresh (default 1m, 0 disables)
  - APP_ENV: production switches logs to JSON

# Architecture

  - handlers: HTTP request handlers
  - router: chi routes and the role gate
  - middleware: logging, authentication, CORS, JSON helpers
  - services: election rules (lifecycle, roster, ledger, tally, accounts)
  - store: SQL queries
  - db: connections, transactions, schema
  - cache: Redis results cache
  - jobs: background status sync
  - metrics: Prometheus collectors
  - auth: ids, password hashing, tokens
  - models: domain, request and response types
  - cliparse: configuration parsing

Operator tasks (seeding an admin, printing results, ledger checks) live in
cmd/ballotctl.
*/
package main
