// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the HTTP handlers of the ballotbox API.

# Handler Types

Each handler is a struct over one or more services:

  - AuthHandler: registration and login
  - UserHandler: the caller's own profile
  - ElectionHandler: election lifecycle and results
  - CandidateHandler: per-election rosters
  - VoteHandler: casting ballots
  - AdminHandler: stats, voter list, ledger integrity

Handlers read the caller from the request context (set by
middleware.Authenticate), decode and validate the body, call one service
method and write its result. Role checks happen in the router, state checks
in the services.

# Errors

writeServiceError is the only place service errors become HTTP statuses.
Invalid state and validation failures are both 400; a lost race on the
ballot ledger is 409; a second vote caught before the transaction is 403.
*/
package handlers
