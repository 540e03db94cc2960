// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package services implements election rules on top of the store.

# Services

  - AccountService: registration, login, token authentication, profiles, stats
  - ElectionService: election lifecycle and status derivation
  - CandidateService: per-election rosters
  - VoteService: ballot casting and ledger reconciliation
  - TallyService: ranked results, optionally cached once final

Every service takes a Clock. Election status is derived from that clock on
each decision; the stored status column is only a snapshot kept current by
SyncStatuses.

# Errors

Services return *ServiceError values. Handlers map the Code to an HTTP
status and show Message to the client:

	ErrorValidation   400
	ErrorUnauthorized 401
	ErrorForbidden    403
	ErrorNotFound     404
	ErrorInvalidState 400
	ErrorConflict     409
	ErrorStorage      500 (cause logged, never returned)

# Casting a Ballot

VoteService.Cast checks the window, the voter's history and the candidate,
then writes the ballot and the history row in one transaction. The unique
constraints on both tables decide races between concurrent casts; the loser
gets ErrorConflict.
*/
package services
