// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Every request body has an explicit type with a Validate method. Validate
normalises the input (trimmed strings, lower-cased email) and rejects
malformed values before any service sees them:

  - RegisterRequest: civicId (12 digits), email, name, password (6+ chars)
  - LoginRequest: civicId, password
  - UpdateProfileRequest: optional name, email, password
  - CreateElectionRequest: name, description, startTime, endTime
  - UpdateElectionRequest: optional fields; ChangesTiming reports window edits
  - CandidateRequest / UpdateCandidateRequest: name, party, symbolUrl
  - CastVoteRequest: electionId, candidateId

# Response Types

  - AuthResponse: token, account
  - ElectionView: election plus opensIn/closesIn labels
  - ElectionDetail: election view plus roster
  - ElectionResults / CandidateResult: ranked tally
  - Stats: aggregate counts for administrators
  - IntegrityReport: ballot ledger vs. voting history discrepancies
  - ErrorResponse: error, message

# Domain Types

  - Account: voter or administrator, with HasVoted election ids
  - Election: name, window, status snapshot, creator
  - Candidate: roster entry; Seq fixes roster order
  - Ballot: one voter's choice in one election

# Constants

Roles:

	RoleVoter = "voter"
	RoleAdmin = "admin"

Election status:

	StatusPending   = "pending"
	StatusActive    = "active"
	StatusCompleted = "completed"
*/
package models
