// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the HTTP routes of the ballotbox API.

# Route Registration

NewRouter builds the services over a database connection and returns a chi
router. cache may be nil.

	h := router.NewRouter(db, cfg, services.SystemClock{}, cache)

# Endpoints

Public:

	GET  /health
	GET  /metrics
	POST /auth/register
	POST /auth/login

Any authenticated account:

	GET  /users/profile
	PUT  /users/profile
	GET  /elections
	GET  /elections/{id}
	GET  /elections/{id}/results
	GET  /elections/{electionId}/candidates
	GET  /elections/{electionId}/candidates/{candidateId}

Administrators:

	POST   /elections
	PUT    /elections/{id}
	DELETE /elections/{id}
	POST   /elections/{electionId}/candidates
	PUT    /elections/{electionId}/candidates/{candidateId}
	DELETE /elections/{electionId}/candidates/{candidateId}
	GET    /admin/stats
	GET    /admin/voters
	GET    /admin/integrity

Voters:

	POST /votes
	GET  /votes/me

Every route in the authenticated group names the operation it performs;
middleware.Require checks it against the permission table in services.
*/
package router
