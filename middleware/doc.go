// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and JSON helpers.

# Request Logging

	r.Use(middleware.WithLogging)

Logs request start and completion (status, duration_ms) and observes
ballotbox_http_request_duration_seconds labelled by chi route pattern.

# Access Gate

Authenticate resolves the bearer token to a live account and stores it in
the request context. Require checks the caller's role against the
permission table in package services:

	r.With(middleware.Require(services.OpCastVote)).Post("/votes", h.Cast)

Missing or invalid credentials get 401; a valid identity with the wrong
role gets 403.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

ParseJSONBody rejects unknown fields and trailing data.
*/
package middleware
