// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/services"
)

// Authenticator resolves a bearer token to an account
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Account, error)
}

type accountKey struct{}

// WithAccount attaches an authenticated account to ctx
func WithAccount(ctx context.Context, a *models.Account) context.Context {
	return context.WithValue(ctx, accountKey{}, a)
}

// AccountFromContext returns the account set by Authenticate
func AccountFromContext(ctx context.Context) (*models.Account, bool) {
	a, ok := ctx.Value(accountKey{}).(*models.Account)
	return a, ok && a != nil
}

// Authenticate requires a valid bearer token for a live account
func Authenticate(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.BearerToken(r.Header.Get("Authorization"))

			account, err := authn.Authenticate(r.Context(), token)
			if err != nil {
				se, ok := services.AsServiceError(err)
				if !ok || se.Code == services.ErrorStorage {
					slog.Error("authentication failed", "error", err)
					ErrorResponse(w, http.StatusInternalServerError, "storage unavailable")
					return
				}
				ErrorResponse(w, http.StatusUnauthorized, se.Message)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAccount(r.Context(), account)))
		})
	}
}

// Require lets a request through only when the caller's role may attempt op
func Require(op services.Operation) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			account, ok := AccountFromContext(r.Context())
			if !ok {
				ErrorResponse(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if err := services.Authorize(op, account.Role); err != nil {
				slog.Warn("access denied", "account_id", account.ID, "role", account.Role, "operation", string(op))
				ErrorResponse(w, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole lets a request through only for the listed roles
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			account, ok := AccountFromContext(r.Context())
			if !ok {
				ErrorResponse(w, http.StatusUnauthorized, "authentication required")
				return
			}
			for _, role := range roles {
				if account.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			ErrorResponse(w, http.StatusForbidden, "insufficient permissions")
		})
	}
}
