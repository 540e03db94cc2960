// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/services"
)

// stubAuthenticator accepts exactly one token
type stubAuthenticator struct {
	token   string
	account *models.Account
	err     error
}

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (*models.Account, error) {
	if s.err != nil {
		return nil, s.err
	}
	if token == "" {
		return nil, services.NewUnauthorizedError("missing bearer token")
	}
	if token != s.token {
		return nil, services.NewUnauthorizedError("invalid or expired token")
	}
	return s.account, nil
}

func echoAccount() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a, ok := AccountFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.Write([]byte(a.ID))
	})
}

func TestAuthenticate(t *testing.T) {
	voter := &models.Account{ID: "voter-1", Role: models.RoleVoter}
	handler := Authenticate(stubAuthenticator{token: "good", account: voter})(echoAccount())

	testCases := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid token", "Bearer good", http.StatusOK, "voter-1"},
		{"lower-case scheme", "bearer good", http.StatusOK, "voter-1"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, ""},
		{"bad token", "Bearer bad", http.StatusUnauthorized, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/users/profile", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tc.wantStatus {
				t.Errorf("Expected status %d, got %d", tc.wantStatus, w.Code)
			}
			if tc.wantBody != "" && w.Body.String() != tc.wantBody {
				t.Errorf("Expected body %q, got %q", tc.wantBody, w.Body.String())
			}
		})
	}
}

func TestAuthenticate_StorageFailure(t *testing.T) {
	authn := stubAuthenticator{err: services.NewStorageError(errors.New("disk on fire"))}
	handler := Authenticate(authn)(echoAccount())

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer anything")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
	if body := w.Body.String(); strings.Contains(body, "disk on fire") {
		t.Errorf("Storage cause leaked to client: %s", body)
	}
}

func TestRequire(t *testing.T) {
	voter := &models.Account{ID: "v", Role: models.RoleVoter}
	admin := &models.Account{ID: "a", Role: models.RoleAdmin}

	testCases := []struct {
		name       string
		op         services.Operation
		account    *models.Account
		wantStatus int
	}{
		{"voter casts", services.OpCastVote, voter, http.StatusOK},
		{"admin cannot cast", services.OpCastVote, admin, http.StatusForbidden},
		{"admin creates election", services.OpCreateElection, admin, http.StatusOK},
		{"voter cannot create election", services.OpCreateElection, voter, http.StatusForbidden},
		{"voter cannot read stats", services.OpViewStats, voter, http.StatusForbidden},
		{"anonymous", services.OpListElections, nil, http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := Require(tc.op)(echoAccount())
			req := httptest.NewRequest("GET", "/", nil)
			if tc.account != nil {
				req = req.WithContext(WithAccount(req.Context(), tc.account))
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tc.wantStatus {
				t.Errorf("Expected status %d, got %d", tc.wantStatus, w.Code)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(models.RoleAdmin)(echoAccount())

	req := httptest.NewRequest("GET", "/", nil)
	req = req.WithContext(WithAccount(req.Context(), &models.Account{ID: "v", Role: models.RoleVoter}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("Voter: expected 403, got %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/", nil)
	req = req.WithContext(WithAccount(req.Context(), &models.Account{ID: "a", Role: models.RoleAdmin}))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "a" {
		t.Errorf("Admin: expected 200 'a', got %d %q", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Anonymous: expected 401, got %d", w.Code)
	}
}
