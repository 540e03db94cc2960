// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/services"
)

type AdminHandler struct {
	accounts *services.AccountService
	votes    *services.VoteService
}

func NewAdminHandler(accounts *services.AccountService, votes *services.VoteService) *AdminHandler {
	return &AdminHandler{accounts: accounts, votes: votes}
}

// GetStats handles GET /admin/stats
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.accounts.Stats(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, stats)
}

// ListVoters handles GET /admin/voters
func (h *AdminHandler) ListVoters(w http.ResponseWriter, r *http.Request) {
	voters, err := h.accounts.ListVoters(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, voters)
}

// CheckIntegrity handles GET /admin/integrity
func (h *AdminHandler) CheckIntegrity(w http.ResponseWriter, r *http.Request) {
	report, err := h.votes.Reconcile(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, report)
}
