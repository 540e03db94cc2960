// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/services"
)

type ElectionHandler struct {
	elections *services.ElectionService
	tally     *services.TallyService
}

func NewElectionHandler(elections *services.ElectionService, tally *services.TallyService) *ElectionHandler {
	return &ElectionHandler{elections: elections, tally: tally}
}

// CreateElection handles POST /elections
func (h *ElectionHandler) CreateElection(w http.ResponseWriter, r *http.Request) {
	me, ok := caller(w, r)
	if !ok {
		return
	}

	var req models.CreateElectionRequest
	if !decode(w, r, &req) {
		return
	}

	e, err := h.elections.Create(r.Context(), me.ID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, e)
}

// ListElections handles GET /elections
func (h *ElectionHandler) ListElections(w http.ResponseWriter, r *http.Request) {
	me, ok := caller(w, r)
	if !ok {
		return
	}

	elections, err := h.elections.List(r.Context(), me.Role)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, elections)
}

// GetElection handles GET /elections/{id}
func (h *ElectionHandler) GetElection(w http.ResponseWriter, r *http.Request) {
	me, ok := caller(w, r)
	if !ok {
		return
	}

	detail, err := h.elections.Get(r.Context(), pathParam(r, "id"), me.Role)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, detail)
}

// UpdateElection handles PUT /elections/{id}
func (h *ElectionHandler) UpdateElection(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateElectionRequest
	if !decode(w, r, &req) {
		return
	}

	e, err := h.elections.Update(r.Context(), pathParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, e)
}

// DeleteElection handles DELETE /elections/{id}
func (h *ElectionHandler) DeleteElection(w http.ResponseWriter, r *http.Request) {
	if err := h.elections.Delete(r.Context(), pathParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "election deleted"})
}

// GetResults handles GET /elections/{id}/results
func (h *ElectionHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	me, ok := caller(w, r)
	if !ok {
		return
	}

	results, err := h.tally.Results(r.Context(), pathParam(r, "id"), me.Role)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, results)
}
