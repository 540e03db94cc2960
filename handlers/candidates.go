// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/services"
)

type CandidateHandler struct {
	candidates *services.CandidateService
}

func NewCandidateHandler(candidates *services.CandidateService) *CandidateHandler {
	return &CandidateHandler{candidates: candidates}
}

// AddCandidate handles POST /elections/{electionId}/candidates
func (h *CandidateHandler) AddCandidate(w http.ResponseWriter, r *http.Request) {
	var req models.CandidateRequest
	if !decode(w, r, &req) {
		return
	}

	c, err := h.candidates.Add(r.Context(), pathParam(r, "electionId"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, c)
}

// ListCandidates handles GET /elections/{electionId}/candidates
func (h *CandidateHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	me, ok := caller(w, r)
	if !ok {
		return
	}

	roster, err := h.candidates.List(r.Context(), pathParam(r, "electionId"), me.Role)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, roster)
}

// GetCandidate handles GET /elections/{electionId}/candidates/{candidateId}
func (h *CandidateHandler) GetCandidate(w http.ResponseWriter, r *http.Request) {
	me, ok := caller(w, r)
	if !ok {
		return
	}

	c, err := h.candidates.Get(r.Context(), pathParam(r, "electionId"), pathParam(r, "candidateId"), me.Role)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, c)
}

// UpdateCandidate handles PUT /elections/{electionId}/candidates/{candidateId}
func (h *CandidateHandler) UpdateCandidate(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateCandidateRequest
	if !decode(w, r, &req) {
		return
	}

	c, err := h.candidates.Update(r.Context(), pathParam(r, "electionId"), pathParam(r, "candidateId"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, c)
}

// DeleteCandidate handles DELETE /elections/{electionId}/candidates/{candidateId}
func (h *CandidateHandler) DeleteCandidate(w http.ResponseWriter, r *http.Request) {
	err := h.candidates.Remove(r.Context(), pathParam(r, "electionId"), pathParam(r, "candidateId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "candidate deleted"})
}
