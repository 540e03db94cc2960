// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/db"
	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/store"
)

type CandidateService struct {
	store *store.Store
	clock Clock
}

func NewCandidateService(st *store.Store, clock Clock) *CandidateService {
	return &CandidateService{store: st, clock: clock}
}

// Add appends a candidate to a pending election's roster
func (s *CandidateService) Add(ctx context.Context, electionID string, req models.CandidateRequest) (*models.Candidate, error) {
	if err := req.Validate(); err != nil {
		return nil, NewValidationError(err.Error())
	}

	now := s.clock.Now()
	c := &models.Candidate{
		ID:         auth.GenerateID(),
		ElectionID: electionID,
		Name:       req.Name,
		Party:      req.Party,
		SymbolURL:  req.SymbolURL,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	// Status check and seq assignment see the same snapshot
	err := s.store.WithTx(ctx, func(q *store.Queries) error {
		e, err := loadElection(ctx, q, electionID, now)
		if err != nil {
			return err
		}
		if !CanEditRoster(e.Status) {
			return NewInvalidStateError("cannot add candidates to an active or completed election")
		}
		return q.InsertCandidate(ctx, c)
	})
	if err != nil {
		return nil, rosterError(err)
	}

	slog.Info("candidate added", "election_id", electionID, "candidate_id", c.ID, "seq", c.Seq)
	return c, nil
}

func (s *CandidateService) Update(ctx context.Context, electionID, candidateID string, patch models.UpdateCandidateRequest) (*models.Candidate, error) {
	if err := patch.Validate(); err != nil {
		return nil, NewValidationError(err.Error())
	}

	now := s.clock.Now()
	var c *models.Candidate
	err := s.store.WithTx(ctx, func(q *store.Queries) error {
		e, err := loadElection(ctx, q, electionID, now)
		if err != nil {
			return err
		}
		if !CanEditRoster(e.Status) {
			return NewInvalidStateError("cannot update candidates for an active or completed election")
		}

		c, err = getCandidate(ctx, q, electionID, candidateID)
		if err != nil {
			return err
		}
		if patch.Name != nil {
			c.Name = *patch.Name
		}
		if patch.Party != nil {
			c.Party = *patch.Party
		}
		if patch.SymbolURL != nil {
			c.SymbolURL = *patch.SymbolURL
		}
		c.UpdatedAt = now
		return q.UpdateCandidate(ctx, c)
	})
	if err != nil {
		return nil, rosterError(err)
	}

	slog.Info("candidate updated", "election_id", electionID, "candidate_id", candidateID)
	return c, nil
}

func (s *CandidateService) Remove(ctx context.Context, electionID, candidateID string) error {
	now := s.clock.Now()
	err := s.store.WithTx(ctx, func(q *store.Queries) error {
		e, err := loadElection(ctx, q, electionID, now)
		if err != nil {
			return err
		}
		if !CanEditRoster(e.Status) {
			return NewInvalidStateError("cannot delete candidates from an active or completed election")
		}
		if !auth.ValidID(candidateID) {
			return NewNotFoundError("candidate not found")
		}
		return q.DeleteCandidate(ctx, electionID, candidateID)
	})
	if err != nil {
		return rosterError(err)
	}

	slog.Info("candidate removed", "election_id", electionID, "candidate_id", candidateID)
	return nil
}

// List returns the roster in insertion order. Non-administrators only see it
// once voting has opened.
func (s *CandidateService) List(ctx context.Context, electionID, role string) ([]models.Candidate, error) {
	e, err := loadElection(ctx, s.store.Queries, electionID, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if !CanViewRoster(role, e.Status) {
		return nil, NewForbiddenError("election has not started")
	}

	candidates, err := s.store.ListCandidates(ctx, electionID)
	if err != nil {
		return nil, NewStorageError(err)
	}
	return candidates, nil
}

func (s *CandidateService) Get(ctx context.Context, electionID, candidateID, role string) (*models.Candidate, error) {
	e, err := loadElection(ctx, s.store.Queries, electionID, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if !CanViewRoster(role, e.Status) {
		return nil, NewForbiddenError("election has not started")
	}
	return getCandidate(ctx, s.store.Queries, electionID, candidateID)
}

func getCandidate(ctx context.Context, q *store.Queries, electionID, candidateID string) (*models.Candidate, error) {
	if !auth.ValidID(candidateID) {
		return nil, NewNotFoundError("candidate not found")
	}
	c, err := q.GetCandidate(ctx, electionID, candidateID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NewNotFoundError("candidate not found")
	}
	if err != nil {
		return nil, NewStorageError(err)
	}
	return c, nil
}

// rosterError passes service errors through and classifies the rest
func rosterError(err error) error {
	if _, ok := AsServiceError(err); ok {
		return err
	}
	if errors.Is(err, store.ErrNotFound) {
		return NewNotFoundError("candidate not found")
	}
	if db.IsUniqueViolation(err) {
		return NewConflictError("roster changed concurrently, retry the request")
	}
	return NewStorageError(err)
}
