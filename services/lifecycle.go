// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/db"
	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/store"
)

// DeriveStatus maps an election window and an instant to a lifecycle phase.
// Both window bounds belong to the active phase.
func DeriveStatus(start, end, now time.Time) string {
	switch {
	case now.Before(start):
		return models.StatusPending
	case now.After(end):
		return models.StatusCompleted
	default:
		return models.StatusActive
	}
}

type ElectionService struct {
	store *store.Store
	clock Clock
}

func NewElectionService(st *store.Store, clock Clock) *ElectionService {
	return &ElectionService{store: st, clock: clock}
}

// loadElection fetches an election and overwrites its stored status snapshot
// with the status derived from now
func loadElection(ctx context.Context, q *store.Queries, id string, now time.Time) (*models.Election, error) {
	if !auth.ValidID(id) {
		return nil, NewNotFoundError("election not found")
	}
	e, err := q.GetElection(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NewNotFoundError("election not found")
	}
	if err != nil {
		return nil, NewStorageError(err)
	}
	e.Status = DeriveStatus(e.StartTime, e.EndTime, now)
	return e, nil
}

// View decorates an election with relative window labels
func View(e models.Election, now time.Time) models.ElectionView {
	v := models.ElectionView{Election: e}
	switch e.Status {
	case models.StatusPending:
		v.OpensIn = humanize.RelTime(e.StartTime, now, "ago", "from now")
	case models.StatusActive:
		v.ClosesIn = humanize.RelTime(e.EndTime, now, "ago", "from now")
	}
	return v
}

func (s *ElectionService) Create(ctx context.Context, creatorID string, req models.CreateElectionRequest) (*models.Election, error) {
	if err := req.Validate(); err != nil {
		return nil, NewValidationError(err.Error())
	}

	now := s.clock.Now()
	e := &models.Election{
		ID:          auth.GenerateID(),
		Name:        req.Name,
		Description: req.Description,
		StartTime:   req.StartTime.UTC(),
		EndTime:     req.EndTime.UTC(),
		CreatedBy:   creatorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	e.Status = DeriveStatus(e.StartTime, e.EndTime, now)

	if err := s.store.CreateElection(ctx, e); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, NewValidationError("an election with this name already exists")
		}
		return nil, NewStorageError(err)
	}

	slog.Info("election created", "election_id", e.ID, "name", e.Name, "status", e.Status, "created_by", creatorID)
	return e, nil
}

// Update applies a partial update. Completed elections are frozen; active
// elections accept name and description changes but not window changes.
func (s *ElectionService) Update(ctx context.Context, id string, patch models.UpdateElectionRequest) (*models.Election, error) {
	if err := patch.Validate(); err != nil {
		return nil, NewValidationError(err.Error())
	}

	now := s.clock.Now()
	e, err := loadElection(ctx, s.store.Queries, id, now)
	if err != nil {
		return nil, err
	}

	switch e.Status {
	case models.StatusCompleted:
		return nil, NewInvalidStateError("cannot update a completed election")
	case models.StatusActive:
		if changesWindow(e, patch) {
			return nil, NewInvalidStateError("cannot change timing of an active election")
		}
	}

	if patch.Name != nil {
		e.Name = *patch.Name
	}
	if patch.Description != nil {
		e.Description = *patch.Description
	}
	if patch.StartTime != nil {
		e.StartTime = patch.StartTime.UTC()
	}
	if patch.EndTime != nil {
		e.EndTime = patch.EndTime.UTC()
	}
	if !e.EndTime.After(e.StartTime) {
		return nil, NewValidationError("endTime must be after startTime")
	}

	e.Status = DeriveStatus(e.StartTime, e.EndTime, now)
	e.UpdatedAt = now

	if err := s.store.UpdateElection(ctx, e); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, NewValidationError("an election with this name already exists")
		}
		if errors.Is(err, store.ErrNotFound) {
			return nil, NewNotFoundError("election not found")
		}
		return nil, NewStorageError(err)
	}

	slog.Info("election updated", "election_id", e.ID, "status", e.Status)
	return e, nil
}

func changesWindow(e *models.Election, patch models.UpdateElectionRequest) bool {
	if patch.StartTime != nil && !patch.StartTime.Equal(e.StartTime) {
		return true
	}
	if patch.EndTime != nil && !patch.EndTime.Equal(e.EndTime) {
		return true
	}
	return false
}

// Delete removes a pending election and its roster in one transaction
func (s *ElectionService) Delete(ctx context.Context, id string) error {
	now := s.clock.Now()
	e, err := loadElection(ctx, s.store.Queries, id, now)
	if err != nil {
		return err
	}
	if e.Status != models.StatusPending {
		return NewInvalidStateError("only pending elections can be deleted")
	}

	var removed int64
	err = s.store.WithTx(ctx, func(q *store.Queries) error {
		n, err := q.DeleteCandidatesByElection(ctx, id)
		if err != nil {
			return err
		}
		removed = n
		return q.DeleteElection(ctx, id)
	})
	if errors.Is(err, store.ErrNotFound) {
		return NewNotFoundError("election not found")
	}
	if err != nil {
		return NewStorageError(err)
	}

	slog.Info("election deleted", "election_id", id, "candidates_removed", removed)
	return nil
}

// List returns every election for administrators and only elections that
// have not yet ended for everyone else, ordered by start time then name
func (s *ElectionService) List(ctx context.Context, role string) ([]models.ElectionView, error) {
	elections, err := s.store.ListElections(ctx)
	if err != nil {
		return nil, NewStorageError(err)
	}

	now := s.clock.Now()
	views := []models.ElectionView{}
	for _, e := range elections {
		e.Status = DeriveStatus(e.StartTime, e.EndTime, now)
		if role != models.RoleAdmin && e.Status == models.StatusCompleted {
			continue
		}
		views = append(views, View(e, now))
	}

	sort.SliceStable(views, func(i, j int) bool {
		return views[i].StartTime.Before(views[j].StartTime)
	})
	return views, nil
}

// Get returns an election with its roster. The roster is empty for
// non-administrators until voting opens.
func (s *ElectionService) Get(ctx context.Context, id, role string) (*models.ElectionDetail, error) {
	now := s.clock.Now()
	e, err := loadElection(ctx, s.store.Queries, id, now)
	if err != nil {
		return nil, err
	}

	candidates := []models.Candidate{}
	if CanViewRoster(role, e.Status) {
		candidates, err = s.store.ListCandidates(ctx, id)
		if err != nil {
			return nil, NewStorageError(err)
		}
	}

	return &models.ElectionDetail{
		Election:   View(*e, now),
		Candidates: candidates,
	}, nil
}

// SyncStatuses rewrites the stored status snapshot of every election whose
// derived status has moved on, and returns how many were updated
func (s *ElectionService) SyncStatuses(ctx context.Context) (int, error) {
	elections, err := s.store.ListElections(ctx)
	if err != nil {
		return 0, NewStorageError(err)
	}

	now := s.clock.Now()
	updated := 0
	for _, e := range elections {
		status := DeriveStatus(e.StartTime, e.EndTime, now)
		if status == e.Status {
			continue
		}
		if err := s.store.SetElectionStatus(ctx, e.ID, status, now); err != nil {
			return updated, NewStorageError(err)
		}
		slog.Info("election status changed", "election_id", e.ID, "from", e.Status, "to", status)
		updated++
	}
	return updated, nil
}
