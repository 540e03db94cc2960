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

type AccountService struct {
	store  *store.Store
	tokens *auth.TokenIssuer
	clock  Clock
}

func NewAccountService(st *store.Store, tokens *auth.TokenIssuer, clock Clock) *AccountService {
	return &AccountService{store: st, tokens: tokens, clock: clock}
}

// Register creates an unverified voter account and signs it in
func (s *AccountService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, NewValidationError(err.Error())
	}

	a, err := s.create(ctx, req, models.RoleVoter, false)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.NewToken(a.ID, a.Role)
	if err != nil {
		return nil, NewStorageError(err)
	}

	slog.Info("account registered", "account_id", a.ID, "role", a.Role)
	return &models.AuthResponse{Token: token, Account: *a}, nil
}

// SeedAdmin creates a verified administrator unless the civic id is taken.
// created is false when an account with that civic id already exists.
func (s *AccountService) SeedAdmin(ctx context.Context, req models.RegisterRequest) (a *models.Account, created bool, err error) {
	if err := req.Validate(); err != nil {
		return nil, false, NewValidationError(err.Error())
	}

	existing, err := s.store.GetAccountByCivicID(ctx, req.CivicID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, NewStorageError(err)
	}

	a, err = s.create(ctx, req, models.RoleAdmin, true)
	if err != nil {
		return nil, false, err
	}
	slog.Info("admin account seeded", "account_id", a.ID)
	return a, true, nil
}

func (s *AccountService) create(ctx context.Context, req models.RegisterRequest, role string, verified bool) (*models.Account, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, NewStorageError(err)
	}

	now := s.clock.Now()
	a := &models.Account{
		ID:           auth.GenerateID(),
		CivicID:      req.CivicID,
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         role,
		IsVerified:   verified,
		HasVoted:     []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateAccount(ctx, a); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, NewConflictError("an account with this civic ID or email already exists")
		}
		return nil, NewStorageError(err)
	}
	return a, nil
}

// Login exchanges a civic id and password for a credential
func (s *AccountService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, NewValidationError(err.Error())
	}

	a, err := s.store.GetAccountByCivicID(ctx, req.CivicID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NewUnauthorizedError("invalid civic ID or password")
	}
	if err != nil {
		return nil, NewStorageError(err)
	}
	if err := auth.CheckPassword(a.PasswordHash, req.Password); err != nil {
		return nil, NewUnauthorizedError("invalid civic ID or password")
	}

	if a.HasVoted, err = s.store.VotedElections(ctx, a.ID); err != nil {
		return nil, NewStorageError(err)
	}

	token, err := s.tokens.NewToken(a.ID, a.Role)
	if err != nil {
		return nil, NewStorageError(err)
	}

	slog.Info("account logged in", "account_id", a.ID)
	return &models.AuthResponse{Token: token, Account: *a}, nil
}

// Authenticate resolves a bearer token to a live account. The account is
// reloaded so a deleted or demoted account loses access immediately.
func (s *AccountService) Authenticate(ctx context.Context, token string) (*models.Account, error) {
	if token == "" {
		return nil, NewUnauthorizedError("missing bearer token")
	}
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil, NewUnauthorizedError("invalid or expired token")
	}

	a, err := s.store.GetAccount(ctx, claims.AccountID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NewUnauthorizedError("account no longer exists")
	}
	if err != nil {
		return nil, NewStorageError(err)
	}
	return a, nil
}

// Profile returns an account with its voting history
func (s *AccountService) Profile(ctx context.Context, accountID string) (*models.Account, error) {
	a, err := s.store.GetAccount(ctx, accountID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NewNotFoundError("account not found")
	}
	if err != nil {
		return nil, NewStorageError(err)
	}
	if a.HasVoted, err = s.store.VotedElections(ctx, a.ID); err != nil {
		return nil, NewStorageError(err)
	}
	return a, nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, accountID string, req models.UpdateProfileRequest) (*models.Account, error) {
	if err := req.Validate(); err != nil {
		return nil, NewValidationError(err.Error())
	}

	a, err := s.Profile(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		a.Name = *req.Name
	}
	if req.Email != nil {
		a.Email = *req.Email
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, NewStorageError(err)
		}
		a.PasswordHash = hash
	}
	a.UpdatedAt = s.clock.Now()

	if err := s.store.UpdateAccount(ctx, a); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, NewConflictError("email is already in use")
		}
		return nil, NewStorageError(err)
	}

	slog.Info("profile updated", "account_id", a.ID)
	return a, nil
}

// ListVoters returns every voter account with its voting history
func (s *AccountService) ListVoters(ctx context.Context) ([]models.Account, error) {
	voters, err := s.store.ListAccountsByRole(ctx, models.RoleVoter)
	if err != nil {
		return nil, NewStorageError(err)
	}
	for i := range voters {
		if voters[i].HasVoted, err = s.store.VotedElections(ctx, voters[i].ID); err != nil {
			return nil, NewStorageError(err)
		}
	}
	return voters, nil
}

// Stats aggregates voter, election and ballot counts. Election phases are
// derived from the clock, not read from the stored snapshot.
func (s *AccountService) Stats(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats

	total, verified, err := s.store.CountAccounts(ctx, models.RoleVoter)
	if err != nil {
		return nil, NewStorageError(err)
	}
	stats.TotalVoters = total
	stats.VerifiedVoters = verified

	elections, err := s.store.ListElections(ctx)
	if err != nil {
		return nil, NewStorageError(err)
	}
	now := s.clock.Now()
	stats.TotalElections = len(elections)
	for _, e := range elections {
		switch DeriveStatus(e.StartTime, e.EndTime, now) {
		case models.StatusPending:
			stats.PendingElections++
		case models.StatusActive:
			stats.ActiveElections++
		case models.StatusCompleted:
			stats.CompletedElections++
		}
	}

	if stats.TotalVotes, err = s.store.CountBallots(ctx); err != nil {
		return nil, NewStorageError(err)
	}
	return &stats, nil
}
