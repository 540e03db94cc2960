// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/handlers"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/services"
	"github.com/danielhkuo/ballotbox/store"
)

// NewRouter wires services and handlers over conn. cache may be nil.
func NewRouter(conn *sql.DB, cfg cliparse.Config, clock services.Clock, cache services.ResultsCache) http.Handler {
	st := store.NewStore(conn)
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenIssuer, cfg.TokenTTL)

	accounts := services.NewAccountService(st, tokens, clock)
	elections := services.NewElectionService(st, clock)
	candidates := services.NewCandidateService(st, clock)
	votes := services.NewVoteService(st, clock)
	tally := services.NewTallyService(st, clock, cache)

	authHandler := handlers.NewAuthHandler(accounts)
	userHandler := handlers.NewUserHandler(accounts)
	electionHandler := handlers.NewElectionHandler(elections, tally)
	candidateHandler := handlers.NewCandidateHandler(candidates)
	voteHandler := handlers.NewVoteHandler(votes)
	adminHandler := handlers.NewAdminHandler(accounts, votes)

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS)
	r.Use(middleware.WithLogging)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ballotbox API v1"))
	})

	// Public
	r.Post("/auth/register", authHandler.Register)
	r.Post("/auth/login", authHandler.Login)

	// Authenticated
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(accounts))
		allow := func(op services.Operation) chi.Router { return r.With(middleware.Require(op)) }

		allow(services.OpViewProfile).Get("/users/profile", userHandler.GetProfile)
		allow(services.OpUpdateProfile).Put("/users/profile", userHandler.UpdateProfile)

		allow(services.OpCreateElection).Post("/elections", electionHandler.CreateElection)
		allow(services.OpListElections).Get("/elections", electionHandler.ListElections)
		allow(services.OpViewElection).Get("/elections/{id}", electionHandler.GetElection)
		allow(services.OpUpdateElection).Put("/elections/{id}", electionHandler.UpdateElection)
		allow(services.OpDeleteElection).Delete("/elections/{id}", electionHandler.DeleteElection)
		allow(services.OpViewResults).Get("/elections/{id}/results", electionHandler.GetResults)

		allow(services.OpManageRoster).Post("/elections/{electionId}/candidates", candidateHandler.AddCandidate)
		allow(services.OpViewCandidates).Get("/elections/{electionId}/candidates", candidateHandler.ListCandidates)
		allow(services.OpViewCandidates).Get("/elections/{electionId}/candidates/{candidateId}", candidateHandler.GetCandidate)
		allow(services.OpManageRoster).Put("/elections/{electionId}/candidates/{candidateId}", candidateHandler.UpdateCandidate)
		allow(services.OpManageRoster).Delete("/elections/{electionId}/candidates/{candidateId}", candidateHandler.DeleteCandidate)

		allow(services.OpCastVote).Post("/votes", voteHandler.CastVote)
		allow(services.OpCastVote).Get("/votes/me", voteHandler.MyVotes)

		allow(services.OpViewStats).Get("/admin/stats", adminHandler.GetStats)
		allow(services.OpListVoters).Get("/admin/voters", adminHandler.ListVoters)
		allow(services.OpCheckIntegrity).Get("/admin/integrity", adminHandler.CheckIntegrity)
	})

	return r
}
