// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ballotbox"

// Vote rejection reasons
const (
	ReasonInvalidRequest   = "invalid_request"
	ReasonNotFound         = "not_found"
	ReasonNotActive        = "not_active"
	ReasonAlreadyVoted     = "already_voted"
	ReasonInvalidCandidate = "invalid_candidate"
	ReasonConflict         = "conflict"
	ReasonStorage          = "storage"
)

var (
	VotesCast = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "votes_cast_total",
		Help:      "Ballots committed to the ledger.",
	})

	VoteRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "vote_rejections_total",
		Help:      "Cast-vote attempts rejected, by reason.",
	}, []string{"reason"})

	ResultsCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "results_cache_lookups_total",
		Help:      "Completed-election result cache lookups, by outcome.",
	}, []string{"outcome"})

	StatusTransitions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "election_status_transitions_total",
		Help:      "Stored election status snapshots rewritten by the sync job.",
	})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method, route pattern and status code.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
