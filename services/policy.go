// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"github.com/danielhkuo/ballotbox/models"
)

// Operation names an action the access gate can authorize
type Operation string

const (
	OpViewProfile    Operation = "profile.view"
	OpUpdateProfile  Operation = "profile.update"
	OpListElections  Operation = "election.list"
	OpViewElection   Operation = "election.view"
	OpCreateElection Operation = "election.create"
	OpUpdateElection Operation = "election.update"
	OpDeleteElection Operation = "election.delete"
	OpViewCandidates Operation = "candidate.view"
	OpManageRoster   Operation = "candidate.manage"
	OpCastVote       Operation = "vote.cast"
	OpViewResults    Operation = "results.view"
	OpViewStats      Operation = "admin.stats"
	OpListVoters     Operation = "admin.voters"
	OpCheckIntegrity Operation = "admin.integrity"
)

var (
	anyRole   = []string{models.RoleVoter, models.RoleAdmin}
	adminOnly = []string{models.RoleAdmin}
	voterOnly = []string{models.RoleVoter}
)

// permissions maps each operation to the roles allowed to attempt it.
// State-dependent checks (roster visibility, result availability) are made
// by the services once the election is loaded.
var permissions = map[Operation][]string{
	OpViewProfile:    anyRole,
	OpUpdateProfile:  anyRole,
	OpListElections:  anyRole,
	OpViewElection:   anyRole,
	OpCreateElection: adminOnly,
	OpUpdateElection: adminOnly,
	OpDeleteElection: adminOnly,
	OpViewCandidates: anyRole,
	OpManageRoster:   adminOnly,
	OpCastVote:       voterOnly,
	OpViewResults:    anyRole,
	OpViewStats:      adminOnly,
	OpListVoters:     adminOnly,
	OpCheckIntegrity: adminOnly,
}

// Allowed reports whether role may attempt op. Unknown operations are denied.
func Allowed(op Operation, role string) bool {
	for _, r := range permissions[op] {
		if r == role {
			return true
		}
	}
	return false
}

// Authorize returns a ForbiddenError unless role may attempt op
func Authorize(op Operation, role string) error {
	if !Allowed(op, role) {
		return NewForbiddenError("insufficient permissions")
	}
	return nil
}

// CanViewRoster: administrators always, everyone else once voting has opened
func CanViewRoster(role, status string) bool {
	return role == models.RoleAdmin || status != models.StatusPending
}

// CanViewResults: administrators always, everyone else once the election is over
func CanViewResults(role, status string) bool {
	return role == models.RoleAdmin || status == models.StatusCompleted
}

// CanEditRoster applies to every role, administrators included
func CanEditRoster(status string) bool {
	return status == models.StatusPending
}
