// Package authz implements the authorization evaluator and its decision cache.
//
// A decision combines two layers: per-user overrides win outright when present
// and unexpired, otherwise the user's role grants decide. Every unresolved
// lookup (unknown resource, uncataloged permission) denies.
package authz

import "github.com/nmang004/proxapeople-sub003/internal/rbac"

// Source identifies which layer produced a decision.
type Source string

const (
	// SourceOverride means an unexpired user override decided the outcome.
	SourceOverride Source = "override"
	// SourceRole means a role grant allowed the action.
	SourceRole Source = "role"
	// SourceDefault means no grant matched; the default is deny.
	SourceDefault Source = "default"
	// SourceUnresolved means the resource or permission could not be
	// resolved; the outcome is deny (fail closed).
	SourceUnresolved Source = "unresolved"
)

// Result is one evaluated decision.
type Result struct {
	Allowed bool
	Role    rbac.Role
	Source  Source
}

// Lookup is the raw outcome of the grant query for one (resource, action,
// user, role) tuple.
type Lookup struct {
	PermissionID int64
	Found        bool
	Override     *bool
	RoleGranted  bool
}

// Invalidator drops cached decisions after a policy mutation. Mutating
// services call it; the decision cache implements it.
type Invalidator interface {
	InvalidateUser(userID int64)
	InvalidateRole(role rbac.Role)
	InvalidateAll()
}
