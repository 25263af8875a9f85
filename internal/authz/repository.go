package authz

import (
	"context"

	"github.com/nmang004/proxapeople-sub003/internal/rbac"
)

// Store provides the reads the evaluator needs.
type Store interface {
	// UserRole returns the role of an existing user, or a NotFound error.
	UserRole(ctx context.Context, userID int64) (rbac.Role, error)
	// Grants resolves (resource, action) to a permission and reports the
	// user's unexpired override and role grant for it in one read.
	Grants(ctx context.Context, resource string, action rbac.Action, userID int64, role rbac.Role) (Lookup, error)
}
