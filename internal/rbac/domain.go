// Package rbac defines the closed role and action vocabularies shared by the
// permission catalog, the grant stores and the authorization evaluator.
package rbac

import (
	"fmt"
	"strings"

	"github.com/nmang004/proxapeople-sub003/internal/platform/httpx"
)

// Role classifies a user. The set is closed; unknown values are rejected at
// the system boundary.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleHR       Role = "hr"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// Roles lists every valid role.
func Roles() []Role {
	return []Role{RoleAdmin, RoleHR, RoleManager, RoleEmployee}
}

// ParseRole validates a raw role string.
func ParseRole(raw string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(raw))); r {
	case RoleAdmin, RoleHR, RoleManager, RoleEmployee:
		return r, nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", httpx.ErrInvalidArgument, raw)
	}
}

func (r Role) String() string { return string(r) }

// Action is one operation applicable to a resource.
type Action string

const (
	ActionView    Action = "view"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionApprove Action = "approve"
	ActionAssign  Action = "assign"
	ActionAdmin   Action = "admin"
)

// Actions lists every valid action.
func Actions() []Action {
	return []Action{ActionView, ActionCreate, ActionUpdate, ActionDelete, ActionApprove, ActionAssign, ActionAdmin}
}

// ParseAction validates a raw action string.
func ParseAction(raw string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(raw))); a {
	case ActionView, ActionCreate, ActionUpdate, ActionDelete, ActionApprove, ActionAssign, ActionAdmin:
		return a, nil
	default:
		return "", fmt.Errorf("%w: unknown action %q", httpx.ErrInvalidArgument, raw)
	}
}

func (a Action) String() string { return string(a) }

// PermissionKey renders the canonical "resource:action" form used in logs,
// audit entries and warmed role permission sets.
func PermissionKey(resource string, action Action) string {
	return resource + ":" + string(action)
}

// Built-in resource names protected by the service itself.
const (
	ResourceResources       = "resources"
	ResourcePermissions     = "permissions"
	ResourceRolePermissions = "role_permissions"
	ResourceUserPermissions = "user_permissions"
	ResourceUsers           = "users"
	ResourceAudit           = "audit"
)
