package permissions

import (
	"time"

	"github.com/nmang004/proxapeople-sub003/internal/rbac"
)

// Permission pairs a resource with an action. Unique per (resource, action).
type Permission struct {
	ID           int64       `json:"id" db:"id"`
	ResourceID   int64       `json:"resource_id" db:"resource_id"`
	ResourceName string      `json:"resource_name" db:"resource_name"`
	Action       rbac.Action `json:"action" db:"action"`
	Description  string      `json:"description" db:"description"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
}

// Key renders the canonical "resource:action" form.
func (p Permission) Key() string {
	return rbac.PermissionKey(p.ResourceName, p.Action)
}
