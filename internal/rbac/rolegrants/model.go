package rolegrants

import (
	"time"

	"github.com/nmang004/proxapeople-sub003/internal/rbac"
)

// Grant binds a permission to a role. It is the default policy layer: user
// overrides supersede it, absence of a grant denies.
type Grant struct {
	ID           int64     `json:"id" db:"id"`
	Role         rbac.Role `json:"role" db:"role"`
	PermissionID int64     `json:"permission_id" db:"permission_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	// Joined catalog fields for listings.
	ResourceName string      `json:"resource_name,omitempty" db:"resource_name"`
	Action       rbac.Action `json:"action,omitempty" db:"action"`
}
