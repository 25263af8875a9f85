package overrides

import (
	"time"

	"github.com/nmang004/proxapeople-sub003/internal/rbac"
)

// Override is a per-user permission exception. granted=true force-allows even
// when the role would deny; granted=false force-denies even when the role
// would allow. An expired override behaves as if absent.
type Override struct {
	ID           int64      `json:"id" db:"id"`
	UserID       int64      `json:"user_id" db:"user_id"`
	PermissionID int64      `json:"permission_id" db:"permission_id"`
	Granted      bool       `json:"granted" db:"granted"`
	GrantedBy    *int64     `json:"granted_by,omitempty" db:"granted_by"`
	GrantedAt    time.Time  `json:"granted_at" db:"granted_at"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty" db:"expires_at"`

	// Joined catalog fields for listings.
	ResourceName string      `json:"resource_name,omitempty" db:"resource_name"`
	Action       rbac.Action `json:"action,omitempty" db:"action"`
}

// Expired reports whether the override has lapsed.
func (o Override) Expired(now time.Time) bool {
	return o.ExpiresAt != nil && now.After(*o.ExpiresAt)
}
