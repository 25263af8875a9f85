package overrides

import "time"

type SetOverrideRequest struct {
	UserID       int64      `json:"user_id" validate:"required,gt=0"`
	PermissionID int64      `json:"permission_id" validate:"required,gt=0"`
	Granted      *bool      `json:"granted" validate:"required"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

type ListOverridesResponse struct {
	Overrides []Override `json:"overrides"`
}
