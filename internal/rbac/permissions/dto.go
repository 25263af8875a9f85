package permissions

type CreatePermissionRequest struct {
	ResourceID  int64  `json:"resource_id" validate:"required,gt=0"`
	Action      string `json:"action" validate:"required,max=20"`
	Description string `json:"description" validate:"omitempty,max=1000"`
}

type ListPermissionsResponse struct {
	Permissions []Permission `json:"permissions"`
}
