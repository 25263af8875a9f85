package rolegrants

type CreateGrantRequest struct {
	Role         string `json:"role" validate:"required,max=20"`
	PermissionID int64  `json:"permission_id" validate:"required,gt=0"`
}

type ListGrantsResponse struct {
	Grants []Grant `json:"grants"`
}
