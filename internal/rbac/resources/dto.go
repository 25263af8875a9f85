package resources

type CreateResourceRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	DisplayName string  `json:"display_name" validate:"omitempty,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
}

type ListResourcesResponse struct {
	Resources []Resource `json:"resources"`
}
