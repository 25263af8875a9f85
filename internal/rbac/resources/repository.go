package resources

import "context"

// Repository provides persistence for the resource registry.
type Repository interface {
	Get(ctx context.Context, id int64) (*Resource, error)
	GetByName(ctx context.Context, name string) (*Resource, error)
	List(ctx context.Context) ([]Resource, error)
	Create(ctx context.Context, res Resource) (int64, error)
	Delete(ctx context.Context, id int64) error
	PermissionCount(ctx context.Context, id int64) (int, error)
}
