package permissions

import "context"

// Repository provides persistence for the permission catalog.
type Repository interface {
	Get(ctx context.Context, id int64) (*Permission, error)
	List(ctx context.Context) ([]Permission, error)
	ListByResource(ctx context.Context, resourceID int64) ([]Permission, error)
	Create(ctx context.Context, perm Permission) (int64, error)
}
