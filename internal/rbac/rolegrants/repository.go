package rolegrants

import (
	"context"

	"github.com/nmang004/proxapeople-sub003/internal/rbac"
)

// Repository provides persistence for role-permission bindings.
type Repository interface {
	Get(ctx context.Context, id int64) (*Grant, error)
	ListByRole(ctx context.Context, role rbac.Role) ([]Grant, error)
	Create(ctx context.Context, grant Grant) (int64, error)
	Delete(ctx context.Context, id int64) error
}
