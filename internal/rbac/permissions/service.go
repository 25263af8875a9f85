package permissions

import (
	"context"
	"fmt"
	"strings"

	"github.com/nmang004/proxapeople-sub003/internal/audit"
	"github.com/nmang004/proxapeople-sub003/internal/rbac"
)

// Service orchestrates permission catalog operations.
type Service struct {
	repo    Repository
	auditor *audit.Recorder
}

// NewService constructs a Service.
func NewService(repo Repository, auditor *audit.Recorder) *Service {
	return &Service{repo: repo, auditor: auditor}
}

// Get fetches one cataloged permission.
func (s *Service) Get(ctx context.Context, id int64) (*Permission, error) {
	return s.repo.Get(ctx, id)
}

// List returns the whole catalog.
func (s *Service) List(ctx context.Context) ([]Permission, error) {
	return s.repo.List(ctx)
}

// ListByResource returns the cataloged permissions of one resource.
func (s *Service) ListByResource(ctx context.Context, resourceID int64) ([]Permission, error) {
	return s.repo.ListByResource(ctx, resourceID)
}

// Create catalogs a (resource, action) pair. The action must be one of the
// closed set; duplicates are a conflict.
func (s *Service) Create(ctx context.Context, req CreatePermissionRequest, actorID int64) (*Permission, error) {
	action, err := rbac.ParseAction(req.Action)
	if err != nil {
		return nil, err
	}

	perm := Permission{
		ResourceID:  req.ResourceID,
		Action:      action,
		Description: strings.TrimSpace(req.Description),
	}
	id, err := s.repo.Create(ctx, perm)
	if err != nil {
		return nil, fmt.Errorf("create permission: %w", err)
	}

	created, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload permission: %w", err)
	}

	s.auditor.Record(ctx, audit.Entry{
		ActorID:  actorID,
		Action:   "permission.create",
		Entity:   "permission",
		EntityID: id,
		Detail:   audit.Detail{"key": created.Key()},
	})
	return created, nil
}
