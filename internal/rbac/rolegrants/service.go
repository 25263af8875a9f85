package rolegrants

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nmang004/proxapeople-sub003/internal/audit"
	"github.com/nmang004/proxapeople-sub003/internal/authz"
	"github.com/nmang004/proxapeople-sub003/internal/rbac"
)

// WarmupEnqueuer schedules a refresh of the warmed role permission set after
// a policy change. Implemented by the jobs client.
type WarmupEnqueuer interface {
	EnqueueRoleWarmup(ctx context.Context, role string) error
}

// Service orchestrates role-permission binding operations.
type Service struct {
	repo        Repository
	auditor     *audit.Recorder
	invalidator authz.Invalidator
	warmup      WarmupEnqueuer
	logger      *slog.Logger
}

// NewService constructs a Service. warmup may be nil when no worker runs.
func NewService(repo Repository, auditor *audit.Recorder, invalidator authz.Invalidator, warmup WarmupEnqueuer, logger *slog.Logger) *Service {
	return &Service{repo: repo, auditor: auditor, invalidator: invalidator, warmup: warmup, logger: logger}
}

// ListByRole returns the grants of one role. The raw role string is parsed
// here; unknown roles are InvalidArgument.
func (s *Service) ListByRole(ctx context.Context, rawRole string) ([]Grant, error) {
	role, err := rbac.ParseRole(rawRole)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByRole(ctx, role)
}

// Create binds a permission to a role. Re-binding an existing pair is a
// conflict, not a silent no-op, so policy edits stay deterministic.
func (s *Service) Create(ctx context.Context, req CreateGrantRequest, actorID int64) (*Grant, error) {
	role, err := rbac.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, Grant{Role: role, PermissionID: req.PermissionID})
	if err != nil {
		return nil, fmt.Errorf("create role grant: %w", err)
	}
	grant, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload role grant: %w", err)
	}

	s.auditor.Record(ctx, audit.Entry{
		ActorID:  actorID,
		Action:   "role_permission.create",
		Entity:   "role_permission",
		EntityID: id,
		Detail:   audit.Detail{"role": string(role), "key": rbac.PermissionKey(grant.ResourceName, grant.Action)},
	})
	s.afterMutation(ctx, role)
	return grant, nil
}

// Delete removes a binding by id. Users of the role fall back to deny on the
// next check unless an override grants them the permission.
func (s *Service) Delete(ctx context.Context, id int64, actorID int64) error {
	grant, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete role grant: %w", err)
	}

	s.auditor.Record(ctx, audit.Entry{
		ActorID:  actorID,
		Action:   "role_permission.delete",
		Entity:   "role_permission",
		EntityID: id,
		Detail:   audit.Detail{"role": string(grant.Role), "key": rbac.PermissionKey(grant.ResourceName, grant.Action)},
	})
	s.afterMutation(ctx, grant.Role)
	return nil
}

func (s *Service) afterMutation(ctx context.Context, role rbac.Role) {
	if s.invalidator != nil {
		s.invalidator.InvalidateRole(role)
	}
	if s.warmup != nil {
		if err := s.warmup.EnqueueRoleWarmup(ctx, string(role)); err != nil && s.logger != nil {
			s.logger.Warn("enqueue role warmup", slog.Any("error", err), slog.String("role", string(role)))
		}
	}
}
