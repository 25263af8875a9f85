package overrides

import (
	"context"
	"fmt"
	"time"

	"github.com/nmang004/proxapeople-sub003/internal/audit"
	"github.com/nmang004/proxapeople-sub003/internal/authz"
	"github.com/nmang004/proxapeople-sub003/internal/platform/httpx"
	"github.com/nmang004/proxapeople-sub003/internal/rbac"
)

// Service orchestrates user permission override operations.
type Service struct {
	repo        Repository
	auditor     *audit.Recorder
	invalidator authz.Invalidator
}

// NewService constructs a Service.
func NewService(repo Repository, auditor *audit.Recorder, invalidator authz.Invalidator) *Service {
	return &Service{repo: repo, auditor: auditor, invalidator: invalidator}
}

// ListByUser returns a user's overrides, expired ones included so
// administrators can see lapsed exceptions.
func (s *Service) ListByUser(ctx context.Context, userID int64) ([]Override, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Set creates or replaces the override for (user, permission). The who and
// when of the grant are recorded here, at write time.
func (s *Service) Set(ctx context.Context, req SetOverrideRequest, actorID int64) (*Override, error) {
	if req.ExpiresAt != nil && req.ExpiresAt.Before(time.Now()) {
		return nil, fmt.Errorf("%w: expires_at lies in the past", httpx.ErrInvalidArgument)
	}

	grantedBy := actorID
	id, err := s.repo.Upsert(ctx, Override{
		UserID:       req.UserID,
		PermissionID: req.PermissionID,
		Granted:      *req.Granted,
		GrantedBy:    &grantedBy,
		ExpiresAt:    req.ExpiresAt,
	})
	if err != nil {
		return nil, fmt.Errorf("set override: %w", err)
	}
	ov, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload override: %w", err)
	}

	s.auditor.Record(ctx, audit.Entry{
		ActorID:  actorID,
		Action:   "user_permission.set",
		Entity:   "user_permission",
		EntityID: id,
		Detail: audit.Detail{
			"user_id": req.UserID,
			"key":     rbac.PermissionKey(ov.ResourceName, ov.Action),
			"granted": ov.Granted,
		},
	})
	if s.invalidator != nil {
		s.invalidator.InvalidateUser(req.UserID)
	}
	return ov, nil
}

// Delete removes an override; the user falls back to role defaults on the
// next check.
func (s *Service) Delete(ctx context.Context, id int64, actorID int64) error {
	ov, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete override: %w", err)
	}

	s.auditor.Record(ctx, audit.Entry{
		ActorID:  actorID,
		Action:   "user_permission.delete",
		Entity:   "user_permission",
		EntityID: id,
		Detail: audit.Detail{
			"user_id": ov.UserID,
			"key":     rbac.PermissionKey(ov.ResourceName, ov.Action),
		},
	})
	if s.invalidator != nil {
		s.invalidator.InvalidateUser(ov.UserID)
	}
	return nil
}

// PurgeExpired removes lapsed overrides. The evaluator already ignores them;
// this is housekeeping driven by the background worker.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	return s.repo.PurgeExpired(ctx)
}
