package authz

import (
	"context"
	"fmt"

	"github.com/nmang004/proxapeople-sub003/internal/observability"
	"github.com/nmang004/proxapeople-sub003/internal/rbac"
)

// Service evaluates authorization decisions. It is a pure read over the
// policy tables and carries no mutable state, so it is safe for concurrent
// use from any number of requests.
type Service struct {
	store   Store
	metrics *observability.Metrics
}

// NewService constructs a Service.
func NewService(store Store, metrics *observability.Metrics) *Service {
	return &Service{store: store, metrics: metrics}
}

// Evaluate computes the decision for (user, resource, action).
//
// Precedence is total: an unexpired override decides in either direction,
// then the user's role grants, then deny. Denial is an ordinary false, never
// an error; errors are reserved for missing users and storage faults.
func (s *Service) Evaluate(ctx context.Context, userID int64, resource string, action rbac.Action) (Result, error) {
	role, err := s.store.UserRole(ctx, userID)
	if err != nil {
		return Result{}, fmt.Errorf("resolve user role: %w", err)
	}

	lookup, err := s.store.Grants(ctx, resource, action, userID, role)
	if err != nil {
		return Result{}, fmt.Errorf("resolve grants: %w", err)
	}

	result := Result{Role: role}
	switch {
	case !lookup.Found:
		result.Source = SourceUnresolved
	case lookup.Override != nil:
		result.Allowed = *lookup.Override
		result.Source = SourceOverride
	case lookup.RoleGranted:
		result.Allowed = true
		result.Source = SourceRole
	default:
		result.Source = SourceDefault
	}

	s.metrics.ObserveDecision(result.Allowed, string(result.Source))
	return result, nil
}

// Check answers "may user perform action on resource" as a plain boolean.
// Raw action strings are validated here so callers at the system boundary
// get InvalidArgument for malformed input.
func (s *Service) Check(ctx context.Context, userID int64, resource, rawAction string) (bool, error) {
	action, err := rbac.ParseAction(rawAction)
	if err != nil {
		return false, err
	}
	result, err := s.Evaluate(ctx, userID, resource, action)
	if err != nil {
		return false, err
	}
	return result.Allowed, nil
}
