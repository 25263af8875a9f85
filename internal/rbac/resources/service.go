package resources

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nmang004/proxapeople-sub003/internal/audit"
	"github.com/nmang004/proxapeople-sub003/internal/authz"
	"github.com/nmang004/proxapeople-sub003/internal/platform/httpx"
)

var namePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

var titleCaser = cases.Title(language.English)

// Service orchestrates resource registry operations.
type Service struct {
	repo        Repository
	auditor     *audit.Recorder
	invalidator authz.Invalidator
}

// NewService constructs a Service.
func NewService(repo Repository, auditor *audit.Recorder, invalidator authz.Invalidator) *Service {
	return &Service{repo: repo, auditor: auditor, invalidator: invalidator}
}

// Get fetches one resource by id.
func (s *Service) Get(ctx context.Context, id int64) (*Resource, error) {
	return s.repo.Get(ctx, id)
}

// List returns all registered resources.
func (s *Service) List(ctx context.Context) ([]Resource, error) {
	return s.repo.List(ctx)
}

// Create registers a new protectable resource. Names are lowercased snake_case
// keys; the display name is derived from the key when omitted.
func (s *Service) Create(ctx context.Context, req CreateResourceRequest, actorID int64) (*Resource, error) {
	name := strings.ToLower(strings.TrimSpace(req.Name))
	if !namePattern.MatchString(name) {
		return nil, fmt.Errorf("%w: resource name must be lowercase snake_case", httpx.ErrInvalidArgument)
	}

	res := Resource{
		Name:        name,
		DisplayName: strings.TrimSpace(req.DisplayName),
		Description: req.Description,
	}
	if res.DisplayName == "" {
		res.DisplayName = titleCaser.String(strings.ReplaceAll(name, "_", " "))
	}

	id, err := s.repo.Create(ctx, res)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}
	res.ID = id

	s.auditor.Record(ctx, audit.Entry{
		ActorID:  actorID,
		Action:   "resource.create",
		Entity:   "resource",
		EntityID: id,
		Detail:   audit.Detail{"name": name},
	})
	return &res, nil
}

// Delete removes a resource. Removal is rejected while permissions still
// reference the resource.
func (s *Service) Delete(ctx context.Context, id int64, actorID int64) error {
	res, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get resource: %w", err)
	}

	count, err := s.repo.PermissionCount(ctx, id)
	if err != nil {
		return fmt.Errorf("count permissions: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: resource %q is referenced by %d permission(s)", httpx.ErrConflict, res.Name, count)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}

	s.auditor.Record(ctx, audit.Entry{
		ActorID:  actorID,
		Action:   "resource.delete",
		Entity:   "resource",
		EntityID: id,
		Detail:   audit.Detail{"name": res.Name},
	})
	if s.invalidator != nil {
		s.invalidator.InvalidateAll()
	}
	return nil
}
