package permissions

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmang004/proxapeople-sub003/internal/platform/httpx"
	"github.com/nmang004/proxapeople-sub003/internal/rbac"
	_ "github.com/nmang004/proxapeople-sub003/testing"
)

// ============================================================================
// MOCKS
// ============================================================================

type mockRepository struct {
	permissions map[int64]*Permission
	// resourceNames lets the mock mimic the repository join; Create fails
	// with NotFound for resources absent here.
	resourceNames map[int64]string
	nextID        int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		permissions:   make(map[int64]*Permission),
		resourceNames: map[int64]string{1: "goals", 2: "reviews"},
		nextID:        1,
	}
}

func (m *mockRepository) Get(ctx context.Context, id int64) (*Permission, error) {
	perm, ok := m.permissions[id]
	if !ok {
		return nil, fmt.Errorf("%w: permission %d", httpx.ErrNotFound, id)
	}
	copied := *perm
	return &copied, nil
}

func (m *mockRepository) List(ctx context.Context) ([]Permission, error) {
	result := []Permission{}
	for _, perm := range m.permissions {
		result = append(result, *perm)
	}
	return result, nil
}

func (m *mockRepository) ListByResource(ctx context.Context, resourceID int64) ([]Permission, error) {
	result := []Permission{}
	for _, perm := range m.permissions {
		if perm.ResourceID == resourceID {
			result = append(result, *perm)
		}
	}
	return result, nil
}

func (m *mockRepository) Create(ctx context.Context, perm Permission) (int64, error) {
	name, ok := m.resourceNames[perm.ResourceID]
	if !ok {
		return 0, fmt.Errorf("%w: resource %d", httpx.ErrNotFound, perm.ResourceID)
	}
	for _, existing := range m.permissions {
		if existing.ResourceID == perm.ResourceID && existing.Action == perm.Action {
			return 0, fmt.Errorf("%w: permission %s:%s", httpx.ErrDuplicate, name, perm.Action)
		}
	}
	id := m.nextID
	m.nextID++
	perm.ID = id
	perm.ResourceName = name
	perm.CreatedAt = time.Now()
	m.permissions[id] = &perm
	return id, nil
}

// ============================================================================
// SERVICE TESTS
// ============================================================================

func TestCreatePermission(t *testing.T) {
	svc := NewService(newMockRepository(), nil)

	perm, err := svc.Create(context.Background(), CreatePermissionRequest{
		ResourceID:  1,
		Action:      "approve",
		Description: "approve goals",
	}, 99)
	require.NoError(t, err)
	require.NotNil(t, perm)

	assert.Equal(t, rbac.ActionApprove, perm.Action)
	assert.Equal(t, "goals", perm.ResourceName)
	assert.Equal(t, "goals:approve", perm.Key())
}

func TestCreatePermissionUnknownAction(t *testing.T) {
	svc := NewService(newMockRepository(), nil)

	_, err := svc.Create(context.Background(), CreatePermissionRequest{ResourceID: 1, Action: "destroy"}, 99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrInvalidArgument))
}

func TestCreatePermissionUnknownResource(t *testing.T) {
	svc := NewService(newMockRepository(), nil)

	_, err := svc.Create(context.Background(), CreatePermissionRequest{ResourceID: 404, Action: "view"}, 99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrNotFound))
}

func TestCreatePermissionDuplicate(t *testing.T) {
	svc := NewService(newMockRepository(), nil)

	req := CreatePermissionRequest{ResourceID: 1, Action: "view"}
	_, err := svc.Create(context.Background(), req, 99)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), req, 99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrDuplicate))
}

func TestListByResource(t *testing.T) {
	svc := NewService(newMockRepository(), nil)

	for _, action := range []string{"view", "create", "update"} {
		_, err := svc.Create(context.Background(), CreatePermissionRequest{ResourceID: 1, Action: action}, 99)
		require.NoError(t, err)
	}
	_, err := svc.Create(context.Background(), CreatePermissionRequest{ResourceID: 2, Action: "view"}, 99)
	require.NoError(t, err)

	perms, err := svc.ListByResource(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, perms, 3)

	all, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 4)
}
