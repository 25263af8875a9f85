package resources

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
	resources map[int64]*Resource
	byName    map[string]int64
	permCount map[int64]int
	nextID    int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		resources: make(map[int64]*Resource),
		byName:    make(map[string]int64),
		permCount: make(map[int64]int),
		nextID:    1,
	}
}

func (m *mockRepository) Get(ctx context.Context, id int64) (*Resource, error) {
	res, ok := m.resources[id]
	if !ok {
		return nil, fmt.Errorf("%w: resource %d", httpx.ErrNotFound, id)
	}
	copied := *res
	return &copied, nil
}

func (m *mockRepository) GetByName(ctx context.Context, name string) (*Resource, error) {
	id, ok := m.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: resource %q", httpx.ErrNotFound, name)
	}
	return m.Get(ctx, id)
}

func (m *mockRepository) List(ctx context.Context) ([]Resource, error) {
	result := []Resource{}
	for _, res := range m.resources {
		result = append(result, *res)
	}
	return result, nil
}

func (m *mockRepository) Create(ctx context.Context, res Resource) (int64, error) {
	if _, exists := m.byName[res.Name]; exists {
		return 0, fmt.Errorf("%w: resource %q", httpx.ErrDuplicate, res.Name)
	}
	id := m.nextID
	m.nextID++
	res.ID = id
	res.CreatedAt = time.Now()
	res.UpdatedAt = res.CreatedAt
	m.resources[id] = &res
	m.byName[res.Name] = id
	return id, nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	res, ok := m.resources[id]
	if !ok {
		return fmt.Errorf("%w: resource %d", httpx.ErrNotFound, id)
	}
	delete(m.byName, res.Name)
	delete(m.resources, id)
	return nil
}

func (m *mockRepository) PermissionCount(ctx context.Context, id int64) (int, error) {
	return m.permCount[id], nil
}

type mockInvalidator struct {
	all int
}

func (m *mockInvalidator) InvalidateUser(userID int64)   {}
func (m *mockInvalidator) InvalidateRole(role rbac.Role) {}
func (m *mockInvalidator) InvalidateAll()                { m.all++ }

// ============================================================================
// SERVICE TESTS
// ============================================================================

func TestCreateResource(t *testing.T) {
	svc := NewService(newMockRepository(), nil, &mockInvalidator{})

	res, err := svc.Create(context.Background(), CreateResourceRequest{Name: "performance_notes"}, 99)
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, "performance_notes", res.Name)
	assert.Equal(t, "Performance Notes", res.DisplayName)
}

func TestCreateResourceKeepsExplicitDisplayName(t *testing.T) {
	svc := NewService(newMockRepository(), nil, &mockInvalidator{})

	res, err := svc.Create(context.Background(), CreateResourceRequest{
		Name:        "okrs",
		DisplayName: "Objectives & Key Results",
	}, 99)
	require.NoError(t, err)
	assert.Equal(t, "Objectives & Key Results", res.DisplayName)
}

func TestCreateResourceNormalizesName(t *testing.T) {
	svc := NewService(newMockRepository(), nil, &mockInvalidator{})

	res, err := svc.Create(context.Background(), CreateResourceRequest{Name: "  Goals "}, 99)
	require.NoError(t, err)
	assert.Equal(t, "goals", res.Name)
}

func TestCreateResourceRejectsBadName(t *testing.T) {
	svc := NewService(newMockRepository(), nil, &mockInvalidator{})

	for _, name := range []string{"", "2goals", "goals-archive", "goals archive", "_goals"} {
		_, err := svc.Create(context.Background(), CreateResourceRequest{Name: name}, 99)
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, httpx.ErrInvalidArgument), name)
	}
}

func TestCreateResourceDuplicate(t *testing.T) {
	svc := NewService(newMockRepository(), nil, &mockInvalidator{})

	_, err := svc.Create(context.Background(), CreateResourceRequest{Name: "goals"}, 99)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateResourceRequest{Name: "goals"}, 99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrDuplicate))
}

func TestDeleteResource(t *testing.T) {
	repo := newMockRepository()
	inv := &mockInvalidator{}
	svc := NewService(repo, nil, inv)

	res, err := svc.Create(context.Background(), CreateResourceRequest{Name: "goals"}, 99)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), res.ID, 99))
	assert.Equal(t, 1, inv.all)

	_, err = svc.Get(context.Background(), res.ID)
	assert.True(t, errors.Is(err, httpx.ErrNotFound))
}

func TestDeleteResourceRejectedWhileReferenced(t *testing.T) {
	repo := newMockRepository()
	inv := &mockInvalidator{}
	svc := NewService(repo, nil, inv)

	res, err := svc.Create(context.Background(), CreateResourceRequest{Name: "goals"}, 99)
	require.NoError(t, err)
	repo.permCount[res.ID] = 3

	err = svc.Delete(context.Background(), res.ID, 99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrConflict))
	assert.Equal(t, 0, inv.all)

	// Still there.
	_, err = svc.Get(context.Background(), res.ID)
	require.NoError(t, err)
}

func TestDeleteResourceNotFound(t *testing.T) {
	svc := NewService(newMockRepository(), nil, &mockInvalidator{})

	err := svc.Delete(context.Background(), 404, 99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrNotFound))
}
