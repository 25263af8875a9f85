package overrides

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
	overrides map[int64]*Override
	nextID    int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{overrides: make(map[int64]*Override), nextID: 1}
}

func (m *mockRepository) Get(ctx context.Context, id int64) (*Override, error) {
	ov, ok := m.overrides[id]
	if !ok {
		return nil, fmt.Errorf("%w: override %d", httpx.ErrNotFound, id)
	}
	copied := *ov
	return &copied, nil
}

func (m *mockRepository) ListByUser(ctx context.Context, userID int64) ([]Override, error) {
	result := []Override{}
	for _, ov := range m.overrides {
		if ov.UserID == userID {
			result = append(result, *ov)
		}
	}
	return result, nil
}

func (m *mockRepository) Upsert(ctx context.Context, ov Override) (int64, error) {
	for id, existing := range m.overrides {
		if existing.UserID == ov.UserID && existing.PermissionID == ov.PermissionID {
			ov.ID = id
			ov.GrantedAt = time.Now()
			m.overrides[id] = &ov
			return id, nil
		}
	}
	id := m.nextID
	m.nextID++
	ov.ID = id
	ov.GrantedAt = time.Now()
	m.overrides[id] = &ov
	return id, nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.overrides[id]; !ok {
		return fmt.Errorf("%w: override %d", httpx.ErrNotFound, id)
	}
	delete(m.overrides, id)
	return nil
}

func (m *mockRepository) PurgeExpired(ctx context.Context) (int64, error) {
	var purged int64
	now := time.Now()
	for id, ov := range m.overrides {
		if ov.ExpiresAt != nil && !ov.ExpiresAt.After(now) {
			delete(m.overrides, id)
			purged++
		}
	}
	return purged, nil
}

type mockInvalidator struct {
	users []int64
}

func (m *mockInvalidator) InvalidateUser(userID int64)   { m.users = append(m.users, userID) }
func (m *mockInvalidator) InvalidateRole(role rbac.Role) {}
func (m *mockInvalidator) InvalidateAll()                {}

func ptr[T any](v T) *T { return &v }

// ============================================================================
// SERVICE TESTS
// ============================================================================

func TestSetOverride(t *testing.T) {
	repo := newMockRepository()
	inv := &mockInvalidator{}
	svc := NewService(repo, nil, inv)

	ov, err := svc.Set(context.Background(), SetOverrideRequest{
		UserID:       5,
		PermissionID: 10,
		Granted:      ptr(true),
	}, 99)
	require.NoError(t, err)
	require.NotNil(t, ov)

	assert.Equal(t, int64(5), ov.UserID)
	assert.True(t, ov.Granted)
	require.NotNil(t, ov.GrantedBy)
	assert.Equal(t, int64(99), *ov.GrantedBy)
	assert.Nil(t, ov.ExpiresAt)
	assert.Equal(t, []int64{5}, inv.users)
}

func TestSetOverrideLastWriteWins(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil, &mockInvalidator{})

	first, err := svc.Set(context.Background(), SetOverrideRequest{
		UserID:       5,
		PermissionID: 10,
		Granted:      ptr(true),
	}, 99)
	require.NoError(t, err)

	second, err := svc.Set(context.Background(), SetOverrideRequest{
		UserID:       5,
		PermissionID: 10,
		Granted:      ptr(false),
	}, 42)
	require.NoError(t, err)

	// Same row, replaced in place.
	assert.Equal(t, first.ID, second.ID)
	assert.False(t, second.Granted)
	require.NotNil(t, second.GrantedBy)
	assert.Equal(t, int64(42), *second.GrantedBy)

	list, err := svc.ListByUser(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSetOverrideRejectsPastExpiry(t *testing.T) {
	svc := NewService(newMockRepository(), nil, &mockInvalidator{})

	_, err := svc.Set(context.Background(), SetOverrideRequest{
		UserID:       5,
		PermissionID: 10,
		Granted:      ptr(true),
		ExpiresAt:    ptr(time.Now().Add(-time.Hour)),
	}, 99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrInvalidArgument))
}

func TestDeleteOverride(t *testing.T) {
	repo := newMockRepository()
	inv := &mockInvalidator{}
	svc := NewService(repo, nil, inv)

	ov, err := svc.Set(context.Background(), SetOverrideRequest{
		UserID:       5,
		PermissionID: 10,
		Granted:      ptr(true),
	}, 99)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), ov.ID, 99))
	assert.Equal(t, []int64{5, 5}, inv.users)

	_, err = repo.Get(context.Background(), ov.ID)
	assert.True(t, errors.Is(err, httpx.ErrNotFound))
}

func TestDeleteOverrideNotFound(t *testing.T) {
	svc := NewService(newMockRepository(), nil, &mockInvalidator{})

	err := svc.Delete(context.Background(), 404, 99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrNotFound))
}

func TestPurgeExpired(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, nil, &mockInvalidator{})

	_, err := svc.Set(context.Background(), SetOverrideRequest{
		UserID:       5,
		PermissionID: 10,
		Granted:      ptr(true),
		ExpiresAt:    ptr(time.Now().Add(time.Millisecond)),
	}, 99)
	require.NoError(t, err)
	_, err = svc.Set(context.Background(), SetOverrideRequest{
		UserID:       6,
		PermissionID: 10,
		Granted:      ptr(true),
	}, 99)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	purged, err := svc.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	remaining, err := svc.ListByUser(context.Background(), 6)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestOverrideExpired(t *testing.T) {
	now := time.Now()
	perpetual := Override{}
	assert.False(t, perpetual.Expired(now))

	future := Override{ExpiresAt: ptr(now.Add(time.Hour))}
	assert.False(t, future.Expired(now))

	lapsed := Override{ExpiresAt: ptr(now.Add(-time.Hour))}
	assert.True(t, lapsed.Expired(now))
}
