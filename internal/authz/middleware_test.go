package authz

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmang004/proxapeople-sub003/internal/rbac"
	"github.com/nmang004/proxapeople-sub003/internal/shared"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func requestAs(method, target string, body []byte, sess *shared.Session) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if sess != nil {
		req = req.WithContext(shared.ContextWithSession(context.Background(), sess))
	}
	return req
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRequireAnonymous(t *testing.T) {
	store := newMockStore()
	guard := Middleware{Cache: newTestCache(store), Logger: testLogger()}

	rec := httptest.NewRecorder()
	handler := guard.Require("goals", rbac.ActionView)(okHandler())
	handler.ServeHTTP(rec, requestAs(http.MethodGet, "/goals", nil, nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireDenied(t *testing.T) {
	store := newMockStore()
	store.addUser(1, rbac.RoleEmployee)
	store.addPermission("goals", rbac.ActionDelete, 11, rbac.RoleAdmin)
	guard := Middleware{Cache: newTestCache(store), Logger: testLogger()}

	rec := httptest.NewRecorder()
	handler := guard.Require("goals", rbac.ActionDelete)(okHandler())
	handler.ServeHTTP(rec, requestAs(http.MethodDelete, "/goals/1", nil, &shared.Session{UserID: 1}))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "goals:delete")
}

func TestRequireAllowed(t *testing.T) {
	store := newMockStore()
	store.addUser(1, rbac.RoleManager)
	store.addPermission("goals", rbac.ActionView, 10, rbac.RoleManager)
	guard := Middleware{Cache: newTestCache(store), Logger: testLogger()}

	rec := httptest.NewRecorder()
	handler := guard.Require("goals", rbac.ActionView)(okHandler())
	handler.ServeHTTP(rec, requestAs(http.MethodGet, "/goals", nil, &shared.Session{UserID: 1}))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequireUnknownPrincipal(t *testing.T) {
	store := newMockStore()
	guard := Middleware{Cache: newTestCache(store), Logger: testLogger()}

	rec := httptest.NewRecorder()
	handler := guard.Require("goals", rbac.ActionView)(okHandler())
	handler.ServeHTTP(rec, requestAs(http.MethodGet, "/goals", nil, &shared.Session{UserID: 404}))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown principal")
}

// ============================================================================
// CHECK ENDPOINT TESTS
// ============================================================================

func newCheckRouter(store *mockStore) chi.Router {
	svc := NewService(store, nil)
	cache := NewCache(svc, nil)
	guard := Middleware{Cache: cache, Logger: testLogger()}
	handler := NewHandler(testLogger(), svc, cache)

	r := chi.NewRouter()
	handler.MountRoutes(r, guard)
	return r
}

func decodeCheck(t *testing.T, rec *httptest.ResponseRecorder) bool {
	t.Helper()
	var resp struct {
		HasPermission bool `json:"hasPermission"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.HasPermission
}

func TestCheckMyPermission(t *testing.T) {
	store := newMockStore()
	store.addUser(1, rbac.RoleManager)
	store.addPermission("goals", rbac.ActionView, 10, rbac.RoleManager)
	router := newCheckRouter(store)

	body := []byte(`{"resource":"goals","action":"view"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, requestAs(http.MethodPost, "/check-my-permission", body, &shared.Session{UserID: 1}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeCheck(t, rec))
}

func TestCheckMyPermissionDenied(t *testing.T) {
	store := newMockStore()
	store.addUser(1, rbac.RoleEmployee)
	store.addPermission("goals", rbac.ActionDelete, 11, rbac.RoleAdmin)
	router := newCheckRouter(store)

	body := []byte(`{"resource":"goals","action":"delete"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, requestAs(http.MethodPost, "/check-my-permission", body, &shared.Session{UserID: 1}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeCheck(t, rec))
}

func TestCheckMyPermissionAnonymous(t *testing.T) {
	router := newCheckRouter(newMockStore())

	body := []byte(`{"resource":"goals","action":"view"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, requestAs(http.MethodPost, "/check-my-permission", body, nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCheckMyPermissionBadAction(t *testing.T) {
	store := newMockStore()
	store.addUser(1, rbac.RoleAdmin)
	router := newCheckRouter(store)

	body := []byte(`{"resource":"goals","action":"destroy"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, requestAs(http.MethodPost, "/check-my-permission", body, &shared.Session{UserID: 1}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckPermissionRequiresAdmin(t *testing.T) {
	store := newMockStore()
	store.addUser(1, rbac.RoleEmployee)
	store.addPermission("permissions", rbac.ActionAdmin, 20, rbac.RoleAdmin)
	router := newCheckRouter(store)

	body := []byte(`{"user_id":2,"resource":"goals","action":"view"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, requestAs(http.MethodPost, "/check-permission", body, &shared.Session{UserID: 1}))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCheckPermissionForTargetUser(t *testing.T) {
	store := newMockStore()
	store.addUser(1, rbac.RoleAdmin)
	store.addUser(2, rbac.RoleEmployee)
	store.addPermission("permissions", rbac.ActionAdmin, 20, rbac.RoleAdmin)
	store.addPermission("goals", rbac.ActionView, 10, rbac.RoleEmployee)
	router := newCheckRouter(store)

	body := []byte(`{"user_id":2,"resource":"goals","action":"view"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, requestAs(http.MethodPost, "/check-permission", body, &shared.Session{UserID: 1}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeCheck(t, rec))
}

func TestCheckPermissionUnknownTarget(t *testing.T) {
	store := newMockStore()
	store.addUser(1, rbac.RoleAdmin)
	store.addPermission("permissions", rbac.ActionAdmin, 20, rbac.RoleAdmin)
	router := newCheckRouter(store)

	body := []byte(`{"user_id":999,"resource":"goals","action":"view"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, requestAs(http.MethodPost, "/check-permission", body, &shared.Session{UserID: 1}))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
