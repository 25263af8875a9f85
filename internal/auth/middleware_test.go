package auth

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmang004/proxapeople-sub003/internal/shared"
	_ "github.com/nmang004/proxapeople-sub003/testing"
)

func newTestMiddleware(t *testing.T) (Middleware, *shared.SessionStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := shared.NewSessionStore(client, "proxa_session", time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return Middleware{Store: store, Logger: logger}, store
}

func sessionEcho() (http.Handler, **shared.Session) {
	var captured *shared.Session
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = shared.SessionFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	return handler, &captured
}

func TestMiddlewareResolvesBearerToken(t *testing.T) {
	mw, store := newTestMiddleware(t)
	token, err := store.Put(context.Background(), shared.Session{UserID: 7, Role: "manager"})
	require.NoError(t, err)

	next, captured := sessionEcho()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	mw.Handler(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, *captured)
	assert.Equal(t, int64(7), (*captured).UserID)
}

func TestMiddlewareResolvesCookie(t *testing.T) {
	mw, store := newTestMiddleware(t)
	token, err := store.Put(context.Background(), shared.Session{UserID: 3, Role: "employee"})
	require.NoError(t, err)

	next, captured := sessionEcho()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "proxa_session", Value: token})
	rec := httptest.NewRecorder()
	mw.Handler(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, *captured)
	assert.Equal(t, int64(3), (*captured).UserID)
}

func TestMiddlewareAnonymousWithoutToken(t *testing.T) {
	mw, _ := newTestMiddleware(t)

	next, captured := sessionEcho()
	rec := httptest.NewRecorder()
	mw.Handler(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Nil(t, *captured)
}

func TestMiddlewareAnonymousWithStaleToken(t *testing.T) {
	mw, _ := newTestMiddleware(t)

	next, captured := sessionEcho()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer revoked-token")
	rec := httptest.NewRecorder()
	mw.Handler(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Nil(t, *captured)
}
