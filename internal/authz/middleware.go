package authz

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/nmang004/proxapeople-sub003/internal/platform/httpx"
	"github.com/nmang004/proxapeople-sub003/internal/rbac"
	"github.com/nmang004/proxapeople-sub003/internal/shared"
)

// Middleware gates routes on evaluator decisions. Decisions flow through the
// cache, so repeated checks within a session cost no round trip.
type Middleware struct {
	Cache  *Cache
	Logger *slog.Logger
}

// Require allows the request through only when the authenticated principal
// may perform action on resource. Anonymous requests get 401; denied
// principals get 403 naming the required permission.
func (m Middleware) Require(resource string, action rbac.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := shared.SessionFromContext(r.Context())
			if sess == nil {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
				return
			}

			allowed, err := m.Cache.Check(r.Context(), sess.UserID, resource, action)
			if err != nil {
				if errors.Is(err, httpx.ErrNotFound) {
					// Session references a user that no longer exists.
					httpx.Problem(w, http.StatusForbidden, "Forbidden", "unknown principal")
					return
				}
				if m.Logger != nil {
					m.Logger.Error("authz check",
						slog.Any("error", err),
						slog.Int64("user_id", sess.UserID),
						slog.String("permission", rbac.PermissionKey(resource, action)),
					)
				}
				httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
				return
			}
			if !allowed {
				httpx.Problem(w, http.StatusForbidden, "Forbidden",
					fmt.Sprintf("requires %s", rbac.PermissionKey(resource, action)))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
