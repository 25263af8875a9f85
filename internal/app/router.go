package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/nmang004/proxapeople-sub003/internal/audit"
	"github.com/nmang004/proxapeople-sub003/internal/authz"
	"github.com/nmang004/proxapeople-sub003/internal/observability"
	"github.com/nmang004/proxapeople-sub003/internal/rbac/overrides"
	"github.com/nmang004/proxapeople-sub003/internal/rbac/permissions"
	"github.com/nmang004/proxapeople-sub003/internal/rbac/resources"
	"github.com/nmang004/proxapeople-sub003/internal/rbac/rolegrants"
	"github.com/nmang004/proxapeople-sub003/internal/shared"
	"github.com/nmang004/proxapeople-sub003/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger       *slog.Logger
	Config       *Config
	SessionStore *shared.SessionStore
	Guard        authz.Middleware

	ResourcesHandler   *resources.Handler
	PermissionsHandler *permissions.Handler
	RoleGrantsHandler  *rolegrants.Handler
	OverridesHandler   *overrides.Handler
	AuthzHandler       *authz.Handler
	UsersHandler       *users.Handler
	AuditHandler       *audit.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with service defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:       params.Logger,
		Config:       params.Config,
		SessionStore: params.SessionStore,
		Metrics:      params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		params.ResourcesHandler.MountRoutes(r, params.Guard)
		params.PermissionsHandler.MountRoutes(r, params.Guard)
		params.RoleGrantsHandler.MountRoutes(r, params.Guard)
		params.OverridesHandler.MountRoutes(r, params.Guard)
		params.AuthzHandler.MountRoutes(r, params.Guard)
		params.UsersHandler.MountRoutes(r, params.Guard)
		params.AuditHandler.MountRoutes(r, params.Guard)
	})

	return r
}
