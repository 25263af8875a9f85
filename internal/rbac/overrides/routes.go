package overrides

import (
	"github.com/go-chi/chi/v5"

	"github.com/nmang004/proxapeople-sub003/internal/authz"
	"github.com/nmang004/proxapeople-sub003/internal/rbac"
)

// MountRoutes registers user permission override routes.
func (h *Handler) MountRoutes(r chi.Router, guard authz.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(guard.Require(rbac.ResourceUserPermissions, rbac.ActionView))
		r.Get("/users/{userID}/permissions", h.ListByUser)
	})
	r.Group(func(r chi.Router) {
		r.Use(guard.Require(rbac.ResourceUserPermissions, rbac.ActionCreate))
		r.Post("/user-permissions", h.Set)
	})
	r.Group(func(r chi.Router) {
		r.Use(guard.Require(rbac.ResourceUserPermissions, rbac.ActionDelete))
		r.Delete("/user-permissions/{id}", h.Delete)
	})
}
