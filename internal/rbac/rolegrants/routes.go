package rolegrants

import (
	"github.com/go-chi/chi/v5"

	"github.com/nmang004/proxapeople-sub003/internal/authz"
	"github.com/nmang004/proxapeople-sub003/internal/rbac"
)

// MountRoutes registers role-permission binding routes.
func (h *Handler) MountRoutes(r chi.Router, guard authz.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(guard.Require(rbac.ResourceRolePermissions, rbac.ActionView))
		r.Get("/roles/{role}/permissions", h.ListByRole)
	})
	r.Group(func(r chi.Router) {
		r.Use(guard.Require(rbac.ResourceRolePermissions, rbac.ActionCreate))
		r.Post("/role-permissions", h.Create)
	})
	r.Group(func(r chi.Router) {
		r.Use(guard.Require(rbac.ResourceRolePermissions, rbac.ActionDelete))
		r.Delete("/role-permissions/{id}", h.Delete)
	})
}
