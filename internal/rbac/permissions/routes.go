package permissions

import (
	"github.com/go-chi/chi/v5"

	"github.com/nmang004/proxapeople-sub003/internal/authz"
	"github.com/nmang004/proxapeople-sub003/internal/rbac"
)

// MountRoutes registers permission catalog routes.
func (h *Handler) MountRoutes(r chi.Router, guard authz.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(guard.Require(rbac.ResourcePermissions, rbac.ActionView))
		r.Get("/permissions", h.List)
		r.Get("/resources/{resourceID}/permissions", h.ListByResource)
	})
	r.Group(func(r chi.Router) {
		r.Use(guard.Require(rbac.ResourcePermissions, rbac.ActionCreate))
		r.Post("/permissions", h.Create)
	})
}
