package resources

import (
	"github.com/go-chi/chi/v5"

	"github.com/nmang004/proxapeople-sub003/internal/authz"
	"github.com/nmang004/proxapeople-sub003/internal/rbac"
)

// MountRoutes registers resource registry routes.
func (h *Handler) MountRoutes(r chi.Router, guard authz.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(guard.Require(rbac.ResourceResources, rbac.ActionView))
		r.Get("/resources", h.List)
		r.Get("/resources/{id}", h.Show)
	})
	r.Group(func(r chi.Router) {
		r.Use(guard.Require(rbac.ResourceResources, rbac.ActionCreate))
		r.Post("/resources", h.Create)
	})
	r.Group(func(r chi.Router) {
		r.Use(guard.Require(rbac.ResourceResources, rbac.ActionDelete))
		r.Delete("/resources/{id}", h.Delete)
	})
}
