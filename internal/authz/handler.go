package authz

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/nmang004/proxapeople-sub003/internal/platform/httpx"
	"github.com/nmang004/proxapeople-sub003/internal/rbac"
	"github.com/nmang004/proxapeople-sub003/internal/shared"
)

// Handler exposes the check endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	cache     *Cache
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, cache *Cache) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		cache:     cache,
		validator: validator.New(),
	}
}

// MountRoutes registers check endpoints. Checking an arbitrary target user is
// an administrative capability; checking oneself only needs authentication.
func (h *Handler) MountRoutes(r chi.Router, guard Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(guard.Require(rbac.ResourcePermissions, rbac.ActionAdmin))
		r.Post("/check-permission", h.CheckPermission)
	})
	r.Post("/check-my-permission", h.CheckMyPermission)
}

type checkRequest struct {
	UserID   int64  `json:"user_id" validate:"required,gt=0"`
	Resource string `json:"resource" validate:"required,max=100"`
	Action   string `json:"action" validate:"required,max=20"`
}

type checkMyRequest struct {
	Resource string `json:"resource" validate:"required,max=100"`
	Action   string `json:"action" validate:"required,max=20"`
}

type checkResponse struct {
	HasPermission bool `json:"hasPermission"`
}

// CheckPermission evaluates a (user, resource, action) triple for an
// arbitrary target user. Always authoritative; the per-principal cache is
// bypassed so administrators see current policy.
func (h *Handler) CheckPermission(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Argument", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.ValidationProblem(w, err)
		return
	}

	allowed, err := h.service.Check(r.Context(), req.UserID, req.Resource, req.Action)
	if err != nil {
		h.logger.Error("check permission",
			slog.Any("error", err),
			slog.Int64("target_user", req.UserID),
		)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, checkResponse{HasPermission: allowed})
}

// CheckMyPermission evaluates for the calling principal and populates the
// decision cache on the way.
func (h *Handler) CheckMyPermission(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
		return
	}

	var req checkMyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Argument", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.ValidationProblem(w, err)
		return
	}

	action, err := rbac.ParseAction(req.Action)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	allowed, err := h.cache.Check(r.Context(), sess.UserID, req.Resource, action)
	if err != nil {
		h.logger.Error("check my permission", slog.Any("error", err), slog.Int64("user_id", sess.UserID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, checkResponse{HasPermission: allowed})
}
