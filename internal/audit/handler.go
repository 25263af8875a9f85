package audit

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nmang004/proxapeople-sub003/internal/authz"
	"github.com/nmang004/proxapeople-sub003/internal/platform/httpx"
	"github.com/nmang004/proxapeople-sub003/internal/rbac"
	"github.com/nmang004/proxapeople-sub003/internal/shared"
)

// Handler exposes the audit trail over HTTP.
type Handler struct {
	logger   *slog.Logger
	recorder *Recorder
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, recorder *Recorder) *Handler {
	return &Handler{logger: logger, recorder: recorder}
}

// MountRoutes registers audit routes.
func (h *Handler) MountRoutes(r chi.Router, guard authz.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(guard.Require(rbac.ResourceAudit, rbac.ActionView))
		r.Get("/audit", h.List)
	})
}

type listResponse struct {
	Entries    []Entry           `json:"entries"`
	Pagination shared.Pagination `json:"pagination"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := shared.PageParams(r)
	entries, pagination, err := h.recorder.List(r.Context(), page, perPage)
	if err != nil {
		h.logger.Error("list audit entries", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	httpx.JSON(w, http.StatusOK, listResponse{Entries: entries, Pagination: pagination})
}
