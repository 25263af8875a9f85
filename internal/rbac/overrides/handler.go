package overrides

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/nmang004/proxapeople-sub003/internal/platform/httpx"
	"github.com/nmang004/proxapeople-sub003/internal/shared"
)

// Handler exposes user permission overrides over HTTP.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
	}
}

func (h *Handler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Argument", "invalid user id")
		return
	}
	list, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("list overrides", slog.Any("error", err), slog.Int64("user_id", userID))
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []Override{}
	}
	httpx.JSON(w, http.StatusOK, ListOverridesResponse{Overrides: list})
}

func (h *Handler) Set(w http.ResponseWriter, r *http.Request) {
	var req SetOverrideRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Argument", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.ValidationProblem(w, err)
		return
	}

	sess := shared.SessionFromContext(r.Context())
	ov, err := h.service.Set(r.Context(), req, sess.UserID)
	if err != nil {
		h.logger.Error("set override", slog.Any("error", err), slog.Int64("target_user", req.UserID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, ov)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Argument", "invalid override id")
		return
	}
	sess := shared.SessionFromContext(r.Context())
	if err := h.service.Delete(r.Context(), id, sess.UserID); err != nil {
		h.logger.Error("delete override", slog.Any("error", err), slog.Int64("id", id))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
