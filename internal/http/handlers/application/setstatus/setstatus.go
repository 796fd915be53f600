// Package setstatus implements the HTTP handler changing an application's
// review status.
package setstatus

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/meuprojeto/portal-estagios/internal/http/middlewarectx"
	"github.com/meuprojeto/portal-estagios/internal/http/response"
	"github.com/meuprojeto/portal-estagios/internal/lib/sl"
	"github.com/meuprojeto/portal-estagios/internal/models"
)

// Request names the next review status. Any valid status is accepted as the
// next one; only enum validity is checked.
type Request struct {
	Status string `json:"status" validate:"required"`
}

// Service is the application contract consumed by the handler.
type Service interface {
	SetStatus(ctx context.Context, callerEmail string, callerRole models.Role, id int64, status models.Status) (*models.Application, error)
}

// Handler serves PATCH /api/applications/{id}/status.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New creates a new Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Change application status
// @Description Sets the review status of an application. A company caller may only review applications to its own offers.
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application id"
// @Param request body Request true "Next status"
// @Success 200 {object} response.Response "Updated application"
// @Failure 400 {object} response.ErrorResponse "Unknown status value"
// @Failure 403 {object} response.ErrorResponse "Offer owned by another company"
// @Failure 404 {object} response.ErrorResponse "Application not found"
// @Router /applications/{id}/status [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.application.setstatus"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	status, err := models.ParseStatus(req.Status)
	if err != nil {
		log.Error("invalid status", sl.Err(err))
		w.WriteHeader(response.StatusFromError(err))
		render.JSON(w, r, response.Error(response.MessageFromError(err)))
		return
	}

	email, _ := middlewarectx.UserEmail(r.Context())
	role, _ := middlewarectx.UserRole(r.Context())

	app, err := h.service.SetStatus(r.Context(), email, role, id, status)
	if err != nil {
		log.Error("failed to set application status", sl.Err(err))
		w.WriteHeader(response.StatusFromError(err))
		render.JSON(w, r, response.Error(response.MessageFromError(err)))
		return
	}

	log.Info("updated application status",
		slog.Int64("id", id), slog.String("status", string(status)))
	render.JSON(w, r, response.OKWithData(app))
}
