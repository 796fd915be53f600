// Package remove implements the HTTP handler withdrawing an application.
package remove

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/meuprojeto/portal-estagios/internal/http/middlewarectx"
	"github.com/meuprojeto/portal-estagios/internal/http/response"
	"github.com/meuprojeto/portal-estagios/internal/lib/sl"
	"github.com/meuprojeto/portal-estagios/internal/models"
)

// Service is the application contract consumed by the handler.
type Service interface {
	Remove(ctx context.Context, callerEmail string, callerRole models.Role, id int64) error
}

// Handler serves DELETE /api/applications/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New creates a new Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Withdraw application
// @Description Deletes an application. A student caller may only withdraw their own.
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application id"
// @Success 200 {object} response.Response "Deleted"
// @Failure 403 {object} response.ErrorResponse "Another student's application"
// @Failure 404 {object} response.ErrorResponse "Application not found"
// @Router /applications/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.application.remove"

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

	email, _ := middlewarectx.UserEmail(r.Context())
	role, _ := middlewarectx.UserRole(r.Context())

	if err := h.service.Remove(r.Context(), email, role, id); err != nil {
		log.Error("failed to remove application", sl.Err(err))
		w.WriteHeader(response.StatusFromError(err))
		render.JSON(w, r, response.Error(response.MessageFromError(err)))
		return
	}

	log.Info("removed application", slog.Int64("id", id))
	render.JSON(w, r, response.OK())
}
