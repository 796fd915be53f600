// Package remove implements the HTTP handler deleting a job offer.
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

// Service is the job offer contract consumed by the handler.
type Service interface {
	Remove(ctx context.Context, callerEmail string, callerRole models.Role, id int64) error
}

// Handler serves DELETE /api/job-offers/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New creates a new Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Delete job offer
// @Description Removes an offer together with its applications. A company caller may only delete its own offers.
// @Tags JobOffers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Offer id"
// @Success 200 {object} response.Response "Deleted"
// @Failure 403 {object} response.ErrorResponse "Offer owned by another company"
// @Failure 404 {object} response.ErrorResponse "Offer not found"
// @Router /job-offers/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.joboffer.remove"

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
		log.Error("failed to remove job offer", sl.Err(err))
		w.WriteHeader(response.StatusFromError(err))
		render.JSON(w, r, response.Error(response.MessageFromError(err)))
		return
	}

	log.Info("removed job offer", slog.Int64("id", id))
	render.JSON(w, r, response.OK())
}
