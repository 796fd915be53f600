// Package close implements the HTTP handler closing a job offer.
package close

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
	Close(ctx context.Context, callerEmail string, callerRole models.Role, id int64) (*models.JobOffer, error)
}

// Handler serves PATCH /api/job-offers/{id}/encerrar.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New creates a new Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Close job offer
// @Description Deactivates an offer and stamps its closing time. Closing an already closed offer changes nothing. A company caller may only close its own offers.
// @Tags JobOffers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Offer id"
// @Success 200 {object} response.Response "Closed offer"
// @Failure 403 {object} response.ErrorResponse "Offer owned by another company"
// @Failure 404 {object} response.ErrorResponse "Offer not found"
// @Router /job-offers/{id}/encerrar [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.joboffer.close"

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

	closed, err := h.service.Close(r.Context(), email, role, id)
	if err != nil {
		log.Error("failed to close job offer", sl.Err(err))
		w.WriteHeader(response.StatusFromError(err))
		render.JSON(w, r, response.Error(response.MessageFromError(err)))
		return
	}

	log.Info("closed job offer", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(closed))
}
