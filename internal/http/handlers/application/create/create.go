// Package create implements the HTTP handler submitting the calling student
// to a job offer.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/meuprojeto/portal-estagios/internal/http/middlewarectx"
	"github.com/meuprojeto/portal-estagios/internal/http/response"
	"github.com/meuprojeto/portal-estagios/internal/lib/sl"
	"github.com/meuprojeto/portal-estagios/internal/models"
)

// Request names the offer the calling student applies to. The student is
// always taken from the token, never from the payload.
type Request struct {
	JobOfferID int64 `json:"jobOfferId" validate:"required"`
}

// Service is the application contract consumed by the handler.
type Service interface {
	Create(ctx context.Context, callerEmail string, jobOfferID int64) (int64, error)
	Read(ctx context.Context, callerEmail string, callerRole models.Role, id int64) (*models.Application, error)
}

// Handler serves POST /api/applications.
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
// @Summary Apply to job offer
// @Description Submits the calling student to an active offer. A second submission to the same offer is rejected.
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Target offer"
// @Success 201 {object} response.Response "Created application"
// @Failure 400 {object} response.ErrorResponse "Offer is not active"
// @Failure 404 {object} response.ErrorResponse "Offer not found"
// @Failure 409 {object} response.ErrorResponse "Already applied"
// @Router /applications [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.application.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	email, _ := middlewarectx.UserEmail(r.Context())
	role, _ := middlewarectx.UserRole(r.Context())

	id, err := h.service.Create(r.Context(), email, req.JobOfferID)
	if err != nil {
		log.Error("failed to create application", sl.Err(err))
		w.WriteHeader(response.StatusFromError(err))
		render.JSON(w, r, response.Error(response.MessageFromError(err)))
		return
	}

	created, err := h.service.Read(r.Context(), email, role, id)
	if err != nil {
		log.Error("failed to load created application", sl.Err(err))
		w.WriteHeader(response.StatusFromError(err))
		render.JSON(w, r, response.Error(response.MessageFromError(err)))
		return
	}

	log.Info("created application", slog.Int64("id", id))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(created))
}
