// Package list implements the HTTP handlers for the application listings:
// all applications, one student's and one offer's.
package list

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

// Service is the application contract consumed by the handlers.
type Service interface {
	ListAll(ctx context.Context) ([]*models.Application, error)
	ListByStudent(ctx context.Context, callerEmail string, callerRole models.Role, studentID int64) ([]*models.Application, error)
	ListByJobOffer(ctx context.Context, callerEmail string, callerRole models.Role, jobOfferID int64) ([]*models.Application, error)
}

// Handler serves the GET /api/applications listing routes.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New creates a new Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// All godoc
// @Summary List applications
// @Description Returns every application, newest first.
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "Applications"
// @Router /applications [get]
func (h *Handler) All(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.application.list.all"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	apps, err := h.service.ListAll(r.Context())
	if err != nil {
		log.Error("failed to list applications", sl.Err(err))
		w.WriteHeader(response.StatusFromError(err))
		render.JSON(w, r, response.Error(response.MessageFromError(err)))
		return
	}

	render.JSON(w, r, response.OKWithData(apps))
}

// ByStudent godoc
// @Summary List a student's applications
// @Description Returns one student's applications, newest first. A student caller may only list their own.
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student id"
// @Success 200 {object} response.Response "Applications"
// @Failure 403 {object} response.ErrorResponse "Another student's applications"
// @Router /applications/student/{id} [get]
func (h *Handler) ByStudent(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.application.list.bystudent"

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

	apps, err := h.service.ListByStudent(r.Context(), email, role, id)
	if err != nil {
		log.Error("failed to list applications by student", sl.Err(err))
		w.WriteHeader(response.StatusFromError(err))
		render.JSON(w, r, response.Error(response.MessageFromError(err)))
		return
	}

	render.JSON(w, r, response.OKWithData(apps))
}

// ByJobOffer godoc
// @Summary List an offer's applications
// @Description Returns the applications to one offer, newest first. A company caller may only list its own offers.
// @Tags Applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Offer id"
// @Success 200 {object} response.Response "Applications"
// @Failure 403 {object} response.ErrorResponse "Offer owned by another company"
// @Failure 404 {object} response.ErrorResponse "Offer not found"
// @Router /applications/job-offer/{id} [get]
func (h *Handler) ByJobOffer(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.application.list.byjoboffer"

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

	apps, err := h.service.ListByJobOffer(r.Context(), email, role, id)
	if err != nil {
		log.Error("failed to list applications by job offer", sl.Err(err))
		w.WriteHeader(response.StatusFromError(err))
		render.JSON(w, r, response.Error(response.MessageFromError(err)))
		return
	}

	render.JSON(w, r, response.OKWithData(apps))
}
