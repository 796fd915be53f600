// Package list implements the HTTP handlers for the job offer listings: the
// public active feed plus the by-company, by-area and by-area-set views.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/meuprojeto/portal-estagios/internal/http/response"
	"github.com/meuprojeto/portal-estagios/internal/lib/sl"
	"github.com/meuprojeto/portal-estagios/internal/models"
)

// Service is the job offer contract consumed by the handlers.
type Service interface {
	ListActive(ctx context.Context) ([]*models.JobOffer, error)
	ListActiveByCompany(ctx context.Context, companyID int64) ([]*models.JobOffer, error)
	ListActiveByArea(ctx context.Context, areaID int64) ([]*models.JobOffer, error)
	ListActiveByAreas(ctx context.Context, areaIDs []int64) ([]*models.JobOffer, error)
}

// Handler serves the GET /api/job-offers listing routes.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New creates a new Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// Active godoc
// @Summary List active job offers
// @Description Returns every active offer, newest first.
// @Tags JobOffers
// @Produce json
// @Success 200 {object} response.Response "Offers"
// @Router /job-offers [get]
func (h *Handler) Active(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.joboffer.list.active"
	h.respond(w, r, op, func(ctx context.Context) ([]*models.JobOffer, error) {
		return h.service.ListActive(ctx)
	})
}

// ByCompany godoc
// @Summary List active offers of a company
// @Description Returns the active offers of one company, newest first.
// @Tags JobOffers
// @Produce json
// @Param id path int true "Company id"
// @Success 200 {object} response.Response "Offers"
// @Router /job-offers/company/{id} [get]
func (h *Handler) ByCompany(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.joboffer.list.bycompany"

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.badRequest(w, r, op, "invalid id", err)
		return
	}
	h.respond(w, r, op, func(ctx context.Context) ([]*models.JobOffer, error) {
		return h.service.ListActiveByCompany(ctx, id)
	})
}

// ByArea godoc
// @Summary List active offers in an area
// @Description Returns the active offers tagged with one area, newest first.
// @Tags JobOffers
// @Produce json
// @Param id path int true "Area id"
// @Success 200 {object} response.Response "Offers"
// @Router /job-offers/area/{id} [get]
func (h *Handler) ByArea(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.joboffer.list.byarea"

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.badRequest(w, r, op, "invalid id", err)
		return
	}
	h.respond(w, r, op, func(ctx context.Context) ([]*models.JobOffer, error) {
		return h.service.ListActiveByArea(ctx, id)
	})
}

// ByAreas godoc
// @Summary List active offers in a set of areas
// @Description Returns the active offers whose area id is in the comma-separated ids parameter.
// @Tags JobOffers
// @Produce json
// @Param ids query string true "Comma-separated area ids" example(1,2,3)
// @Success 200 {object} response.Response "Offers"
// @Router /job-offers/areas [get]
func (h *Handler) ByAreas(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.joboffer.list.byareas"

	raw := r.URL.Query().Get("ids")
	if raw == "" {
		h.badRequest(w, r, op, "missing ids parameter", nil)
		return
	}

	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			h.badRequest(w, r, op, "invalid ids parameter", err)
			return
		}
		ids = append(ids, id)
	}

	h.respond(w, r, op, func(ctx context.Context) ([]*models.JobOffer, error) {
		return h.service.ListActiveByAreas(ctx, ids)
	})
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, op string, query func(context.Context) ([]*models.JobOffer, error)) {
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	offers, err := query(r.Context())
	if err != nil {
		log.Error("failed to list job offers", sl.Err(err))
		w.WriteHeader(response.StatusFromError(err))
		render.JSON(w, r, response.Error(response.MessageFromError(err)))
		return
	}

	render.JSON(w, r, response.OKWithData(offers))
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, op, msg string, err error) {
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	if err != nil {
		log.Error(msg, sl.Err(err))
	} else {
		log.Error(msg)
	}
	w.WriteHeader(http.StatusBadRequest)
	render.JSON(w, r, response.Error(msg))
}
