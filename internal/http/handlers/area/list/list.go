// Package list implements the HTTP handler returning every area.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/meuprojeto/portal-estagios/internal/http/response"
	"github.com/meuprojeto/portal-estagios/internal/lib/sl"
	"github.com/meuprojeto/portal-estagios/internal/models"
)

// Service is the area contract consumed by the handler.
type Service interface {
	List(ctx context.Context) ([]models.Area, error)
}

// Handler serves GET /api/areas.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New creates a new Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary List areas
// @Description Returns every area ordered by nome.
// @Tags Areas
// @Produce json
// @Success 200 {object} response.Response "Areas"
// @Router /areas [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.area.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	areas, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list areas", sl.Err(err))
		w.WriteHeader(response.StatusFromError(err))
		render.JSON(w, r, response.Error(response.MessageFromError(err)))
		return
	}

	render.JSON(w, r, response.OKWithData(areas))
}
