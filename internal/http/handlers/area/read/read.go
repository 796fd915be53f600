// Package read implements the HTTP handler returning one area.
package read

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/meuprojeto/portal-estagios/internal/http/response"
	"github.com/meuprojeto/portal-estagios/internal/lib/sl"
	"github.com/meuprojeto/portal-estagios/internal/models"
)

// Service is the area contract consumed by the handler.
type Service interface {
	Read(ctx context.Context, id int64) (*models.Area, error)
}

// Handler serves GET /api/areas/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New creates a new Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Get area
// @Description Returns one area by id.
// @Tags Areas
// @Produce json
// @Param id path int true "Area id"
// @Success 200 {object} response.Response "Area"
// @Failure 400 {object} response.ErrorResponse "Malformed id"
// @Failure 404 {object} response.ErrorResponse "Area not found"
// @Router /areas/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.area.read"

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

	area, err := h.service.Read(r.Context(), id)
	if err != nil {
		log.Error("failed to read area", sl.Err(err))
		w.WriteHeader(response.StatusFromError(err))
		render.JSON(w, r, response.Error(response.MessageFromError(err)))
		return
	}

	render.JSON(w, r, response.OKWithData(area))
}
