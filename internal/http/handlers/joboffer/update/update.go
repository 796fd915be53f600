// Package update implements the HTTP handler overwriting a job offer's
// mutable fields.
package update

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

// Request carries the offer fields to overwrite. Ownership and activity are
// untouched by updates.
type Request struct {
	Titulo       string `json:"titulo" validate:"required,min=3,max=150"`
	Descricao    string `json:"descricao" validate:"required,max=2000"`
	Localizacao  string `json:"localizacao" validate:"max=150"`
	Modalidade   string `json:"modalidade" validate:"required,oneof=PRESENCIAL REMOTO HIBRIDO"`
	CargaHoraria int    `json:"cargaHoraria" validate:"required,min=1,max=44"`
	Requisitos   string `json:"requisitos" validate:"max=2000"`
	AreaID       int64  `json:"areaId" validate:"required"`
}

// Service is the job offer contract consumed by the handler.
type Service interface {
	Update(ctx context.Context, callerEmail string, callerRole models.Role, o models.JobOffer) error
	Read(ctx context.Context, id int64) (*models.JobOffer, error)
}

// Handler serves PUT /api/job-offers/{id}.
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
// @Summary Update job offer
// @Description Overwrites the mutable fields of an offer. A company caller may only touch its own offers.
// @Tags JobOffers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Offer id"
// @Param request body Request true "Offer fields"
// @Success 200 {object} response.Response "Updated offer"
// @Failure 403 {object} response.ErrorResponse "Offer owned by another company"
// @Failure 404 {object} response.ErrorResponse "Offer not found"
// @Router /job-offers/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.joboffer.update"

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

	modalidade, err := models.ParseModalidade(req.Modalidade)
	if err != nil {
		log.Error("invalid modalidade", sl.Err(err))
		w.WriteHeader(response.StatusFromError(err))
		render.JSON(w, r, response.Error(response.MessageFromError(err)))
		return
	}

	email, _ := middlewarectx.UserEmail(r.Context())
	role, _ := middlewarectx.UserRole(r.Context())

	offer := models.JobOffer{
		ID:           id,
		Titulo:       req.Titulo,
		Descricao:    req.Descricao,
		Localizacao:  req.Localizacao,
		Modalidade:   modalidade,
		CargaHoraria: req.CargaHoraria,
		Requisitos:   req.Requisitos,
		Area:         models.Area{ID: req.AreaID},
	}

	if err := h.service.Update(r.Context(), email, role, offer); err != nil {
		log.Error("failed to update job offer", sl.Err(err))
		w.WriteHeader(response.StatusFromError(err))
		render.JSON(w, r, response.Error(response.MessageFromError(err)))
		return
	}

	updated, err := h.service.Read(r.Context(), id)
	if err != nil {
		log.Error("failed to load updated job offer", sl.Err(err))
		w.WriteHeader(response.StatusFromError(err))
		render.JSON(w, r, response.Error(response.MessageFromError(err)))
		return
	}

	log.Info("updated job offer", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(updated))
}
