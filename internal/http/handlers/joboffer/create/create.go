// Package create implements the HTTP handler registering a new job offer.
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

// Request carries the new offer's fields. Company is taken from the caller's
// identity, not from the payload.
type Request struct {
	Titulo       string `json:"titulo" validate:"required,min=3,max=150"`
	Descricao    string `json:"descricao" validate:"required,max=2000"`
	Localizacao  string `json:"localizacao" validate:"max=150"`
	Modalidade   string `json:"modalidade" validate:"required,oneof=PRESENCIAL REMOTO HIBRIDO"`
	CargaHoraria int    `json:"cargaHoraria" validate:"required,min=1,max=44"`
	Requisitos   string `json:"requisitos" validate:"max=2000"`
	AreaID       int64  `json:"areaId" validate:"required"`
	CompanyID    int64  `json:"companyId"`
}

// Service is the job offer contract consumed by the handler.
type Service interface {
	Create(ctx context.Context, callerEmail string, callerRole models.Role, o models.JobOffer) (int64, error)
	Read(ctx context.Context, id int64) (*models.JobOffer, error)
}

// Handler serves POST /api/job-offers.
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
// @Summary Create job offer
// @Description Registers an active offer owned by the calling company. Only companies create offers, and the caller always owns the new offer, whatever companyId the payload names.
// @Tags JobOffers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Offer fields"
// @Success 201 {object} response.Response "Created offer"
// @Failure 400 {object} response.ErrorResponse "Malformed JSON or unknown modalidade"
// @Failure 403 {object} response.ErrorResponse "Caller is not a company"
// @Failure 404 {object} response.ErrorResponse "Area or company profile not found"
// @Failure 422 {object} response.ErrorResponse "Validation failure"
// @Router /job-offers [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.joboffer.create"

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
		Titulo:       req.Titulo,
		Descricao:    req.Descricao,
		Localizacao:  req.Localizacao,
		Modalidade:   modalidade,
		CargaHoraria: req.CargaHoraria,
		Requisitos:   req.Requisitos,
		Company:      models.CompanySummary{ID: req.CompanyID},
		Area:         models.Area{ID: req.AreaID},
	}

	id, err := h.service.Create(r.Context(), email, role, offer)
	if err != nil {
		log.Error("failed to create job offer", sl.Err(err))
		w.WriteHeader(response.StatusFromError(err))
		render.JSON(w, r, response.Error(response.MessageFromError(err)))
		return
	}

	created, err := h.service.Read(r.Context(), id)
	if err != nil {
		log.Error("failed to load created job offer", sl.Err(err))
		w.WriteHeader(response.StatusFromError(err))
		render.JSON(w, r, response.Error(response.MessageFromError(err)))
		return
	}

	log.Info("created job offer", slog.Int64("id", id))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(created))
}
