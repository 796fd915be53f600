// Package register implements the public HTTP handler for company
// self-registration.
package register

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/meuprojeto/portal-estagios/internal/http/response"
	"github.com/meuprojeto/portal-estagios/internal/lib/sl"
	"github.com/meuprojeto/portal-estagios/internal/models"
)

// AreaRef points to an existing area by id.
type AreaRef struct {
	ID int64 `json:"id" validate:"required"`
}

// Request carries the new company's fields.
type Request struct {
	Nome         string    `json:"nome" validate:"required,min=2,max=150"`
	Email        string    `json:"email" validate:"required,email"`
	Senha        string    `json:"senha" validate:"required,min=6"`
	Telefone     string    `json:"telefone" validate:"max=20"`
	CNPJ         string    `json:"cnpj" validate:"required,min=14,max=18"`
	Endereco     string    `json:"endereco" validate:"max=255"`
	AreasAtuacao []AreaRef `json:"areasAtuacao" validate:"dive"`
}

// Service is the company contract consumed by the handler.
type Service interface {
	Register(ctx context.Context, c models.Company, senha string) (int64, error)
	Read(ctx context.Context, id int64) (*models.Company, error)
}

// Handler serves POST /api/companies.
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
// @Summary Register company
// @Description Self-registration of a COMPANY identity. Public.
// @Tags Companies
// @Accept json
// @Produce json
// @Param request body Request true "Company fields"
// @Success 201 {object} response.Response "Created company"
// @Failure 400 {object} response.ErrorResponse "Malformed JSON"
// @Failure 409 {object} response.ErrorResponse "Email or cnpj already in use"
// @Failure 422 {object} response.ErrorResponse "Validation failure"
// @Router /companies [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.company.register"

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

	company := models.Company{
		User: models.User{
			Nome:     req.Nome,
			Email:    req.Email,
			Telefone: req.Telefone,
		},
		CNPJ:     req.CNPJ,
		Endereco: req.Endereco,
	}
	for _, a := range req.AreasAtuacao {
		company.AreasAtuacao = append(company.AreasAtuacao, models.Area{ID: a.ID})
	}

	id, err := h.service.Register(r.Context(), company, req.Senha)
	if err != nil {
		log.Error("failed to register company", sl.Err(err))
		w.WriteHeader(response.StatusFromError(err))
		render.JSON(w, r, response.Error(response.MessageFromError(err)))
		return
	}

	created, err := h.service.Read(r.Context(), id)
	if err != nil {
		log.Error("failed to load created company", sl.Err(err))
		w.WriteHeader(response.StatusFromError(err))
		render.JSON(w, r, response.Error(response.MessageFromError(err)))
		return
	}

	log.Info("registered company", slog.Int64("id", id))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(created))
}
