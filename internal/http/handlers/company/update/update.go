// Package update implements the HTTP handler overwriting a company profile.
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

	"github.com/meuprojeto/portal-estagios/internal/http/response"
	"github.com/meuprojeto/portal-estagios/internal/lib/sl"
	"github.com/meuprojeto/portal-estagios/internal/models"
)

// AreaRef points to an existing area by id.
type AreaRef struct {
	ID int64 `json:"id" validate:"required"`
}

// Request carries the company fields to overwrite. An empty senha keeps the
// current one.
type Request struct {
	Nome         string    `json:"nome" validate:"required,min=2,max=150"`
	Email        string    `json:"email" validate:"required,email"`
	Senha        string    `json:"senha" validate:"omitempty,min=6"`
	Telefone     string    `json:"telefone" validate:"max=20"`
	CNPJ         string    `json:"cnpj" validate:"required,min=14,max=18"`
	Endereco     string    `json:"endereco" validate:"max=255"`
	AreasAtuacao []AreaRef `json:"areasAtuacao" validate:"dive"`
}

// Service is the company contract consumed by the handler.
type Service interface {
	Update(ctx context.Context, c models.Company, senha string) error
	Read(ctx context.Context, id int64) (*models.Company, error)
}

// Handler serves PUT /api/companies/{id}.
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
// @Summary Update company
// @Description Overwrites a company profile. The policy admits ADMIN and COMPANY roles without an ownership check.
// @Tags Companies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Company id"
// @Param request body Request true "Company fields"
// @Success 200 {object} response.Response "Updated company"
// @Failure 404 {object} response.ErrorResponse "Company not found"
// @Failure 409 {object} response.ErrorResponse "Email or cnpj already in use"
// @Router /companies/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.company.update"

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

	company := models.Company{
		User: models.User{
			ID:       id,
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

	if err := h.service.Update(r.Context(), company, req.Senha); err != nil {
		log.Error("failed to update company", sl.Err(err))
		w.WriteHeader(response.StatusFromError(err))
		render.JSON(w, r, response.Error(response.MessageFromError(err)))
		return
	}

	updated, err := h.service.Read(r.Context(), id)
	if err != nil {
		log.Error("failed to load updated company", sl.Err(err))
		w.WriteHeader(response.StatusFromError(err))
		render.JSON(w, r, response.Error(response.MessageFromError(err)))
		return
	}

	log.Info("updated company", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(updated))
}
