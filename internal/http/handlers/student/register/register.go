// Package register implements the public HTTP handler for student
// self-registration.
package register

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/meuprojeto/portal-estagios/internal/http/response"
	"github.com/meuprojeto/portal-estagios/internal/lib/sl"
	"github.com/meuprojeto/portal-estagios/internal/models"
)

const dateLayout = "2006-01-02"

// AreaRef points to an existing area by id.
type AreaRef struct {
	ID int64 `json:"id" validate:"required"`
}

// EducationEntry is one item of the student's academic history.
type EducationEntry struct {
	Nivel       string `json:"nivel" validate:"required,max=50"`
	Curso       string `json:"curso" validate:"required,max=150"`
	Instituicao string `json:"instituicao" validate:"required,max=150"`
	DataInicio  string `json:"dataInicio" validate:"omitempty,datetime=2006-01-02"`
	DataFim     string `json:"dataFim" validate:"omitempty,datetime=2006-01-02"`
	EmAndamento bool   `json:"emAndamento"`
	Descricao   string `json:"descricao" validate:"max=500"`
}

// ExperienceEntry is one item of the student's professional history.
type ExperienceEntry struct {
	Cargo      string `json:"cargo" validate:"required,max=150"`
	Empresa    string `json:"empresa" validate:"required,max=150"`
	DataInicio string `json:"dataInicio" validate:"omitempty,datetime=2006-01-02"`
	DataFim    string `json:"dataFim" validate:"omitempty,datetime=2006-01-02"`
	Atual      bool   `json:"atual"`
	Descricao  string `json:"descricao" validate:"max=500"`
}

// SkillEntry is one item of the student's skill list.
type SkillEntry struct {
	Nome      string `json:"nome" validate:"required,max=100"`
	Nivel     string `json:"nivel" validate:"max=50"`
	Categoria string `json:"categoria" validate:"max=50"`
}

// Request carries the new student's fields.
type Request struct {
	Nome           string            `json:"nome" validate:"required,min=2,max=150"`
	Email          string            `json:"email" validate:"required,email"`
	Senha          string            `json:"senha" validate:"required,min=6"`
	Telefone       string            `json:"telefone" validate:"max=20"`
	CPF            string            `json:"cpf" validate:"required,min=11,max=14"`
	Curso          string            `json:"curso" validate:"required,max=150"`
	DataNascimento string            `json:"dataNascimento" validate:"omitempty,datetime=2006-01-02"`
	Linkedin       string            `json:"linkedin" validate:"max=255"`
	Github         string            `json:"github" validate:"max=255"`
	Portfolio      string            `json:"portfolio" validate:"max=255"`
	Resumo         string            `json:"resumo" validate:"max=2000"`
	Educacao       []EducationEntry  `json:"educacao" validate:"dive"`
	Experiencia    []ExperienceEntry `json:"experiencia" validate:"dive"`
	Habilidades    []SkillEntry      `json:"habilidades" validate:"dive"`
	AreasInteresse []AreaRef         `json:"areasInteresse" validate:"dive"`
}

// Service is the student contract consumed by the handler.
type Service interface {
	Register(ctx context.Context, st models.Student, senha string) (int64, error)
	Read(ctx context.Context, id int64) (*models.Student, error)
}

// Handler serves POST /api/students.
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

// ToModel converts the request into the domain student.
func (req *Request) ToModel() models.Student {
	st := models.Student{
		User: models.User{
			Nome:     req.Nome,
			Email:    req.Email,
			Telefone: req.Telefone,
		},
		CPF:            req.CPF,
		Curso:          req.Curso,
		DataNascimento: parseDate(req.DataNascimento),
		Linkedin:       req.Linkedin,
		Github:         req.Github,
		Portfolio:      req.Portfolio,
		Resumo:         req.Resumo,
	}
	for _, e := range req.Educacao {
		st.Educacao = append(st.Educacao, models.Education{
			Nivel:       e.Nivel,
			Curso:       e.Curso,
			Instituicao: e.Instituicao,
			DataInicio:  parseDate(e.DataInicio),
			DataFim:     parseDate(e.DataFim),
			EmAndamento: e.EmAndamento,
			Descricao:   e.Descricao,
		})
	}
	for _, e := range req.Experiencia {
		st.Experiencia = append(st.Experiencia, models.Experience{
			Cargo:      e.Cargo,
			Empresa:    e.Empresa,
			DataInicio: parseDate(e.DataInicio),
			DataFim:    parseDate(e.DataFim),
			Atual:      e.Atual,
			Descricao:  e.Descricao,
		})
	}
	for _, sk := range req.Habilidades {
		st.Habilidades = append(st.Habilidades, models.Skill{
			Nome:      sk.Nome,
			Nivel:     sk.Nivel,
			Categoria: sk.Categoria,
		})
	}
	for _, a := range req.AreasInteresse {
		st.AreasInteresse = append(st.AreasInteresse, models.Area{ID: a.ID})
	}
	return st
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

// ServeHTTP godoc
// @Summary Register student
// @Description Self-registration of a STUDENT identity with the full profile. Public.
// @Tags Students
// @Accept json
// @Produce json
// @Param request body Request true "Student fields"
// @Success 201 {object} response.Response "Created student"
// @Failure 400 {object} response.ErrorResponse "Malformed JSON"
// @Failure 409 {object} response.ErrorResponse "Email or cpf already in use"
// @Failure 422 {object} response.ErrorResponse "Validation failure"
// @Router /students [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.student.register"

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

	id, err := h.service.Register(r.Context(), req.ToModel(), req.Senha)
	if err != nil {
		log.Error("failed to register student", sl.Err(err))
		w.WriteHeader(response.StatusFromError(err))
		render.JSON(w, r, response.Error(response.MessageFromError(err)))
		return
	}

	created, err := h.service.Read(r.Context(), id)
	if err != nil {
		log.Error("failed to load created student", sl.Err(err))
		w.WriteHeader(response.StatusFromError(err))
		render.JSON(w, r, response.Error(response.MessageFromError(err)))
		return
	}

	log.Info("registered student", slog.Int64("id", id))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(created))
}
