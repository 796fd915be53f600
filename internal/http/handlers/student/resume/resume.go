// Package resume implements the HTTP handler serving a student's resume as
// a PDF download.
package resume

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
)

// Service renders the resume PDF.
type Service interface {
	Generate(ctx context.Context, studentID int64) ([]byte, error)
}

// Handler serves GET /api/students/{id}/resume.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New creates a new Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Download resume
// @Description Renders the student's profile as a PDF and returns it as an attachment.
// @Tags Students
// @Produce application/pdf
// @Param id path int true "Student id"
// @Success 200 {file} binary "PDF resume"
// @Failure 404 {object} response.ErrorResponse "Student not found"
// @Failure 500 {object} response.ErrorResponse "Render failure"
// @Router /students/{id}/resume [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.student.resume"

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

	pdf, err := h.service.Generate(r.Context(), id)
	if err != nil {
		log.Error("failed to generate resume", sl.Err(err))
		w.WriteHeader(response.StatusFromError(err))
		render.JSON(w, r, response.Error(response.MessageFromError(err)))
		return
	}

	log.Info("generated resume", slog.Int64("student_id", id))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="curriculo.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	_, _ = w.Write(pdf)
}
