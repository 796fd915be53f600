// Package services renders a student profile as a PDF resume.
package services

import (
	"bytes"
	"context"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/meuprojeto/portal-estagios/internal/models"
)

// StudentRepository loads the profile to be rendered.
type StudentRepository interface {
	GetStudent(ctx context.Context, id int64) (*models.Student, error)
}

// ResumeService generates PDF resumes from student profiles.
type ResumeService struct {
	students StudentRepository
}

// NewResumeService creates a new ResumeService.
func NewResumeService(students StudentRepository) *ResumeService {
	return &ResumeService{students: students}
}

// Generate renders the student's resume and returns the PDF bytes.
func (s *ResumeService) Generate(ctx context.Context, studentID int64) ([]byte, error) {
	st, err := s.students.GetStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	r := &renderer{pdf: pdf, tr: tr}
	r.personalInfo(st)

	if st.Resumo != "" {
		r.section("Resumo Profissional")
		r.paragraph(st.Resumo)
	}

	if len(st.Educacao) > 0 {
		r.section("Formação Acadêmica")
		for _, e := range st.Educacao {
			r.subtitle(e.Nivel + " em " + e.Curso)
			r.paragraph(e.Instituicao + " | " + formatPeriodo(e.DataInicio, e.DataFim, e.EmAndamento))
			if e.Descricao != "" {
				r.paragraph(e.Descricao)
			}
			pdf.Ln(3)
		}
	}

	if len(st.Experiencia) > 0 {
		r.section("Experiência Profissional")
		for _, e := range st.Experiencia {
			r.subtitle(e.Cargo)
			r.paragraph(e.Empresa + " | " + formatPeriodo(e.DataInicio, e.DataFim, e.Atual))
			if e.Descricao != "" {
				r.paragraph(e.Descricao)
			}
			pdf.Ln(3)
		}
	}

	if len(st.Habilidades) > 0 {
		r.section("Habilidades")
		r.skillsTable(st.Habilidades)
	}

	if len(st.AreasInteresse) > 0 {
		r.section("Áreas de Interesse")
		var buf bytes.Buffer
		for i, a := range st.AreasInteresse {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(a.Nome)
		}
		r.paragraph(buf.String())
	}

	r.links(st)

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

type renderer struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func (r *renderer) personalInfo(st *models.Student) {
	r.pdf.SetFont("Helvetica", "B", 18)
	r.pdf.SetTextColor(64, 64, 64)
	r.pdf.CellFormat(0, 10, r.tr(st.Nome), "", 1, "C", false, 0, "")

	r.pdf.SetFont("Helvetica", "B", 14)
	r.pdf.CellFormat(0, 8, r.tr(st.Curso), "", 1, "C", false, 0, "")
	r.pdf.Ln(4)

	r.pdf.SetTextColor(0, 0, 0)
	r.infoRow("E-mail:", st.Email)
	if st.Telefone != "" {
		r.infoRow("Telefone:", st.Telefone)
	}
	if st.DataNascimento != nil {
		r.infoRow("Data de Nascimento:", st.DataNascimento.Format("02/01/2006"))
	}
	r.pdf.Ln(4)
}

func (r *renderer) infoRow(label, value string) {
	r.pdf.SetFont("Helvetica", "B", 10)
	r.pdf.CellFormat(45, 6, r.tr(label), "", 0, "L", false, 0, "")
	r.pdf.SetFont("Helvetica", "", 10)
	r.pdf.CellFormat(0, 6, r.tr(value), "", 1, "L", false, 0, "")
}

func (r *renderer) section(title string) {
	r.pdf.Ln(4)
	r.pdf.SetFont("Helvetica", "B", 14)
	r.pdf.SetTextColor(64, 64, 64)
	r.pdf.CellFormat(0, 8, r.tr(title), "", 1, "L", false, 0, "")
	x, y := r.pdf.GetX(), r.pdf.GetY()
	r.pdf.Line(x, y, 200, y)
	r.pdf.Ln(2)
	r.pdf.SetTextColor(0, 0, 0)
}

func (r *renderer) subtitle(text string) {
	r.pdf.SetFont("Helvetica", "B", 12)
	r.pdf.SetTextColor(64, 64, 64)
	r.pdf.CellFormat(0, 6, r.tr(text), "", 1, "L", false, 0, "")
	r.pdf.SetTextColor(0, 0, 0)
}

func (r *renderer) paragraph(text string) {
	r.pdf.SetFont("Helvetica", "", 10)
	r.pdf.MultiCell(0, 5, r.tr(text), "", "L", false)
}

func (r *renderer) skillsTable(skills []models.Skill) {
	r.pdf.SetFont("Helvetica", "B", 10)
	r.pdf.SetFillColor(211, 211, 211)
	for _, h := range []string{"Habilidade", "Nível", "Categoria"} {
		r.pdf.CellFormat(63, 7, r.tr(h), "1", 0, "L", true, 0, "")
	}
	r.pdf.Ln(-1)

	r.pdf.SetFont("Helvetica", "", 10)
	for _, sk := range skills {
		r.pdf.CellFormat(63, 7, r.tr(sk.Nome), "1", 0, "L", false, 0, "")
		r.pdf.CellFormat(63, 7, r.tr(sk.Nivel), "1", 0, "L", false, 0, "")
		r.pdf.CellFormat(63, 7, r.tr(sk.Categoria), "1", 0, "L", false, 0, "")
		r.pdf.Ln(-1)
	}
	r.pdf.Ln(3)
}

func (r *renderer) links(st *models.Student) {
	if st.Linkedin == "" && st.Github == "" && st.Portfolio == "" {
		return
	}
	r.section("Links")
	if st.Linkedin != "" {
		r.infoRow("LinkedIn:", st.Linkedin)
	}
	if st.Github != "" {
		r.infoRow("GitHub:", st.Github)
	}
	if st.Portfolio != "" {
		r.infoRow("Portfólio:", st.Portfolio)
	}
}

func formatPeriodo(inicio, fim *time.Time, atual bool) string {
	const layout = "01/2006"
	var start, end string
	if inicio != nil {
		start = inicio.Format(layout)
	}
	if fim != nil {
		end = fim.Format(layout)
	}
	switch {
	case atual:
		return start + " - Atual"
	case start == "" && end == "":
		return ""
	case start == "":
		return "Até " + end
	case end == "":
		return "Desde " + start
	}
	return start + " - " + end
}
