package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/meuprojeto/portal-estagios/internal/models"
)

type StudentRepoMock struct{ mock.Mock }

func (m *StudentRepoMock) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Student), args.Error(1)
}

func TestResumeService_Generate(t *testing.T) {
	repo := new(StudentRepoMock)
	svc := NewResumeService(repo)

	birth := time.Date(2001, 5, 20, 0, 0, 0, 0, time.UTC)
	start := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)
	repo.On("GetStudent", mock.Anything, int64(3)).Return(&models.Student{
		User: models.User{
			ID:       3,
			Nome:     "João da Silva",
			Email:    "joao@teste.com",
			Telefone: "11999998888",
		},
		CPF:            "12345678901",
		Curso:          "Ciência da Computação",
		DataNascimento: &birth,
		Linkedin:       "https://linkedin.com/in/joao",
		Resumo:         "Estudante de computação com interesse em backend.",
		Educacao: []models.Education{
			{Nivel: "Graduação", Curso: "Ciência da Computação", Instituicao: "USP", DataInicio: &start, EmAndamento: true},
		},
		Experiencia: []models.Experience{
			{Cargo: "Estagiário", Empresa: "Empresa Teste", DataInicio: &start, Atual: true},
		},
		Habilidades: []models.Skill{
			{Nome: "Go", Nivel: "Intermediário", Categoria: "Backend"},
		},
		AreasInteresse: []models.Area{{ID: 1, Nome: "Tecnologia"}},
	}, nil).Once()

	pdf, err := svc.Generate(context.Background(), 3)
	require.NoError(t, err)
	require.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestResumeService_Generate_MinimalProfile(t *testing.T) {
	repo := new(StudentRepoMock)
	svc := NewResumeService(repo)

	repo.On("GetStudent", mock.Anything, int64(5)).Return(&models.Student{
		User: models.User{ID: 5, Nome: "Maria", Email: "maria@teste.com"},
	}, nil).Once()

	pdf, err := svc.Generate(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestResumeService_Generate_UnknownStudent(t *testing.T) {
	repo := new(StudentRepoMock)
	svc := NewResumeService(repo)

	repo.On("GetStudent", mock.Anything, int64(99)).Return(nil, models.ErrNotFound).Once()

	_, err := svc.Generate(context.Background(), 99)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestFormatPeriodo(t *testing.T) {
	start := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		inicio *time.Time
		fim    *time.Time
		atual  bool
		want   string
	}{
		{"ongoing", &start, nil, true, "03/2022 - Atual"},
		{"closed range", &start, &end, false, "03/2022 - 11/2023"},
		{"only start", &start, nil, false, "Desde 03/2022"},
		{"only end", nil, &end, false, "Até 11/2023"},
		{"nothing", nil, nil, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatPeriodo(tt.inicio, tt.fim, tt.atual))
		})
	}
}
