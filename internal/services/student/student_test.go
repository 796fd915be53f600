package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/meuprojeto/portal-estagios/internal/lib/password"
	"github.com/meuprojeto/portal-estagios/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateStudent(ctx context.Context, st models.Student) (int64, error) {
	args := m.Called(ctx, st)
	return args.Get(0).(int64), args.Error(1)
}
func (m *RepoMock) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Student), args.Error(1)
}
func (m *RepoMock) GetStudentByEmail(ctx context.Context, email string) (*models.Student, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Student), args.Error(1)
}
func (m *RepoMock) ListStudents(ctx context.Context) ([]*models.Student, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Student), args.Error(1)
}
func (m *RepoMock) UpdateStudent(ctx context.Context, st models.Student) error {
	return m.Called(ctx, st).Error(0)
}
func (m *RepoMock) DeleteStudent(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *RepoMock) StudentExistsByCPF(ctx context.Context, cpf string) (bool, error) {
	args := m.Called(ctx, cpf)
	return args.Bool(0), args.Error(1)
}
func (m *RepoMock) UserExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestStudentService_Register(t *testing.T) {
	repo := new(RepoMock)
	svc := NewStudentService(repo, newNoopLogger())

	repo.On("UserExistsByEmail", mock.Anything, "aluno@teste.com").Return(false, nil).Once()
	repo.On("StudentExistsByCPF", mock.Anything, "12345678901").Return(false, nil).Once()
	repo.On("CreateStudent", mock.Anything, mock.MatchedBy(func(st models.Student) bool {
		return st.Role == models.RoleStudent &&
			password.CompareHash(st.SenhaHash, "senha123") == nil
	})).Return(int64(3), nil).Once()

	student := models.Student{
		User: models.User{Nome: "Aluno Teste", Email: "aluno@teste.com"},
		CPF:  "12345678901",
	}
	id, err := svc.Register(context.Background(), student, "senha123")
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)
	repo.AssertExpectations(t)
}

func TestStudentService_Register_CPFTaken(t *testing.T) {
	repo := new(RepoMock)
	svc := NewStudentService(repo, newNoopLogger())

	repo.On("UserExistsByEmail", mock.Anything, "aluno@teste.com").Return(false, nil).Once()
	repo.On("StudentExistsByCPF", mock.Anything, "12345678901").Return(true, nil).Once()

	_, err := svc.Register(context.Background(), models.Student{
		User: models.User{Email: "aluno@teste.com"},
		CPF:  "12345678901",
	}, "senha123")
	assert.ErrorIs(t, err, models.ErrConflict)
	repo.AssertNotCalled(t, "CreateStudent", mock.Anything, mock.Anything)
}

func TestStudentService_Update_ReplacesCollections(t *testing.T) {
	repo := new(RepoMock)
	svc := NewStudentService(repo, newNoopLogger())

	student := models.Student{
		User: models.User{ID: 3},
		Habilidades: []models.Skill{
			{Nome: "Go", Nivel: "Avançado", Categoria: "Backend"},
		},
	}
	repo.On("UpdateStudent", mock.Anything, mock.MatchedBy(func(st models.Student) bool {
		return len(st.Habilidades) == 1 && st.SenhaHash == ""
	})).Return(nil).Once()

	err := svc.Update(context.Background(), student, "")
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestStudentService_ReadByEmail(t *testing.T) {
	repo := new(RepoMock)
	svc := NewStudentService(repo, newNoopLogger())

	want := &models.Student{User: models.User{ID: 3, Email: "aluno@teste.com"}}
	repo.On("GetStudentByEmail", mock.Anything, "aluno@teste.com").Return(want, nil).Once()

	got, err := svc.ReadByEmail(context.Background(), "aluno@teste.com")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStudentService_Remove_NotFound(t *testing.T) {
	repo := new(RepoMock)
	svc := NewStudentService(repo, newNoopLogger())

	repo.On("DeleteStudent", mock.Anything, int64(9)).Return(models.ErrNotFound).Once()

	err := svc.Remove(context.Background(), 9)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
