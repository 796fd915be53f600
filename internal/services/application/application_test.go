package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/meuprojeto/portal-estagios/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateApplication(ctx context.Context, studentID, jobOfferID int64) (int64, error) {
	args := m.Called(ctx, studentID, jobOfferID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *RepoMock) GetApplication(ctx context.Context, id int64) (*models.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}
func (m *RepoMock) GetApplicationByStudentAndOffer(ctx context.Context, studentID, jobOfferID int64) (*models.Application, error) {
	args := m.Called(ctx, studentID, jobOfferID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}
func (m *RepoMock) ApplicationExists(ctx context.Context, studentID, jobOfferID int64) (bool, error) {
	args := m.Called(ctx, studentID, jobOfferID)
	return args.Bool(0), args.Error(1)
}
func (m *RepoMock) ListApplications(ctx context.Context) ([]*models.Application, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Application), args.Error(1)
}
func (m *RepoMock) ListApplicationsByStudent(ctx context.Context, studentID int64) ([]*models.Application, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Application), args.Error(1)
}
func (m *RepoMock) ListApplicationsByJobOffer(ctx context.Context, jobOfferID int64) ([]*models.Application, error) {
	args := m.Called(ctx, jobOfferID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Application), args.Error(1)
}
func (m *RepoMock) UpdateApplicationStatus(ctx context.Context, id int64, status models.Status) error {
	return m.Called(ctx, id, status).Error(0)
}
func (m *RepoMock) DeleteApplication(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *RepoMock) CountApplicationsByStudent(ctx context.Context, studentID int64) (int64, error) {
	args := m.Called(ctx, studentID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *RepoMock) CountApplicationsByJobOffer(ctx context.Context, jobOfferID int64) (int64, error) {
	args := m.Called(ctx, jobOfferID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *RepoMock) GetJobOffer(ctx context.Context, id int64) (*models.JobOffer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JobOffer), args.Error(1)
}
func (m *RepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestApplicationService_Create(t *testing.T) {
	repo := new(RepoMock)
	svc := NewApplicationService(repo, newNoopLogger())

	repo.On("GetUserByEmail", mock.Anything, "aluno@teste.com").
		Return(&models.User{ID: 3, Role: models.RoleStudent}, nil).Once()
	repo.On("GetJobOffer", mock.Anything, int64(10)).
		Return(&models.JobOffer{ID: 10, Ativa: true}, nil).Once()
	repo.On("ApplicationExists", mock.Anything, int64(3), int64(10)).
		Return(false, nil).Once()
	repo.On("CreateApplication", mock.Anything, int64(3), int64(10)).
		Return(int64(7), nil).Once()

	id, err := svc.Create(context.Background(), "aluno@teste.com", 10)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	repo.AssertExpectations(t)
}

func TestApplicationService_Create_InactiveOffer(t *testing.T) {
	repo := new(RepoMock)
	svc := NewApplicationService(repo, newNoopLogger())

	repo.On("GetUserByEmail", mock.Anything, "aluno@teste.com").
		Return(&models.User{ID: 3}, nil).Once()
	repo.On("GetJobOffer", mock.Anything, int64(10)).
		Return(&models.JobOffer{ID: 10, Ativa: false}, nil).Once()

	_, err := svc.Create(context.Background(), "aluno@teste.com", 10)
	assert.ErrorIs(t, err, models.ErrInactiveOffer)
	repo.AssertNotCalled(t, "CreateApplication", mock.Anything, mock.Anything, mock.Anything)
}

func TestApplicationService_Create_Duplicate(t *testing.T) {
	repo := new(RepoMock)
	svc := NewApplicationService(repo, newNoopLogger())

	repo.On("GetUserByEmail", mock.Anything, "aluno@teste.com").
		Return(&models.User{ID: 3}, nil).Once()
	repo.On("GetJobOffer", mock.Anything, int64(10)).
		Return(&models.JobOffer{ID: 10, Ativa: true}, nil).Once()
	repo.On("ApplicationExists", mock.Anything, int64(3), int64(10)).
		Return(true, nil).Once()

	_, err := svc.Create(context.Background(), "aluno@teste.com", 10)
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestApplicationService_Create_UnknownOffer(t *testing.T) {
	repo := new(RepoMock)
	svc := NewApplicationService(repo, newNoopLogger())

	repo.On("GetUserByEmail", mock.Anything, "aluno@teste.com").
		Return(&models.User{ID: 3}, nil).Once()
	repo.On("GetJobOffer", mock.Anything, int64(99)).
		Return(nil, models.ErrNotFound).Once()

	_, err := svc.Create(context.Background(), "aluno@teste.com", 99)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestApplicationService_Read_Ownership(t *testing.T) {
	app := &models.Application{ID: 7, StudentID: 3, JobOfferID: 10}

	tests := []struct {
		name    string
		email   string
		role    models.Role
		setup   func(r *RepoMock)
		wantErr error
	}{
		{
			name:  "admin reads anything",
			email: "admin@portal.com",
			role:  models.RoleAdmin,
			setup: func(r *RepoMock) {},
		},
		{
			name:  "student reads own",
			email: "aluno@teste.com",
			role:  models.RoleStudent,
			setup: func(r *RepoMock) {
				r.On("GetUserByEmail", mock.Anything, "aluno@teste.com").
					Return(&models.User{ID: 3}, nil).Once()
			},
		},
		{
			name:  "student blocked from another's",
			email: "outro@teste.com",
			role:  models.RoleStudent,
			setup: func(r *RepoMock) {
				r.On("GetUserByEmail", mock.Anything, "outro@teste.com").
					Return(&models.User{ID: 5}, nil).Once()
			},
			wantErr: models.ErrForbidden,
		},
		{
			name:  "company reads own offer's",
			email: "empresa@teste.com",
			role:  models.RoleCompany,
			setup: func(r *RepoMock) {
				r.On("GetJobOffer", mock.Anything, int64(10)).
					Return(&models.JobOffer{ID: 10, Company: models.CompanySummary{ID: 4}}, nil).Once()
				r.On("GetUserByEmail", mock.Anything, "empresa@teste.com").
					Return(&models.User{ID: 4}, nil).Once()
			},
		},
		{
			name:  "company blocked from another offer",
			email: "outra@teste.com",
			role:  models.RoleCompany,
			setup: func(r *RepoMock) {
				r.On("GetJobOffer", mock.Anything, int64(10)).
					Return(&models.JobOffer{ID: 10, Company: models.CompanySummary{ID: 4}}, nil).Once()
				r.On("GetUserByEmail", mock.Anything, "outra@teste.com").
					Return(&models.User{ID: 5}, nil).Once()
			},
			wantErr: models.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := NewApplicationService(repo, newNoopLogger())
			repo.On("GetApplication", mock.Anything, int64(7)).Return(app, nil).Once()
			tt.setup(repo)

			got, err := svc.Read(context.Background(), tt.email, tt.role, 7)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, app, got)
		})
	}
}

func TestApplicationService_GetByStudentAndOffer(t *testing.T) {
	repo := new(RepoMock)
	svc := NewApplicationService(repo, newNoopLogger())

	want := &models.Application{ID: 7, StudentID: 3, JobOfferID: 10}
	repo.On("GetApplicationByStudentAndOffer", mock.Anything, int64(3), int64(10)).
		Return(want, nil).Once()
	repo.On("GetApplicationByStudentAndOffer", mock.Anything, int64(3), int64(99)).
		Return(nil, models.ErrNotFound).Once()

	got, err := svc.GetByStudentAndOffer(context.Background(), 3, 10)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = svc.GetByStudentAndOffer(context.Background(), 3, 99)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestApplicationService_Counts(t *testing.T) {
	repo := new(RepoMock)
	svc := NewApplicationService(repo, newNoopLogger())

	repo.On("CountApplicationsByStudent", mock.Anything, int64(3)).
		Return(int64(2), nil).Once()
	repo.On("CountApplicationsByJobOffer", mock.Anything, int64(10)).
		Return(int64(5), nil).Once()

	byStudent, err := svc.CountByStudent(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(2), byStudent)

	byOffer, err := svc.CountByJobOffer(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, int64(5), byOffer)
}

func TestApplicationService_ListByStudent_OwnOnly(t *testing.T) {
	repo := new(RepoMock)
	svc := NewApplicationService(repo, newNoopLogger())

	repo.On("GetUserByEmail", mock.Anything, "aluno@teste.com").
		Return(&models.User{ID: 3}, nil).Once()

	_, err := svc.ListByStudent(context.Background(), "aluno@teste.com", models.RoleStudent, 5)
	assert.ErrorIs(t, err, models.ErrForbidden)
	repo.AssertNotCalled(t, "ListApplicationsByStudent", mock.Anything, mock.Anything)
}

func TestApplicationService_SetStatus(t *testing.T) {
	repo := new(RepoMock)
	svc := NewApplicationService(repo, newNoopLogger())

	repo.On("GetApplication", mock.Anything, int64(7)).
		Return(&models.Application{ID: 7, StudentID: 3, JobOfferID: 10, Status: models.StatusPendente}, nil).Once()
	repo.On("GetJobOffer", mock.Anything, int64(10)).
		Return(&models.JobOffer{ID: 10, Company: models.CompanySummary{ID: 4}}, nil).Once()
	repo.On("GetUserByEmail", mock.Anything, "empresa@teste.com").
		Return(&models.User{ID: 4}, nil).Once()
	repo.On("UpdateApplicationStatus", mock.Anything, int64(7), models.StatusAprovado).
		Return(nil).Once()

	app, err := svc.SetStatus(context.Background(), "empresa@teste.com", models.RoleCompany, 7, models.StatusAprovado)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAprovado, app.Status)
	repo.AssertExpectations(t)
}

func TestApplicationService_Remove_StudentOwnOnly(t *testing.T) {
	repo := new(RepoMock)
	svc := NewApplicationService(repo, newNoopLogger())

	repo.On("GetApplication", mock.Anything, int64(7)).
		Return(&models.Application{ID: 7, StudentID: 3}, nil).Once()
	repo.On("GetUserByEmail", mock.Anything, "outro@teste.com").
		Return(&models.User{ID: 5}, nil).Once()

	err := svc.Remove(context.Background(), "outro@teste.com", models.RoleStudent, 7)
	assert.ErrorIs(t, err, models.ErrForbidden)
	repo.AssertNotCalled(t, "DeleteApplication", mock.Anything, mock.Anything)
}
