// Package services holds the business logic for student registration and
// profile management.
package services

import (
	"context"
	"log/slog"

	"github.com/meuprojeto/portal-estagios/internal/lib/password"
	"github.com/meuprojeto/portal-estagios/internal/models"
)

// StudentRepository defines the storage operations for students.
type StudentRepository interface {
	CreateStudent(ctx context.Context, st models.Student) (int64, error)
	GetStudent(ctx context.Context, id int64) (*models.Student, error)
	GetStudentByEmail(ctx context.Context, email string) (*models.Student, error)
	ListStudents(ctx context.Context) ([]*models.Student, error)
	UpdateStudent(ctx context.Context, st models.Student) error
	DeleteStudent(ctx context.Context, id int64) error
	StudentExistsByCPF(ctx context.Context, cpf string) (bool, error)
	UserExistsByEmail(ctx context.Context, email string) (bool, error)
}

// StudentService implements the student operations.
type StudentService struct {
	repo StudentRepository
	log  *slog.Logger
}

// NewStudentService creates a new StudentService.
func NewStudentService(repo StudentRepository, log *slog.Logger) *StudentService {
	return &StudentService{repo: repo, log: log}
}

// Register creates a STUDENT identity. The senha is hashed before it reaches
// storage; an email or cpf already in use yields ErrConflict.
func (s *StudentService) Register(ctx context.Context, st models.Student, senha string) (int64, error) {
	exists, err := s.repo.UserExistsByEmail(ctx, st.Email)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, models.ErrConflict
	}
	exists, err = s.repo.StudentExistsByCPF(ctx, st.CPF)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, models.ErrConflict
	}

	hashed, err := password.GetHash(senha)
	if err != nil {
		return 0, err
	}
	st.SenhaHash = hashed
	st.Role = models.RoleStudent

	id, err := s.repo.CreateStudent(ctx, st)
	if err != nil {
		return 0, err
	}
	s.log.Info("registered new student", slog.Int64("id", id))
	return id, nil
}

// Read returns a student profile by id.
func (s *StudentService) Read(ctx context.Context, id int64) (*models.Student, error) {
	return s.repo.GetStudent(ctx, id)
}

// ReadByEmail returns a student profile by the identity email.
func (s *StudentService) ReadByEmail(ctx context.Context, email string) (*models.Student, error) {
	return s.repo.GetStudentByEmail(ctx, email)
}

// List returns every registered student.
func (s *StudentService) List(ctx context.Context) ([]*models.Student, error) {
	return s.repo.ListStudents(ctx)
}

// Update overwrites a student profile, including the ordered collections. An
// empty senha keeps the current one.
func (s *StudentService) Update(ctx context.Context, st models.Student, senha string) error {
	if senha != "" {
		hashed, err := password.GetHash(senha)
		if err != nil {
			return err
		}
		st.SenhaHash = hashed
	}
	if err := s.repo.UpdateStudent(ctx, st); err != nil {
		return err
	}
	s.log.Info("updated student", slog.Int64("id", st.ID))
	return nil
}

// Remove deletes a student together with their applications.
func (s *StudentService) Remove(ctx context.Context, id int64) error {
	if err := s.repo.DeleteStudent(ctx, id); err != nil {
		return err
	}
	s.log.Info("removed student", slog.Int64("id", id))
	return nil
}
