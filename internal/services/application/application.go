// Package services holds the business logic for applications: one submission
// per student and offer, active-offer gating and the review status changes.
package services

import (
	"context"
	"log/slog"

	"github.com/meuprojeto/portal-estagios/internal/models"
)

// ApplicationRepository defines the storage operations for applications.
type ApplicationRepository interface {
	CreateApplication(ctx context.Context, studentID, jobOfferID int64) (int64, error)
	GetApplication(ctx context.Context, id int64) (*models.Application, error)
	GetApplicationByStudentAndOffer(ctx context.Context, studentID, jobOfferID int64) (*models.Application, error)
	ApplicationExists(ctx context.Context, studentID, jobOfferID int64) (bool, error)
	ListApplications(ctx context.Context) ([]*models.Application, error)
	ListApplicationsByStudent(ctx context.Context, studentID int64) ([]*models.Application, error)
	ListApplicationsByJobOffer(ctx context.Context, jobOfferID int64) ([]*models.Application, error)
	UpdateApplicationStatus(ctx context.Context, id int64, status models.Status) error
	DeleteApplication(ctx context.Context, id int64) error
	CountApplicationsByStudent(ctx context.Context, studentID int64) (int64, error)
	CountApplicationsByJobOffer(ctx context.Context, jobOfferID int64) (int64, error)
	GetJobOffer(ctx context.Context, id int64) (*models.JobOffer, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// ApplicationService implements the application lifecycle.
type ApplicationService struct {
	repo ApplicationRepository
	log  *slog.Logger
}

// NewApplicationService creates a new ApplicationService.
func NewApplicationService(repo ApplicationRepository, log *slog.Logger) *ApplicationService {
	return &ApplicationService{repo: repo, log: log}
}

// Create submits the calling student to an offer. The offer must exist and
// be active; a repeated submission yields ErrConflict. The unique index on
// (student, offer) decides races between concurrent submissions.
func (s *ApplicationService) Create(ctx context.Context, callerEmail string, jobOfferID int64) (int64, error) {
	caller, err := s.repo.GetUserByEmail(ctx, callerEmail)
	if err != nil {
		return 0, err
	}

	offer, err := s.repo.GetJobOffer(ctx, jobOfferID)
	if err != nil {
		return 0, err
	}
	if !offer.Ativa {
		return 0, models.ErrInactiveOffer
	}

	exists, err := s.repo.ApplicationExists(ctx, caller.ID, jobOfferID)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, models.ErrConflict
	}

	id, err := s.repo.CreateApplication(ctx, caller.ID, jobOfferID)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new application",
		slog.Int64("id", id), slog.Int64("job_offer_id", jobOfferID))
	return id, nil
}

// Read returns an application. Students see their own, companies see the
// applications to their own offers, admins see everything.
func (s *ApplicationService) Read(ctx context.Context, callerEmail string, callerRole models.Role, id int64) (*models.Application, error) {
	app, err := s.repo.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, callerEmail, callerRole, app); err != nil {
		return nil, err
	}
	return app, nil
}

// GetByStudentAndOffer returns the single application a student holds for an
// offer, ErrNotFound when the student never applied.
func (s *ApplicationService) GetByStudentAndOffer(ctx context.Context, studentID, jobOfferID int64) (*models.Application, error) {
	return s.repo.GetApplicationByStudentAndOffer(ctx, studentID, jobOfferID)
}

// ListAll returns every application.
func (s *ApplicationService) ListAll(ctx context.Context) ([]*models.Application, error) {
	return s.repo.ListApplications(ctx)
}

// CountByStudent returns how many applications a student submitted.
func (s *ApplicationService) CountByStudent(ctx context.Context, studentID int64) (int64, error) {
	return s.repo.CountApplicationsByStudent(ctx, studentID)
}

// CountByJobOffer returns how many applications an offer received.
func (s *ApplicationService) CountByJobOffer(ctx context.Context, jobOfferID int64) (int64, error) {
	return s.repo.CountApplicationsByJobOffer(ctx, jobOfferID)
}

// ListByStudent returns a student's applications. A STUDENT caller may only
// list their own.
func (s *ApplicationService) ListByStudent(ctx context.Context, callerEmail string, callerRole models.Role, studentID int64) ([]*models.Application, error) {
	if callerRole == models.RoleStudent {
		caller, err := s.repo.GetUserByEmail(ctx, callerEmail)
		if err != nil {
			return nil, err
		}
		if caller.ID != studentID {
			return nil, models.ErrForbidden
		}
	}
	return s.repo.ListApplicationsByStudent(ctx, studentID)
}

// ListByJobOffer returns the applications to an offer. A COMPANY caller may
// only list applications to its own offers.
func (s *ApplicationService) ListByJobOffer(ctx context.Context, callerEmail string, callerRole models.Role, jobOfferID int64) ([]*models.Application, error) {
	offer, err := s.repo.GetJobOffer(ctx, jobOfferID)
	if err != nil {
		return nil, err
	}
	if callerRole == models.RoleCompany {
		caller, err := s.repo.GetUserByEmail(ctx, callerEmail)
		if err != nil {
			return nil, err
		}
		if offer.Company.ID != caller.ID {
			return nil, models.ErrForbidden
		}
	}
	return s.repo.ListApplicationsByJobOffer(ctx, jobOfferID)
}

// SetStatus changes the review status of an application. Any valid status is
// accepted as the next one. A COMPANY caller may only review applications to
// its own offers.
func (s *ApplicationService) SetStatus(ctx context.Context, callerEmail string, callerRole models.Role, id int64, status models.Status) (*models.Application, error) {
	app, err := s.repo.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if callerRole == models.RoleCompany {
		if err := s.authorizeCompany(ctx, callerEmail, app.JobOfferID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.UpdateApplicationStatus(ctx, id, status); err != nil {
		return nil, err
	}
	s.log.Info("updated application status",
		slog.Int64("id", id), slog.String("status", string(status)))

	app.Status = status
	return app, nil
}

// Remove deletes an application. A STUDENT caller may only withdraw their own.
func (s *ApplicationService) Remove(ctx context.Context, callerEmail string, callerRole models.Role, id int64) error {
	app, err := s.repo.GetApplication(ctx, id)
	if err != nil {
		return err
	}
	if callerRole == models.RoleStudent {
		caller, err := s.repo.GetUserByEmail(ctx, callerEmail)
		if err != nil {
			return err
		}
		if app.StudentID != caller.ID {
			return models.ErrForbidden
		}
	}

	if err := s.repo.DeleteApplication(ctx, id); err != nil {
		return err
	}
	s.log.Info("removed application", slog.Int64("id", id))
	return nil
}

func (s *ApplicationService) authorize(ctx context.Context, callerEmail string, callerRole models.Role, app *models.Application) error {
	switch callerRole {
	case models.RoleAdmin:
		return nil
	case models.RoleStudent:
		caller, err := s.repo.GetUserByEmail(ctx, callerEmail)
		if err != nil {
			return err
		}
		if app.StudentID != caller.ID {
			return models.ErrForbidden
		}
		return nil
	case models.RoleCompany:
		return s.authorizeCompany(ctx, callerEmail, app.JobOfferID)
	}
	return models.ErrForbidden
}

func (s *ApplicationService) authorizeCompany(ctx context.Context, callerEmail string, jobOfferID int64) error {
	offer, err := s.repo.GetJobOffer(ctx, jobOfferID)
	if err != nil {
		return err
	}
	caller, err := s.repo.GetUserByEmail(ctx, callerEmail)
	if err != nil {
		return err
	}
	if offer.Company.ID != caller.ID {
		return models.ErrForbidden
	}
	return nil
}
