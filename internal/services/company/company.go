// Package services holds the business logic for company registration and
// profile management.
package services

import (
	"context"
	"log/slog"

	"github.com/meuprojeto/portal-estagios/internal/lib/password"
	"github.com/meuprojeto/portal-estagios/internal/models"
)

// CompanyRepository defines the storage operations for companies.
type CompanyRepository interface {
	CreateCompany(ctx context.Context, c models.Company) (int64, error)
	GetCompany(ctx context.Context, id int64) (*models.Company, error)
	ListCompanies(ctx context.Context) ([]*models.Company, error)
	UpdateCompany(ctx context.Context, c models.Company) error
	DeleteCompany(ctx context.Context, id int64) error
	CompanyExistsByCNPJ(ctx context.Context, cnpj string) (bool, error)
	UserExistsByEmail(ctx context.Context, email string) (bool, error)
}

// CompanyService implements the company operations.
type CompanyService struct {
	repo CompanyRepository
	log  *slog.Logger
}

// NewCompanyService creates a new CompanyService.
func NewCompanyService(repo CompanyRepository, log *slog.Logger) *CompanyService {
	return &CompanyService{repo: repo, log: log}
}

// Register creates a COMPANY identity. The senha is hashed before it reaches
// storage; an email or cnpj already in use yields ErrConflict.
func (s *CompanyService) Register(ctx context.Context, c models.Company, senha string) (int64, error) {
	exists, err := s.repo.UserExistsByEmail(ctx, c.Email)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, models.ErrConflict
	}
	exists, err = s.repo.CompanyExistsByCNPJ(ctx, c.CNPJ)
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
	c.SenhaHash = hashed
	c.Role = models.RoleCompany

	id, err := s.repo.CreateCompany(ctx, c)
	if err != nil {
		return 0, err
	}
	s.log.Info("registered new company", slog.Int64("id", id))
	return id, nil
}

// Read returns a company profile by id.
func (s *CompanyService) Read(ctx context.Context, id int64) (*models.Company, error) {
	return s.repo.GetCompany(ctx, id)
}

// List returns every registered company.
func (s *CompanyService) List(ctx context.Context) ([]*models.Company, error) {
	return s.repo.ListCompanies(ctx)
}

// Update overwrites a company profile. An empty senha keeps the current one.
func (s *CompanyService) Update(ctx context.Context, c models.Company, senha string) error {
	if senha != "" {
		hashed, err := password.GetHash(senha)
		if err != nil {
			return err
		}
		c.SenhaHash = hashed
	}
	if err := s.repo.UpdateCompany(ctx, c); err != nil {
		return err
	}
	s.log.Info("updated company", slog.Int64("id", c.ID))
	return nil
}

// Remove deletes a company together with its offers and their applications.
func (s *CompanyService) Remove(ctx context.Context, id int64) error {
	if err := s.repo.DeleteCompany(ctx, id); err != nil {
		return err
	}
	s.log.Info("removed company", slog.Int64("id", id))
	return nil
}
