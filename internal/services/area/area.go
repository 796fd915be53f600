// Package services holds the business logic for interest/practice areas.
package services

import (
	"context"
	"log/slog"

	"github.com/meuprojeto/portal-estagios/internal/models"
)

// AreaRepository defines the storage operations for areas.
type AreaRepository interface {
	CreateArea(ctx context.Context, area models.Area) (int64, error)
	GetArea(ctx context.Context, id int64) (*models.Area, error)
	ListAreas(ctx context.Context) ([]models.Area, error)
	UpdateArea(ctx context.Context, area models.Area) error
	DeleteArea(ctx context.Context, id int64) error
	AreaExistsByNome(ctx context.Context, nome string) (bool, error)
}

// AreaService implements the area catalog operations.
type AreaService struct {
	repo AreaRepository
	log  *slog.Logger
}

// NewAreaService creates a new AreaService.
func NewAreaService(repo AreaRepository, log *slog.Logger) *AreaService {
	return &AreaService{repo: repo, log: log}
}

// Create registers a new area. A nome already in use yields ErrConflict.
func (s *AreaService) Create(ctx context.Context, nome string) (int64, error) {
	exists, err := s.repo.AreaExistsByNome(ctx, nome)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, models.ErrConflict
	}

	id, err := s.repo.CreateArea(ctx, models.Area{Nome: nome})
	if err != nil {
		return 0, err
	}
	s.log.Info("created new area", slog.Int64("id", id))
	return id, nil
}

// Read returns an area by id.
func (s *AreaService) Read(ctx context.Context, id int64) (*models.Area, error) {
	return s.repo.GetArea(ctx, id)
}

// List returns every area.
func (s *AreaService) List(ctx context.Context) ([]models.Area, error) {
	return s.repo.ListAreas(ctx)
}

// Update renames an area.
func (s *AreaService) Update(ctx context.Context, id int64, nome string) error {
	if err := s.repo.UpdateArea(ctx, models.Area{ID: id, Nome: nome}); err != nil {
		return err
	}
	s.log.Info("updated area", slog.Int64("id", id))
	return nil
}

// Remove deletes an area.
func (s *AreaService) Remove(ctx context.Context, id int64) error {
	if err := s.repo.DeleteArea(ctx, id); err != nil {
		return err
	}
	s.log.Info("removed area", slog.Int64("id", id))
	return nil
}
