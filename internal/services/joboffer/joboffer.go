// Package services holds the business logic for the job offer lifecycle:
// creation, ownership checks, closing and the cached public listings.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/meuprojeto/portal-estagios/internal/models"
)

const activeOffersCacheKey = "joboffers:active"

// JobOfferRepository defines the storage operations for job offers.
type JobOfferRepository interface {
	CreateJobOffer(ctx context.Context, o models.JobOffer) (int64, error)
	GetJobOffer(ctx context.Context, id int64) (*models.JobOffer, error)
	ListActiveJobOffers(ctx context.Context) ([]*models.JobOffer, error)
	ListActiveJobOffersByCompany(ctx context.Context, companyID int64) ([]*models.JobOffer, error)
	ListActiveJobOffersByArea(ctx context.Context, areaID int64) ([]*models.JobOffer, error)
	ListActiveJobOffersByAreas(ctx context.Context, areaIDs []int64) ([]*models.JobOffer, error)
	UpdateJobOffer(ctx context.Context, o models.JobOffer) error
	CloseJobOffer(ctx context.Context, id int64) error
	DeleteJobOffer(ctx context.Context, id int64) error
	JobOfferStats(ctx context.Context) (*models.JobOfferStats, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetCompany(ctx context.Context, id int64) (*models.Company, error)
	GetArea(ctx context.Context, id int64) (*models.Area, error)
}

// Cache keeps the hot listings out of the database.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// JobOfferService implements the offer lifecycle with caching of the public
// active listing.
type JobOfferService struct {
	repo  JobOfferRepository
	cache Cache
	log   *slog.Logger
}

// NewJobOfferService creates a new JobOfferService.
func NewJobOfferService(repo JobOfferRepository, cache Cache, log *slog.Logger) *JobOfferService {
	return &JobOfferService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Create registers an active offer. Only a COMPANY caller may create offers,
// and it always owns the new offer, whatever company id the payload names.
func (s *JobOfferService) Create(ctx context.Context, callerEmail string, callerRole models.Role, o models.JobOffer) (int64, error) {
	if callerRole != models.RoleCompany {
		return 0, models.ErrForbidden
	}
	caller, err := s.repo.GetUserByEmail(ctx, callerEmail)
	if err != nil {
		return 0, err
	}
	company, err := s.repo.GetCompany(ctx, caller.ID)
	if err != nil {
		return 0, err
	}
	o.Company.ID = company.ID

	if _, err := s.repo.GetArea(ctx, o.Area.ID); err != nil {
		return 0, err
	}

	id, err := s.repo.CreateJobOffer(ctx, o)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new job offer", slog.Int64("id", id))

	s.invalidateActive()
	return id, nil
}

// Read returns an offer by id.
func (s *JobOfferService) Read(ctx context.Context, id int64) (*models.JobOffer, error) {
	var result *models.JobOffer
	cacheKey := fmt.Sprintf("joboffer:%d", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("cache read failed", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return result, nil
	}

	result, err = s.repo.GetJobOffer(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, result, time.Minute); err != nil {
		s.log.Warn("failed to cache job offer", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// ListActive returns every active offer, newest first, served from cache
// when possible.
func (s *JobOfferService) ListActive(ctx context.Context) ([]*models.JobOffer, error) {
	var result []*models.JobOffer
	found, err := s.cache.Get(activeOffersCacheKey, &result)
	if err != nil {
		s.log.Warn("cache read failed", slog.String("key", activeOffersCacheKey), slog.Any("err", err))
	}
	if found {
		return result, nil
	}

	result, err = s.repo.ListActiveJobOffers(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(activeOffersCacheKey, result, time.Minute); err != nil {
		s.log.Warn("failed to cache active offers", slog.Any("err", err))
	}
	return result, nil
}

// ListActiveByCompany returns the active offers of one company.
func (s *JobOfferService) ListActiveByCompany(ctx context.Context, companyID int64) ([]*models.JobOffer, error) {
	return s.repo.ListActiveJobOffersByCompany(ctx, companyID)
}

// ListActiveByArea returns the active offers in one area.
func (s *JobOfferService) ListActiveByArea(ctx context.Context, areaID int64) ([]*models.JobOffer, error) {
	return s.repo.ListActiveJobOffersByArea(ctx, areaID)
}

// ListActiveByAreas returns the active offers whose area is in the set.
func (s *JobOfferService) ListActiveByAreas(ctx context.Context, areaIDs []int64) ([]*models.JobOffer, error) {
	return s.repo.ListActiveJobOffersByAreas(ctx, areaIDs)
}

// Update overwrites the mutable fields of an offer. A COMPANY caller may
// only touch its own offers.
func (s *JobOfferService) Update(ctx context.Context, callerEmail string, callerRole models.Role, o models.JobOffer) error {
	current, err := s.authorize(ctx, callerEmail, callerRole, o.ID)
	if err != nil {
		return err
	}
	if o.Area.ID != current.Area.ID {
		if _, err := s.repo.GetArea(ctx, o.Area.ID); err != nil {
			return err
		}
	}

	if err := s.repo.UpdateJobOffer(ctx, o); err != nil {
		return err
	}
	s.log.Info("updated job offer", slog.Int64("id", o.ID))

	s.invalidate(o.ID)
	return nil
}

// Close deactivates an offer and stamps its closing time. Closing an already
// closed offer changes nothing and is not an error.
func (s *JobOfferService) Close(ctx context.Context, callerEmail string, callerRole models.Role, id int64) (*models.JobOffer, error) {
	if _, err := s.authorize(ctx, callerEmail, callerRole, id); err != nil {
		return nil, err
	}

	if err := s.repo.CloseJobOffer(ctx, id); err != nil {
		return nil, err
	}
	s.log.Info("closed job offer", slog.Int64("id", id))

	s.invalidate(id)
	return s.repo.GetJobOffer(ctx, id)
}

// Remove deletes an offer together with its applications.
func (s *JobOfferService) Remove(ctx context.Context, callerEmail string, callerRole models.Role, id int64) error {
	if _, err := s.authorize(ctx, callerEmail, callerRole, id); err != nil {
		return err
	}

	if err := s.repo.DeleteJobOffer(ctx, id); err != nil {
		return err
	}
	s.log.Info("removed job offer", slog.Int64("id", id))

	s.invalidate(id)
	return nil
}

// Stats aggregates the open and closed counters plus the per-area totals.
func (s *JobOfferService) Stats(ctx context.Context) (*models.JobOfferStats, error) {
	return s.repo.JobOfferStats(ctx)
}

// authorize loads the offer and verifies that a COMPANY caller owns it.
// Admins pass unconditionally.
func (s *JobOfferService) authorize(ctx context.Context, callerEmail string, callerRole models.Role, offerID int64) (*models.JobOffer, error) {
	offer, err := s.repo.GetJobOffer(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if callerRole != models.RoleCompany {
		return offer, nil
	}

	caller, err := s.repo.GetUserByEmail(ctx, callerEmail)
	if err != nil {
		return nil, err
	}
	if offer.Company.ID != caller.ID {
		return nil, models.ErrForbidden
	}
	return offer, nil
}

func (s *JobOfferService) invalidate(id int64) {
	cacheKey := fmt.Sprintf("joboffer:%d", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	s.invalidateActive()
}

func (s *JobOfferService) invalidateActive() {
	if err := s.cache.Invalidate(activeOffersCacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", activeOffersCacheKey), slog.Any("err", err))
	}
}
