package businesses

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reservly/pkg/cache"

	"github.com/google/uuid"
)

const businessCacheTTL = 1 * time.Hour

// Service interface defines the contract for business management
type Service interface {
	CreateBusiness(ctx context.Context, req BusinessRequest) (*Business, error)
	GetBusiness(ctx context.Context, id uuid.UUID) (*Business, error)
	UpdateBusiness(ctx context.Context, id uuid.UUID, req BusinessRequest) (*Business, error)
	ListBusinesses(ctx context.Context) ([]Business, error)
}

// service implements the Service interface
type service struct {
	repo  Repository
	cache cache.Service
}

// NewService creates a new business service instance. The cache is optional;
// with a nil cache every read goes to the database.
func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{
		repo:  repo,
		cache: cacheService,
	}
}

// CreateBusiness registers a new tenant
func (s *service) CreateBusiness(ctx context.Context, req BusinessRequest) (*Business, error) {
	now := time.Now().UTC()
	business := &Business{
		ID:                uuid.New(),
		Name:              req.Name,
		Type:              req.Type,
		Email:             req.Email,
		Phone:             req.Phone,
		Timezone:          defaultString(req.Timezone, "UTC"),
		Currency:          defaultString(req.Currency, "USD"),
		CurrencyPrecision: defaultPrecision(req.CurrencyPrecision),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.Create(ctx, business); err != nil {
		return nil, err
	}

	return business, nil
}

// GetBusiness retrieves a tenant, cache-aside with TTL. Currency settings
// change rarely, so best-effort freshness is fine here; writes still
// invalidate eagerly.
func (s *service) GetBusiness(ctx context.Context, id uuid.UUID) (*Business, error) {
	if s.cache != nil {
		var business Business
		err := s.cache.GetOrSet(ctx, businessCacheKey(id), businessCacheTTL, func() (interface{}, error) {
			return s.repo.GetByID(ctx, id)
		}, &business)
		if err == nil {
			return &business, nil
		}
		if err := unwrapFetcherErr(err); err != nil {
			return nil, err
		}
	}

	return s.repo.GetByID(ctx, id)
}

// UpdateBusiness saves tenant settings and drops the cached copy
func (s *service) UpdateBusiness(ctx context.Context, id uuid.UUID, req BusinessRequest) (*Business, error) {
	business, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	business.Name = req.Name
	business.Type = req.Type
	business.Email = req.Email
	business.Phone = req.Phone
	business.Timezone = defaultString(req.Timezone, business.Timezone)
	business.Currency = defaultString(req.Currency, business.Currency)
	if req.CurrencyPrecision != nil {
		business.CurrencyPrecision = *req.CurrencyPrecision
	}
	business.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, business); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, businessCacheKey(id)); err != nil {
			return nil, fmt.Errorf("failed to invalidate business cache: %w", err)
		}
	}

	return business, nil
}

// ListBusinesses returns all tenants
func (s *service) ListBusinesses(ctx context.Context) ([]Business, error) {
	return s.repo.List(ctx)
}

func businessCacheKey(id uuid.UUID) string {
	return "reservly:business:" + id.String()
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func defaultPrecision(p *int32) int32 {
	if p == nil {
		return 2
	}
	return *p
}

// unwrapFetcherErr separates a repository failure from a pure cache failure:
// repository errors must surface, cache errors fall through to a direct read.
func unwrapFetcherErr(err error) error {
	if errors.Is(err, ErrBusinessNotFound) {
		return ErrBusinessNotFound
	}
	return nil
}
