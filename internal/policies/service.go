package policies

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service interface defines the contract for policy administration and
// cancellation resolution
type Service interface {
	// Policy administration, each call scoped to one business
	CreatePolicy(ctx context.Context, businessID uuid.UUID, req PolicyRequest) (*CancellationPolicy, error)
	UpdatePolicy(ctx context.Context, policyID uuid.UUID, req PolicyRequest) (*CancellationPolicy, error)
	DeletePolicy(ctx context.Context, policyID uuid.UUID) error
	ListPolicies(ctx context.Context, businessID uuid.UUID) ([]CancellationPolicy, error)

	// ResolveCancellation computes the refund for a cancellation happening
	// daysUntilStart whole days before check-in, rounded to the given
	// currency minor-unit precision.
	ResolveCancellation(ctx context.Context, businessID uuid.UUID, total decimal.Decimal, daysUntilStart int, precision int32) (Resolution, error)

	// ResolveForBusiness looks up the business's currency precision through
	// the directory and then resolves.
	ResolveForBusiness(ctx context.Context, businessID uuid.UUID, total decimal.Decimal, daysUntilStart int) (Resolution, error)
}

// BusinessDirectory supplies the tenant attributes resolution depends on
// (interface here to avoid a circular dependency on the businesses package).
type BusinessDirectory interface {
	GetBusinessInfo(ctx context.Context, businessID uuid.UUID) (BusinessInfo, error)
}

// BusinessInfo represents tenant information for refund computations
type BusinessInfo struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Currency          string    `json:"currency"`
	CurrencyPrecision int32     `json:"currency_precision"`
}

// service implements the Service interface
type service struct {
	repo      Repository
	cache     *SetCache
	directory BusinessDirectory
	validate  *validator.Validate
}

// NewService creates a new policy service instance
func NewService(repo Repository, cache *SetCache, directory BusinessDirectory) Service {
	return &service{
		repo:      repo,
		cache:     cache,
		directory: directory,
		validate:  validator.New(),
	}
}

// CreatePolicy validates and persists a new rule for a business, then drops
// the business's snapshot so the next resolution observes it.
func (s *service) CreatePolicy(ctx context.Context, businessID uuid.UUID, req PolicyRequest) (*CancellationPolicy, error) {
	pct, err := s.validateRequest(req)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	policy := &CancellationPolicy{
		ID:               uuid.New(),
		BusinessID:       businessID,
		DaysBefore:       req.DaysBefore,
		RefundPercentage: pct,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(ctx, policy); err != nil {
		return nil, err
	}

	// Invalidate before returning success so no caller can observe the old
	// rule set after a confirmed write.
	s.cache.Invalidate(businessID)

	return policy, nil
}

// UpdatePolicy re-validates and saves an existing rule
func (s *service) UpdatePolicy(ctx context.Context, policyID uuid.UUID, req PolicyRequest) (*CancellationPolicy, error) {
	policy, err := s.repo.GetByID(ctx, policyID)
	if err != nil {
		return nil, err
	}

	pct, err := s.validateRequest(req)
	if err != nil {
		return nil, err
	}

	policy.DaysBefore = req.DaysBefore
	policy.RefundPercentage = pct
	policy.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, policy); err != nil {
		return nil, err
	}

	s.cache.Invalidate(policy.BusinessID)

	return policy, nil
}

// DeletePolicy removes a rule
func (s *service) DeletePolicy(ctx context.Context, policyID uuid.UUID) error {
	// Fetch first: the delete must invalidate the owning business's
	// snapshot, and the row is the only place that ownership is recorded.
	policy, err := s.repo.GetByID(ctx, policyID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, policyID); err != nil {
		return err
	}

	s.cache.Invalidate(policy.BusinessID)

	return nil
}

// ListPolicies returns a business's rules in resolution order
func (s *service) ListPolicies(ctx context.Context, businessID uuid.UUID) ([]CancellationPolicy, error) {
	set, err := s.policySet(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return set.Policies(), nil
}

// ResolveCancellation resolves against the business's current snapshot.
// Store and configuration failures surface as errors; they are never masked
// as a no-match outcome.
func (s *service) ResolveCancellation(ctx context.Context, businessID uuid.UUID, total decimal.Decimal, daysUntilStart int, precision int32) (Resolution, error) {
	if total.IsNegative() {
		return Resolution{}, &ValidationError{
			Field:   "reservation_total",
			Message: "must not be negative",
		}
	}

	set, err := s.policySet(ctx, businessID)
	if err != nil {
		return Resolution{}, err
	}

	return Resolve(set, CancellationContext{
		BusinessID:        businessID,
		ReservationTotal:  total,
		DaysUntilStart:    daysUntilStart,
		CurrencyPrecision: precision,
	})
}

// ResolveForBusiness resolves using the tenant's configured currency precision
func (s *service) ResolveForBusiness(ctx context.Context, businessID uuid.UUID, total decimal.Decimal, daysUntilStart int) (Resolution, error) {
	if s.directory == nil {
		return Resolution{}, fmt.Errorf("business directory is not configured")
	}

	info, err := s.directory.GetBusinessInfo(ctx, businessID)
	if err != nil {
		return Resolution{}, fmt.Errorf("failed to get business: %w", err)
	}

	return s.ResolveCancellation(ctx, businessID, total, daysUntilStart, info.CurrencyPrecision)
}

// policySet returns the business's snapshot, building it from the store on a
// miss. Two concurrent first readers may both build; the later Put wins and
// both sets are equivalent since they came from the same committed state.
func (s *service) policySet(ctx context.Context, businessID uuid.UUID) (*PolicySet, error) {
	if set, ok := s.cache.Get(businessID); ok {
		return set, nil
	}

	records, err := s.repo.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}

	set, err := NewPolicySet(businessID, records)
	if err != nil {
		return nil, fmt.Errorf("invalid policy configuration for business %s: %w", businessID, err)
	}

	s.cache.Put(set)
	return set, nil
}

// validateRequest enforces the per-policy field invariants before any write
func (s *service) validateRequest(req PolicyRequest) (decimal.Decimal, error) {
	if err := s.validate.Struct(req); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			field := "days_before"
			msg := "must be zero or a positive number of days"
			if errs[0].Field() == "RefundPercentage" {
				field = "refund_percentage"
				msg = "must be between 0 and 100"
			}
			return decimal.Zero, &ValidationError{Field: field, Message: msg}
		}
		return decimal.Zero, &ValidationError{Field: "request", Message: err.Error()}
	}

	pct := decimal.NewFromFloat(req.RefundPercentage)
	if err := validatePolicyFields(req.DaysBefore, pct); err != nil {
		return decimal.Zero, err
	}
	return pct, nil
}
