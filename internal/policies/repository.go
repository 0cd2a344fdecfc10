package policies

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository interface defines the contract for cancellation policy storage
type Repository interface {
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]CancellationPolicy, error)
	GetByID(ctx context.Context, id uuid.UUID) (*CancellationPolicy, error)
	Create(ctx context.Context, policy *CancellationPolicy) error
	Update(ctx context.Context, policy *CancellationPolicy) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// repository implements the Repository interface on PostgreSQL
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new cancellation policy repository instance
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// ListByBusiness returns all policies owned by one business. Ordering is not
// guaranteed here; PolicySet construction imposes the resolution order.
func (r *repository) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]CancellationPolicy, error) {
	var policies []CancellationPolicy
	err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Find(&policies).Error
	if err != nil {
		return nil, &StoreError{Op: "list policies", Err: err}
	}
	return policies, nil
}

// GetByID retrieves a policy by its id
func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*CancellationPolicy, error) {
	var policy CancellationPolicy
	err := r.db.WithContext(ctx).First(&policy, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPolicyNotFound
		}
		return nil, &StoreError{Op: "get policy", Err: err}
	}
	return &policy, nil
}

// Create inserts a new policy
func (r *repository) Create(ctx context.Context, policy *CancellationPolicy) error {
	if err := r.db.WithContext(ctx).Create(policy).Error; err != nil {
		return &StoreError{Op: "create policy", Err: err}
	}
	return nil
}

// Update saves an existing policy
func (r *repository) Update(ctx context.Context, policy *CancellationPolicy) error {
	if err := r.db.WithContext(ctx).Save(policy).Error; err != nil {
		return &StoreError{Op: "update policy", Err: err}
	}
	return nil
}

// Delete removes a policy by id
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&CancellationPolicy{}, "id = ?", id)
	if result.Error != nil {
		return &StoreError{Op: "delete policy", Err: result.Error}
	}
	if result.RowsAffected == 0 {
		return ErrPolicyNotFound
	}
	return nil
}
