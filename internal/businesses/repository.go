package businesses

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrBusinessNotFound is returned when a business id is unknown
var ErrBusinessNotFound = errors.New("business not found")

// Repository interface defines the contract for business data operations
type Repository interface {
	Create(ctx context.Context, business *Business) error
	GetByID(ctx context.Context, id uuid.UUID) (*Business, error)
	Update(ctx context.Context, business *Business) error
	List(ctx context.Context) ([]Business, error)
}

// repository implements the Repository interface
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new business repository instance
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create inserts a new business
func (r *repository) Create(ctx context.Context, business *Business) error {
	if err := r.db.WithContext(ctx).Create(business).Error; err != nil {
		return fmt.Errorf("failed to create business: %w", err)
	}
	return nil
}

// GetByID retrieves a business by id
func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Business, error) {
	var business Business
	err := r.db.WithContext(ctx).First(&business, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, fmt.Errorf("failed to get business: %w", err)
	}
	return &business, nil
}

// Update saves an existing business
func (r *repository) Update(ctx context.Context, business *Business) error {
	if err := r.db.WithContext(ctx).Save(business).Error; err != nil {
		return fmt.Errorf("failed to update business: %w", err)
	}
	return nil
}

// List returns all businesses
func (r *repository) List(ctx context.Context) ([]Business, error) {
	var businesses []Business
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&businesses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list businesses: %w", err)
	}
	return businesses, nil
}
