package reservations

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrReservationNotFound is returned when a reservation id is unknown
	ErrReservationNotFound = errors.New("reservation not found")
	// ErrCancellationNotFound is returned when no cancellation exists for a lookup
	ErrCancellationNotFound = errors.New("cancellation not found")
)

// Repository interface defines the contract for reservation data operations
type Repository interface {
	Create(ctx context.Context, reservation *Reservation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error)
	Update(ctx context.Context, reservation *Reservation) error
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]Reservation, error)

	CreateCancellation(ctx context.Context, cancellation *Cancellation) error
	GetCancellationByReservationID(ctx context.Context, reservationID uuid.UUID) (*Cancellation, error)
	ListCancellationsByBusiness(ctx context.Context, businessID uuid.UUID) ([]Cancellation, error)
}

// repository implements the Repository interface
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new reservation repository instance
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create inserts a new reservation
func (r *repository) Create(ctx context.Context, reservation *Reservation) error {
	if err := r.db.WithContext(ctx).Create(reservation).Error; err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}
	return nil
}

// GetByID retrieves a reservation by id
func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	var reservation Reservation
	err := r.db.WithContext(ctx).First(&reservation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	return &reservation, nil
}

// Update saves an existing reservation
func (r *repository) Update(ctx context.Context, reservation *Reservation) error {
	if err := r.db.WithContext(ctx).Save(reservation).Error; err != nil {
		return fmt.Errorf("failed to update reservation: %w", err)
	}
	return nil
}

// ListByBusiness returns a business's reservations, newest first
func (r *repository) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]Reservation, error) {
	var reservations []Reservation
	err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("created_at DESC").
		Find(&reservations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return reservations, nil
}

// CreateCancellation records a processed cancellation
func (r *repository) CreateCancellation(ctx context.Context, cancellation *Cancellation) error {
	if err := r.db.WithContext(ctx).Create(cancellation).Error; err != nil {
		return fmt.Errorf("failed to create cancellation: %w", err)
	}
	return nil
}

// GetCancellationByReservationID retrieves a cancellation by reservation id
func (r *repository) GetCancellationByReservationID(ctx context.Context, reservationID uuid.UUID) (*Cancellation, error) {
	var cancellation Cancellation
	err := r.db.WithContext(ctx).First(&cancellation, "reservation_id = ?", reservationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCancellationNotFound
		}
		return nil, fmt.Errorf("failed to get cancellation: %w", err)
	}
	return &cancellation, nil
}

// ListCancellationsByBusiness returns all cancellations for one business
func (r *repository) ListCancellationsByBusiness(ctx context.Context, businessID uuid.UUID) ([]Cancellation, error) {
	var cancellations []Cancellation
	err := r.db.WithContext(ctx).
		Joins("JOIN reservations ON cancellations.reservation_id = reservations.id").
		Where("reservations.business_id = ?", businessID).
		Order("cancellations.created_at DESC").
		Find(&cancellations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list cancellations: %w", err)
	}
	return cancellations, nil
}
