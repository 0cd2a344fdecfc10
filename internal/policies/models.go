package policies

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CancellationPolicy is one threshold rule for a business: reservations
// cancelled at least DaysBefore whole days before check-in are refunded
// RefundPercentage percent of the reservation total.
type CancellationPolicy struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	BusinessID       uuid.UUID       `gorm:"type:uuid;index;not null" json:"business_id"`
	DaysBefore       int             `gorm:"not null;check:days_before >= 0" json:"days_before"`
	RefundPercentage decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"refund_percentage"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// TableName sets the table name for CancellationPolicy
func (CancellationPolicy) TableName() string {
	return "cancellation_policies"
}

// PolicyRequest represents a request to create or update a cancellation policy
type PolicyRequest struct {
	DaysBefore       int     `json:"days_before" binding:"gte=0" validate:"gte=0"`
	RefundPercentage float64 `json:"refund_percentage" binding:"gte=0,lte=100" validate:"gte=0,lte=100"`
}

// ResolutionRequest represents a refund quote request for a pending cancellation
type ResolutionRequest struct {
	ReservationTotal string `json:"reservation_total" form:"reservation_total" binding:"required"`
	DaysUntilStart   int    `json:"days_until_start" form:"days_until_start"`
}
