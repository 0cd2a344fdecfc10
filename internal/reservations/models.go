package reservations

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Reservation defines one guest booking at a business
type Reservation struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	BusinessID    uuid.UUID       `gorm:"type:uuid;index;not null" json:"business_id"`
	GuestName     string          `gorm:"not null" json:"guest_name"`
	GuestEmail    string          `gorm:"not null" json:"guest_email"`
	GuestPhone    string          `json:"guest_phone"`
	CheckIn       time.Time       `gorm:"not null" json:"check_in"`
	CheckOut      time.Time       `json:"check_out"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(12,4);not null" json:"total_amount"`
	Currency      string          `gorm:"type:varchar(3);default:'USD'" json:"currency"`
	Status        string          `gorm:"type:varchar(20);check:status IN ('CONFIRMED', 'CANCELLED', 'COMPLETED');default:'CONFIRMED'" json:"status"`
	PaymentStatus string          `gorm:"type:varchar(20);check:payment_status IN ('PENDING', 'PAID', 'REFUNDED');default:'PENDING'" json:"payment_status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	CancelledAt   *time.Time      `json:"cancelled_at,omitempty"`
}

// Cancellation records the outcome of one processed cancellation: which rule
// applied and how much is owed back. The refund itself is executed by the
// payment workflow, not here.
type Cancellation struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ReservationID     uuid.UUID       `gorm:"type:uuid;unique;not null" json:"reservation_id"`
	MatchedPolicyID   *uuid.UUID      `gorm:"type:uuid" json:"matched_policy_id,omitempty"`
	DaysBeforeCheckIn int             `json:"days_before_check_in"`
	RefundPercentage  decimal.Decimal `gorm:"type:numeric(5,2)" json:"refund_percentage"`
	RefundAmount      decimal.Decimal `gorm:"type:numeric(12,4)" json:"refund_amount"`
	Currency          string          `gorm:"type:varchar(3)" json:"currency"`
	CancelledBy       string          `gorm:"type:varchar(20);check:cancelled_by IN ('GUEST', 'BUSINESS');default:'GUEST'" json:"cancelled_by"`
	Reason            string          `json:"reason"`
	RequestedAt       time.Time       `json:"requested_at"`
	CreatedAt         time.Time       `json:"created_at"`
}

// TableName sets the table name for Reservation
func (Reservation) TableName() string {
	return "reservations"
}

// TableName sets the table name for Cancellation
func (Cancellation) TableName() string {
	return "cancellations"
}

// Cancel marks the reservation cancelled
func (r *Reservation) Cancel() {
	now := time.Now().UTC()
	r.Status = StatusCancelled.String()
	r.CancelledAt = &now
	r.UpdatedAt = now
}

// ReservationRequest represents a request to create a reservation
type ReservationRequest struct {
	GuestName   string    `json:"guest_name" binding:"required,min=2,max=120"`
	GuestEmail  string    `json:"guest_email" binding:"required,email"`
	GuestPhone  string    `json:"guest_phone"`
	CheckIn     time.Time `json:"check_in" binding:"required"`
	CheckOut    time.Time `json:"check_out"`
	TotalAmount string    `json:"total_amount" binding:"required"`
}

// CancellationRequest represents a guest's request to cancel a reservation
type CancellationRequest struct {
	CancelledBy string `json:"cancelled_by" binding:"omitempty,oneof=GUEST BUSINESS"`
	Reason      string `json:"reason" binding:"omitempty,max=500"`
}
