package notifications

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType identifies the kind of notification event
type EventType string

const (
	EventReservationCancelled EventType = "RESERVATION_CANCELLED"
	EventRefundIssued         EventType = "REFUND_ISSUED"
)

// EventStatus tracks the lifecycle of an event on its way to delivery
type EventStatus string

const (
	EventStatusPending EventStatus = "PENDING"
	EventStatusQueued  EventStatus = "QUEUED"
	EventStatusFailed  EventStatus = "FAILED"
)

// ReservationCancelledEvent is published when a cancellation has been
// processed. The notification worker consumes it and emails the guest; this
// service only publishes.
type ReservationCancelledEvent struct {
	ID             uuid.UUID   `json:"id"`
	Type           EventType   `json:"type"`
	ReservationID  uuid.UUID   `json:"reservation_id"`
	BusinessID     uuid.UUID   `json:"business_id"`
	BusinessName   string      `json:"business_name"`
	RecipientEmail string      `json:"recipient_email"`
	RefundAmount   string      `json:"refund_amount"`
	Currency       string      `json:"currency"`
	Status         EventStatus `json:"status"`
	LastError      *string     `json:"last_error,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// NewReservationCancelledEvent builds a pending cancellation event
func NewReservationCancelledEvent(reservationID, businessID uuid.UUID, businessName, recipientEmail, refundAmount, currency string) *ReservationCancelledEvent {
	now := time.Now().UTC()
	return &ReservationCancelledEvent{
		ID:             uuid.New(),
		Type:           EventReservationCancelled,
		ReservationID:  reservationID,
		BusinessID:     businessID,
		BusinessName:   businessName,
		RecipientEmail: recipientEmail,
		RefundAmount:   refundAmount,
		Currency:       currency,
		Status:         EventStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// ToJSON serializes the event for the wire
func (e *ReservationCancelledEvent) ToJSON() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	return data, nil
}

// PartitionKey routes all of a guest's notifications to one partition so
// they are delivered in order.
func (e *ReservationCancelledEvent) PartitionKey() string {
	return e.RecipientEmail
}
