package reservations

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"reservly/internal/notifications"
	"reservly/internal/policies"
	"reservly/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service interface defines the contract for reservation management and the
// guest cancellation workflow
type Service interface {
	CreateReservation(ctx context.Context, businessID uuid.UUID, req ReservationRequest) (*Reservation, error)
	GetReservation(ctx context.Context, id uuid.UUID) (*Reservation, error)
	ListReservations(ctx context.Context, businessID uuid.UUID) ([]Reservation, error)

	CancelReservation(ctx context.Context, reservationID uuid.UUID, req CancellationRequest) (*Cancellation, error)
	GetCancellation(ctx context.Context, reservationID uuid.UUID) (*Cancellation, error)
	ListCancellations(ctx context.Context, businessID uuid.UUID) ([]Cancellation, error)
}

// PolicyResolver is the slice of the policy service the cancellation
// workflow needs.
type PolicyResolver interface {
	ResolveCancellation(ctx context.Context, businessID uuid.UUID, total decimal.Decimal, daysUntilStart int, precision int32) (policies.Resolution, error)
}

// Publisher is the slice of the notification producer the workflow needs.
type Publisher interface {
	PublishReservationCancelled(ctx context.Context, event *notifications.ReservationCancelledEvent) error
}

// service implements the Service interface
type service struct {
	repo      Repository
	resolver  PolicyResolver
	directory policies.BusinessDirectory
	publisher Publisher
	log       *logger.Logger
	now       func() time.Time
}

// NewService creates a new reservation service instance. The publisher is
// optional; with a nil publisher cancellations are processed but no event is
// emitted.
func NewService(repo Repository, resolver PolicyResolver, directory policies.BusinessDirectory, publisher Publisher, log *logger.Logger) Service {
	return &service{
		repo:      repo,
		resolver:  resolver,
		directory: directory,
		publisher: publisher,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateReservation records a confirmed booking for a business
func (s *service) CreateReservation(ctx context.Context, businessID uuid.UUID, req ReservationRequest) (*Reservation, error) {
	info, err := s.directory.GetBusinessInfo(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to get business: %w", err)
	}

	total, err := decimal.NewFromString(req.TotalAmount)
	if err != nil || total.IsNegative() {
		return nil, fmt.Errorf("invalid total amount %q", req.TotalAmount)
	}

	now := s.now()
	reservation := &Reservation{
		ID:            uuid.New(),
		BusinessID:    businessID,
		GuestName:     req.GuestName,
		GuestEmail:    req.GuestEmail,
		GuestPhone:    req.GuestPhone,
		CheckIn:       req.CheckIn,
		CheckOut:      req.CheckOut,
		TotalAmount:   total,
		Currency:      info.Currency,
		Status:        StatusConfirmed.String(),
		PaymentStatus: PaymentPaid.String(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, reservation); err != nil {
		return nil, err
	}

	return reservation, nil
}

// GetReservation retrieves a reservation by id
func (s *service) GetReservation(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	return s.repo.GetByID(ctx, id)
}

// ListReservations returns a business's reservations
func (s *service) ListReservations(ctx context.Context, businessID uuid.UUID) ([]Reservation, error) {
	return s.repo.ListByBusiness(ctx, businessID)
}

// CancelReservation processes a cancellation end to end: it computes how
// many whole days remain before check-in, resolves the business's policy set
// for that timing, records the cancellation with the computed refund, marks
// the reservation cancelled and publishes the event. Whether cancellation is
// permitted at all was decided upstream; a no-match resolution defaults to a
// zero refund rather than blocking the cancellation.
func (s *service) CancelReservation(ctx context.Context, reservationID uuid.UUID, req CancellationRequest) (*Cancellation, error) {
	reservation, err := s.repo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	if !Status(reservation.Status).CanBeCancelled() {
		return nil, fmt.Errorf("reservation %s cannot be cancelled in status %s", reservationID, reservation.Status)
	}

	if _, err := s.repo.GetCancellationByReservationID(ctx, reservationID); err == nil {
		return nil, fmt.Errorf("cancellation already exists for reservation %s", reservationID)
	}

	info, err := s.directory.GetBusinessInfo(ctx, reservation.BusinessID)
	if err != nil {
		return nil, fmt.Errorf("failed to get business: %w", err)
	}

	now := s.now()
	daysBefore := wholeDaysUntil(now, reservation.CheckIn)

	resolution, err := s.resolver.ResolveCancellation(ctx, reservation.BusinessID, reservation.TotalAmount, daysBefore, info.CurrencyPrecision)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cancellation policy: %w", err)
	}

	cancellation := &Cancellation{
		ID:                uuid.New(),
		ReservationID:     reservationID,
		DaysBeforeCheckIn: daysBefore,
		RefundPercentage:  resolution.RefundPercentage,
		RefundAmount:      resolution.RefundAmount,
		Currency:          reservation.Currency,
		CancelledBy:       defaultCancelledBy(req.CancelledBy),
		Reason:            req.Reason,
		RequestedAt:       now,
		CreatedAt:         now,
	}
	if resolution.Matched {
		id := resolution.Policy.ID
		cancellation.MatchedPolicyID = &id
	}

	if err := s.repo.CreateCancellation(ctx, cancellation); err != nil {
		return nil, err
	}

	reservation.Cancel()
	if resolution.RefundAmount.IsPositive() && reservation.PaymentStatus == PaymentPaid.String() {
		reservation.PaymentStatus = PaymentRefunded.String()
	}
	if err := s.repo.Update(ctx, reservation); err != nil {
		return cancellation, fmt.Errorf("cancellation recorded but failed to update reservation: %w", err)
	}

	s.publishCancelled(ctx, reservation, cancellation, info)

	return cancellation, nil
}

// GetCancellation retrieves the cancellation for a reservation
func (s *service) GetCancellation(ctx context.Context, reservationID uuid.UUID) (*Cancellation, error) {
	return s.repo.GetCancellationByReservationID(ctx, reservationID)
}

// ListCancellations returns all cancellations for a business
func (s *service) ListCancellations(ctx context.Context, businessID uuid.UUID) ([]Cancellation, error) {
	return s.repo.ListCancellationsByBusiness(ctx, businessID)
}

// publishCancelled emits the cancellation-processed event. Publishing is
// best effort: the cancellation is already committed, so a broker failure is
// logged, not returned.
func (s *service) publishCancelled(ctx context.Context, reservation *Reservation, cancellation *Cancellation, info policies.BusinessInfo) {
	if s.publisher == nil {
		return
	}

	event := notifications.NewReservationCancelledEvent(
		reservation.ID,
		reservation.BusinessID,
		info.Name,
		reservation.GuestEmail,
		cancellation.RefundAmount.StringFixed(info.CurrencyPrecision),
		reservation.Currency,
	)

	if err := s.publisher.PublishReservationCancelled(ctx, event); err != nil && s.log != nil {
		s.log.Error("failed to publish cancellation event",
			slog.String("reservation_id", reservation.ID.String()),
			slog.Any("error", err),
		)
	}
}

// wholeDaysUntil floors to whole days; a check-in already in the past yields
// a negative count, which only a zero-threshold catch-all policy matches.
func wholeDaysUntil(now, checkIn time.Time) int {
	return int(math.Floor(checkIn.Sub(now).Hours() / 24))
}

func defaultCancelledBy(v string) string {
	if v == "" {
		return "GUEST"
	}
	return v
}
