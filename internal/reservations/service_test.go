package reservations

import (
	"context"
	"errors"
	"testing"
	"time"

	"reservly/internal/notifications"
	"reservly/internal/policies"
	"reservly/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	reservations  map[uuid.UUID]Reservation
	cancellations map[uuid.UUID]Cancellation // keyed by reservation id
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		reservations:  make(map[uuid.UUID]Reservation),
		cancellations: make(map[uuid.UUID]Cancellation),
	}
}

func (f *fakeRepository) Create(_ context.Context, r *Reservation) error {
	f.reservations[r.ID] = *r
	return nil
}

func (f *fakeRepository) GetByID(_ context.Context, id uuid.UUID) (*Reservation, error) {
	r, ok := f.reservations[id]
	if !ok {
		return nil, ErrReservationNotFound
	}
	return &r, nil
}

func (f *fakeRepository) Update(_ context.Context, r *Reservation) error {
	f.reservations[r.ID] = *r
	return nil
}

func (f *fakeRepository) ListByBusiness(_ context.Context, businessID uuid.UUID) ([]Reservation, error) {
	var out []Reservation
	for _, r := range f.reservations {
		if r.BusinessID == businessID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepository) CreateCancellation(_ context.Context, c *Cancellation) error {
	f.cancellations[c.ReservationID] = *c
	return nil
}

func (f *fakeRepository) GetCancellationByReservationID(_ context.Context, reservationID uuid.UUID) (*Cancellation, error) {
	c, ok := f.cancellations[reservationID]
	if !ok {
		return nil, ErrCancellationNotFound
	}
	return &c, nil
}

func (f *fakeRepository) ListCancellationsByBusiness(_ context.Context, _ uuid.UUID) ([]Cancellation, error) {
	var out []Cancellation
	for _, c := range f.cancellations {
		out = append(out, c)
	}
	return out, nil
}

type fakeResolver struct {
	resolution policies.Resolution
	err        error

	gotTotal     decimal.Decimal
	gotDays      int
	gotPrecision int32
	calls        int
}

func (f *fakeResolver) ResolveCancellation(_ context.Context, _ uuid.UUID, total decimal.Decimal, daysUntilStart int, precision int32) (policies.Resolution, error) {
	f.calls++
	f.gotTotal = total
	f.gotDays = daysUntilStart
	f.gotPrecision = precision
	return f.resolution, f.err
}

type fakeDirectory struct {
	info policies.BusinessInfo
	err  error
}

func (f *fakeDirectory) GetBusinessInfo(_ context.Context, businessID uuid.UUID) (policies.BusinessInfo, error) {
	if f.err != nil {
		return policies.BusinessInfo{}, f.err
	}
	info := f.info
	info.ID = businessID
	return info, nil
}

type fakePublisher struct {
	events []*notifications.ReservationCancelledEvent
	err    error
}

func (f *fakePublisher) PublishReservationCancelled(_ context.Context, event *notifications.ReservationCancelledEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

type cancelFixture struct {
	svc       *service
	repo      *fakeRepository
	resolver  *fakeResolver
	publisher *fakePublisher
	now       time.Time
}

func newCancelFixture(t *testing.T) *cancelFixture {
	t.Helper()
	repo := newFakeRepository()
	resolver := &fakeResolver{}
	publisher := &fakePublisher{}
	directory := &fakeDirectory{
		info: policies.BusinessInfo{Name: "Harborview Hotel", Currency: "USD", CurrencyPrecision: 2},
	}

	svc := NewService(repo, resolver, directory, publisher, logger.GetDefault()).(*service)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	return &cancelFixture{
		svc:       svc,
		repo:      repo,
		resolver:  resolver,
		publisher: publisher,
		now:       now,
	}
}

func (f *cancelFixture) seedReservation(t *testing.T, checkIn time.Time, total string) *Reservation {
	t.Helper()
	reservation := &Reservation{
		ID:            uuid.New(),
		BusinessID:    uuid.New(),
		GuestName:     "Ava Martin",
		GuestEmail:    "ava.martin@example.com",
		CheckIn:       checkIn,
		CheckOut:      checkIn.AddDate(0, 0, 2),
		TotalAmount:   decimal.RequireFromString(total),
		Currency:      "USD",
		Status:        StatusConfirmed.String(),
		PaymentStatus: PaymentPaid.String(),
	}
	require.NoError(t, f.repo.Create(context.Background(), reservation))
	return reservation
}

func matchedResolution(refundPct, refundAmount string) policies.Resolution {
	matched := policies.CancellationPolicy{ID: uuid.New(), DaysBefore: 7}
	return policies.Resolution{
		Matched:          true,
		Policy:           &matched,
		RefundPercentage: decimal.RequireFromString(refundPct),
		RefundAmount:     decimal.RequireFromString(refundAmount),
	}
}

func TestCancelReservation_RecordsRefundAndFlipsStatus(t *testing.T) {
	// GIVEN a paid reservation ten days before check-in
	f := newCancelFixture(t)
	reservation := f.seedReservation(t, f.now.AddDate(0, 0, 10), "380.00")
	f.resolver.resolution = matchedResolution("50", "190.00")

	// WHEN the guest cancels
	cancellation, err := f.svc.CancelReservation(context.Background(), reservation.ID, CancellationRequest{
		Reason: "change of plans",
	})

	// THEN the cancellation records the resolved refund
	require.NoError(t, err)
	assert.Equal(t, 10, cancellation.DaysBeforeCheckIn)
	assert.True(t, cancellation.RefundAmount.Equal(decimal.RequireFromString("190.00")))
	require.NotNil(t, cancellation.MatchedPolicyID)
	assert.Equal(t, f.resolver.resolution.Policy.ID, *cancellation.MatchedPolicyID)
	assert.Equal(t, "GUEST", cancellation.CancelledBy)

	// AND the resolver saw the reservation's own amount and timing
	assert.True(t, f.resolver.gotTotal.Equal(reservation.TotalAmount))
	assert.Equal(t, 10, f.resolver.gotDays)
	assert.Equal(t, int32(2), f.resolver.gotPrecision)

	// AND the reservation is cancelled and marked refunded
	updated, err := f.repo.GetByID(context.Background(), reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled.String(), updated.Status)
	assert.Equal(t, PaymentRefunded.String(), updated.PaymentStatus)
	require.NotNil(t, updated.CancelledAt)
}

func TestCancelReservation_PublishesEvent(t *testing.T) {
	f := newCancelFixture(t)
	reservation := f.seedReservation(t, f.now.AddDate(0, 0, 10), "380.00")
	f.resolver.resolution = matchedResolution("50", "190.00")

	_, err := f.svc.CancelReservation(context.Background(), reservation.ID, CancellationRequest{})

	require.NoError(t, err)
	require.Len(t, f.publisher.events, 1)
	event := f.publisher.events[0]
	assert.Equal(t, reservation.ID, event.ReservationID)
	assert.Equal(t, reservation.GuestEmail, event.RecipientEmail)
	assert.Equal(t, "190.00", event.RefundAmount)
	assert.Equal(t, "USD", event.Currency)
}

func TestCancelReservation_BrokerFailureDoesNotFailCancellation(t *testing.T) {
	// GIVEN a publisher whose broker is unreachable
	f := newCancelFixture(t)
	reservation := f.seedReservation(t, f.now.AddDate(0, 0, 10), "380.00")
	f.resolver.resolution = matchedResolution("50", "190.00")
	f.publisher.err = errors.New("broker unreachable")

	// WHEN the guest cancels
	cancellation, err := f.svc.CancelReservation(context.Background(), reservation.ID, CancellationRequest{})

	// THEN the cancellation is still committed
	require.NoError(t, err)
	require.NotNil(t, cancellation)

	updated, err := f.repo.GetByID(context.Background(), reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled.String(), updated.Status)
}

func TestCancelReservation_NoMatchDefaultsToZeroRefund(t *testing.T) {
	// GIVEN a business whose rule set yields no match for this timing
	f := newCancelFixture(t)
	reservation := f.seedReservation(t, f.now.AddDate(0, 0, 2), "199.99")
	f.resolver.resolution = policies.Resolution{
		Matched:          false,
		RefundPercentage: decimal.Zero,
		RefundAmount:     decimal.Zero,
	}

	// WHEN the guest cancels anyway
	cancellation, err := f.svc.CancelReservation(context.Background(), reservation.ID, CancellationRequest{})

	// THEN the cancellation proceeds with a zero refund and no policy link
	require.NoError(t, err)
	assert.Nil(t, cancellation.MatchedPolicyID)
	assert.True(t, cancellation.RefundAmount.IsZero())

	// AND the payment stays settled since nothing is owed back
	updated, err := f.repo.GetByID(context.Background(), reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled.String(), updated.Status)
	assert.Equal(t, PaymentPaid.String(), updated.PaymentStatus)
}

func TestCancelReservation_AlreadyCancelledIsRejected(t *testing.T) {
	f := newCancelFixture(t)
	reservation := f.seedReservation(t, f.now.AddDate(0, 0, 10), "380.00")
	f.resolver.resolution = matchedResolution("50", "190.00")

	_, err := f.svc.CancelReservation(context.Background(), reservation.ID, CancellationRequest{})
	require.NoError(t, err)

	// A second cancellation of the same reservation must fail
	_, err = f.svc.CancelReservation(context.Background(), reservation.ID, CancellationRequest{})
	require.Error(t, err)

	// And the resolver only ever ran for the first one
	assert.Equal(t, 1, f.resolver.calls)
}

func TestCancelReservation_UnknownReservation(t *testing.T) {
	f := newCancelFixture(t)

	_, err := f.svc.CancelReservation(context.Background(), uuid.New(), CancellationRequest{})

	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestCancelReservation_ResolverFailureBlocksCancellation(t *testing.T) {
	// GIVEN the policy store is down
	f := newCancelFixture(t)
	reservation := f.seedReservation(t, f.now.AddDate(0, 0, 10), "380.00")
	f.resolver.err = errors.New("store unavailable")

	// WHEN the guest cancels
	_, err := f.svc.CancelReservation(context.Background(), reservation.ID, CancellationRequest{})

	// THEN nothing is committed
	require.Error(t, err)
	updated, getErr := f.repo.GetByID(context.Background(), reservation.ID)
	require.NoError(t, getErr)
	assert.Equal(t, StatusConfirmed.String(), updated.Status)
	_, cancErr := f.repo.GetCancellationByReservationID(context.Background(), reservation.ID)
	assert.ErrorIs(t, cancErr, ErrCancellationNotFound)
}

func TestCancelReservation_FloorsPartialDays(t *testing.T) {
	// GIVEN check-in is six days and 23 hours away
	f := newCancelFixture(t)
	reservation := f.seedReservation(t, f.now.Add(7*24*time.Hour-time.Hour), "380.00")
	f.resolver.resolution = matchedResolution("0", "0")

	// WHEN the guest cancels
	_, err := f.svc.CancelReservation(context.Background(), reservation.ID, CancellationRequest{})

	// THEN only six whole days count
	require.NoError(t, err)
	assert.Equal(t, 6, f.resolver.gotDays)
}

func TestCancelReservation_PastCheckInYieldsNegativeDays(t *testing.T) {
	f := newCancelFixture(t)
	reservation := f.seedReservation(t, f.now.Add(-30*time.Hour), "380.00")
	f.resolver.resolution = matchedResolution("0", "0")

	_, err := f.svc.CancelReservation(context.Background(), reservation.ID, CancellationRequest{})

	require.NoError(t, err)
	assert.Equal(t, -2, f.resolver.gotDays)
}

func TestCancelReservation_BusinessCancellationIsRecorded(t *testing.T) {
	f := newCancelFixture(t)
	reservation := f.seedReservation(t, f.now.AddDate(0, 0, 10), "380.00")
	f.resolver.resolution = matchedResolution("100", "380.00")

	cancellation, err := f.svc.CancelReservation(context.Background(), reservation.ID, CancellationRequest{
		CancelledBy: "BUSINESS",
		Reason:      "overbooked",
	})

	require.NoError(t, err)
	assert.Equal(t, "BUSINESS", cancellation.CancelledBy)
	assert.Equal(t, "overbooked", cancellation.Reason)
}

func TestCreateReservation_UsesBusinessCurrency(t *testing.T) {
	f := newCancelFixture(t)
	businessID := uuid.New()

	reservation, err := f.svc.CreateReservation(context.Background(), businessID, ReservationRequest{
		GuestName:   "Noah Patel",
		GuestEmail:  "noah.patel@example.com",
		CheckIn:     f.now.AddDate(0, 0, 14),
		TotalAmount: "620.00",
	})

	require.NoError(t, err)
	assert.Equal(t, businessID, reservation.BusinessID)
	assert.Equal(t, "USD", reservation.Currency)
	assert.Equal(t, StatusConfirmed.String(), reservation.Status)
	assert.True(t, reservation.TotalAmount.Equal(decimal.RequireFromString("620.00")))
}

func TestCreateReservation_RejectsBadAmount(t *testing.T) {
	f := newCancelFixture(t)

	for _, amount := range []string{"", "abc", "-10"} {
		_, err := f.svc.CreateReservation(context.Background(), uuid.New(), ReservationRequest{
			GuestName:   "Noah Patel",
			GuestEmail:  "noah.patel@example.com",
			CheckIn:     f.now.AddDate(0, 0, 14),
			TotalAmount: amount,
		})
		assert.Error(t, err, "amount %q should be rejected", amount)
	}
}
