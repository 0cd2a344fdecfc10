package policies

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CancellationContext carries the timing and amount inputs for one
// resolution. DaysUntilStart may be negative when the cancellation is
// requested after check-in. CurrencyPrecision is the minor-unit precision of
// the business's currency; the resolver never learns currency tables.
type CancellationContext struct {
	BusinessID        uuid.UUID
	ReservationTotal  decimal.Decimal
	DaysUntilStart    int
	CurrencyPrecision int32
}

// Resolution is the outcome of resolving one cancellation. NoMatch (Matched
// == false) is a valid outcome, not an error; the calling workflow decides
// the default, commonly a zero refund.
type Resolution struct {
	Matched          bool                `json:"matched"`
	Policy           *CancellationPolicy `json:"policy,omitempty"`
	RefundPercentage decimal.Decimal     `json:"refund_percentage"`
	RefundAmount     decimal.Decimal     `json:"refund_amount"`
}

// Resolve picks the applicable policy for a cancellation and computes the
// refund. It is pure: no I/O, no mutation, same inputs always produce the
// same output, safe to call concurrently against a shared snapshot.
//
// The set is ordered by DaysBefore descending, so the first policy whose
// threshold the caller still satisfies is the one demanding the most advance
// notice. A zero-DaysBefore policy is the catch-all and matches even at or
// after check-in. Duplicate thresholds resolve deterministically by id
// order; configuring different percentages on the same threshold is a
// configuration smell, not something the engine corrects.
func Resolve(set *PolicySet, rctx CancellationContext) (Resolution, error) {
	if rctx.ReservationTotal.IsNegative() {
		return Resolution{}, &ValidationError{
			Field:   "reservation_total",
			Message: "must not be negative",
		}
	}
	if rctx.CurrencyPrecision < 0 {
		return Resolution{}, &ValidationError{
			Field:   "currency_precision",
			Message: "must be zero or positive",
		}
	}

	for _, p := range set.policies {
		if p.DaysBefore > 0 && p.DaysBefore > rctx.DaysUntilStart {
			continue
		}
		matched := p
		return Resolution{
			Matched:          true,
			Policy:           &matched,
			RefundPercentage: p.RefundPercentage,
			RefundAmount:     refundAmount(rctx.ReservationTotal, p.RefundPercentage, rctx.CurrencyPrecision),
		}, nil
	}

	return Resolution{
		Matched:          false,
		RefundPercentage: decimal.Zero,
		RefundAmount:     decimal.Zero,
	}, nil
}

// refundAmount computes total * pct / 100 rounded half-up to the currency's
// minor-unit precision. Shift keeps the division by 100 exact; rounding
// happens once, at the end. The result is clamped to the total so rounding
// up at a coarse precision can never refund more than was paid.
func refundAmount(total, pct decimal.Decimal, precision int32) decimal.Decimal {
	refund := total.Mul(pct).Shift(-2).Round(precision)
	if refund.GreaterThan(total) {
		return total
	}
	return refund
}
