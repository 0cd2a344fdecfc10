package policies

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	percentFloor = decimal.Zero
	percentCeil  = decimal.NewFromInt(100)
)

// PolicySet is an immutable, validated view of one business's cancellation
// rules, ordered by DaysBefore descending. Equal thresholds are broken by
// policy id ascending so resolution is reproducible no matter what order the
// store returns records in. A PolicySet is never mutated after construction;
// writers build a new one and swap it in wholesale.
type PolicySet struct {
	businessID uuid.UUID
	policies   []CancellationPolicy
}

// NewPolicySet validates and orders a business's policies. Any policy that
// violates the field invariants rejects the whole set: a bad rule is a
// configuration error the administrator must see, not something to silently
// drop during resolution.
func NewPolicySet(businessID uuid.UUID, policies []CancellationPolicy) (*PolicySet, error) {
	for i := range policies {
		if err := validatePolicyFields(policies[i].DaysBefore, policies[i].RefundPercentage); err != nil {
			return nil, fmt.Errorf("policy %s: %w", policies[i].ID, err)
		}
	}

	ordered := make([]CancellationPolicy, len(policies))
	copy(ordered, policies)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].DaysBefore != ordered[j].DaysBefore {
			return ordered[i].DaysBefore > ordered[j].DaysBefore
		}
		return ordered[i].ID.String() < ordered[j].ID.String()
	})

	return &PolicySet{
		businessID: businessID,
		policies:   ordered,
	}, nil
}

// BusinessID returns the owning tenant of this set.
func (s *PolicySet) BusinessID() uuid.UUID {
	return s.businessID
}

// Len returns the number of policies in the set.
func (s *PolicySet) Len() int {
	return len(s.policies)
}

// IsEmpty reports whether the business has no cancellation rules configured.
func (s *PolicySet) IsEmpty() bool {
	return len(s.policies) == 0
}

// Policies returns a copy of the ordered rules (DaysBefore descending).
func (s *PolicySet) Policies() []CancellationPolicy {
	out := make([]CancellationPolicy, len(s.policies))
	copy(out, s.policies)
	return out
}

// validatePolicyFields checks the per-policy invariants shared by set
// construction and the administrator's create/update paths.
func validatePolicyFields(daysBefore int, refundPercentage decimal.Decimal) error {
	if daysBefore < 0 {
		return &ValidationError{
			Field:   "days_before",
			Message: "must be zero or a positive number of days",
		}
	}
	if refundPercentage.LessThan(percentFloor) || refundPercentage.GreaterThan(percentCeil) {
		return &ValidationError{
			Field:   "refund_percentage",
			Message: "must be between 0 and 100",
		}
	}
	return nil
}
