package policies

import (
	"errors"
	"fmt"
)

// ErrPolicyNotFound is returned when an update or delete references a policy
// id the store does not know.
var ErrPolicyNotFound = errors.New("cancellation policy not found")

// ValidationError reports a policy or cancellation-context field that
// violates its invariants. It is always recoverable by correcting the input
// and is never produced during resolution of a well-formed context.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// StoreError wraps a persistence failure so callers can tell it apart from
// validation failures and from a no-match resolution. The underlying error
// is preserved unchanged.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("policy store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a field validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsStore reports whether err originated in the policy store.
func IsStore(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
