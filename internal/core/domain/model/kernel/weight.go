package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// ErrWeightIsNotConstructed is returned when attempting to use an
// improperly initialized Weight. Weights must be created via NewWeight or
// NewWeightOrMinimum.
var ErrWeightIsNotConstructed = errs.NewValueIsRequiredError(
	"weight must be created via NewWeight or NewWeightOrMinimum constructors")

// MinimumWeight is the smallest weight the allocator accepts. Orders whose
// computed weight is zero, negative, or unavailable are batched at this
// value instead of being rejected.
var MinimumWeight = decimal.NewFromInt(1)

// Weight is a positive decimal cargo weight. It is an immutable value
// object; all arithmetic returns new instances. Decimal representation
// keeps batch weight accounting exact: the stored batch total must always
// be recomputable as the sum of member order weights without drift.
type Weight struct { //nolint:recvcheck //using for validation
	value decimal.Decimal
	guard guard.ConstructorGuard
}

// NewWeight creates a Weight from a decimal value.
// Returns an error when the value is not strictly positive.
func NewWeight(value decimal.Decimal) (Weight, error) {
	w := Weight{
		guard: guard.NewConstructorGuard(),
	}

	if err := w.setValue(value); err != nil {
		return Weight{}, err
	}

	return w, nil
}

// NewWeightOrMinimum creates a Weight from a decimal value, substituting
// MinimumWeight when the value is zero or negative. It never fails: a
// positive weight is required by the allocator invariant, so missing or
// broken weight data degrades to the minimum instead of blocking approval.
func NewWeightOrMinimum(value decimal.Decimal) Weight {
	if value.LessThanOrEqual(decimal.Zero) {
		value = MinimumWeight
	}

	return Weight{
		value: value,
		guard: guard.NewConstructorGuard(),
	}
}

// Validate checks that the Weight was created via a constructor.
// The zero value is invalid and fails this check.
func (w Weight) Validate() error {
	return w.guard.Validate(ErrWeightIsNotConstructed)
}

// Value returns the underlying decimal.
func (w Weight) Value() decimal.Decimal {
	return w.value
}

// Add returns the sum of two weights.
func (w Weight) Add(other Weight) (Weight, error) {
	if err := other.Validate(); err != nil {
		return Weight{}, err
	}

	return Weight{
		value: w.value.Add(other.value),
		guard: guard.NewConstructorGuard(),
	}, nil
}

// IsEqual compares two weights by value.
func (w Weight) IsEqual(other Weight) bool {
	return w.value.Equal(other.value)
}

// String implements fmt.Stringer.
func (w Weight) String() string {
	return w.value.String()
}

func (w *Weight) setValue(value decimal.Decimal) error {
	if value.LessThanOrEqual(decimal.Zero) {
		return errs.NewValueIsInvalidErrorWithCause("weight",
			fmt.Errorf("%s is not greater than 0", value))
	}

	w.value = value
	return nil
}
