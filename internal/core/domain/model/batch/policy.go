package batch

import (
	"errors"
	"fmt"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// ErrPolicyIsNotConstructed is returned when a Policy instance was not
// created through NewPolicy.
var ErrPolicyIsNotConstructed = errors.New("Policy must be created via NewPolicy constructor")

// Policy carries the configured batching limits: the hard weight capacity
// and the ready threshold at which a collecting batch is offered for
// dispatch. The threshold may equal the capacity (dispatch only full
// batches) or be lower (dispatch once a configured minimum is collected);
// it is never higher.
type Policy struct { //nolint:recvcheck //using for validation
	capacity       decimal.Decimal
	readyThreshold decimal.Decimal

	guard guard.ConstructorGuard
}

// NewPolicy creates a batching policy.
// Capacity must be positive and 0 < readyThreshold <= capacity.
func NewPolicy(capacity decimal.Decimal, readyThreshold decimal.Decimal) (Policy, error) {
	p := Policy{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setCapacity(capacity),
		p.setReadyThreshold(readyThreshold, capacity),
	); err != nil {
		return Policy{}, err
	}

	return p, nil
}

// NewFullCapacityPolicy creates a policy whose ready threshold equals the
// capacity: batches are offered for dispatch only when full.
func NewFullCapacityPolicy(capacity decimal.Decimal) (Policy, error) {
	return NewPolicy(capacity, capacity)
}

// Validate ensures the policy was created through a constructor.
func (p Policy) Validate() error {
	return p.guard.Validate(ErrPolicyIsNotConstructed)
}

// Capacity returns the maximum accumulated weight a batch may hold.
func (p Policy) Capacity() decimal.Decimal {
	return p.capacity
}

// ReadyThreshold returns the accumulated weight at which a collecting
// batch transitions to Ready.
func (p Policy) ReadyThreshold() decimal.Decimal {
	return p.readyThreshold
}

func (p *Policy) setCapacity(capacity decimal.Decimal) error {
	if capacity.LessThanOrEqual(decimal.Zero) {
		return errs.NewValueIsInvalidErrorWithCause("capacity",
			fmt.Errorf("%s is not greater than 0", capacity))
	}
	p.capacity = capacity
	return nil
}

func (p *Policy) setReadyThreshold(threshold decimal.Decimal, capacity decimal.Decimal) error {
	if threshold.LessThanOrEqual(decimal.Zero) || threshold.GreaterThan(capacity) {
		return errs.NewValueIsInvalidErrorWithCause("ready threshold",
			fmt.Errorf("%s is not within (0, %s]", threshold, capacity))
	}
	p.readyThreshold = threshold
	return nil
}
