package batch

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrBatchIsNotConstructed is returned when a Batch instance was not created
	// through the NewBatch factory method.
	ErrBatchIsNotConstructed = errors.New("Batch must be created via NewBatch constructor")

	// ErrBatchClosed is returned when adding weight to a batch that is no
	// longer collecting.
	ErrBatchClosed = errors.New("batch is no longer collecting")

	// ErrCapacityExceeded is returned when an added weight would push the
	// accumulated weight past the batch capacity.
	ErrCapacityExceeded = errors.New("batch capacity exceeded")
)

// Batch is a collection of approved orders destined for consolidated
// dispatch, bounded by a weight capacity and scoped to a single delivery
// region. It is the aggregate root governing weight accounting and the
// dispatch lifecycle.
//
// Batch follows these invariants:
//   - accumulated weight never exceeds the capacity
//   - the stored accumulated weight is a cache of the sum of member order
//     weights; RestateWeight exists to repair drift from that source of truth
//   - status only moves forward (Cancelled is reachable before InTransit)
//   - the region key is never empty
type Batch struct {
	id        kernel.UUID
	regionKey kernel.RegionKey
	weight    decimal.Decimal
	policy    Policy
	status    Status
	driverID  *kernel.UUID
	createdAt time.Time

	isConstructed bool
}

// NewBatch creates a Collecting batch holding the given initial weight,
// stamped with the current time. The initial weight must fit the policy
// capacity.
func NewBatch(id kernel.UUID, regionKey kernel.RegionKey, initial kernel.Weight, policy Policy) (*Batch, error) {
	b := &Batch{
		status:        Collecting,
		createdAt:     time.Now().UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		b.setID(id),
		b.setRegionKey(regionKey),
		b.setPolicy(policy),
	); err != nil {
		return nil, err
	}

	if err := initial.Validate(); err != nil {
		return nil, err
	}

	if initial.Value().GreaterThan(policy.Capacity()) {
		return nil, fmt.Errorf("%w: %s into empty batch with capacity %s",
			ErrCapacityExceeded, initial, policy.Capacity())
	}

	b.weight = initial.Value()
	return b, nil
}

// RestoreBatch reconstructs a Batch from persistence with its full state.
func RestoreBatch(
	id kernel.UUID,
	regionKey kernel.RegionKey,
	weight decimal.Decimal,
	policy Policy,
	status Status,
	driverID *kernel.UUID,
	createdAt time.Time,
) (*Batch, error) {
	b := &Batch{
		isConstructed: true,
	}

	if err := errors.Join(
		b.setID(id),
		b.setRegionKey(regionKey),
		b.setPolicy(policy),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	if weight.IsNegative() || weight.GreaterThan(policy.Capacity()) {
		return nil, errs.NewValueIsOutOfRangeError("accumulated weight",
			weight.String(), "0", policy.Capacity().String())
	}

	if driverID != nil {
		if err := driverID.Validate(); err != nil {
			return nil, err
		}
	}

	b.weight = weight
	b.status = status
	b.driverID = driverID
	b.createdAt = createdAt
	return b, nil
}

// Validate ensures the Batch instance was properly constructed.
func (b *Batch) Validate() error {
	if b == nil || !b.isConstructed {
		return ErrBatchIsNotConstructed
	}
	return nil
}

// IsEqual compares two batches by their unique identifiers.
func (b *Batch) IsEqual(other *Batch) bool {
	return other != nil && b.id.IsEqual(other.id)
}

// ID returns the batch's unique identifier.
func (b *Batch) ID() kernel.UUID {
	return b.id
}

// RegionKey returns the delivery region this batch is scoped to.
func (b *Batch) RegionKey() kernel.RegionKey {
	return b.regionKey
}

// AccumulatedWeight returns the cached total weight of member orders.
func (b *Batch) AccumulatedWeight() decimal.Decimal {
	return b.weight
}

// Policy returns the capacity/threshold policy the batch was created with.
func (b *Batch) Policy() Policy {
	return b.policy
}

// Status returns the current lifecycle status.
func (b *Batch) Status() Status {
	return b.status
}

// Driver returns the assigned driver's ID, or nil when unassigned.
func (b *Batch) Driver() *kernel.UUID {
	return b.driverID
}

// CreatedAt returns the creation timestamp, used for FIFO tie-breaking.
func (b *Batch) CreatedAt() time.Time {
	return b.createdAt
}

// IsOpen reports whether the batch still accepts orders.
func (b *Batch) IsOpen() bool {
	return b.status.IsOpen()
}

// RemainingCapacity returns how much weight the batch can still accept.
func (b *Batch) RemainingCapacity() decimal.Decimal {
	return b.policy.Capacity().Sub(b.weight)
}

// CanAccept reports whether the given weight fits the remaining capacity
// of a collecting batch.
func (b *Batch) CanAccept(w kernel.Weight) bool {
	if !b.IsOpen() {
		return false
	}
	return w.Value().LessThanOrEqual(b.RemainingCapacity())
}

// Accept adds an order's weight to the accumulated total. The batch must
// be collecting and the weight must fit the remaining capacity; the
// caller assigns the order's batch reference in the same transaction.
func (b *Batch) Accept(w kernel.Weight) error {
	if err := w.Validate(); err != nil {
		return err
	}

	if !b.IsOpen() {
		return ErrBatchClosed
	}

	if w.Value().GreaterThan(b.RemainingCapacity()) {
		return fmt.Errorf("%w: %s into batch at %s/%s",
			ErrCapacityExceeded, w, b.weight, b.policy.Capacity())
	}

	b.weight = b.weight.Add(w.Value())
	return nil
}

// CanAbsorb reports whether another batch's entire weight fits into this
// one. Both batches must be collecting and share a region.
func (b *Batch) CanAbsorb(other *Batch) bool {
	if other == nil || !b.IsOpen() || !other.IsOpen() {
		return false
	}
	if !b.regionKey.IsEqual(other.regionKey) {
		return false
	}
	return other.weight.LessThanOrEqual(b.RemainingCapacity())
}

// Absorb merges another batch's weight into this one during consolidation.
// The caller repoints the source batch's member orders and deletes the
// emptied source in the same transaction.
func (b *Batch) Absorb(other *Batch) error {
	if err := other.Validate(); err != nil {
		return err
	}

	if !b.CanAbsorb(other) {
		return fmt.Errorf("%w: absorbing %s into batch at %s/%s",
			ErrCapacityExceeded, other.weight, b.weight, b.policy.Capacity())
	}

	b.weight = b.weight.Add(other.weight)
	other.weight = decimal.Zero
	return nil
}

// RestateWeight overwrites the cached accumulated weight with a total
// recomputed from member orders. This is the explicit reconciliation
// operation for repairing cache drift; it does not change the status.
func (b *Batch) RestateWeight(total decimal.Decimal) error {
	if total.IsNegative() || total.GreaterThan(b.policy.Capacity()) {
		return errs.NewValueIsOutOfRangeError("accumulated weight",
			total.String(), "0", b.policy.Capacity().String())
	}

	b.weight = total
	return nil
}

// RefreshReadiness fires the Collecting -> Ready transition when the
// accumulated weight reached the policy's ready threshold. Returns true
// when the transition fired. Calling it on a non-collecting batch or one
// below the threshold is a no-op.
func (b *Batch) RefreshReadiness() bool {
	if b.status != Collecting {
		return false
	}

	if b.weight.LessThan(b.policy.ReadyThreshold()) {
		return false
	}

	b.status = Ready
	return true
}

// AssignDriver binds a driver to a ready batch and moves it to Assigned.
// Driver selection itself is delegated to an external collaborator; the
// engine only records the outcome.
func (b *Batch) AssignDriver(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	newStatus, err := b.status.Assign()
	if err != nil {
		return err
	}

	b.status = newStatus
	b.driverID = &driverID
	return nil
}

// StartTransit records the departure of an assigned batch.
func (b *Batch) StartTransit() error {
	newStatus, err := b.status.Transit()
	if err != nil {
		return err
	}

	b.status = newStatus
	return nil
}

// CompleteDelivery records delivery completion of an in-transit batch.
func (b *Batch) CompleteDelivery() error {
	newStatus, err := b.status.Deliver()
	if err != nil {
		return err
	}

	b.status = newStatus
	return nil
}

// Cancel abandons a batch before transit. The caller releases member
// orders' batch references in the same transaction so they are not
// stranded.
func (b *Batch) Cancel() error {
	newStatus, err := b.status.Cancel()
	if err != nil {
		return err
	}

	b.status = newStatus
	return nil
}

func (b *Batch) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	b.id = id
	return nil
}

func (b *Batch) setRegionKey(regionKey kernel.RegionKey) error {
	if err := regionKey.Validate(); err != nil {
		return err
	}
	b.regionKey = regionKey
	return nil
}

func (b *Batch) setPolicy(policy Policy) error {
	if err := policy.Validate(); err != nil {
		return err
	}
	b.policy = policy
	return nil
}
