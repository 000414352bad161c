package order

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder factory method. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrWeightAlreadyFrozen is returned when the batching weight is set a second
	// time within the same approval cycle. The weight is computed once per
	// approval and only a reopen clears it.
	ErrWeightAlreadyFrozen = errors.New("batching weight is already frozen for this approval cycle")

	// ErrOrderAlreadyBatched is returned when assigning an order that already
	// references a batch. The batch reference is set exactly once per approval
	// cycle; replays must be detected by the caller before allocation.
	ErrOrderAlreadyBatched = errors.New("order already references a batch")

	// ErrOrderNotBatched is returned by operations that require an existing
	// batch reference.
	ErrOrderNotBatched = errors.New("order does not reference a batch")
)

// Order represents a customer order as seen by the batch assignment engine.
// It is an aggregate root owning the delivery-address snapshot, the line
// items, the derived region key, the frozen batching weight, and the batch
// reference.
//
// Order follows these invariants:
//   - The batching weight, once frozen, does not change unless the order is
//     reopened and re-approved
//   - The batch reference is set exactly once per approval cycle
//   - Status transitions follow the rules defined on Status
//   - Can only be created through NewOrder/RestoreOrder
type Order struct {
	id         kernel.UUID
	customerID kernel.UUID
	address    Address
	items      []LineItem

	// regionKey caches the resolved delivery region (nil until resolved)
	regionKey *kernel.RegionKey

	// weight is the frozen batching weight (nil until computed)
	weight *kernel.Weight

	// batchID references the assigned batch (nil if unbatched)
	batchID *kernel.UUID

	status Status

	isConstructed bool
}

// NewOrder creates a new Order in Pending status. The address snapshot may
// be incomplete; region resolution happens at approval time. Line items
// must each be valid but the list may be empty, in which case the weight
// calculator falls back to the minimum default.
func NewOrder(id kernel.UUID, customerID kernel.UUID, address Address, items []LineItem) (*Order, error) {
	o := &Order{
		status:        Pending,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setItems(items),
	); err != nil {
		return nil, err
	}

	o.address = address
	return o, nil
}

// RestoreOrder reconstructs an Order from persistence with its full state.
// Used by repositories; callers must pass values exactly as persisted.
func RestoreOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	address Address,
	items []LineItem,
	regionKey *kernel.RegionKey,
	weight *kernel.Weight,
	status Status,
	batchID *kernel.UUID,
) (*Order, error) {
	o, err := NewOrder(id, customerID, address, items)
	if err != nil {
		return nil, err
	}

	if err = status.Validate(); err != nil {
		return nil, err
	}

	if regionKey != nil {
		if err = regionKey.Validate(); err != nil {
			return nil, err
		}
	}

	if weight != nil {
		if err = weight.Validate(); err != nil {
			return nil, err
		}
	}

	if batchID != nil {
		if err = batchID.Validate(); err != nil {
			return nil, err
		}
	}

	o.regionKey = regionKey
	o.weight = weight
	o.status = status
	o.batchID = batchID
	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// CustomerID returns the owning customer's identifier.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// Address returns the delivery-address snapshot.
func (o *Order) Address() Address {
	return o.address
}

// Items returns the order's line items.
func (o *Order) Items() []LineItem {
	return o.items
}

// RegionKey returns the cached delivery region, or nil when unresolved.
func (o *Order) RegionKey() *kernel.RegionKey {
	return o.regionKey
}

// BatchingWeight returns the frozen batching weight, or nil when not yet
// computed.
func (o *Order) BatchingWeight() *kernel.Weight {
	return o.weight
}

// Status returns the current order status.
func (o *Order) Status() Status {
	return o.status
}

// Batch returns the assigned batch's ID, or nil when unbatched.
func (o *Order) Batch() *kernel.UUID {
	return o.batchID
}

// HasBatch reports whether the order already references a batch.
// Used for idempotent replay of approval events.
func (o *Order) HasBatch() bool {
	return o.batchID != nil
}

// Approve transitions the order to Approved.
func (o *Order) Approve() error {
	newStatus, err := o.status.Approve()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// Reject transitions the order to Rejected.
func (o *Order) Reject() error {
	newStatus, err := o.status.Reject()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// Reopen returns the order to Pending for a fresh approval cycle and
// clears the frozen weight. An order still referencing a batch cannot be
// reopened; it must be released from the batch first.
func (o *Order) Reopen() error {
	if o.batchID != nil {
		return ErrOrderAlreadyBatched
	}

	newStatus, err := o.status.Reopen()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.weight = nil
	return nil
}

// CacheRegion stores the resolved region key on the order and backfills the
// address snapshot's region field when it was blank (the saved-address
// fallback writes through here).
func (o *Order) CacheRegion(key kernel.RegionKey) error {
	if err := key.Validate(); err != nil {
		return err
	}

	o.regionKey = &key
	if !o.address.HasRegion() {
		o.address.Region = key.Value()
	}
	return nil
}

// FreezeWeight persists the computed batching weight. It may be called at
// most once per approval cycle; a reopen clears the frozen value.
func (o *Order) FreezeWeight(w kernel.Weight) error {
	if err := w.Validate(); err != nil {
		return err
	}

	if o.weight != nil {
		return ErrWeightAlreadyFrozen
	}

	o.weight = &w
	return nil
}

// AssignToBatch sets the order's batch reference. The order must be
// Approved, must have a frozen weight, and must not already reference a
// batch.
func (o *Order) AssignToBatch(batchID kernel.UUID) error {
	if err := batchID.Validate(); err != nil {
		return err
	}

	if o.status != Approved {
		return errs.NewValueIsInvalidError("status: order must be approved to batch")
	}

	if o.weight == nil {
		return errs.NewValueIsRequiredError("batching weight")
	}

	if o.batchID != nil {
		return ErrOrderAlreadyBatched
	}

	o.batchID = &batchID
	return nil
}

// ReleaseFromBatch clears the batch reference so the order can be
// rebatched, e.g. after its batch was cancelled or merged away. Orders
// whose batch already had a driver revert from Assigned to Approved.
func (o *Order) ReleaseFromBatch() error {
	if o.batchID == nil {
		return ErrOrderNotBatched
	}

	newStatus, err := o.status.Release()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.batchID = nil
	return nil
}

// MarkDriverAssigned propagates the batch's driver assignment onto the
// order.
func (o *Order) MarkDriverAssigned() error {
	if o.batchID == nil {
		return ErrOrderNotBatched
	}

	newStatus, err := o.status.Assign()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// MarkDelivered records delivery completion: the order becomes Delivered
// and every line item is marked fulfilled.
func (o *Order) MarkDelivered() error {
	if o.batchID == nil {
		return ErrOrderNotBatched
	}

	newStatus, err := o.status.Deliver()
	if err != nil {
		return err
	}

	o.status = newStatus
	for i := range o.items {
		o.items[i].fulfilled = true
	}
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setItems(items []LineItem) error {
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	o.items = items
	return nil
}
