package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving, and querying order entities
// based on their status and batch membership.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The order must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns the complete order with its line items, frozen weight and
	// batch reference.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByBatch retrieves all orders referencing the given batch.
	// Used when propagating batch lifecycle events onto member orders.
	GetByBatch(ctx context.Context, batchID kernel.UUID) ([]*order.Order, error)

	// GetStranded retrieves approved orders that do not reference any batch.
	// These orders fell out of the allocation path (e.g. their batch was
	// cancelled) and need operator attention or rebatching.
	GetStranded(ctx context.Context) ([]*order.Order, error)

	// ReassignBatch repoints every order referencing fromBatch to toBatch
	// in a single statement. Used during consolidation when a source batch
	// is absorbed into a target.
	ReassignBatch(ctx context.Context, fromBatch kernel.UUID, toBatch kernel.UUID) error

	// SumWeightByBatch recomputes the total frozen weight of orders
	// referencing the given batch. This is the source of truth the batch's
	// cached accumulated weight is reconciled against. A batch with no
	// members sums to zero.
	SumWeightByBatch(ctx context.Context, batchID kernel.UUID) (decimal.Decimal, error)
}
