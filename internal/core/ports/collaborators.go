package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// CustomerAddressDirectory exposes the customer profile service's saved
// addresses. The region resolver falls back to it when an order's own
// address snapshot yields no region.
type CustomerAddressDirectory interface {
	// LatestAddress returns the customer's most recently saved address.
	// Returns errs.ErrObjectNotFound (wrapped) when the customer has no
	// saved address.
	LatestAddress(ctx context.Context, customerID kernel.UUID) (order.Address, error)
}

// ProductCatalog exposes per-product unit weights maintained by the
// catalog service. The weight calculator multiplies these by line item
// quantities.
type ProductCatalog interface {
	// UnitWeight returns the catalog weight of a single unit of the
	// product. Returns errs.ErrObjectNotFound (wrapped) for products
	// missing from the catalog; callers skip such items.
	UnitWeight(ctx context.Context, productID kernel.UUID) (kernel.Weight, error)
}

// DriverPool exposes the driver roster of the dispatch service. The
// engine only records assignment outcomes; availability and selection
// live on the other side of this port.
type DriverPool interface {
	// AvailableDrivers returns drivers currently able to take a batch in
	// the given region.
	AvailableDrivers(ctx context.Context, regionKey kernel.RegionKey) ([]kernel.UUID, error)
}
