package services

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// ErrRegionNotResolvable is returned when no stage of the resolution
// chain yields a region for the order's address. The caller must reject
// the batching attempt; the region is never defaulted to a sentinel.
var ErrRegionNotResolvable = errors.New("region is not resolvable from the order address")

// RegionResolver derives the normalized region key an order is batched
// under. Resolution is a deterministic ordered fallback, stopping at the
// first stage that succeeds:
//
//  1. the explicit region field on the order's address snapshot
//  2. the region of the customer's most recently saved address
//  3. heuristic parsing of the free-text address line (see ParseRegion)
//
// The resolved key is cached on the order by the caller via
// Order.CacheRegion, which also backfills a blank snapshot region.
type RegionResolver struct {
	directory ports.CustomerAddressDirectory
}

// NewRegionResolver creates a RegionResolver backed by the customer
// profile service's saved addresses.
func NewRegionResolver(directory ports.CustomerAddressDirectory) RegionResolver {
	return RegionResolver{
		directory: directory,
	}
}

// Resolve returns the region key for the order's delivery address, or
// ErrRegionNotResolvable when every stage fails. A key already cached on
// the order short-circuits the chain.
func (r RegionResolver) Resolve(ctx context.Context, o *order.Order) (kernel.RegionKey, error) {
	if err := o.Validate(); err != nil {
		return kernel.RegionKey{}, err
	}

	if cached := o.RegionKey(); cached != nil {
		return *cached, nil
	}

	address := o.Address()
	if address.HasRegion() {
		return kernel.NewRegionKey(address.Region)
	}

	saved, err := r.savedAddress(ctx, o.CustomerID())
	if err != nil {
		return kernel.RegionKey{}, err
	}
	if saved.HasRegion() {
		return kernel.NewRegionKey(saved.Region)
	}

	if name, ok := ParseRegion(address.Raw); ok {
		return kernel.NewRegionKey(name)
	}
	if name, ok := ParseRegion(saved.Raw); ok {
		return kernel.NewRegionKey(name)
	}

	return kernel.RegionKey{}, ErrRegionNotResolvable
}

// savedAddress looks up the customer's latest saved address. A customer
// without one is a normal resolution miss, not a failure.
func (r RegionResolver) savedAddress(ctx context.Context, customerID kernel.UUID) (order.Address, error) {
	saved, err := r.directory.LatestAddress(ctx, customerID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return order.Address{}, nil
	}
	if err != nil {
		return order.Address{}, err
	}

	return saved, nil
}
