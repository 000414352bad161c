// Package queries contains read-only operations for monitoring the
// batching engine. Query handlers bypass the domain model and read
// projections straight from the database, per CQRS.
package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetOpenBatchesQueryIsNotConstructed = errors.New(
	"GetOpenBatchesQuery must be created via NewGetOpenBatchesQuery constructor",
)

// GetOpenBatchesQuery retrieves collecting batches together with their
// remaining capacity, optionally scoped to one region. Operators use it
// to watch fill levels and spot batches that linger below the dispatch
// threshold.
type GetOpenBatchesQuery struct {
	regionKey *kernel.RegionKey

	guard guard.ConstructorGuard
}

// NewGetOpenBatchesQuery creates a query covering every region.
func NewGetOpenBatchesQuery() GetOpenBatchesQuery {
	return GetOpenBatchesQuery{guard: guard.NewConstructorGuard()}
}

// NewGetOpenBatchesQueryForRegion creates a query scoped to one region.
func NewGetOpenBatchesQueryForRegion(regionKey kernel.RegionKey) (GetOpenBatchesQuery, error) {
	if err := regionKey.Validate(); err != nil {
		return GetOpenBatchesQuery{}, err
	}

	return GetOpenBatchesQuery{
		regionKey: &regionKey,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through a constructor.
func (q GetOpenBatchesQuery) Validate() error {
	return q.guard.Validate(ErrGetOpenBatchesQueryIsNotConstructed)
}

// RegionKey returns the region scope, or nil for all regions.
func (q GetOpenBatchesQuery) RegionKey() *kernel.RegionKey {
	return q.regionKey
}

// GetOpenBatchesQueryResponse represents one open batch's fill state.
type GetOpenBatchesQueryResponse struct {
	ID                kernel.UUID
	Region            string
	AccumulatedWeight decimal.Decimal
	Capacity          decimal.Decimal
	RemainingCapacity decimal.Decimal
}
