package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetStrandedOrdersQueryIsNotConstructed = errors.New(
	"GetStrandedOrdersQuery must be created via NewGetStrandedOrdersQuery constructor",
)

// GetStrandedOrdersQuery retrieves approved orders that carry no batch
// reference. A stranded order only exists after a partial failure between
// approval and allocation; the result feeds the recovery pass.
type GetStrandedOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetStrandedOrdersQuery creates a query for stranded orders.
func NewGetStrandedOrdersQuery() GetStrandedOrdersQuery {
	return GetStrandedOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetStrandedOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetStrandedOrdersQueryIsNotConstructed)
}

// GetStrandedOrdersQueryResponse represents one stranded order. Region
// and weight may be unset when the failure happened before resolution.
type GetStrandedOrdersQueryResponse struct {
	ID         kernel.UUID
	CustomerID kernel.UUID
	Region     *string
	Weight     *decimal.Decimal
}
