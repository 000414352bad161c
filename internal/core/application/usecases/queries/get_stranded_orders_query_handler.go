package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetStrandedOrdersQueryHandler reads stranded orders from the database.
type GetStrandedOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetStrandedOrdersQueryHandler creates a handler for stranded-order
// queries.
func NewGetStrandedOrdersQueryHandler(db *gorm.DB) GetStrandedOrdersQueryHandler {
	return GetStrandedOrdersQueryHandler{db: db}
}

// Handle executes the query. Results are sorted by order ID for
// consistent output.
func (h GetStrandedOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetStrandedOrdersQuery,
) ([]GetStrandedOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			customer_id,
			region,
			weight
		FROM orders
		WHERE status = ? AND batch_id IS NULL
		ORDER BY id
	`, order.Approved).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]GetStrandedOrdersQueryResponse, 0)
	for rows.Next() {
		var id, customerID uuid.UUID
		var region *string
		var weight decimal.NullDecimal

		if err = rows.Scan(&id, &customerID, &region, &weight); err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		custID, idErr := kernel.UUIDFromBytes(customerID[:])
		if idErr != nil {
			return nil, idErr
		}

		resp := GetStrandedOrdersQueryResponse{
			ID:         orderID,
			CustomerID: custID,
			Region:     region,
		}
		if weight.Valid {
			resp.Weight = &weight.Decimal
		}
		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
