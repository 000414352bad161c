package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/batch"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOpenBatchesQueryHandler reads collecting batches from the database.
type GetOpenBatchesQueryHandler struct {
	db *gorm.DB
}

// NewGetOpenBatchesQueryHandler creates a handler for open-batch queries.
func NewGetOpenBatchesQueryHandler(db *gorm.DB) GetOpenBatchesQueryHandler {
	return GetOpenBatchesQueryHandler{db: db}
}

// Handle executes the query. Results are ordered oldest first, the same
// order the allocator's tie-break sees them in.
func (h GetOpenBatchesQueryHandler) Handle(
	ctx context.Context,
	query GetOpenBatchesQuery,
) ([]GetOpenBatchesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sql := `
		SELECT
			id,
			region,
			weight,
			capacity
		FROM batches
		WHERE status = ?
	`
	args := []any{batch.Collecting}

	if regionKey := query.RegionKey(); regionKey != nil {
		sql += " AND lower(region) = ?"
		args = append(args, regionKey.LockKey())
	}
	sql += " ORDER BY created_at"

	rows, err := h.db.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	batches := make([]GetOpenBatchesQueryResponse, 0)
	for rows.Next() {
		var id uuid.UUID
		var region string
		var weight, capacity decimal.Decimal

		if err = rows.Scan(&id, &region, &weight, &capacity); err != nil {
			return nil, err
		}

		batchID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		batches = append(batches, GetOpenBatchesQueryResponse{
			ID:                batchID,
			Region:            region,
			AccumulatedWeight: weight,
			Capacity:          capacity,
			RemainingCapacity: capacity.Sub(weight),
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return batches, nil
}
