package services

import (
	"context"
	"errors"
	"log/slog"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// WeightCalculator computes an order's batching weight from its line
// items: the sum of quantity * per-unit catalog weight over every item.
// Products missing from the catalog are skipped with a warning, and a
// non-positive sum degrades to kernel.MinimumWeight: the allocator
// requires a positive weight, so broken catalog data must not block the
// approval flow.
type WeightCalculator struct {
	catalog ports.ProductCatalog
	logger  *slog.Logger
}

// NewWeightCalculator creates a WeightCalculator backed by the product
// catalog collaborator.
func NewWeightCalculator(catalog ports.ProductCatalog, logger *slog.Logger) WeightCalculator {
	return WeightCalculator{
		catalog: catalog,
		logger:  logger,
	}
}

// Compute returns the order's total shipped weight. The caller freezes
// the result on the order exactly once per approval cycle.
func (w WeightCalculator) Compute(ctx context.Context, o *order.Order) (kernel.Weight, error) {
	if err := o.Validate(); err != nil {
		return kernel.Weight{}, err
	}

	total := decimal.Zero
	for _, item := range o.Items() {
		unit, err := w.catalog.UnitWeight(ctx, item.ProductID())
		if errors.Is(err, errs.ErrObjectNotFound) {
			w.logger.Warn("product has no catalog weight, skipping line item",
				"order_id", o.ID().String(),
				"product_id", item.ProductID().String())
			continue
		}
		if err != nil {
			return kernel.Weight{}, err
		}

		total = total.Add(unit.Value().Mul(decimal.NewFromInt(int64(item.Quantity()))))
	}

	if total.LessThanOrEqual(decimal.Zero) {
		w.logger.Warn("order weight is not positive, batching at minimum weight",
			"order_id", o.ID().String(),
			"computed", total.String())
	}

	return kernel.NewWeightOrMinimum(total), nil
}
