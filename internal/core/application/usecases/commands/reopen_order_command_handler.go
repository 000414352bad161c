package commands

import (
	"context"
	"errors"

	"fulfillment/internal/pkg/errs"
)

// ReopenOrderCommandHandler returns an order to Pending so the approval
// decision can be retaken. The order's frozen batching weight is cleared
// with the status, so the next approval recomputes it from the catalog.
type ReopenOrderCommandHandler struct {
	uowFactory UoWFactory
}

// NewReopenOrderCommandHandler creates a handler for order reopening.
func NewReopenOrderCommandHandler(uowFactory UoWFactory) ReopenOrderCommandHandler {
	return ReopenOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle reopens the order. Orders still referencing a batch are refused;
// cancel the batch first so the member orders are released.
func (h ReopenOrderCommandHandler) Handle(ctx context.Context, command ReopenOrderCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	o, err := orderRepo.Get(ctx, command.OrderID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}

	if err = o.Reopen(); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
