package commands

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/model/kernel"
)

// RecoverStrandedOrdersCommandHandler rebatches approved orders carrying
// no batch reference. Recovery reuses the approval pipeline, which is
// idempotent and safe to replay, so each order either lands in a batch or
// fails the same way a fresh approval would.
type RecoverStrandedOrdersCommandHandler struct {
	uowFactory     UoWFactory
	approveHandler ApproveOrderCommandHandler
	logger         *slog.Logger
}

// NewRecoverStrandedOrdersCommandHandler creates a handler for stranded
// order recovery.
func NewRecoverStrandedOrdersCommandHandler(
	uowFactory UoWFactory,
	approveHandler ApproveOrderCommandHandler,
	logger *slog.Logger,
) RecoverStrandedOrdersCommandHandler {
	return RecoverStrandedOrdersCommandHandler{
		uowFactory:     uowFactory,
		approveHandler: approveHandler,
		logger:         logger,
	}
}

// Handle rebatches every stranded order. One order's failure does not
// block the rest; failures are logged and retried on the next run.
func (h RecoverStrandedOrdersCommandHandler) Handle(ctx context.Context, command RecoverStrandedOrdersCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	stranded, err := h.listStranded(ctx)
	if err != nil {
		return err
	}

	for _, orderID := range stranded {
		approveCmd, cmdErr := NewApproveOrderCommand(orderID)
		if cmdErr != nil {
			return cmdErr
		}

		if handleErr := h.approveHandler.Handle(ctx, approveCmd); handleErr != nil {
			h.logger.WarnContext(ctx, "rebatching stranded order failed",
				"order_id", orderID.String(), "error", handleErr)
		}
	}

	return nil
}

func (h RecoverStrandedOrdersCommandHandler) listStranded(ctx context.Context) ([]kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders, err := uow.OrderRepository().GetStranded(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID())
	}

	return ids, nil
}
