package commands

import (
	"context"
	"errors"

	"fulfillment/internal/pkg/errs"
)

// ReportDeliveryProgressCommandHandler applies externally driven
// delivery-progress events to a batch. The delivered event additionally
// marks every member order delivered and its line items fulfilled; the
// order-management collaborator relies on these side effects firing on
// exactly this transition.
type ReportDeliveryProgressCommandHandler struct {
	uowFactory UoWFactory
}

// NewReportDeliveryProgressCommandHandler creates a handler for
// delivery-progress events.
func NewReportDeliveryProgressCommandHandler(uowFactory UoWFactory) ReportDeliveryProgressCommandHandler {
	return ReportDeliveryProgressCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle applies the progress event. Batch and member-order updates
// commit together or not at all.
func (h ReportDeliveryProgressCommandHandler) Handle(
	ctx context.Context, command ReportDeliveryProgressCommand,
) error {
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

	batchRepo := uow.BatchRepository()
	orderRepo := uow.OrderRepository()

	b, err := batchRepo.Get(ctx, command.BatchID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ErrBatchNotFound
	}
	if err != nil {
		return err
	}

	switch command.Stage() {
	case StageInTransit:
		if err = b.StartTransit(); err != nil {
			return err
		}

	case StageDelivered:
		if err = b.CompleteDelivery(); err != nil {
			return err
		}

		members, err := orderRepo.GetByBatch(ctx, b.ID())
		if err != nil {
			return err
		}

		for _, member := range members {
			if err = member.MarkDelivered(); err != nil {
				return err
			}

			if err = orderRepo.Update(ctx, member); err != nil {
				return err
			}
		}
	}

	if err = batchRepo.Update(ctx, b); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
