package commands

import (
	"context"
	"errors"

	"fulfillment/internal/pkg/errs"
)

var ErrBatchNotFound = errors.New("no batch found")

// AssignDriverCommandHandler records a driver assignment on a ready
// batch and propagates the assigned status onto every member order in
// the same transaction.
type AssignDriverCommandHandler struct {
	uowFactory UoWFactory
}

// NewAssignDriverCommandHandler creates a handler for driver assignment
// operations.
func NewAssignDriverCommandHandler(uowFactory UoWFactory) AssignDriverCommandHandler {
	return AssignDriverCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle binds the driver to the batch. The batch must be ready; member
// orders move to Assigned together with it or not at all.
func (h AssignDriverCommandHandler) Handle(ctx context.Context, command AssignDriverCommand) error {
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

	if err = b.AssignDriver(command.DriverID()); err != nil {
		return err
	}

	members, err := orderRepo.GetByBatch(ctx, b.ID())
	if err != nil {
		return err
	}

	for _, member := range members {
		if err = member.MarkDriverAssigned(); err != nil {
			return err
		}

		if err = orderRepo.Update(ctx, member); err != nil {
			return err
		}
	}

	if err = batchRepo.Update(ctx, b); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
