package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/regionlock"
)

// CancelBatchCommandHandler cancels a batch before transit and releases
// its member orders for rebatching. Cancellation mutates a potentially
// still-collecting batch, so it runs under the batch's region lock like
// every other batch-mutating operation.
type CancelBatchCommandHandler struct {
	uowFactory  UoWFactory
	locks       *regionlock.Keyed
	lockTimeout time.Duration
}

// NewCancelBatchCommandHandler creates a handler for batch cancellation.
func NewCancelBatchCommandHandler(
	uowFactory UoWFactory,
	locks *regionlock.Keyed,
	lockTimeout time.Duration,
) CancelBatchCommandHandler {
	return CancelBatchCommandHandler{
		uowFactory:  uowFactory,
		locks:       locks,
		lockTimeout: lockTimeout,
	}
}

// Handle cancels the batch. Cancellation is rejected once the batch is
// in transit; member orders revert to Approved with no batch reference.
func (h CancelBatchCommandHandler) Handle(ctx context.Context, command CancelBatchCommand) error {
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

	lockCtx, cancel := context.WithTimeout(ctx, h.lockTimeout)
	defer cancel()

	release, err := h.locks.Acquire(lockCtx, b.RegionKey().LockKey())
	if err != nil {
		return err
	}
	defer release()

	if err = b.Cancel(); err != nil {
		return err
	}

	members, err := orderRepo.GetByBatch(ctx, b.ID())
	if err != nil {
		return err
	}

	for _, member := range members {
		if err = member.ReleaseFromBatch(); err != nil {
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
