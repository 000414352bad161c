package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/regionlock"
)

// ReconcileBatchWeightCommandHandler restates a batch's cached weight
// from the sum of its member orders. Runs under the region lock so the
// recomputed total cannot race an in-flight allocation.
type ReconcileBatchWeightCommandHandler struct {
	uowFactory  UoWFactory
	locks       *regionlock.Keyed
	lockTimeout time.Duration
}

// NewReconcileBatchWeightCommandHandler creates a handler for weight
// reconciliation.
func NewReconcileBatchWeightCommandHandler(
	uowFactory UoWFactory,
	locks *regionlock.Keyed,
	lockTimeout time.Duration,
) ReconcileBatchWeightCommandHandler {
	return ReconcileBatchWeightCommandHandler{
		uowFactory:  uowFactory,
		locks:       locks,
		lockTimeout: lockTimeout,
	}
}

// Handle recomputes and restates the batch's accumulated weight, firing
// the readiness transition when the corrected total crosses the
// threshold.
func (h ReconcileBatchWeightCommandHandler) Handle(ctx context.Context, command ReconcileBatchWeightCommand) error {
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

	total, err := orderRepo.SumWeightByBatch(ctx, b.ID())
	if err != nil {
		return err
	}

	if err = b.RestateWeight(total); err != nil {
		return err
	}
	b.RefreshReadiness()

	if err = batchRepo.Update(ctx, b); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
