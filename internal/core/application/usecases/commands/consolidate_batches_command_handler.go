package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/regionlock"
)

// ConsolidateBatchesCommandHandler merges a region's open batches into
// its oldest one wherever the combined weight fits capacity. Member
// orders of an absorbed batch are repointed to the target and the emptied
// batch is deleted, all in one transaction per region. Batches that
// cannot merge are left standing; that is expected.
//
// Each region is processed under its own region lock so a consolidation
// pass and an in-flight allocation can never interleave.
type ConsolidateBatchesCommandHandler struct {
	uowFactory   UoWFactory
	consolidator services.Consolidator
	locks        *regionlock.Keyed
	lockTimeout  time.Duration
}

// NewConsolidateBatchesCommandHandler creates a handler for batch
// consolidation operations.
func NewConsolidateBatchesCommandHandler(
	uowFactory UoWFactory,
	locks *regionlock.Keyed,
	lockTimeout time.Duration,
) ConsolidateBatchesCommandHandler {
	return ConsolidateBatchesCommandHandler{
		uowFactory:   uowFactory,
		consolidator: services.NewConsolidator(),
		locks:        locks,
		lockTimeout:  lockTimeout,
	}
}

// Handle consolidates the commanded region, or every region with more
// than one open batch. Per-region failures abort the run; regions already
// processed stay consolidated (each region commits independently).
func (h ConsolidateBatchesCommandHandler) Handle(ctx context.Context, command ConsolidateBatchesCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	if region := command.RegionKey(); region != nil {
		return h.consolidateRegion(ctx, *region)
	}

	regions, err := h.regionsWithMultipleOpen(ctx)
	if err != nil {
		return err
	}

	for _, region := range regions {
		if err = h.consolidateRegion(ctx, region); err != nil {
			return err
		}
	}

	return nil
}

func (h ConsolidateBatchesCommandHandler) regionsWithMultipleOpen(ctx context.Context) ([]kernel.RegionKey, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.BatchRepository().GetRegionsWithMultipleOpen(ctx)
}

func (h ConsolidateBatchesCommandHandler) consolidateRegion(ctx context.Context, regionKey kernel.RegionKey) error {
	lockCtx, cancel := context.WithTimeout(ctx, h.lockTimeout)
	defer cancel()

	return h.locks.Do(lockCtx, regionKey.LockKey(), func() error {
		return h.mergeOpenBatches(ctx, regionKey)
	})
}

func (h ConsolidateBatchesCommandHandler) mergeOpenBatches(ctx context.Context, regionKey kernel.RegionKey) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	batchRepo := uow.BatchRepository()
	orderRepo := uow.OrderRepository()

	open, err := batchRepo.GetOpenByRegion(ctx, regionKey)
	if err != nil {
		return err
	}

	plan, err := h.consolidator.Plan(open)
	if err != nil {
		return err
	}
	if !plan.HasWork() {
		return nil
	}

	target := plan.Target
	for _, source := range plan.Sources {
		if err = target.Absorb(source); err != nil {
			return err
		}

		if err = orderRepo.ReassignBatch(ctx, source.ID(), target.ID()); err != nil {
			return err
		}

		if err = batchRepo.Delete(ctx, source.ID()); err != nil {
			return err
		}
	}

	target.RefreshReadiness()

	if err = batchRepo.Update(ctx, target); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
