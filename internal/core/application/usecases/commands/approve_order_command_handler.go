package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/batch"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/regionlock"
)

var (
	ErrOrderNotFound = errors.New("no order found")

	// ErrAllocationRace is returned when batch creation conflicted with a
	// concurrent writer and re-running the locator still found no batch
	// able to accept the weight. The order stays unbatched and the whole
	// approval fails loudly; it is never silently left half-assigned.
	ErrAllocationRace = errors.New("batch allocation lost a creation race")
)

// ApproveOrderCommandHandler runs the full batching pipeline for an
// approved order: region resolution, weight freezing, then the guarded
// locate-or-create-and-assign decision.
//
// Region resolution and weight computation only read immutable per-order
// data and run before the region lock is taken. The locator/allocator
// critical section and the transaction commit run inside the lock, so two
// approvals for the same region can never interleave their batching
// decisions; approvals for different regions proceed in parallel.
type ApproveOrderCommandHandler struct {
	uowFactory  UoWFactory
	resolver    services.RegionResolver
	calculator  services.WeightCalculator
	locator     services.BatchLocator
	locks       *regionlock.Keyed
	policy      batch.Policy
	lockTimeout time.Duration
}

// NewApproveOrderCommandHandler creates a handler for order approval and
// batch assignment. The policy fixes the capacity and ready threshold of
// every batch the handler creates.
func NewApproveOrderCommandHandler(
	uowFactory UoWFactory,
	resolver services.RegionResolver,
	calculator services.WeightCalculator,
	locks *regionlock.Keyed,
	policy batch.Policy,
	lockTimeout time.Duration,
) ApproveOrderCommandHandler {
	return ApproveOrderCommandHandler{
		uowFactory:  uowFactory,
		resolver:    resolver,
		calculator:  calculator,
		locator:     services.NewBatchLocator(),
		locks:       locks,
		policy:      policy,
		lockTimeout: lockTimeout,
	}
}

// Handle processes the approval event. Already-batched orders are a
// no-op. Any failure rolls back the whole unit of work: an order is never
// observable as approved-but-half-batched.
func (h ApproveOrderCommandHandler) Handle(ctx context.Context, command ApproveOrderCommand) error {
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
	batchRepo := uow.BatchRepository()

	o, err := orderRepo.Get(ctx, command.OrderID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}

	if o.HasBatch() {
		return nil
	}

	if o.Status() == order.Pending {
		if err = o.Approve(); err != nil {
			return err
		}
	}

	regionKey, err := h.resolver.Resolve(ctx, o)
	if err != nil {
		return err
	}
	if err = o.CacheRegion(regionKey); err != nil {
		return err
	}

	weight, err := h.frozenWeight(ctx, o)
	if err != nil {
		return err
	}

	release, err := h.acquireRegionLock(ctx, regionKey)
	if err != nil {
		return err
	}
	defer release()

	target, err := h.allocate(ctx, batchRepo, regionKey, weight)
	if err != nil {
		return err
	}

	if err = o.AssignToBatch(target.ID()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// frozenWeight returns the order's batching weight, computing and
// freezing it when this is the first batching attempt of the approval
// cycle.
func (h ApproveOrderCommandHandler) frozenWeight(ctx context.Context, o *order.Order) (kernel.Weight, error) {
	if frozen := o.BatchingWeight(); frozen != nil {
		return *frozen, nil
	}

	weight, err := h.calculator.Compute(ctx, o)
	if err != nil {
		return kernel.Weight{}, err
	}

	if err = o.FreezeWeight(weight); err != nil {
		return kernel.Weight{}, err
	}

	return weight, nil
}

func (h ApproveOrderCommandHandler) acquireRegionLock(
	ctx context.Context, regionKey kernel.RegionKey,
) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, h.lockTimeout)
	defer cancel()

	return h.locks.Acquire(lockCtx, regionKey.LockKey())
}

// allocate runs the select-or-create decision inside the region's
// critical section. A creation conflict means a concurrent writer slipped
// past the lock (e.g. another process instance); the locator is re-run
// once against the now-visible state before failing with
// ErrAllocationRace.
func (h ApproveOrderCommandHandler) allocate(
	ctx context.Context,
	batchRepo ports.BatchRepository,
	regionKey kernel.RegionKey,
	weight kernel.Weight,
) (*batch.Batch, error) {
	target, err := h.placeInOpenBatch(ctx, batchRepo, regionKey, weight)
	if err == nil || !errors.Is(err, services.ErrNoCandidateBatch) {
		return target, err
	}

	fresh, err := batch.NewBatch(kernel.NewUUID(), regionKey, weight, h.policy)
	if err != nil {
		return nil, err
	}
	fresh.RefreshReadiness()

	err = batchRepo.Add(ctx, fresh)
	if err == nil {
		return fresh, nil
	}
	if !errors.Is(err, ports.ErrBatchAlreadyExists) {
		return nil, err
	}

	target, err = h.placeInOpenBatch(ctx, batchRepo, regionKey, weight)
	if errors.Is(err, services.ErrNoCandidateBatch) {
		return nil, fmt.Errorf("%w: region %s", ErrAllocationRace, regionKey)
	}

	return target, err
}

// placeInOpenBatch locates the best open batch for the weight and books
// the weight into it, firing the readiness transition when the threshold
// is crossed.
func (h ApproveOrderCommandHandler) placeInOpenBatch(
	ctx context.Context,
	batchRepo ports.BatchRepository,
	regionKey kernel.RegionKey,
	weight kernel.Weight,
) (*batch.Batch, error) {
	open, err := batchRepo.GetOpenByRegion(ctx, regionKey)
	if err != nil {
		return nil, err
	}

	candidate, err := h.locator.FindCandidate(weight, open)
	if err != nil {
		return nil, err
	}

	if err = candidate.Accept(weight); err != nil {
		return nil, err
	}
	candidate.RefreshReadiness()

	if err = batchRepo.Update(ctx, candidate); err != nil {
		return nil, err
	}

	return candidate, nil
}
