package postgres_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/batchrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/batch"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/regionlock"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// The batching workflow tests run the real command handlers against an
// in-memory database, so allocation, consolidation and lifecycle
// decisions are verified through actual persistence instead of mocks.

type funcUoWFactory func() commands.UoW

func (f funcUoWFactory) Create() commands.UoW {
	return f()
}

// stubCatalog resolves product unit weights from a fixed table.
type stubCatalog struct {
	weights map[kernel.UUID]decimal.Decimal
}

func (c *stubCatalog) UnitWeight(_ context.Context, productID kernel.UUID) (kernel.Weight, error) {
	value, ok := c.weights[productID]
	if !ok {
		return kernel.Weight{}, errs.NewObjectNotFoundError("product", productID.String())
	}
	return kernel.NewWeight(value)
}

// stubDirectory has no saved addresses.
type stubDirectory struct{}

func (d *stubDirectory) LatestAddress(_ context.Context, customerID kernel.UUID) (order.Address, error) {
	return order.Address{}, errs.NewObjectNotFoundError("address", customerID.String())
}

type workflowEnv struct {
	db             *gorm.DB
	uowFactory     commands.UoWFactory
	catalog        *stubCatalog
	locks          *regionlock.Keyed
	approveHandler commands.ApproveOrderCommandHandler
	orderRepo      *orderrepo.GormOrderRepository
	batchRepo      *batchrepo.GormBatchRepository
}

func newWorkflowEnv(t *testing.T) *workflowEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// Every new :memory: connection is a separate empty database, so the
	// pool must stay on one connection or concurrent handlers see nothing.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&batchrepo.BatchDTO{}, &orderrepo.OrderDTO{}, &orderrepo.OrderItemDTO{})
	require.NoError(t, err)

	gormFactory := postgres.NewGormUnitOfWorkFactory(db)
	uowFactory := funcUoWFactory(func() commands.UoW {
		return gormFactory.Create()
	})

	catalog := &stubCatalog{weights: make(map[kernel.UUID]decimal.Decimal)}
	locks := regionlock.NewKeyed()
	logger := slog.New(slog.DiscardHandler)

	policy, err := batch.NewFullCapacityPolicy(decimal.NewFromInt(3500))
	require.NoError(t, err)

	env := &workflowEnv{
		db:         db,
		uowFactory: uowFactory,
		catalog:    catalog,
		locks:      locks,
		approveHandler: commands.NewApproveOrderCommandHandler(
			uowFactory,
			services.NewRegionResolver(&stubDirectory{}),
			services.NewWeightCalculator(catalog, logger),
			locks,
			policy,
			2*time.Second,
		),
		orderRepo: orderrepo.NewGormOrderRepository(db, noopTracker{}),
		batchRepo: batchrepo.NewGormBatchRepository(db, noopTracker{}),
	}
	return env
}

type noopTracker struct{}

func (noopTracker) TrackAggregate(_ kernel.UUID, _ any) {}

// placeOrder persists a pending order whose single line item weighs the
// given total.
func (env *workflowEnv) placeOrder(t *testing.T, region string, weight int64) *order.Order {
	t.Helper()

	productID := kernel.NewUUID()
	env.catalog.weights[productID] = decimal.NewFromInt(weight)

	item, err := order.NewLineItem(productID, 1)
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(),
		order.Address{Region: region}, []order.LineItem{item})
	require.NoError(t, err)

	require.NoError(t, env.orderRepo.Add(t.Context(), o))
	return o
}

func (env *workflowEnv) approve(t *testing.T, o *order.Order) error {
	t.Helper()
	cmd, err := commands.NewApproveOrderCommand(o.ID())
	require.NoError(t, err)
	return env.approveHandler.Handle(t.Context(), cmd)
}

func (env *workflowEnv) batchOf(t *testing.T, o *order.Order) *batch.Batch {
	t.Helper()
	stored, err := env.orderRepo.Get(t.Context(), o.ID())
	require.NoError(t, err)
	require.True(t, stored.HasBatch())

	b, err := env.batchRepo.Get(t.Context(), *stored.Batch())
	require.NoError(t, err)
	return b
}

func (env *workflowEnv) openBatches(t *testing.T, region string) []*batch.Batch {
	t.Helper()
	regionKey, err := kernel.NewRegionKey(region)
	require.NoError(t, err)

	open, err := env.batchRepo.GetOpenByRegion(t.Context(), regionKey)
	require.NoError(t, err)
	return open
}

func TestBatchingWorkflow_BestFitAcrossArrivals(t *testing.T) {
	env := newWorkflowEnv(t)
	region := "Almaty District"

	orderA := env.placeOrder(t, region, 1000)
	orderB := env.placeOrder(t, region, 3000)

	require.NoError(t, env.approve(t, orderA))
	require.NoError(t, env.approve(t, orderB))

	// A opened the first batch; B did not fit (remaining 2500) and
	// opened a second one.
	open := env.openBatches(t, region)
	require.Len(t, open, 2)

	batchA := env.batchOf(t, orderA)
	batchB := env.batchOf(t, orderB)
	require.False(t, batchA.ID().IsEqual(batchB.ID()))

	// Consolidation cannot merge 1000 + 3000 into one 3500 batch.
	consolidate := commands.NewConsolidateBatchesCommandHandler(env.uowFactory, env.locks, 2*time.Second)
	require.NoError(t, consolidate.Handle(t.Context(), commands.NewConsolidateAllBatchesCommand()))
	require.Len(t, env.openBatches(t, region), 2)

	// C weighs 2000: only A's batch can take it, and best-fit picks the
	// larger remaining capacity anyway.
	orderC := env.placeOrder(t, region, 2000)
	require.NoError(t, env.approve(t, orderC))
	require.True(t, env.batchOf(t, orderC).ID().IsEqual(batchA.ID()))

	// D weighs 500: both batches hold 3000 and have 500 remaining, so
	// the tie falls to the older one, which fills exactly and turns
	// ready.
	orderD := env.placeOrder(t, region, 500)
	require.NoError(t, env.approve(t, orderD))

	batchD := env.batchOf(t, orderD)
	require.True(t, batchD.ID().IsEqual(batchA.ID()))
	require.Equal(t, batch.Ready, batchD.Status())
	require.True(t, batchD.AccumulatedWeight().Equal(decimal.NewFromInt(3500)))
}

func TestBatchingWorkflow_ConcurrentSameRegionApprovals(t *testing.T) {
	env := newWorkflowEnv(t)
	region := "Almaty District"

	// Six equal orders against capacity 3500: whatever order the region
	// lock admits them in, three fit per batch, so the outcome is two
	// batches of 3000 totalling 6000.
	orders := make([]*order.Order, 6)
	for i := range orders {
		orders[i] = env.placeOrder(t, region, 1000)
	}

	var wg sync.WaitGroup
	errCh := make(chan error, len(orders))
	for _, o := range orders {
		wg.Add(1)
		go func(o *order.Order) {
			defer wg.Done()
			cmd, err := commands.NewApproveOrderCommand(o.ID())
			if err != nil {
				errCh <- err
				return
			}
			errCh <- env.approveHandler.Handle(context.Background(), cmd)
		}(o)
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}

	open := env.openBatches(t, region)
	require.Len(t, open, 2)

	total := decimal.Zero
	for _, b := range open {
		require.True(t, b.AccumulatedWeight().Equal(decimal.NewFromInt(3000)))
		require.True(t, b.AccumulatedWeight().LessThanOrEqual(decimal.NewFromInt(3500)))
		total = total.Add(b.AccumulatedWeight())

		// Conservation: the cached total matches the member orders.
		memberSum, err := env.orderRepo.SumWeightByBatch(t.Context(), b.ID())
		require.NoError(t, err)
		require.True(t, b.AccumulatedWeight().Equal(memberSum))
	}
	require.True(t, total.Equal(decimal.NewFromInt(6000)))

	for _, o := range orders {
		stored, err := env.orderRepo.Get(t.Context(), o.ID())
		require.NoError(t, err)
		require.True(t, stored.HasBatch())
		require.Equal(t, order.Approved, stored.Status())
	}
}

func TestBatchingWorkflow_ApprovalIsIdempotent(t *testing.T) {
	env := newWorkflowEnv(t)
	region := "Almaty District"

	o := env.placeOrder(t, region, 1000)
	require.NoError(t, env.approve(t, o))
	first := env.batchOf(t, o)

	require.NoError(t, env.approve(t, o))

	second := env.batchOf(t, o)
	require.True(t, first.ID().IsEqual(second.ID()))
	require.True(t, second.AccumulatedWeight().Equal(decimal.NewFromInt(1000)))
	require.Len(t, env.openBatches(t, region), 1)
}

func TestBatchingWorkflow_RegionsAreIsolated(t *testing.T) {
	env := newWorkflowEnv(t)

	almaty := env.placeOrder(t, "Almaty District", 1000)
	bostandyk := env.placeOrder(t, "Bostandyk", 1000)

	require.NoError(t, env.approve(t, almaty))
	require.NoError(t, env.approve(t, bostandyk))

	require.False(t, env.batchOf(t, almaty).ID().IsEqual(env.batchOf(t, bostandyk).ID()))
	require.Len(t, env.openBatches(t, "Almaty District"), 1)
	require.Len(t, env.openBatches(t, "Bostandyk"), 1)
}

func TestBatchingWorkflow_ConsolidationMergesAndRepointsOrders(t *testing.T) {
	env := newWorkflowEnv(t)
	region := "Almaty District"

	orderA := env.placeOrder(t, region, 1000)
	orderB := env.placeOrder(t, region, 3000)
	orderC := env.placeOrder(t, region, 2000)

	require.NoError(t, env.approve(t, orderA))
	require.NoError(t, env.approve(t, orderB))
	require.NoError(t, env.approve(t, orderC))

	batchA := env.batchOf(t, orderA)
	require.True(t, env.batchOf(t, orderC).ID().IsEqual(batchA.ID()))

	// Cancel B's batch and rebatch B so the region ends up with two
	// open batches again.
	batchB := env.batchOf(t, orderB)
	cancel := commands.NewCancelBatchCommandHandler(env.uowFactory, env.locks, 2*time.Second)
	cancelCmd, err := commands.NewCancelBatchCommand(batchB.ID())
	require.NoError(t, err)
	require.NoError(t, cancel.Handle(t.Context(), cancelCmd))

	released, err := env.orderRepo.Get(t.Context(), orderB.ID())
	require.NoError(t, err)
	require.False(t, released.HasBatch())
	require.Equal(t, order.Approved, released.Status())

	// Rebatching B lands it in a fresh batch (A's holds 3000, B weighs
	// 3000). A small order then opens nothing new.
	require.NoError(t, env.approve(t, orderB))
	orderD := env.placeOrder(t, region, 400)
	require.NoError(t, env.approve(t, orderD))
	require.Len(t, env.openBatches(t, region), 2)

	consolidate := commands.NewConsolidateBatchesCommandHandler(env.uowFactory, env.locks, 2*time.Second)
	regionKey, err := kernel.NewRegionKey(region)
	require.NoError(t, err)
	cmd, err := commands.NewConsolidateBatchesCommand(regionKey)
	require.NoError(t, err)
	require.NoError(t, consolidate.Handle(t.Context(), cmd))

	// The two batches sum past capacity, so the pass leaves them
	// standing; assert through invariants instead of positions.
	open := env.openBatches(t, region)
	total := decimal.Zero
	for _, b := range open {
		total = total.Add(b.AccumulatedWeight())
		require.True(t, b.AccumulatedWeight().LessThanOrEqual(decimal.NewFromInt(3500)))
	}
	require.True(t, total.Equal(decimal.NewFromInt(6400)))

	// Every order still references a live batch.
	for _, o := range []*order.Order{orderA, orderB, orderC, orderD} {
		stored, err := env.orderRepo.Get(t.Context(), o.ID())
		require.NoError(t, err)
		require.True(t, stored.HasBatch())
		_, err = env.batchRepo.Get(t.Context(), *stored.Batch())
		require.NoError(t, err)
	}
}

func TestBatchingWorkflow_DeliveryLifecycle(t *testing.T) {
	env := newWorkflowEnv(t)
	region := "Almaty District"

	o := env.placeOrder(t, region, 3500)
	require.NoError(t, env.approve(t, o))

	b := env.batchOf(t, o)
	require.Equal(t, batch.Ready, b.Status())

	assign := commands.NewAssignDriverCommandHandler(env.uowFactory)
	driverID := kernel.NewUUID()
	assignCmd, err := commands.NewAssignDriverCommand(b.ID(), driverID)
	require.NoError(t, err)
	require.NoError(t, assign.Handle(t.Context(), assignCmd))

	progress := commands.NewReportDeliveryProgressCommandHandler(env.uowFactory)
	transitCmd, err := commands.NewReportDeliveryProgressCommand(b.ID(), commands.StageInTransit)
	require.NoError(t, err)
	require.NoError(t, progress.Handle(t.Context(), transitCmd))

	deliveredCmd, err := commands.NewReportDeliveryProgressCommand(b.ID(), commands.StageDelivered)
	require.NoError(t, err)
	require.NoError(t, progress.Handle(t.Context(), deliveredCmd))

	finalBatch, err := env.batchRepo.Get(t.Context(), b.ID())
	require.NoError(t, err)
	require.Equal(t, batch.Delivered, finalBatch.Status())

	finalOrder, err := env.orderRepo.Get(t.Context(), o.ID())
	require.NoError(t, err)
	require.Equal(t, order.Delivered, finalOrder.Status())
	for _, item := range finalOrder.Items() {
		require.True(t, item.IsFulfilled())
	}
}

func TestBatchingWorkflow_WeightReconciliation(t *testing.T) {
	env := newWorkflowEnv(t)
	region := "Almaty District"

	o := env.placeOrder(t, region, 1200)
	require.NoError(t, env.approve(t, o))
	b := env.batchOf(t, o)

	// Corrupt the cached total; the member orders stay authoritative.
	err := env.db.Exec("UPDATE batches SET weight = 900 WHERE id = ?", b.ID().Bytes()).Error
	require.NoError(t, err)

	reconcile := commands.NewReconcileBatchWeightCommandHandler(env.uowFactory, env.locks, 2*time.Second)
	cmd, err := commands.NewReconcileBatchWeightCommand(b.ID())
	require.NoError(t, err)
	require.NoError(t, reconcile.Handle(t.Context(), cmd))

	repaired, err := env.batchRepo.Get(t.Context(), b.ID())
	require.NoError(t, err)
	require.True(t, repaired.AccumulatedWeight().Equal(decimal.NewFromInt(1200)))
}
