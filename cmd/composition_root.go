package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/adapters/out/collaborators"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/batch"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/regionlock"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CompositionRoot wires adapters into use case handlers. The region lock
// registry is shared by every handler it creates; handlers built from two
// different roots would not see each other's locks.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory

	locks       *regionlock.Keyed
	policy      batch.Policy
	lockTimeout time.Duration
	logger      *slog.Logger

	addressDirectory *collaborators.AddressClient
	productCatalog   *collaborators.CatalogClient
	driverPool       *collaborators.DriverPoolClient
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (CompositionRoot, error) {
	capacity, err := decimal.NewFromString(config.BatchCapacity)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("invalid batch capacity %q: %w", config.BatchCapacity, err)
	}

	readyThreshold, err := decimal.NewFromString(config.BatchReadyThreshold)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("invalid ready threshold %q: %w", config.BatchReadyThreshold, err)
	}

	policy, err := batch.NewPolicy(capacity, readyThreshold)
	if err != nil {
		return CompositionRoot{}, err
	}

	lockTimeout, err := time.ParseDuration(config.RegionLockTimeout)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("invalid region lock timeout %q: %w", config.RegionLockTimeout, err)
	}

	return CompositionRoot{
		gormDB:           gormDB,
		uowFactory:       *postgres.NewGormUnitOfWorkFactory(gormDB),
		locks:            regionlock.NewKeyed(),
		policy:           policy,
		lockTimeout:      lockTimeout,
		logger:           logger,
		addressDirectory: collaborators.NewAddressClient(config.AddressServiceURL),
		productCatalog:   collaborators.NewCatalogClient(config.CatalogServiceURL),
		driverPool:       collaborators.NewDriverPoolClient(config.DispatchServiceURL),
	}, nil
}

func (c *CompositionRoot) CreateApproveOrderCommandHandler() commands.ApproveOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewApproveOrderCommandHandler(
		f,
		services.NewRegionResolver(c.addressDirectory),
		services.NewWeightCalculator(c.productCatalog, c.logger),
		c.locks,
		c.policy,
		c.lockTimeout,
	)
}

func (c *CompositionRoot) CreateRejectOrderCommandHandler() commands.RejectOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewRejectOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateReopenOrderCommandHandler() commands.ReopenOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewReopenOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateConsolidateBatchesCommandHandler() commands.ConsolidateBatchesCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewConsolidateBatchesCommandHandler(f, c.locks, c.lockTimeout)
}

func (c *CompositionRoot) CreateAssignDriverCommandHandler() commands.AssignDriverCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignDriverCommandHandler(f)
}

func (c *CompositionRoot) CreateReportDeliveryProgressCommandHandler() commands.ReportDeliveryProgressCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewReportDeliveryProgressCommandHandler(f)
}

func (c *CompositionRoot) CreateCancelBatchCommandHandler() commands.CancelBatchCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewCancelBatchCommandHandler(f, c.locks, c.lockTimeout)
}

func (c *CompositionRoot) CreateReconcileBatchWeightCommandHandler() commands.ReconcileBatchWeightCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewReconcileBatchWeightCommandHandler(f, c.locks, c.lockTimeout)
}

func (c *CompositionRoot) CreateRecoverStrandedOrdersCommandHandler() commands.RecoverStrandedOrdersCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewRecoverStrandedOrdersCommandHandler(f, c.CreateApproveOrderCommandHandler(), c.logger)
}

func (c *CompositionRoot) CreateGetOpenBatchesQueryHandler() queries.GetOpenBatchesQueryHandler {
	return queries.NewGetOpenBatchesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetStrandedOrdersQueryHandler() queries.GetStrandedOrdersQueryHandler {
	return queries.NewGetStrandedOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDriverCandidatesQueryHandler() queries.GetDriverCandidatesQueryHandler {
	return queries.NewGetDriverCandidatesQueryHandler(c.gormDB, c.driverPool)
}

// FuncUoWFactory adapts a closure over the gorm factory to the
// commands.UoWFactory interface the handlers expect.
type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
