package queries_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres/batchrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/batch"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type GetStrandedOrdersQueryHandlerTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	handler   queries.GetStrandedOrdersQueryHandler
	orderRepo *orderrepo.GormOrderRepository
	batchRepo *batchrepo.GormBatchRepository
}

func (suite *GetStrandedOrdersQueryHandlerTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(&batchrepo.BatchDTO{}, &orderrepo.OrderDTO{}, &orderrepo.OrderItemDTO{})
	suite.Require().NoError(err)

	suite.handler = queries.NewGetStrandedOrdersQueryHandler(db)
	suite.orderRepo = orderrepo.NewGormOrderRepository(db, &mockAggregateTracker{})
	suite.batchRepo = batchrepo.NewGormBatchRepository(db, &mockAggregateTracker{})
}

func (suite *GetStrandedOrdersQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *GetStrandedOrdersQueryHandlerTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, order_items, batches CASCADE").Error
	suite.Require().NoError(err)
}

func (suite *GetStrandedOrdersQueryHandlerTestSuite) TestHandle_EmptyDatabase_ReturnsEmptySlice() {
	query := queries.NewGetStrandedOrdersQuery()

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.NotNil(result)
	suite.Empty(result)
}

func (suite *GetStrandedOrdersQueryHandlerTestSuite) TestHandle_ReturnsOnlyApprovedWithoutBatch() {
	pending := suite.newOrder()
	err := suite.orderRepo.Add(context.Background(), pending)
	suite.Require().NoError(err)

	stranded := suite.newOrder()
	suite.Require().NoError(stranded.Approve())
	suite.freeze(stranded)
	err = suite.orderRepo.Add(context.Background(), stranded)
	suite.Require().NoError(err)

	batched := suite.newOrder()
	suite.Require().NoError(batched.Approve())
	suite.freeze(batched)
	b := suite.addBatch()
	suite.Require().NoError(batched.AssignToBatch(b.ID()))
	err = suite.orderRepo.Add(context.Background(), batched)
	suite.Require().NoError(err)

	query := queries.NewGetStrandedOrdersQuery()

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.True(result[0].ID.IsEqual(stranded.ID()))
	suite.True(result[0].CustomerID.IsEqual(stranded.CustomerID()))
	suite.Require().NotNil(result[0].Weight)
	suite.True(result[0].Weight.Equal(decimal.NewFromInt(750)))
	suite.Require().NotNil(result[0].Region)
	suite.Equal("Almaty District", *result[0].Region)
}

func (suite *GetStrandedOrdersQueryHandlerTestSuite) TestHandle_UnresolvedOrder_HasNilRegionAndWeight() {
	stranded := suite.newOrder()
	suite.Require().NoError(stranded.Approve())
	err := suite.orderRepo.Add(context.Background(), stranded)
	suite.Require().NoError(err)

	query := queries.NewGetStrandedOrdersQuery()

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.Nil(result[0].Region)
	suite.Nil(result[0].Weight)
}

func (suite *GetStrandedOrdersQueryHandlerTestSuite) TestHandle_InvalidQuery_ReturnsError() {
	invalidQuery := queries.GetStrandedOrdersQuery{}

	result, err := suite.handler.Handle(context.Background(), invalidQuery)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.Contains(err.Error(), "must be created via NewGetStrandedOrdersQuery constructor")
}

func (suite *GetStrandedOrdersQueryHandlerTestSuite) newOrder() *order.Order {
	item, err := order.NewLineItem(kernel.NewUUID(), 1)
	suite.Require().NoError(err)

	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(),
		order.Address{Region: "Almaty District"}, []order.LineItem{item})
	suite.Require().NoError(err)
	return o
}

func (suite *GetStrandedOrdersQueryHandlerTestSuite) freeze(o *order.Order) {
	regionKey, err := kernel.NewRegionKey("Almaty District")
	suite.Require().NoError(err)
	suite.Require().NoError(o.CacheRegion(regionKey))

	w, err := kernel.NewWeight(decimal.NewFromInt(750))
	suite.Require().NoError(err)
	suite.Require().NoError(o.FreezeWeight(w))
}

func (suite *GetStrandedOrdersQueryHandlerTestSuite) addBatch() *batch.Batch {
	regionKey, err := kernel.NewRegionKey("Almaty District")
	suite.Require().NoError(err)

	policy, err := batch.NewFullCapacityPolicy(decimal.NewFromInt(3500))
	suite.Require().NoError(err)

	w, err := kernel.NewWeight(decimal.NewFromInt(750))
	suite.Require().NoError(err)

	b, err := batch.NewBatch(kernel.NewUUID(), regionKey, w, policy)
	suite.Require().NoError(err)

	err = suite.batchRepo.Add(context.Background(), b)
	suite.Require().NoError(err)
	return b
}

func TestGetStrandedOrdersQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetStrandedOrdersQueryHandlerTestSuite))
}
