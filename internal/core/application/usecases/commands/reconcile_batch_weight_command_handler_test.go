package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/batch"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/regionlock"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReconcileBatchWeightCommandHandler_Handle_RestatesWeight(t *testing.T) {
	ctx := t.Context()
	b := openTestBatch(t, 3000)

	cmd, err := commands.NewReconcileBatchWeightCommand(b.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	batchRepo := new(MockBatchRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("BatchRepository").Return(batchRepo).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		batchRepo.On("Get", ctx, b.ID()).Return(b, nil).Once(),
		orderRepo.On("SumWeightByBatch", ctx, b.ID()).
			Return(decimal.NewFromInt(500), nil).Once(),
		batchRepo.On("Update", ctx, b).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewReconcileBatchWeightCommandHandler(factory, regionlock.NewKeyed(), testLockTimeout)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, b.AccumulatedWeight().Equal(decimal.NewFromInt(500)))
	assert.Equal(t, batch.Collecting, b.Status())
	orderRepo.AssertExpectations(t)
	batchRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestReconcileBatchWeightCommandHandler_Handle_FiresReadiness(t *testing.T) {
	ctx := t.Context()
	b := openTestBatch(t, 1000)

	cmd, err := commands.NewReconcileBatchWeightCommand(b.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	batchRepo := new(MockBatchRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("BatchRepository").Return(batchRepo).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		batchRepo.On("Get", ctx, b.ID()).Return(b, nil).Once(),
		orderRepo.On("SumWeightByBatch", ctx, b.ID()).
			Return(decimal.NewFromInt(3500), nil).Once(),
		batchRepo.On("Update", ctx, b).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewReconcileBatchWeightCommandHandler(factory, regionlock.NewKeyed(), testLockTimeout)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, b.AccumulatedWeight().Equal(decimal.NewFromInt(3500)))
	assert.Equal(t, batch.Ready, b.Status())
}

func TestReconcileBatchWeightCommandHandler_Handle_RejectsOverCapacityTotal(t *testing.T) {
	ctx := t.Context()
	b := openTestBatch(t, 1000)

	cmd, err := commands.NewReconcileBatchWeightCommand(b.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	batchRepo := new(MockBatchRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("BatchRepository").Return(batchRepo).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		batchRepo.On("Get", ctx, b.ID()).Return(b, nil).Once(),
		orderRepo.On("SumWeightByBatch", ctx, b.ID()).
			Return(decimal.NewFromInt(4000), nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewReconcileBatchWeightCommandHandler(factory, regionlock.NewKeyed(), testLockTimeout)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.True(t, b.AccumulatedWeight().Equal(decimal.NewFromInt(1000)))
	batchRepo.AssertNotCalled(t, "Update")
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestReconcileBatchWeightCommandHandler_Handle_BatchNotFound(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewReconcileBatchWeightCommand(kernel.NewUUID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	batchRepo := new(MockBatchRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("BatchRepository").Return(batchRepo).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		batchRepo.On("Get", ctx, mock.AnythingOfType("kernel.UUID")).
			Return(nil, errs.ErrObjectNotFound).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewReconcileBatchWeightCommandHandler(factory, regionlock.NewKeyed(), testLockTimeout)
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrBatchNotFound)
}

func TestNewReconcileBatchWeightCommand(t *testing.T) {
	t.Run("creates_valid_command", func(t *testing.T) {
		batchID := kernel.NewUUID()

		cmd, err := commands.NewReconcileBatchWeightCommand(batchID)

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.True(t, cmd.BatchID().IsEqual(batchID))
	})

	t.Run("rejects_zero_batch_id", func(t *testing.T) {
		_, err := commands.NewReconcileBatchWeightCommand(kernel.UUID{})

		require.Error(t, err)
	})

	t.Run("zero_value_command_is_invalid", func(t *testing.T) {
		var cmd commands.ReconcileBatchWeightCommand

		require.ErrorIs(t, cmd.Validate(), commands.ErrReconcileBatchWeightCommandIsNotConstructed)
	})
}
