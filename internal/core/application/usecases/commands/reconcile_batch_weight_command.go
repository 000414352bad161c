package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrReconcileBatchWeightCommandIsNotConstructed = errors.New(
	"ReconcileBatchWeightCommand must be created via NewReconcileBatchWeightCommand constructor",
)

// ReconcileBatchWeightCommand repairs a batch whose cached accumulated
// weight drifted from the sum of its member orders' frozen weights. The
// order set is the source of truth; the stored total is only a cache.
type ReconcileBatchWeightCommand struct { //nolint:recvcheck //using for validation
	batchID kernel.UUID

	guard guard.ConstructorGuard
}

// NewReconcileBatchWeightCommand creates a weight reconciliation command.
func NewReconcileBatchWeightCommand(batchID kernel.UUID) (ReconcileBatchWeightCommand, error) {
	cmd := ReconcileBatchWeightCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setBatchID(batchID); err != nil {
		return ReconcileBatchWeightCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReconcileBatchWeightCommand) Validate() error {
	return c.guard.Validate(ErrReconcileBatchWeightCommandIsNotConstructed)
}

// BatchID returns the batch to reconcile.
func (c ReconcileBatchWeightCommand) BatchID() kernel.UUID {
	return c.batchID
}

func (c *ReconcileBatchWeightCommand) setBatchID(batchID kernel.UUID) error {
	if err := batchID.Validate(); err != nil {
		return err
	}

	c.batchID = batchID
	return nil
}
