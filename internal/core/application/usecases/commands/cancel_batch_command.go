package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrCancelBatchCommandIsNotConstructed = errors.New(
	"CancelBatchCommand must be created via NewCancelBatchCommand constructor",
)

// CancelBatchCommand abandons a batch before transit. Member orders are
// released back to Approved with no batch reference so they can be
// rebatched instead of being stranded.
type CancelBatchCommand struct { //nolint:recvcheck //using for validation
	batchID kernel.UUID

	guard guard.ConstructorGuard
}

// NewCancelBatchCommand creates a command cancelling a batch.
func NewCancelBatchCommand(batchID kernel.UUID) (CancelBatchCommand, error) {
	cmd := CancelBatchCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setBatchID(batchID); err != nil {
		return CancelBatchCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelBatchCommand) Validate() error {
	return c.guard.Validate(ErrCancelBatchCommandIsNotConstructed)
}

// BatchID returns the batch to cancel.
func (c CancelBatchCommand) BatchID() kernel.UUID {
	return c.batchID
}

func (c *CancelBatchCommand) setBatchID(batchID kernel.UUID) error {
	if err := batchID.Validate(); err != nil {
		return err
	}

	c.batchID = batchID
	return nil
}
