package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrReopenOrderCommandIsNotConstructed = errors.New(
	"ReopenOrderCommand must be created via NewReopenOrderCommand constructor",
)

// ReopenOrderCommand returns an approved or rejected order to Pending for
// a fresh approval cycle. Orders still referencing a batch cannot be
// reopened; the batch has to be cancelled first.
type ReopenOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewReopenOrderCommand creates a command reopening an order.
func NewReopenOrderCommand(orderID kernel.UUID) (ReopenOrderCommand, error) {
	cmd := ReopenOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setOrderID(orderID); err != nil {
		return ReopenOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReopenOrderCommand) Validate() error {
	return c.guard.Validate(ErrReopenOrderCommandIsNotConstructed)
}

// OrderID returns the order to reopen.
func (c ReopenOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *ReopenOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
