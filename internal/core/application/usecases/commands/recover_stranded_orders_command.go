package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrRecoverStrandedOrdersCommandIsNotConstructed = errors.New(
	"RecoverStrandedOrdersCommand must be created via NewRecoverStrandedOrdersCommand constructor",
)

// RecoverStrandedOrdersCommand re-runs allocation for approved orders
// that lost their batch reference to a partial failure.
type RecoverStrandedOrdersCommand struct {
	guard guard.ConstructorGuard
}

// NewRecoverStrandedOrdersCommand creates a stranded-order recovery
// command.
func NewRecoverStrandedOrdersCommand() RecoverStrandedOrdersCommand {
	return RecoverStrandedOrdersCommand{guard: guard.NewConstructorGuard()}
}

// Validate ensures the command was created through the constructor.
func (c RecoverStrandedOrdersCommand) Validate() error {
	return c.guard.Validate(ErrRecoverStrandedOrdersCommandIsNotConstructed)
}
