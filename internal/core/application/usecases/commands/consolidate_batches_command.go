package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrConsolidateBatchesCommandIsNotConstructed = errors.New(
	"ConsolidateBatchesCommand must be created via NewConsolidateBatchesCommand constructor",
)

// ConsolidateBatchesCommand requests merging of a region's open batches,
// or of every region with more than one open batch when no region is
// given.
type ConsolidateBatchesCommand struct { //nolint:recvcheck //using for validation
	regionKey *kernel.RegionKey

	guard guard.ConstructorGuard
}

// NewConsolidateBatchesCommand creates a command targeting one region.
func NewConsolidateBatchesCommand(regionKey kernel.RegionKey) (ConsolidateBatchesCommand, error) {
	cmd := ConsolidateBatchesCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := regionKey.Validate(); err != nil {
		return ConsolidateBatchesCommand{}, err
	}

	cmd.regionKey = &regionKey
	return cmd, nil
}

// NewConsolidateAllBatchesCommand creates a command covering every region
// that currently has more than one open batch.
func NewConsolidateAllBatchesCommand() ConsolidateBatchesCommand {
	return ConsolidateBatchesCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through a constructor.
func (c ConsolidateBatchesCommand) Validate() error {
	return c.guard.Validate(ErrConsolidateBatchesCommandIsNotConstructed)
}

// RegionKey returns the targeted region, or nil for an all-regions run.
func (c ConsolidateBatchesCommand) RegionKey() *kernel.RegionKey {
	return c.regionKey
}
