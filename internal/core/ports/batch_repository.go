// Package ports defines repository and collaborator interfaces for the
// batch assignment engine. These interfaces establish contracts between
// the domain layer and infrastructure, enabling dependency inversion and
// testability.
package ports

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/batch"
	"fulfillment/internal/core/domain/model/kernel"
)

// ErrBatchAlreadyExists is returned by Add when a storage uniqueness rule
// rejects the new batch: a concurrent writer slipped past the region lock
// and created a conflicting row first. Callers recover by re-running the
// locator against the now-visible state.
var ErrBatchAlreadyExists = errors.New("batch already exists")

// BatchRepository defines the persistence contract for batch aggregates.
type BatchRepository interface {
	// Add persists a new batch aggregate to storage.
	// The batch must be valid and not already exist in the repository;
	// conflicts surface as ErrBatchAlreadyExists.
	Add(ctx context.Context, aggregate *batch.Batch) error

	// Update persists changes to an existing batch aggregate.
	Update(ctx context.Context, aggregate *batch.Batch) error

	// Get retrieves a batch aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*batch.Batch, error)

	// GetOpenByRegion retrieves all collecting batches for the given
	// region, ordered by creation time ascending. The locator scans this
	// list; the ordering fixes the FIFO tie-break between equally filled
	// candidates.
	GetOpenByRegion(ctx context.Context, regionKey kernel.RegionKey) ([]*batch.Batch, error)

	// GetRegionsWithMultipleOpen retrieves the regions that currently have
	// more than one collecting batch. The consolidation job uses this to
	// find merge candidates without scanning every region.
	GetRegionsWithMultipleOpen(ctx context.Context) ([]kernel.RegionKey, error)

	// Delete removes a batch from storage. Only emptied source batches are
	// deleted, after consolidation repointed their member orders.
	Delete(ctx context.Context, id kernel.UUID) error
}
