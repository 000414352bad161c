// Package services provides domain services that orchestrate business
// operations across multiple domain entities in the batch assignment
// engine. It implements logic that doesn't naturally belong to a single
// aggregate root.
//
// The package includes:
//   - RegionResolver: derives a normalized region key from an order's
//     delivery address through an ordered chain of fallbacks
//   - WeightCalculator: computes an order's batching weight from its line
//     items and the product catalog
//   - BatchLocator: picks the best open batch for a given weight
//   - Consolidator: plans merges of a region's open batches
//
// Domain services coordinate between aggregates, implementing business
// logic that spans multiple bounded contexts following Domain-Driven
// Design principles.
package services
