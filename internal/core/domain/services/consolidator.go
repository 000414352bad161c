package services

import (
	"fulfillment/internal/core/domain/model/batch"
)

// ConsolidationPlan names the oldest open batch of a region as the merge
// target and lists the source batches whose entire weight fits into it,
// in creation order. An empty Sources slice means the region's batches
// cannot be merged; that is expected, not an error.
type ConsolidationPlan struct {
	Target  *batch.Batch
	Sources []*batch.Batch
}

// HasWork reports whether the plan actually merges anything.
func (p ConsolidationPlan) HasWork() bool {
	return len(p.Sources) > 0
}

// Consolidator plans the merging of a region's open batches. The oldest
// batch absorbs younger ones greedily in creation order, as long as the
// running total stays within capacity; batches that would overflow the
// target are left standing.
//
// Planning is pure: executing the plan (moving member orders, adding
// weights, deleting emptied sources) happens in the command handler
// inside the region's critical section and transaction.
type Consolidator struct{}

// NewConsolidator creates a new Consolidator instance.
func NewConsolidator() Consolidator {
	return Consolidator{}
}

// Plan computes the consolidation plan for a region's open batches. The
// input must be ordered by creation time ascending; fewer than two
// batches yield an empty plan.
func (c Consolidator) Plan(open []*batch.Batch) (ConsolidationPlan, error) {
	if len(open) < 2 {
		return ConsolidationPlan{}, nil
	}

	target := open[0]
	if err := target.Validate(); err != nil {
		return ConsolidationPlan{}, err
	}

	plan := ConsolidationPlan{Target: target}
	remaining := target.RemainingCapacity()

	for _, source := range open[1:] {
		if err := source.Validate(); err != nil {
			return ConsolidationPlan{}, err
		}

		if !target.CanAbsorb(source) {
			continue
		}

		if source.AccumulatedWeight().GreaterThan(remaining) {
			continue
		}

		remaining = remaining.Sub(source.AccumulatedWeight())
		plan.Sources = append(plan.Sources, source)
	}

	return plan, nil
}
