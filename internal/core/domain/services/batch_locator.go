package services

import (
	"errors"

	"fulfillment/internal/core/domain/model/batch"
	"fulfillment/internal/core/domain/model/kernel"
)

// ErrNoCandidateBatch is returned when no open batch in the region can
// accept the required weight. The allocator reacts by creating a fresh
// batch.
var ErrNoCandidateBatch = errors.New("no open batch can accept the weight")

// BatchLocator selects the open batch an order's weight should go into.
//
// Selection policy (deterministic): among collecting batches that can
// still fit the weight, prefer the one with the largest remaining
// capacity; break ties by oldest creation time. Candidates must be
// passed in creation order (the repository query guarantees this), so
// keeping the first of equally roomy batches implements the FIFO
// tie-break.
type BatchLocator struct{}

// NewBatchLocator creates a new BatchLocator instance.
func NewBatchLocator() BatchLocator {
	return BatchLocator{}
}

// FindCandidate returns the best open batch for the given weight, or
// ErrNoCandidateBatch when none fits. The input slice must be ordered by
// creation time ascending.
func (l BatchLocator) FindCandidate(w kernel.Weight, candidates []*batch.Batch) (*batch.Batch, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	var best *batch.Batch

	for _, candidate := range candidates {
		if err := candidate.Validate(); err != nil {
			return nil, err
		}

		if !candidate.CanAccept(w) {
			continue
		}

		if best == nil || candidate.RemainingCapacity().GreaterThan(best.RemainingCapacity()) {
			best = candidate
		}
	}

	if best == nil {
		return nil, ErrNoCandidateBatch
	}

	return best, nil
}
