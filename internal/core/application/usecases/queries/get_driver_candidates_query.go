package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetDriverCandidatesQueryIsNotConstructed = errors.New(
	"GetDriverCandidatesQuery must be created via NewGetDriverCandidatesQuery constructor",
)

// GetDriverCandidatesQuery asks the dispatch service which drivers could
// take a given batch.
type GetDriverCandidatesQuery struct {
	batchID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetDriverCandidatesQuery creates a query for a batch's driver
// candidates.
func NewGetDriverCandidatesQuery(batchID kernel.UUID) (GetDriverCandidatesQuery, error) {
	if err := batchID.Validate(); err != nil {
		return GetDriverCandidatesQuery{}, err
	}

	return GetDriverCandidatesQuery{
		batchID: batchID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// BatchID returns the batch the candidates are requested for.
func (q GetDriverCandidatesQuery) BatchID() kernel.UUID {
	return q.batchID
}

// Validate checks that the query was properly constructed.
func (q GetDriverCandidatesQuery) Validate() error {
	return q.guard.Validate(ErrGetDriverCandidatesQueryIsNotConstructed)
}

// GetDriverCandidatesQueryResponse carries the region the batch serves
// and the drivers the dispatch service offered for it.
type GetDriverCandidatesQueryResponse struct {
	BatchID   kernel.UUID
	Region    string
	DriverIDs []kernel.UUID
}
