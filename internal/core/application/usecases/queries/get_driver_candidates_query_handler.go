package queries

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetDriverCandidatesQueryHandler resolves a batch's region and asks the
// dispatch service for drivers able to take it. The engine never picks a
// driver itself; the response is a hint list for the operator or the
// dispatch automation calling back with an assignment.
type GetDriverCandidatesQueryHandler struct {
	db         *gorm.DB
	driverPool ports.DriverPool
}

// NewGetDriverCandidatesQueryHandler creates a handler for driver
// candidate queries.
func NewGetDriverCandidatesQueryHandler(db *gorm.DB, driverPool ports.DriverPool) GetDriverCandidatesQueryHandler {
	return GetDriverCandidatesQueryHandler{db: db, driverPool: driverPool}
}

// Handle executes the query.
func (h GetDriverCandidatesQueryHandler) Handle(
	ctx context.Context,
	query GetDriverCandidatesQuery,
) (GetDriverCandidatesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetDriverCandidatesQueryResponse{}, err
	}

	var region string
	err := h.db.WithContext(ctx).
		Raw("SELECT region FROM batches WHERE id = ?", query.BatchID().Bytes()).
		Scan(&region).Error
	if err != nil {
		return GetDriverCandidatesQueryResponse{}, err
	}
	if region == "" {
		return GetDriverCandidatesQueryResponse{},
			errs.NewObjectNotFoundError("batch", query.BatchID().String())
	}

	regionKey, err := kernel.NewRegionKey(region)
	if err != nil {
		return GetDriverCandidatesQueryResponse{}, err
	}

	drivers, err := h.driverPool.AvailableDrivers(ctx, regionKey)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			drivers = nil
		} else {
			return GetDriverCandidatesQueryResponse{}, err
		}
	}

	return GetDriverCandidatesQueryResponse{
		BatchID:   query.BatchID(),
		Region:    regionKey.Value(),
		DriverIDs: drivers,
	}, nil
}
