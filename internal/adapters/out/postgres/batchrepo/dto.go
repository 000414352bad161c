// Package batchrepo provides data transfer objects and mapping functions for
// batch persistence. It implements the repository pattern for the batch
// aggregate, converting between the domain model and its relational
// representation.
package batchrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/batch"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BatchDTO represents the database structure for persisting batch aggregates.
// The region column is indexed because open-batch lookups are always
// region-scoped; created_at ordering backs the FIFO tie-break.
type BatchDTO struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Region         string          `gorm:"index"`
	Weight         decimal.Decimal `gorm:"type:numeric"`
	Capacity       decimal.Decimal `gorm:"type:numeric"`
	ReadyThreshold decimal.Decimal `gorm:"type:numeric"`
	Status         int             `gorm:"index"`
	DriverID       *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt      time.Time
}

// TableName specifies the database table name for batch entities.
func (BatchDTO) TableName() string {
	return "batches"
}

func fromDomain(b *batch.Batch) BatchDTO {
	var driverID *uuid.UUID
	if id := b.Driver(); id != nil {
		raw := id.Bytes()
		driverID = &raw
	}

	return BatchDTO{
		ID:             b.ID().Bytes(),
		Region:         b.RegionKey().Value(),
		Weight:         b.AccumulatedWeight(),
		Capacity:       b.Policy().Capacity(),
		ReadyThreshold: b.Policy().ReadyThreshold(),
		Status:         int(b.Status()),
		DriverID:       driverID,
		CreatedAt:      b.CreatedAt(),
	}
}

func toDomain(dto BatchDTO) (*batch.Batch, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	regionKey, err := kernel.NewRegionKey(dto.Region)
	if err != nil {
		return nil, err
	}

	policy, err := batch.NewPolicy(dto.Capacity, dto.ReadyThreshold)
	if err != nil {
		return nil, err
	}

	var driverID *kernel.UUID
	if dto.DriverID != nil {
		dID, driverErr := kernel.UUIDFromBytes((*dto.DriverID)[:])
		if driverErr != nil {
			return nil, driverErr
		}

		driverID = &dID
	}

	return batch.RestoreBatch(id, regionKey, dto.Weight, policy,
		batch.Status(dto.Status), driverID, dto.CreatedAt)
}
