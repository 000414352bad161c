package batchrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/batch"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormBatchRepository implements BatchRepository using GORM.
type GormBatchRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormBatchRepository creates a new GORM batch repository.
func NewGormBatchRepository(db *gorm.DB, tracker aggregateTracker) *GormBatchRepository {
	return &GormBatchRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new batch to the database. A primary key collision is
// reported as ports.ErrBatchAlreadyExists so the caller can recover from
// a lost creation race. Requires gorm.Config{TranslateError: true}.
func (r *GormBatchRepository) Add(ctx context.Context, aggregate *batch.Batch) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ports.ErrBatchAlreadyExists
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing batch to the database. Save writes every
// column: a reconciled weight may legitimately drop to zero and must not
// be skipped as a zero value.
func (r *GormBatchRepository) Update(ctx context.Context, aggregate *batch.Batch) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Save(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a batch by ID.
func (r *GormBatchRepository) Get(ctx context.Context, id kernel.UUID) (*batch.Batch, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto BatchDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("batch", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetOpenByRegion retrieves the region's collecting batches ordered oldest
// first. The ordering carries the FIFO tie-break, so callers must not
// re-sort the result.
func (r *GormBatchRepository) GetOpenByRegion(
	ctx context.Context, regionKey kernel.RegionKey,
) ([]*batch.Batch, error) {
	if err := regionKey.Validate(); err != nil {
		return nil, err
	}

	var dtos []BatchDTO
	err := r.db.WithContext(ctx).
		Where("lower(region) = ? AND status = ?", regionKey.LockKey(), batch.Collecting).
		Order("created_at asc").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	batches := make([]*batch.Batch, 0, len(dtos))
	for _, dto := range dtos {
		b, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}

	return batches, nil
}

// GetRegionsWithMultipleOpen retrieves regions holding more than one
// collecting batch, the candidates for a consolidation pass.
func (r *GormBatchRepository) GetRegionsWithMultipleOpen(ctx context.Context) ([]kernel.RegionKey, error) {
	var regions []string
	err := r.db.WithContext(ctx).
		Model(&BatchDTO{}).
		Where("status = ?", batch.Collecting).
		Group("region").
		Having("count(*) > 1").
		Pluck("region", &regions).Error
	if err != nil {
		return nil, err
	}

	keys := make([]kernel.RegionKey, 0, len(regions))
	for _, region := range regions {
		key, err := kernel.NewRegionKey(region)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}

	return keys, nil
}

// Delete removes a batch. Only consolidation deletes batches, and only
// after the target absorbed the source's weight and orders.
func (r *GormBatchRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&BatchDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
