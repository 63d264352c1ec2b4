// Package failurerepo stores terminal dispatch failures for operators.
package failurerepo

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/dispatch"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FailureDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	Attempts   int        `gorm:"not null"`
	LastError  string     `gorm:"type:text;not null"`
	FailedAt   time.Time  `gorm:"not null;index"`
	ResolvedAt *time.Time `gorm:"index"`
}

func (FailureDTO) TableName() string {
	return "dispatch_failures"
}

// GormFailureRepository implements ports.DispatchFailureRepository using GORM.
type GormFailureRepository struct {
	db *gorm.DB
}

func NewGormFailureRepository(db *gorm.DB) *GormFailureRepository {
	return &GormFailureRepository{db: db}
}

func (r *GormFailureRepository) Add(ctx context.Context, f *dispatch.Failure) error {
	dto := FailureDTO{
		ID:         f.ID().Bytes(),
		OrderID:    f.OrderID().Bytes(),
		Attempts:   f.Attempts(),
		LastError:  f.LastError(),
		FailedAt:   f.FailedAt(),
		ResolvedAt: f.ResolvedAt(),
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormFailureRepository) ResolveOpen(ctx context.Context, orderID kernel.UUID, at time.Time) (int64, error) {
	if err := orderID.Validate(); err != nil {
		return 0, err
	}
	result := r.db.WithContext(ctx).Model(&FailureDTO{}).
		Where("order_id = ? AND resolved_at IS NULL", orderID.Bytes()).
		Update("resolved_at", at.UTC())
	return result.RowsAffected, result.Error
}

func (r *GormFailureRepository) List(ctx context.Context, includeResolved bool) ([]*dispatch.Failure, error) {
	query := r.db.WithContext(ctx).Order("failed_at DESC, id")
	if !includeResolved {
		query = query.Where("resolved_at IS NULL")
	}

	var dtos []FailureDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}

	failures := make([]*dispatch.Failure, 0, len(dtos))
	for _, dto := range dtos {
		id, err := kernel.UUIDFromBytes(dto.ID[:])
		if err != nil {
			return nil, err
		}
		orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
		if err != nil {
			return nil, err
		}
		var resolvedAt *time.Time
		if dto.ResolvedAt != nil {
			at := dto.ResolvedAt.UTC()
			resolvedAt = &at
		}
		f, err := dispatch.RestoreFailure(id, orderID, dto.Attempts, dto.LastError, dto.FailedAt.UTC(), resolvedAt)
		if err != nil {
			return nil, err
		}
		failures = append(failures, f)
	}
	return failures, nil
}
