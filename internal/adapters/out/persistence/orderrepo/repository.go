package orderrepo

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/adapters/out/persistence/locking"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts the order row and its lines.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, items := fromDomain(aggregate)
	db := r.db.WithContext(ctx)
	if err := db.Create(&dto).Error; err != nil {
		return err
	}
	if err := upsertItems(db, items); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update rewrites the order row and upserts its lines. Lines are never removed.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, items := fromDomain(aggregate)
	db := r.db.WithContext(ctx)
	result := db.Model(&OrderDTO{}).Where("id = ?", dto.ID).Updates(map[string]any{
		"customer_id":     dto.CustomerID,
		"driver_id":       dto.DriverID,
		"pickup_address":  dto.PickupAddress,
		"dropoff_address": dto.DropoffAddress,
		"status":          dto.Status,
		"total_amount":    dto.TotalAmount,
		"total_weight":    dto.TotalWeight,
		"updated_at":      dto.UpdatedAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if err := upsertItems(db, items); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// AssignDriver is a compare-and-set on the stored status.
func (r *GormOrderRepository) AssignDriver(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if aggregate.DriverID() == nil || aggregate.Status() != order.Assigned {
		return errs.NewValueIsInvalidError("order is not assigned")
	}

	dto, _ := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND status = ?", dto.ID, order.ReadyToCollect.String()).
		Updates(map[string]any{
			"driver_id":  dto.DriverID,
			"status":     dto.Status,
			"updated_at": dto.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrConditionFailed
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.first(ctx, r.db.WithContext(ctx), id)
}

func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.first(ctx, locking.ForUpdate(r.db.WithContext(ctx)), id)
}

func (r *GormOrderRepository) FindOpenForUpdate(ctx context.Context, customerID, shopID kernel.UUID) (*order.Order, error) {
	if err := errors.Join(customerID.Validate(), shopID.Validate()); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := locking.ForUpdate(r.db.WithContext(ctx)).
		Where("customer_id = ? AND shop_id = ? AND status = ?",
			customerID.Bytes(), shopID.Bytes(), order.Created.String()).
		Order("created_at, id").
		First(&dto).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("open order", customerID.String())
	}
	if err != nil {
		return nil, err
	}

	return r.withItems(r.db.WithContext(ctx), dto)
}

func (r *GormOrderRepository) GetActive(ctx context.Context) ([]*order.Order, error) {
	db := r.db.WithContext(ctx)

	var dtos []OrderDTO
	err := db.Where("status NOT IN ?", []string{order.Delivered.String(), order.Cancelled.String()}).
		Order("created_at, id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	if len(dtos) == 0 {
		return []*order.Order{}, nil
	}

	ids := make([]uuid.UUID, 0, len(dtos))
	for _, dto := range dtos {
		ids = append(ids, dto.ID)
	}
	var itemDTOs []ItemDTO
	if err = db.Where("order_id IN ?", ids).Order("position").Find(&itemDTOs).Error; err != nil {
		return nil, err
	}
	byOrder := make(map[uuid.UUID][]ItemDTO, len(dtos))
	for _, item := range itemDTOs {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, convErr := toDomain(dto, byOrder[dto.ID])
		if convErr != nil {
			return nil, convErr
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (r *GormOrderRepository) GetStaleReadyToCollect(ctx context.Context, before time.Time, limit int) ([]kernel.UUID, error) {
	var raw []uuid.UUID
	err := r.db.WithContext(ctx).Raw(`
		SELECT o.id
		FROM orders o
		WHERE o.status = ?
			AND o.updated_at < ?
			AND NOT EXISTS (
				SELECT 1 FROM dispatch_failures f
				WHERE f.order_id = o.id AND f.resolved_at IS NULL
			)
		ORDER BY o.updated_at, o.id
		LIMIT ?
	`, order.ReadyToCollect.String(), before.UTC(), limit).Scan(&raw).Error
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(raw))
	for _, value := range raw {
		id, idErr := kernel.UUIDFromBytes(value[:])
		if idErr != nil {
			return nil, idErr
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *GormOrderRepository) first(ctx context.Context, db *gorm.DB, id kernel.UUID) (*order.Order, error) {
	var dto OrderDTO
	if err := db.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}
	return r.withItems(r.db.WithContext(ctx), dto)
}

func (r *GormOrderRepository) withItems(db *gorm.DB, dto OrderDTO) (*order.Order, error) {
	var items []ItemDTO
	if err := db.Where("order_id = ?", dto.ID).Order("position").Find(&items).Error; err != nil {
		return nil, err
	}
	return toDomain(dto, items)
}

func upsertItems(db *gorm.DB, items []ItemDTO) error {
	if len(items) == 0 {
		return nil
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "unit_price", "unit_weight", "line_total"}),
	}).Create(&items).Error
}
