// Package orderrepo persists the order aggregate: one row in orders plus one
// row per line in order_items.
package orderrepo

import (
	"time"

	"marketplace/internal/adapters/out/persistence/userrepo"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderDTO struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ShopID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerID     *uuid.UUID      `gorm:"type:uuid;index"`
	DriverID       *uuid.UUID      `gorm:"type:uuid;index"`
	PickupAddress  string          `gorm:"type:varchar(500);not null"`
	DropoffAddress string          `gorm:"type:varchar(500);not null;default:''"`
	Status         string          `gorm:"type:varchar(32);not null;index"`
	TotalAmount    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	TotalWeight    decimal.Decimal `gorm:"type:numeric(12,3);not null"`
	CreatedAt      time.Time       `gorm:"not null"`
	UpdatedAt      time.Time       `gorm:"not null;index"`

	// Removing a user keeps its orders and clears the reference.
	Customer *userrepo.UserDTO `gorm:"foreignKey:CustomerID;constraint:OnDelete:SET NULL"`
	Driver   *userrepo.UserDTO `gorm:"foreignKey:DriverID;constraint:OnDelete:SET NULL"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO is one order line. Position keeps the insertion order of lines.
type ItemDTO struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Order      *OrderDTO       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Position   int             `gorm:"not null"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity   int             `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	UnitWeight decimal.Decimal `gorm:"type:numeric(12,3);not null"`
	LineTotal  decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

func (ItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(o *order.Order) (OrderDTO, []ItemDTO) {
	dto := OrderDTO{
		ID:             o.ID().Bytes(),
		ShopID:         o.ShopID().Bytes(),
		CustomerID:     optionalID(o.CustomerID()),
		DriverID:       optionalID(o.DriverID()),
		PickupAddress:  o.Pickup().String(),
		DropoffAddress: o.Dropoff().String(),
		Status:         o.Status().String(),
		TotalAmount:    o.TotalAmount().Decimal(),
		TotalWeight:    o.TotalWeight().Decimal(),
		CreatedAt:      o.CreatedAt(),
		UpdatedAt:      o.UpdatedAt(),
	}

	items := make([]ItemDTO, 0, len(o.Items()))
	for i, item := range o.Items() {
		items = append(items, ItemDTO{
			ID:         item.ID().Bytes(),
			OrderID:    dto.ID,
			Position:   i,
			ProductID:  item.ProductID().Bytes(),
			Quantity:   item.Quantity(),
			UnitPrice:  item.UnitPrice().Decimal(),
			UnitWeight: item.UnitWeight().Decimal(),
			LineTotal:  item.LineTotal().Decimal(),
		})
	}
	return dto, items
}

func toDomain(dto OrderDTO, itemDTOs []ItemDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	shopID, err := kernel.UUIDFromBytes(dto.ShopID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := restoreOptionalID(dto.CustomerID)
	if err != nil {
		return nil, err
	}
	driverID, err := restoreOptionalID(dto.DriverID)
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	pickup, err := kernel.RestoreAddress(dto.PickupAddress)
	if err != nil {
		return nil, err
	}
	dropoff, err := kernel.RestoreAddress(dto.DropoffAddress)
	if err != nil {
		return nil, err
	}

	items := make([]*order.Item, 0, len(itemDTOs))
	for _, itemDTO := range itemDTOs {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(order.Snapshot{
		ID:         id,
		ShopID:     shopID,
		CustomerID: customerID,
		DriverID:   driverID,
		Pickup:     pickup,
		Dropoff:    dropoff,
		Status:     status,
		Items:      items,
		CreatedAt:  dto.CreatedAt.UTC(),
		UpdatedAt:  dto.UpdatedAt.UTC(),
	})
}

func itemToDomain(dto ItemDTO) (*order.Item, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return nil, err
	}
	unitPrice, err := kernel.NewMoney(dto.UnitPrice)
	if err != nil {
		return nil, err
	}
	unitWeight, err := kernel.NewWeight(dto.UnitWeight)
	if err != nil {
		return nil, err
	}
	lineTotal, err := kernel.NewMoney(dto.LineTotal)
	if err != nil {
		return nil, err
	}
	return order.RestoreItem(id, productID, dto.Quantity, unitPrice, unitWeight, lineTotal)
}

func optionalID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func restoreOptionalID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
