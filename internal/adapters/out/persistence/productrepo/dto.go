// Package productrepo reads the catalog.
package productrepo

import (
	"marketplace/internal/core/domain/model/catalog"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CategoryDTO struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"type:varchar(100);not null;uniqueIndex"`
}

func (CategoryDTO) TableName() string {
	return "categories"
}

type ProductDTO struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name       string          `gorm:"type:varchar(255);not null"`
	CategoryID *uuid.UUID      `gorm:"type:uuid;index"`
	Price      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Weight     decimal.Decimal `gorm:"type:numeric(12,3);not null"`
	ShopID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Active     bool            `gorm:"not null"`
}

func (ProductDTO) TableName() string {
	return "products"
}

func fromDomain(p *catalog.Product) ProductDTO {
	var categoryID *uuid.UUID
	if id := p.CategoryID(); id != nil {
		raw := id.Bytes()
		categoryID = &raw
	}
	return ProductDTO{
		ID:         p.ID().Bytes(),
		Name:       p.Name(),
		CategoryID: categoryID,
		Price:      p.Price().Decimal(),
		Weight:     p.Weight().Decimal(),
		ShopID:     p.ShopID().Bytes(),
		Active:     p.IsActive(),
	}
}

func toDomain(dto ProductDTO) (*catalog.Product, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	shopID, err := kernel.UUIDFromBytes(dto.ShopID[:])
	if err != nil {
		return nil, err
	}
	var categoryID *kernel.UUID
	if dto.CategoryID != nil {
		cID, idErr := kernel.UUIDFromBytes(dto.CategoryID[:])
		if idErr != nil {
			return nil, idErr
		}
		categoryID = &cID
	}
	price, err := kernel.NewMoney(dto.Price)
	if err != nil {
		return nil, err
	}
	weight, err := kernel.NewWeight(dto.Weight)
	if err != nil {
		return nil, err
	}
	return catalog.NewProduct(id, dto.Name, categoryID, price, weight, shopID, dto.Active)
}
