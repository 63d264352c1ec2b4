// Package userrepo reads the user directory. Profiles are stored flat on the
// users row; the role decides which columns are meaningful.
package userrepo

import (
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/user"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UserDTO struct {
	ID             uuid.UUID           `gorm:"type:uuid;primaryKey"`
	Email          string              `gorm:"type:varchar(254);not null;uniqueIndex"`
	Username       string              `gorm:"type:varchar(150);not null;uniqueIndex"`
	Role           string              `gorm:"type:varchar(16);not null;index"`
	Active         bool                `gorm:"not null"`
	VehicleType    string              `gorm:"type:varchar(50)"`
	Capacity       decimal.NullDecimal `gorm:"type:numeric(12,3)"`
	Address        string              `gorm:"type:varchar(500)"`
	PaymentMethods []string            `gorm:"type:text;serializer:json"`
	CategoryIDs    []uuid.UUID         `gorm:"type:text;serializer:json"`
}

func (UserDTO) TableName() string {
	return "users"
}

func fromDomain(u *user.User) UserDTO {
	dto := UserDTO{
		ID:       u.ID().Bytes(),
		Email:    u.Email(),
		Username: u.Username(),
		Role:     u.Role().String(),
		Active:   u.IsActive(),
	}

	switch p := u.Profile().(type) {
	case user.DriverProfile:
		dto.VehicleType = p.VehicleType()
		dto.Capacity = decimal.NewNullDecimal(p.Capacity().Decimal())
	case user.CustomerProfile:
		dto.Address = p.Address().String()
		dto.PaymentMethods = p.PaymentMethods()
	case user.ShopProfile:
		dto.Address = p.Address().String()
		dto.PaymentMethods = p.AcceptedPaymentMethods()
		for _, id := range p.CategoryIDs() {
			dto.CategoryIDs = append(dto.CategoryIDs, id.Bytes())
		}
	}
	return dto
}

func toDomain(dto UserDTO) (*user.User, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	role, err := user.ParseRole(dto.Role)
	if err != nil {
		return nil, err
	}
	profile, err := profileToDomain(role, dto)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", id, err)
	}
	return user.RestoreUser(id, dto.Email, dto.Username, role, dto.Active, profile)
}

func profileToDomain(role user.Role, dto UserDTO) (user.Profile, error) {
	switch role {
	case user.RoleDriver:
		capacity := user.DefaultDriverCapacity
		if dto.Capacity.Valid {
			c, err := kernel.NewWeight(dto.Capacity.Decimal)
			if err != nil {
				return nil, err
			}
			capacity = c
		}
		return user.NewDriverProfile(dto.VehicleType, capacity)
	case user.RoleCustomer:
		address, err := kernel.RestoreAddress(dto.Address)
		if err != nil {
			return nil, err
		}
		return user.NewCustomerProfile(address, dto.PaymentMethods), nil
	case user.RoleShop:
		address, err := kernel.RestoreAddress(dto.Address)
		if err != nil {
			return nil, err
		}
		categoryIDs := make([]kernel.UUID, 0, len(dto.CategoryIDs))
		for _, raw := range dto.CategoryIDs {
			categoryID, idErr := kernel.UUIDFromBytes(raw[:])
			if idErr != nil {
				return nil, idErr
			}
			categoryIDs = append(categoryIDs, categoryID)
		}
		return user.NewShopProfile(address, dto.PaymentMethods, categoryIDs), nil
	default:
		return nil, nil
	}
}
