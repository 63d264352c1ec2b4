package user

import (
	"fmt"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// DefaultDriverCapacity is the capacity given to drivers that did not declare one.
var DefaultDriverCapacity = kernel.MustWeight("10")

// Profile is the role-specific part of a user. The set of implementations is
// closed: DriverProfile, CustomerProfile and ShopProfile.
type Profile interface {
	// Role returns the only role allowed to hold this profile.
	Role() Role
	isProfile()
}

// DriverProfile describes a driver's vehicle and the heaviest load it can carry.
type DriverProfile struct {
	vehicleType string
	capacity    kernel.Weight
}

func NewDriverProfile(vehicleType string, capacity kernel.Weight) (DriverProfile, error) {
	vehicleType = strings.TrimSpace(vehicleType)
	if len(vehicleType) > 50 {
		return DriverProfile{}, errs.NewValueIsOutOfRangeError("vehicle type length", len(vehicleType), 0, 50)
	}
	if !capacity.Decimal().IsPositive() {
		return DriverProfile{}, errs.NewValueIsInvalidErrorWithCause(
			"capacity", fmt.Errorf("%s is not greater than 0", capacity))
	}
	return DriverProfile{vehicleType: vehicleType, capacity: capacity}, nil
}

func (DriverProfile) Role() Role { return RoleDriver }
func (DriverProfile) isProfile() {}

func (p DriverProfile) VehicleType() string {
	return p.vehicleType
}

func (p DriverProfile) Capacity() kernel.Weight {
	return p.capacity
}

// CustomerProfile holds where a customer's orders are delivered to.
type CustomerProfile struct {
	address        kernel.Address
	paymentMethods []string
}

// NewCustomerProfile accepts an empty address: customers may resolve it later,
// before submitting an order.
func NewCustomerProfile(address kernel.Address, paymentMethods []string) CustomerProfile {
	return CustomerProfile{address: address, paymentMethods: cloneStrings(paymentMethods)}
}

func (CustomerProfile) Role() Role { return RoleCustomer }
func (CustomerProfile) isProfile() {}

func (p CustomerProfile) Address() kernel.Address {
	return p.address
}

func (p CustomerProfile) PaymentMethods() []string {
	return cloneStrings(p.paymentMethods)
}

// ShopProfile holds the pickup address of a shop and what it sells.
type ShopProfile struct {
	address                kernel.Address
	acceptedPaymentMethods []string
	categoryIDs            []kernel.UUID
}

func NewShopProfile(address kernel.Address, acceptedPaymentMethods []string, categoryIDs []kernel.UUID) ShopProfile {
	ids := make([]kernel.UUID, len(categoryIDs))
	copy(ids, categoryIDs)
	return ShopProfile{
		address:                address,
		acceptedPaymentMethods: cloneStrings(acceptedPaymentMethods),
		categoryIDs:            ids,
	}
}

func (ShopProfile) Role() Role { return RoleShop }
func (ShopProfile) isProfile() {}

func (p ShopProfile) Address() kernel.Address {
	return p.address
}

func (p ShopProfile) AcceptedPaymentMethods() []string {
	return cloneStrings(p.acceptedPaymentMethods)
}

func (p ShopProfile) CategoryIDs() []kernel.UUID {
	ids := make([]kernel.UUID, len(p.categoryIDs))
	copy(ids, p.categoryIDs)
	return ids
}

// defaultProfile is the profile a new account of the given role starts with.
func defaultProfile(role Role) Profile {
	switch role {
	case RoleDriver:
		return DriverProfile{capacity: DefaultDriverCapacity}
	case RoleCustomer:
		return CustomerProfile{}
	case RoleShop:
		return ShopProfile{}
	default:
		return nil
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
