package commands_test

import (
	"testing"

	"marketplace/internal/core/domain/model/catalog"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/user"

	"github.com/stretchr/testify/require"
)

func address(t *testing.T, s string) kernel.Address {
	t.Helper()
	a, err := kernel.NewAddress(s)
	require.NoError(t, err)
	return a
}

func newCustomer(t *testing.T, addr string) *user.User {
	t.Helper()
	var a kernel.Address
	if addr != "" {
		a = address(t, addr)
	}
	u, err := user.NewUser(kernel.NewUUID(), "customer@example.com", "customer", user.RoleCustomer,
		user.NewCustomerProfile(a, nil))
	require.NoError(t, err)
	return u
}

func newShop(t *testing.T, addr string) *user.User {
	t.Helper()
	var a kernel.Address
	if addr != "" {
		a = address(t, addr)
	}
	u, err := user.NewUser(kernel.NewUUID(), "shop@example.com", "shop", user.RoleShop,
		user.NewShopProfile(a, nil, nil))
	require.NoError(t, err)
	return u
}

func newDriver(t *testing.T, capacity string) *user.User {
	t.Helper()
	profile, err := user.NewDriverProfile("van", kernel.MustWeight(capacity))
	require.NoError(t, err)
	u, err := user.NewUser(kernel.NewUUID(), "driver@example.com", "driver", user.RoleDriver, profile)
	require.NoError(t, err)
	return u
}

func newProduct(t *testing.T, shop *user.User, price, weight string, active bool) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(kernel.NewUUID(), "Apples", nil,
		kernel.MustMoney(price), kernel.MustWeight(weight), shop.ID(), active)
	require.NoError(t, err)
	return p
}

func openOrder(t *testing.T, shop, customer *user.User) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), shop.ID(), customer.ID(), address(t, "1 Shop Street"), customer.Address())
	require.NoError(t, err)
	return o
}

// orderIn restores an order with one 5.00 / weight kg line in the given status.
func orderIn(t *testing.T, status order.Status, weight string) *order.Order {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), 1, kernel.MustMoney("5.00"), kernel.MustWeight(weight))
	require.NoError(t, err)
	customerID := kernel.NewUUID()
	var driverID *kernel.UUID
	if status == order.Assigned || status == order.InTransit || status == order.Delivered {
		id := kernel.NewUUID()
		driverID = &id
	}
	o, err := order.RestoreOrder(order.Snapshot{
		ID:         kernel.NewUUID(),
		ShopID:     kernel.NewUUID(),
		CustomerID: &customerID,
		DriverID:   driverID,
		Pickup:     address(t, "1 Shop Street"),
		Dropoff:    address(t, "2 Home Road"),
		Status:     status,
		Items:      []*order.Item{item},
	})
	require.NoError(t, err)
	return o
}
