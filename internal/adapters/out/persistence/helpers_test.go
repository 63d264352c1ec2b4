package persistence_test

import (
	"context"
	"sync"
	"testing"

	"marketplace/internal/adapters/out/persistence"
	"marketplace/internal/adapters/out/persistence/productrepo"
	"marketplace/internal/adapters/out/persistence/userrepo"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/catalog"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/user"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	logger, _ := test.NewNullLogger()
	db, err := persistence.Open(persistence.Config{Driver: persistence.DriverSQLite, DSN: ":memory:"}, logger)
	require.NoError(t, err)
	require.NoError(t, persistence.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []order.StatusChanged
}

func (p *recordingPublisher) Publish(_ context.Context, events ...order.StatusChanged) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) Events() []order.StatusChanged {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]order.StatusChanged(nil), p.events...)
}

type dispatchFactory struct {
	factory *persistence.GormUnitOfWorkFactory
}

func (f dispatchFactory) Create() commands.DispatchUoW {
	return f.factory.Create()
}

func mustAddress(t *testing.T, s string) kernel.Address {
	t.Helper()
	a, err := kernel.NewAddress(s)
	require.NoError(t, err)
	return a
}

func seedShop(t *testing.T, db *gorm.DB) *user.User {
	t.Helper()
	id := kernel.NewUUID()
	u, err := user.NewUser(id, "shop-"+id.String()+"@example.com", "shop-"+id.String(), user.RoleShop,
		user.NewShopProfile(mustAddress(t, "1 Market Square"), []string{"card"}, nil))
	require.NoError(t, err)
	require.NoError(t, userrepo.NewGormUserRepository(db).Add(t.Context(), u))
	return u
}

func seedCustomer(t *testing.T, db *gorm.DB) *user.User {
	t.Helper()
	id := kernel.NewUUID()
	u, err := user.NewUser(id, "customer-"+id.String()+"@example.com", "customer-"+id.String(), user.RoleCustomer,
		user.NewCustomerProfile(mustAddress(t, "2 Home Road"), []string{"cash"}))
	require.NoError(t, err)
	require.NoError(t, userrepo.NewGormUserRepository(db).Add(t.Context(), u))
	return u
}

func seedDriver(t *testing.T, db *gorm.DB, id kernel.UUID, capacity string, active bool) *user.User {
	t.Helper()
	profile, err := user.NewDriverProfile("bike", kernel.MustWeight(capacity))
	require.NoError(t, err)
	u, err := user.RestoreUser(id, "driver-"+id.String()+"@example.com", "driver-"+id.String(), user.RoleDriver, active, profile)
	require.NoError(t, err)
	require.NoError(t, userrepo.NewGormUserRepository(db).Add(t.Context(), u))
	return u
}

func seedProduct(t *testing.T, db *gorm.DB, shop *user.User, price, weight string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(kernel.NewUUID(), "Flour", nil,
		kernel.MustMoney(price), kernel.MustWeight(weight), shop.ID(), true)
	require.NoError(t, err)
	require.NoError(t, productrepo.NewGormProductRepository(db).Add(t.Context(), p))
	return p
}

// newOrderWithLines builds an unsaved created order with the given
// (quantity, price, weight) lines.
func newOrderWithLines(t *testing.T, shop, customer *user.User, lines ...line) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), shop.ID(), customer.ID(), mustAddress(t, "1 Market Square"), customer.Address())
	require.NoError(t, err)
	for _, l := range lines {
		_, err = o.AddItem(kernel.NewUUID(), kernel.NewUUID(), l.quantity, kernel.MustMoney(l.price), kernel.MustWeight(l.weight))
		require.NoError(t, err)
	}
	return o
}

type line struct {
	quantity int
	price    string
	weight   string
}

// advanceToReady walks a created order to ready_to_collect.
func advanceToReady(t *testing.T, o *order.Order) {
	t.Helper()
	require.NoError(t, o.Advance(order.Submitted, order.ActorCustomer))
	require.NoError(t, o.Advance(order.Pending, order.ActorShop))
	require.NoError(t, o.Advance(order.ReadyToCollect, order.ActorShop))
}

// saveOrder stores o in its own committed unit of work.
func saveOrder(t *testing.T, factory *persistence.GormUnitOfWorkFactory, o *order.Order) {
	t.Helper()
	ctx := t.Context()
	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.OrderRepository().Add(ctx, o))
	require.NoError(t, uow.Commit(ctx))
}
