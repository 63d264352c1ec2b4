package queries_test

import (
	"testing"

	"marketplace/internal/adapters/out/persistence"
	"marketplace/internal/adapters/out/persistence/userrepo"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/user"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db         *gorm.DB
	factory    *persistence.GormUnitOfWorkFactory
	customerID kernel.UUID
	driverID   kernel.UUID
}

func newFixture(t *testing.T) fixture {
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

	users := userrepo.NewGormUserRepository(db)
	home, err := kernel.NewAddress("2 Home Road")
	require.NoError(t, err)
	customer, err := user.NewUser(kernel.NewUUID(), "customer@example.com", "customer", user.RoleCustomer,
		user.NewCustomerProfile(home, []string{"card"}))
	require.NoError(t, err)
	require.NoError(t, users.Add(t.Context(), customer))
	profile, err := user.NewDriverProfile("bike", kernel.MustWeight("10"))
	require.NoError(t, err)
	driver, err := user.NewUser(kernel.NewUUID(), "driver@example.com", "driver", user.RoleDriver, profile)
	require.NoError(t, err)
	require.NoError(t, users.Add(t.Context(), driver))

	return fixture{
		db:         db,
		factory:    persistence.NewGormUnitOfWorkFactory(db, nil, logger),
		customerID: customer.ID(),
		driverID:   driver.ID(),
	}
}

// saveOrder stores a created order with a 2 x 5.00 / 1 kg and a 1 x 3.00 /
// 0.5 kg line, walked to the given status along the main path.
func (f fixture) saveOrder(t *testing.T, status order.Status) *order.Order {
	t.Helper()
	pickup, err := kernel.NewAddress("1 Market Square")
	require.NoError(t, err)
	dropoff, err := kernel.NewAddress("2 Home Road")
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), f.customerID, pickup, dropoff)
	require.NoError(t, err)
	_, err = o.AddItem(kernel.NewUUID(), kernel.NewUUID(), 2, kernel.MustMoney("5.00"), kernel.MustWeight("1"))
	require.NoError(t, err)
	_, err = o.AddItem(kernel.NewUUID(), kernel.NewUUID(), 1, kernel.MustMoney("3.00"), kernel.MustWeight("0.5"))
	require.NoError(t, err)

	actors := map[order.Status]order.Actor{
		order.Submitted:      order.ActorCustomer,
		order.Pending:        order.ActorShop,
		order.ReadyToCollect: order.ActorShop,
		order.InTransit:      order.ActorDriver,
		order.Delivered:      order.ActorDriver,
	}
	switch status {
	case order.Cancelled:
		require.NoError(t, o.Cancel(order.ActorCustomer))
	default:
		for o.Status() != status {
			next := o.Status().Next()
			if next == order.Assigned {
				require.NoError(t, o.Assign(f.driverID))
				continue
			}
			require.NoError(t, o.Advance(next, actors[next]))
		}
	}

	ctx := t.Context()
	uow := f.factory.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.OrderRepository().Add(ctx, o))
	require.NoError(t, uow.Commit(ctx))
	return o
}
