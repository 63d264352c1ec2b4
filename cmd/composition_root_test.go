package cmd

import (
	"testing"
	"time"

	"marketplace/internal/adapters/out/persistence"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testConfig() Config {
	return Config{
		DBDriver:               "sqlite",
		SQLitePath:             ":memory:",
		DispatchBackend:        DispatchBackendMemory,
		DispatchWorkers:        2,
		DispatchQueueSize:      16,
		DispatchMaxConflicts:   3,
		DispatchMaxRetries:     1,
		DispatchInitialBackoff: 10 * time.Millisecond,
		DispatchMaxBackoff:     50 * time.Millisecond,
		SweepSchedule:          "0 0 * * * *",
		SweepStaleAfter:        time.Minute,
		SweepLimit:             10,
	}
}

func openTestDB(t *testing.T, cfg Config) *gorm.DB {
	t.Helper()
	logger, _ := test.NewNullLogger()
	db, err := persistence.Open(persistence.Config{Driver: cfg.DBDriver, DSN: cfg.DSN()}, logger)
	require.NoError(t, err)
	require.NoError(t, persistence.Migrate(db))
	require.NoError(t, persistence.SeedDemoData(t.Context(), db, logger))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func demoID(t *testing.T, s string) kernel.UUID {
	t.Helper()
	id, err := kernel.UUIDFromString(s)
	require.NoError(t, err)
	return id
}

func TestCompositionRoot_OrderIsDispatchedOnceReady(t *testing.T) {
	cfg := testConfig()
	db := openTestDB(t, cfg)
	logger, _ := test.NewNullLogger()
	ctx := t.Context()

	root, err := NewCompositionRoot(cfg, db, logger)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, root.Close()) })

	manager := root.CreateJobManager()
	require.NoError(t, manager.StartAll(ctx))
	t.Cleanup(manager.StopAll)

	addCmd, err := commands.NewAddOrderItemCommand(
		demoID(t, persistence.DemoCustomerID), demoID(t, persistence.DemoFlourID), 4)
	require.NoError(t, err)
	added, err := root.CreateAddOrderItemCommandHandler().Handle(ctx, addCmd)
	require.NoError(t, err)
	assert.True(t, added.NewOrder)

	advance := root.CreateAdvanceOrderCommandHandler()
	for _, step := range []struct {
		target order.Status
		actor  order.Actor
	}{
		{order.Submitted, order.ActorCustomer},
		{order.Pending, order.ActorShop},
		{order.ReadyToCollect, order.ActorShop},
	} {
		cmd, err := commands.NewAdvanceOrderCommand(added.OrderID, step.target, step.actor)
		require.NoError(t, err)
		_, err = advance.Handle(ctx, cmd)
		require.NoError(t, err)
	}

	query, err := queries.NewGetOrderQuery(added.OrderID)
	require.NoError(t, err)
	getOrder := root.CreateGetOrderQueryHandler()

	require.Eventually(t, func() bool {
		resp, err := getOrder.Handle(ctx, query)
		return err == nil && resp.Status == order.Assigned
	}, 5*time.Second, 20*time.Millisecond)

	resp, err := getOrder.Handle(ctx, query)
	require.NoError(t, err)
	require.NotNil(t, resp.DriverID)
	assert.Equal(t, persistence.DemoDriverID, resp.DriverID.String())
	assert.Equal(t, "10.00", resp.TotalAmount.String())
}

func TestCompositionRoot_RejectsInvalidSweepLimit(t *testing.T) {
	cfg := testConfig()
	cfg.SweepLimit = 0
	db := openTestDB(t, cfg)
	logger, _ := test.NewNullLogger()

	_, err := NewCompositionRoot(cfg, db, logger)

	assert.ErrorContains(t, err, "create dispatch sweep job")
}
