package persistence_test

import (
	"testing"

	"marketplace/internal/adapters/out/persistence"
	"marketplace/internal/adapters/out/persistence/productrepo"
	"marketplace/internal/adapters/out/persistence/userrepo"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/user"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDemoData(t *testing.T) {
	db := openSQLite(t)
	logger, hook := test.NewNullLogger()
	ctx := t.Context()

	require.NoError(t, persistence.SeedDemoData(ctx, db, logger))

	drivers, err := userrepo.NewGormUserRepository(db).FindByRole(ctx, user.RoleDriver)
	require.NoError(t, err)
	require.Len(t, drivers, 1)
	assert.Equal(t, persistence.DemoDriverID, drivers[0].ID().String())

	flourID, err := kernel.UUIDFromString(persistence.DemoFlourID)
	require.NoError(t, err)
	flour, err := productrepo.NewGormProductRepository(db).Get(ctx, flourID)
	require.NoError(t, err)
	assert.Equal(t, "2.50", flour.Price().String())
	assert.Equal(t, "demo data seeded", hook.LastEntry().Message)
}

func TestSeedDemoData_SkipsPopulatedDatabase(t *testing.T) {
	db := openSQLite(t)
	logger, hook := test.NewNullLogger()
	seedShop(t, db)

	require.NoError(t, persistence.SeedDemoData(t.Context(), db, logger))

	shops, err := userrepo.NewGormUserRepository(db).FindByRole(t.Context(), user.RoleShop)
	require.NoError(t, err)
	assert.Len(t, shops, 1)
	assert.Equal(t, "database is not empty, demo data skipped", hook.LastEntry().Message)
}
