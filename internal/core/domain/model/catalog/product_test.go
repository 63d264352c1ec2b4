package catalog_test

import (
	"testing"

	"marketplace/internal/core/domain/model/catalog"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	shopID := kernel.NewUUID()
	categoryID := kernel.NewUUID()

	t.Run("should create an active product", func(t *testing.T) {
		p, err := catalog.NewProduct(kernel.NewUUID(), " Apples ", &categoryID,
			kernel.MustMoney("5.00"), kernel.MustWeight("1"), shopID, true)

		require.NoError(t, err)
		require.NoError(t, p.Validate())
		assert.Equal(t, "Apples", p.Name())
		require.NotNil(t, p.CategoryID())
		assert.True(t, p.CategoryID().IsEqual(categoryID))
		require.NoError(t, p.CheckAvailableFor(shopID))
	})

	t.Run("should accept the weight bounds", func(t *testing.T) {
		for _, w := range []string{"0", "100"} {
			_, err := catalog.NewProduct(kernel.NewUUID(), "Box", nil,
				kernel.MustMoney("1.00"), kernel.MustWeight(w), shopID, true)
			require.NoError(t, err, w)
		}
	})

	t.Run("should reject a heavy, free, unnamed product", func(t *testing.T) {
		_, err := catalog.NewProduct(kernel.NewUUID(), "", nil,
			kernel.MustMoney("0"), kernel.MustWeight("100.5"), shopID, true)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestProduct_CheckAvailableFor(t *testing.T) {
	shopID := kernel.NewUUID()

	inactive, err := catalog.NewProduct(kernel.NewUUID(), "Pears", nil,
		kernel.MustMoney("2.00"), kernel.MustWeight("1"), shopID, false)
	require.NoError(t, err)
	assert.ErrorIs(t, inactive.CheckAvailableFor(shopID), catalog.ErrProductIsNotAvailable)

	active, err := catalog.NewProduct(kernel.NewUUID(), "Plums", nil,
		kernel.MustMoney("2.00"), kernel.MustWeight("1"), shopID, true)
	require.NoError(t, err)
	assert.ErrorIs(t, active.CheckAvailableFor(kernel.NewUUID()), catalog.ErrProductIsNotAvailable)
}

func TestNewCategory(t *testing.T) {
	c, err := catalog.NewCategory(kernel.NewUUID(), "Fruit")
	require.NoError(t, err)
	assert.Equal(t, "Fruit", c.Name())

	_, err = catalog.NewCategory(kernel.NewUUID(), "  ")
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}
