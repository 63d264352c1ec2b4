package services_test

import (
	"testing"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readyOrder(t *testing.T, weight string) *order.Order {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), 1, kernel.MustMoney("5.00"), kernel.MustWeight(weight))
	require.NoError(t, err)
	pickup, err := kernel.NewAddress("1 Shop Street")
	require.NoError(t, err)

	o, err := order.RestoreOrder(order.Snapshot{
		ID:     kernel.NewUUID(),
		ShopID: kernel.NewUUID(),
		Pickup: pickup,
		Status: order.ReadyToCollect,
		Items:  []*order.Item{item},
	})
	require.NoError(t, err)
	return o
}

func driver(t *testing.T, id, capacity string, active bool) *user.User {
	t.Helper()
	uid, err := kernel.UUIDFromString(id)
	require.NoError(t, err)
	profile, err := user.NewDriverProfile("car", kernel.MustWeight(capacity))
	require.NoError(t, err)
	u, err := user.RestoreUser(uid, uid.String()+"@example.com", uid.String(), user.RoleDriver, active, profile)
	require.NoError(t, err)
	return u
}

const (
	lowID  = "00000000-0000-4000-8000-000000000001"
	midID  = "00000000-0000-4000-8000-000000000002"
	highID = "ffffffff-0000-4000-8000-000000000003"
)

func TestDriverMatcher_Dispatch(t *testing.T) {
	matcher := services.NewDriverMatcher()

	t.Run("should pick the lowest identifier among eligible drivers", func(t *testing.T) {
		o := readyOrder(t, "5")
		candidates := []services.DriverCandidate{
			{Driver: driver(t, highID, "10", true)},
			{Driver: driver(t, midID, "10", true)},
			{Driver: driver(t, lowID, "10", true), ActiveDeliveries: []order.Status{order.InTransit}},
		}

		chosen, err := matcher.Dispatch(o, candidates)

		require.NoError(t, err)
		assert.Equal(t, midID, chosen.ID().String())
		assert.Equal(t, order.Assigned, o.Status())
		require.NotNil(t, o.DriverID())
		assert.True(t, o.DriverID().IsEqual(chosen.ID()))
	})

	t.Run("should accept capacity equal to the weight", func(t *testing.T) {
		o := readyOrder(t, "10")

		chosen, err := matcher.Dispatch(o, []services.DriverCandidate{{Driver: driver(t, lowID, "10", true)}})

		require.NoError(t, err)
		assert.Equal(t, lowID, chosen.ID().String())
	})

	t.Run("should never pick an over-capacity, busy or inactive driver", func(t *testing.T) {
		o := readyOrder(t, "5")
		candidates := []services.DriverCandidate{
			{Driver: driver(t, lowID, "4.999", true)},
			{Driver: driver(t, midID, "10", true), ActiveDeliveries: []order.Status{order.Assigned}},
			{Driver: driver(t, highID, "10", false)},
		}

		chosen, err := matcher.Dispatch(o, candidates)

		require.ErrorIs(t, err, services.ErrNoDriverAvailable)
		assert.Nil(t, chosen)
		assert.Equal(t, order.ReadyToCollect, o.Status())
		assert.Nil(t, o.DriverID())
	})

	t.Run("delivered orders do not keep a driver busy", func(t *testing.T) {
		o := readyOrder(t, "5")
		candidates := []services.DriverCandidate{
			{Driver: driver(t, lowID, "10", true), ActiveDeliveries: []order.Status{order.Delivered, order.Cancelled}},
		}

		_, err := matcher.Dispatch(o, candidates)

		require.NoError(t, err)
	})

	t.Run("should ignore users that are not drivers", func(t *testing.T) {
		o := readyOrder(t, "1")
		customer, err := user.NewUser(kernel.NewUUID(), "c@example.com", "c", user.RoleCustomer, nil)
		require.NoError(t, err)

		_, err = matcher.Dispatch(o, []services.DriverCandidate{{Driver: customer}, {Driver: nil}})

		require.ErrorIs(t, err, services.ErrNoDriverAvailable)
	})

	t.Run("should refuse an order that is not ready", func(t *testing.T) {
		pickup, err := kernel.NewAddress("1 Shop Street")
		require.NoError(t, err)
		o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), pickup, kernel.Address{})
		require.NoError(t, err)

		_, err = matcher.Dispatch(o, []services.DriverCandidate{{Driver: driver(t, lowID, "10", true)}})

		require.ErrorIs(t, err, order.ErrInvalidTransition)
		assert.Equal(t, order.Created, o.Status())
	})
}

func TestDriverMatcher_SelectDriverDoesNotMutate(t *testing.T) {
	o := readyOrder(t, "2")

	chosen, err := services.NewDriverMatcher().SelectDriver(o, []services.DriverCandidate{{Driver: driver(t, lowID, "10", true)}})

	require.NoError(t, err)
	assert.NotNil(t, chosen)
	assert.Equal(t, order.ReadyToCollect, o.Status())
	assert.Empty(t, o.PullEvents())
}
