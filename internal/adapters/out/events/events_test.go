package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assignedEvent() order.StatusChanged {
	driverID := kernel.NewUUID()
	return order.StatusChanged{
		EventID:    kernel.NewUUID(),
		OrderID:    kernel.NewUUID(),
		ShopID:     kernel.NewUUID(),
		DriverID:   &driverID,
		From:       order.ReadyToCollect,
		To:         order.Assigned,
		Actor:      order.ActorSystem,
		OccurredAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestNewStatusChangedMessage(t *testing.T) {
	e := assignedEvent()

	msg := NewStatusChangedMessage(e)

	assert.Equal(t, e.OrderID.String(), msg.OrderID)
	assert.Equal(t, "ready_to_collect", msg.From)
	assert.Equal(t, "assigned", msg.To)
	require.NotNil(t, msg.DriverID)
	assert.Equal(t, e.DriverID.String(), *msg.DriverID)
	assert.Nil(t, msg.CustomerID)

	raw, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "customer_id")
}

type recordingPublisher struct {
	events []order.StatusChanged
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, events ...order.StatusChanged) error {
	p.events = append(p.events, events...)
	return p.err
}

func TestFanout_DeliversToEveryPublisher(t *testing.T) {
	failing := &recordingPublisher{err: assert.AnError}
	healthy := &recordingPublisher{}
	e := assignedEvent()

	err := Fanout{failing, healthy}.Publish(t.Context(), e)

	require.ErrorIs(t, err, assert.AnError)
	assert.Len(t, failing.events, 1)
	assert.Equal(t, []order.StatusChanged{e}, healthy.events)
}

func TestFanout_Empty(t *testing.T) {
	assert.NoError(t, Fanout{}.Publish(t.Context(), assignedEvent()))
}

func TestLogPublisher(t *testing.T) {
	logger, hook := test.NewNullLogger()
	e := assignedEvent()

	require.NoError(t, NewLogPublisher(logger).Publish(t.Context(), e, e))

	require.Len(t, hook.AllEntries(), 2)
	entry := hook.LastEntry()
	assert.Equal(t, "order status changed", entry.Message)
	assert.Equal(t, "assigned", entry.Data["to"])
	assert.Equal(t, e.DriverID.String(), entry.Data["driver_id"])
}
