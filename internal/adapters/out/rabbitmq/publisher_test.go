package rabbitmq

import (
	"encoding/json"
	"testing"
	"time"

	"marketplace/internal/adapters/out/events"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type channelMock struct {
	mock.Mock
}

func (m *channelMock) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	return m.Called(name, kind, durable, autoDelete, internal, noWait, args).Error(0)
}

func (m *channelMock) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return m.Called(exchange, key, mandatory, immediate, msg).Error(0)
}

func (m *channelMock) Close() error {
	return m.Called().Error(0)
}

func statusChanged(to order.Status) order.StatusChanged {
	return order.StatusChanged{
		EventID:    kernel.NewUUID(),
		OrderID:    kernel.NewUUID(),
		ShopID:     kernel.NewUUID(),
		From:       order.Pending,
		To:         to,
		Actor:      order.ActorShop,
		OccurredAt: time.Now().UTC(),
	}
}

func TestNewPublisher_DeclaresTopicExchange(t *testing.T) {
	logger, _ := test.NewNullLogger()
	ch := &channelMock{}
	ch.On("ExchangeDeclare", "orders", "topic", true, false, false, false, amqp.Table(nil)).Return(nil)

	_, err := NewPublisher(ch, "orders", logger)

	require.NoError(t, err)
	ch.AssertExpectations(t)
}

func TestNewPublisher_DeclareFails(t *testing.T) {
	logger, _ := test.NewNullLogger()
	ch := &channelMock{}
	ch.On("ExchangeDeclare", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(amqp.ErrClosed)
	ch.On("Close").Return(nil)

	_, err := NewPublisher(ch, "orders", logger)

	require.ErrorIs(t, err, amqp.ErrClosed)
	ch.AssertCalled(t, "Close")
}

func TestPublisher_Publish(t *testing.T) {
	logger, _ := test.NewNullLogger()
	ch := &channelMock{}
	ch.On("ExchangeDeclare", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil)

	e := statusChanged(order.ReadyToCollect)
	ch.On("Publish", "orders", "order.ready_to_collect", false, false, mock.MatchedBy(func(msg amqp.Publishing) bool {
		var body events.StatusChangedMessage
		if err := json.Unmarshal(msg.Body, &body); err != nil {
			return false
		}
		return msg.ContentType == "application/json" &&
			msg.DeliveryMode == amqp.Persistent &&
			msg.MessageId == e.EventID.String() &&
			body.OrderID == e.OrderID.String() &&
			body.To == "ready_to_collect"
	})).Return(nil).Once()

	p, err := NewPublisher(ch, "orders", logger)
	require.NoError(t, err)

	require.NoError(t, p.Publish(t.Context(), e))
	ch.AssertExpectations(t)
}

func TestPublisher_PublishContinuesAfterFailure(t *testing.T) {
	logger, _ := test.NewNullLogger()
	ch := &channelMock{}
	ch.On("ExchangeDeclare", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil)
	ch.On("Publish", "orders", "order.pending", false, false, mock.Anything).Return(amqp.ErrClosed).Once()
	ch.On("Publish", "orders", "order.cancelled", false, false, mock.Anything).Return(nil).Once()

	p, err := NewPublisher(ch, "orders", logger)
	require.NoError(t, err)

	err = p.Publish(t.Context(), statusChanged(order.Pending), statusChanged(order.Cancelled))

	assert.ErrorIs(t, err, amqp.ErrClosed)
	assert.ErrorContains(t, err, "order.pending")
	ch.AssertExpectations(t)
}
