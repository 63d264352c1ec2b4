// Package rabbitmq publishes order status changes to a RabbitMQ topic exchange.
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"marketplace/internal/adapters/out/events"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"

	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

var _ ports.OrderEventPublisher = &Publisher{}

// Channel is the subset of *amqp.Channel the publisher needs.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends each event with its routing key, e.g. "order.assigned".
type Publisher struct {
	channel  Channel
	conn     *amqp.Connection
	exchange string
	logger   logrus.FieldLogger
}

// Dial connects to url and declares a durable topic exchange.
func Dial(url, exchange string, logger logrus.FieldLogger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}

	p, err := NewPublisher(ch, exchange, logger)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

func NewPublisher(ch Channel, exchange string, logger logrus.FieldLogger) (*Publisher, error) {
	err := ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	return &Publisher{
		channel:  ch,
		exchange: exchange,
		logger:   logger.WithField("component", "rabbitmq_publisher"),
	}, nil
}

func (p *Publisher) Publish(_ context.Context, evts ...order.StatusChanged) error {
	var errs []error
	for _, e := range evts {
		body, err := json.Marshal(events.NewStatusChangedMessage(e))
		if err != nil {
			errs = append(errs, err)
			continue
		}

		err = p.channel.Publish(p.exchange, e.RoutingKey(), false, false, amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    e.EventID.String(),
			Timestamp:    e.OccurredAt,
			Body:         body,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("publish %s: %w", e.RoutingKey(), err))
			continue
		}
		p.logger.WithFields(logrus.Fields{
			"routing_key": e.RoutingKey(),
			"order_id":    e.OrderID.String(),
		}).Debug("order event published")
	}
	return errors.Join(errs...)
}

func (p *Publisher) Close() error {
	err := p.channel.Close()
	if p.conn != nil {
		err = errors.Join(err, p.conn.Close())
	}
	return err
}
