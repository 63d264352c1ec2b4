package events

import (
	"context"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"

	"github.com/sirupsen/logrus"
)

var _ ports.OrderEventPublisher = &LogPublisher{}

// LogPublisher writes each status change to the application log.
type LogPublisher struct {
	logger logrus.FieldLogger
}

func NewLogPublisher(logger logrus.FieldLogger) *LogPublisher {
	return &LogPublisher{logger: logger.WithField("component", "order_events")}
}

func (p *LogPublisher) Publish(_ context.Context, events ...order.StatusChanged) error {
	for _, e := range events {
		fields := logrus.Fields{
			"event_id": e.EventID.String(),
			"order_id": e.OrderID.String(),
			"from":     e.From.String(),
			"to":       e.To.String(),
			"actor":    e.Actor.String(),
		}
		if e.DriverID != nil {
			fields["driver_id"] = e.DriverID.String()
		}
		p.logger.WithFields(fields).Info("order status changed")
	}
	return nil
}
