package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"
)

var _ ports.DispatchQueue = &DispatchQueue{}

// DispatchQueue enqueues dispatch requests on a Kafka topic. The consumer
// side lives in the inbound kafka adapter.
type DispatchQueue struct {
	producer sarama.SyncProducer
	topic    string
	logger   logrus.FieldLogger
	now      func() time.Time
}

func NewDispatchQueue(producer sarama.SyncProducer, topic string, logger logrus.FieldLogger) *DispatchQueue {
	return &DispatchQueue{
		producer: producer,
		topic:    topic,
		logger:   logger.WithField("component", "kafka_dispatch_queue"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (q *DispatchQueue) Enqueue(_ context.Context, orderID kernel.UUID) error {
	data, err := json.Marshal(DispatchRequested{
		OrderID:     orderID.String(),
		RequestedAt: q.now(),
	})
	if err != nil {
		return err
	}

	partition, offset, err := q.producer.SendMessage(&sarama.ProducerMessage{
		Topic: q.topic,
		Key:   sarama.StringEncoder(orderID.String()),
		Value: sarama.ByteEncoder(data),
	})
	if err != nil {
		return fmt.Errorf("send dispatch request: %w", err)
	}

	q.logger.WithFields(logrus.Fields{
		"topic":     q.topic,
		"partition": partition,
		"offset":    offset,
		"order_id":  orderID.String(),
	}).Debug("dispatch request published")
	return nil
}
