package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"marketplace/internal/core/domain/model/dispatch"
	"marketplace/internal/core/ports"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"
)

var _ ports.DeadLetterSink = &DeadLetterSink{}

// DeadLetterSink mirrors recorded dispatch failures to a dead-letter topic
// for operators.
type DeadLetterSink struct {
	producer sarama.SyncProducer
	topic    string
	logger   logrus.FieldLogger
}

func NewDeadLetterSink(producer sarama.SyncProducer, topic string, logger logrus.FieldLogger) *DeadLetterSink {
	return &DeadLetterSink{
		producer: producer,
		topic:    topic,
		logger:   logger.WithField("component", "kafka_dead_letter_sink"),
	}
}

func (s *DeadLetterSink) Send(_ context.Context, failure *dispatch.Failure) error {
	data, err := json.Marshal(DispatchDeadLettered{
		FailureID: failure.ID().String(),
		OrderID:   failure.OrderID().String(),
		Attempts:  failure.Attempts(),
		LastError: failure.LastError(),
		FailedAt:  failure.FailedAt(),
	})
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(failure.OrderID().String()),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte("attempts"), Value: []byte(strconv.Itoa(failure.Attempts()))},
		},
	}
	if _, _, err = s.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("send dead letter: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"topic":      s.topic,
		"order_id":   failure.OrderID().String(),
		"failure_id": failure.ID().String(),
	}).Info("dispatch failure dead-lettered")
	return nil
}
