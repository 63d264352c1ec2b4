// Package kafka consumes dispatch requests from Kafka and runs them.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"marketplace/internal/core/domain/model/kernel"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"
)

type dispatchRequest struct {
	OrderID string `json:"order_id"`
}

type orderRunner interface {
	Run(ctx context.Context, orderID kernel.UUID) error
}

// DispatchConsumer is the consumer side of the Kafka dispatch queue.
// Messages are marked only after the runner returns, so a crash mid
// dispatch redelivers the request.
type DispatchConsumer struct {
	group  sarama.ConsumerGroup
	topics []string
	runner orderRunner
	logger logrus.FieldLogger

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func NewDispatchConsumer(
	brokers, groupID, topic string,
	runner orderRunner,
	logger logrus.FieldLogger,
) (*DispatchConsumer, error) {
	config := sarama.NewConfig()
	config.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	config.Consumer.Offsets.Initial = sarama.OffsetOldest
	config.Version = sarama.V2_6_0_0

	group, err := sarama.NewConsumerGroup(strings.Split(brokers, ","), groupID, config)
	if err != nil {
		return nil, err
	}
	return NewDispatchConsumerFromGroup(group, topic, runner, logger), nil
}

func NewDispatchConsumerFromGroup(
	group sarama.ConsumerGroup,
	topic string,
	runner orderRunner,
	logger logrus.FieldLogger,
) *DispatchConsumer {
	return &DispatchConsumer{
		group:  group,
		topics: []string{topic},
		runner: runner,
		logger: logger.WithField("component", "kafka_dispatch_consumer"),
		done:   make(chan struct{}),
	}
}

func (c *DispatchConsumer) Name() string {
	return "kafka_dispatch_consumer"
}

// Start consumes in the background until Stop is called or ctx is done.
func (c *DispatchConsumer) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)
	handler := &consumerGroupHandler{runner: c.runner, logger: c.logger}

	go func() {
		defer close(c.done)
		for {
			if err := c.group.Consume(ctx, c.topics, handler); err != nil {
				if errors.Is(err, sarama.ErrClosedConsumerGroup) {
					return
				}
				c.logger.WithError(err).Error("error consuming from kafka")
			}
			if ctx.Err() != nil {
				c.logger.Info("kafka consumer context cancelled")
				return
			}
		}
	}()

	c.logger.WithField("topics", c.topics).Info("kafka dispatch consumer started")
	return nil
}

func (c *DispatchConsumer) Stop() {
	c.once.Do(func() {
		if c.cancel != nil {
			c.cancel()
			<-c.done
		}
		if err := c.group.Close(); err != nil {
			c.logger.WithError(err).Warn("failed to close consumer group")
		}
	})
}

type consumerGroupHandler struct {
	runner orderRunner
	logger logrus.FieldLogger
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	h.logger.Debug("kafka consumer group session setup")
	return nil
}

func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	h.logger.Debug("kafka consumer group session cleanup")
	return nil
}

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok || message == nil {
				return nil
			}
			if !h.handleMessage(session.Context(), message) {
				// Leave the offset unmarked; the next session redelivers it.
				return nil
			}
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

// handleMessage reports whether the message is done with. Malformed
// messages are done with; a dispatch interrupted by shutdown is not.
func (h *consumerGroupHandler) handleMessage(ctx context.Context, message *sarama.ConsumerMessage) bool {
	log := h.logger.WithFields(logrus.Fields{
		"topic":     message.Topic,
		"partition": message.Partition,
		"offset":    message.Offset,
	})

	var req dispatchRequest
	if err := json.Unmarshal(message.Value, &req); err != nil {
		log.WithError(err).Error("failed to unmarshal dispatch request")
		return true
	}
	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		log.WithError(err).Error("dispatch request has an invalid order id")
		return true
	}

	err = h.runner.Run(ctx, orderID)
	if err != nil && ctx.Err() != nil {
		log.WithField("order_id", req.OrderID).Info("dispatch interrupted, message left for redelivery")
		return false
	}
	return true
}
