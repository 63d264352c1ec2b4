// Package kafka publishes dispatch requests and dead-lettered dispatch
// failures to Kafka.
package kafka

import (
	"strings"
	"time"

	"github.com/IBM/sarama"
)

// DispatchRequested is the value of a message on the dispatch topic. The
// message key is the order id, so requests for one order share a partition.
type DispatchRequested struct {
	OrderID     string    `json:"order_id"`
	RequestedAt time.Time `json:"requested_at"`
}

// DispatchDeadLettered is the value of a message on the dead-letter topic.
type DispatchDeadLettered struct {
	FailureID string    `json:"failure_id"`
	OrderID   string    `json:"order_id"`
	Attempts  int       `json:"attempts"`
	LastError string    `json:"last_error"`
	FailedAt  time.Time `json:"failed_at"`
}

// NewProducerConfig returns the producer settings shared by the queue and
// the dead-letter sink.
func NewProducerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Version = sarama.V2_6_0_0
	return config
}

func NewSyncProducer(brokers string) (sarama.SyncProducer, error) {
	return sarama.NewSyncProducer(strings.Split(brokers, ","), NewProducerConfig())
}
