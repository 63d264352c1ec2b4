package cmd

import (
	"errors"
	"fmt"
	"io"

	httpin "marketplace/internal/adapters/in/http"
	kafkain "marketplace/internal/adapters/in/kafka"
	"marketplace/internal/adapters/in/websocket"
	"marketplace/internal/adapters/out/events"
	kafkaout "marketplace/internal/adapters/out/kafka"
	"marketplace/internal/adapters/out/persistence"
	"marketplace/internal/adapters/out/rabbitmq"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/ports"
	"marketplace/internal/jobs"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg    Config
	gormDB *gorm.DB
	logger logrus.FieldLogger

	uowFactory *persistence.GormUnitOfWorkFactory
	hub        *websocket.Hub
	queue      ports.DispatchQueue
	runner     *jobs.DispatchRunner
	workers    []jobs.Worker
	closers    []io.Closer
}

// NewCompositionRoot connects the brokers the configuration asks for. On
// error everything opened so far is closed.
func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger logrus.FieldLogger) (_ *CompositionRoot, err error) {
	c := &CompositionRoot{
		cfg:    cfg,
		gormDB: gormDB,
		logger: logger,
		hub:    websocket.NewHub(logger),
	}
	defer func() {
		if err != nil {
			_ = c.Close()
		}
	}()

	publisher := events.Fanout{events.NewLogPublisher(logger), c.hub}
	if cfg.RabbitMQURL != "" {
		rabbit, err := rabbitmq.Dial(cfg.RabbitMQURL, cfg.RabbitMQExchange, logger)
		if err != nil {
			return nil, fmt.Errorf("connect to rabbitmq: %w", err)
		}
		c.closers = append(c.closers, rabbit)
		publisher = append(publisher, rabbit)
	}
	c.uowFactory = persistence.NewGormUnitOfWorkFactory(gormDB, publisher, logger)

	var producer sarama.SyncProducer
	if cfg.DispatchBackend == DispatchBackendKafka || cfg.KafkaDLQEnabled {
		producer, err = kafkaout.NewSyncProducer(cfg.KafkaBrokers)
		if err != nil {
			return nil, fmt.Errorf("connect to kafka: %w", err)
		}
		c.closers = append(c.closers, producer)
	}

	var sink ports.DeadLetterSink
	if cfg.KafkaDLQEnabled {
		sink = kafkaout.NewDeadLetterSink(producer, cfg.KafkaDLQTopic, logger)
	}
	c.runner = jobs.NewDispatchRunner(
		c.CreateDispatchOrderCommandHandler(),
		commands.NewRecordDispatchFailureCommandHandler(c.dispatchUoWFactory(), sink, logger),
		c.retryPolicy(),
		logger,
	)

	c.workers = append(c.workers, c.hub)
	switch cfg.DispatchBackend {
	case DispatchBackendKafka:
		c.queue = kafkaout.NewDispatchQueue(producer, cfg.KafkaDispatchTopic, logger)
		consumer, err := kafkain.NewDispatchConsumer(cfg.KafkaBrokers, cfg.KafkaConsumerGroup, cfg.KafkaDispatchTopic, c.runner, logger)
		if err != nil {
			return nil, fmt.Errorf("create kafka consumer: %w", err)
		}
		c.workers = append(c.workers, consumer)
	default:
		pool := jobs.NewDispatchPool(c.runner, cfg.DispatchWorkers, cfg.DispatchQueueSize, logger)
		c.queue = pool
		c.workers = append(c.workers, pool)
	}

	sweep, err := jobs.NewDispatchSweepJob(
		commands.NewRequeueStaleDispatchesCommandHandler(c.dispatchUoWFactory(), c.queue),
		cfg.SweepSchedule,
		cfg.SweepStaleAfter,
		cfg.SweepLimit,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("create dispatch sweep job: %w", err)
	}
	c.workers = append(c.workers, sweep)

	return c, nil
}

func (c *CompositionRoot) retryPolicy() jobs.RetryPolicy {
	policy := jobs.DefaultRetryPolicy()
	policy.InitialInterval = c.cfg.DispatchInitialBackoff
	policy.MaxInterval = c.cfg.DispatchMaxBackoff
	policy.MaxRetries = c.cfg.DispatchMaxRetries
	return policy
}

func (c *CompositionRoot) orderingUoWFactory() commands.OrderingUoWFactory {
	return FuncOrderingUoWFactory(func() commands.OrderingUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) dispatchUoWFactory() commands.DispatchUoWFactory {
	return FuncDispatchUoWFactory(func() commands.DispatchUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateAddOrderItemCommandHandler() commands.AddOrderItemCommandHandler {
	return commands.NewAddOrderItemCommandHandler(c.orderingUoWFactory())
}

func (c *CompositionRoot) CreateUpdateOrderItemCommandHandler() commands.UpdateOrderItemCommandHandler {
	return commands.NewUpdateOrderItemCommandHandler(c.orderingUoWFactory())
}

func (c *CompositionRoot) CreateAdvanceOrderCommandHandler() commands.AdvanceOrderCommandHandler {
	return commands.NewAdvanceOrderCommandHandler(c.orderingUoWFactory(), c.queue, c.logger)
}

func (c *CompositionRoot) CreateDispatchOrderCommandHandler() commands.DispatchOrderCommandHandler {
	return commands.NewDispatchOrderCommandHandler(c.dispatchUoWFactory(), c.cfg.DispatchMaxConflicts)
}

func (c *CompositionRoot) CreateRequestDispatchCommandHandler() commands.RequestDispatchCommandHandler {
	return commands.NewRequestDispatchCommandHandler(c.dispatchUoWFactory(), c.queue)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetActiveOrdersQueryHandler() queries.GetActiveOrdersQueryHandler {
	return queries.NewGetActiveOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDispatchFailuresQueryHandler() queries.GetDispatchFailuresQueryHandler {
	return queries.NewGetDispatchFailuresQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		AddOrderItem:        c.CreateAddOrderItemCommandHandler(),
		UpdateOrderItem:     c.CreateUpdateOrderItemCommandHandler(),
		AdvanceOrder:        c.CreateAdvanceOrderCommandHandler(),
		RequestDispatch:     c.CreateRequestDispatchCommandHandler(),
		GetOrder:            c.CreateGetOrderQueryHandler(),
		GetActiveOrders:     c.CreateGetActiveOrdersQueryHandler(),
		GetDispatchFailures: c.CreateGetDispatchFailuresQueryHandler(),
	}, c.logger)
}

// Feed is the websocket handler for live order status changes.
func (c *CompositionRoot) Feed() *websocket.Hub {
	return c.hub
}

// CreateJobManager returns the background workers: the feed hub, the
// dispatch consumer (pool or Kafka) and the sweep job.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.logger, c.workers...)
}

// Close releases broker connections. Call it after the workers are stopped.
func (c *CompositionRoot) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

type FuncOrderingUoWFactory func() commands.OrderingUoW

func (f FuncOrderingUoWFactory) Create() commands.OrderingUoW {
	return f()
}

type FuncDispatchUoWFactory func() commands.DispatchUoW

func (f FuncDispatchUoWFactory) Create() commands.DispatchUoW {
	return f()
}
