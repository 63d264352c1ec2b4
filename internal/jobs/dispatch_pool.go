package jobs

import (
	"context"
	"errors"
	"sync"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"

	"github.com/sirupsen/logrus"
)

var _ ports.DispatchQueue = &DispatchPool{}

var ErrPoolStopped = errors.New("dispatch pool is stopped")

type orderRunner interface {
	Run(ctx context.Context, orderID kernel.UUID) error
}

// DispatchPool is the in-process dispatch queue: a bounded buffer drained by
// a fixed number of workers. An order already queued or running is not
// queued twice.
type DispatchPool struct {
	runner  orderRunner
	workers int
	logger  logrus.FieldLogger

	queue chan kernel.UUID

	mu       sync.Mutex
	pending  map[kernel.UUID]struct{}
	stopped  bool
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	startOne sync.Once
}

func NewDispatchPool(runner orderRunner, workers, capacity int, logger logrus.FieldLogger) *DispatchPool {
	if workers < 1 {
		workers = 1
	}
	if capacity < 1 {
		capacity = 1
	}
	return &DispatchPool{
		runner:  runner,
		workers: workers,
		logger:  logger.WithField("component", "dispatch_pool"),
		queue:   make(chan kernel.UUID, capacity),
		pending: make(map[kernel.UUID]struct{}),
	}
}

func (p *DispatchPool) Name() string {
	return "dispatch_pool"
}

// Enqueue never blocks: a full buffer returns ports.ErrDispatchQueueFull.
func (p *DispatchPool) Enqueue(_ context.Context, orderID kernel.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return ErrPoolStopped
	}
	if _, ok := p.pending[orderID]; ok {
		p.logger.WithField("order_id", orderID.String()).Debug("dispatch already pending")
		return nil
	}

	select {
	case p.queue <- orderID:
		p.pending[orderID] = struct{}{}
		return nil
	default:
		return ports.ErrDispatchQueueFull
	}
}

// Start launches the workers. They stop when ctx is done or Stop is called.
func (p *DispatchPool) Start(ctx context.Context) error {
	p.startOne.Do(func() {
		ctx, p.cancel = context.WithCancel(ctx)
		for i := range p.workers {
			p.wg.Add(1)
			go p.work(ctx, i)
		}
		p.logger.WithField("workers", p.workers).Info("dispatch pool started")
	})
	return nil
}

// Stop refuses new work, cancels running dispatches and waits for workers.
// Queued but unprocessed orders stay ready to collect; the sweep picks them up.
func (p *DispatchPool) Stop() {
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	p.logger.Info("dispatch pool stopped")
}

func (p *DispatchPool) work(ctx context.Context, worker int) {
	defer p.wg.Done()
	log := p.logger.WithField("worker", worker)

	for {
		select {
		case <-ctx.Done():
			return
		case orderID := <-p.queue:
			if err := p.runner.Run(ctx, orderID); err != nil && ctx.Err() == nil {
				log.WithError(err).WithField("order_id", orderID.String()).Debug("dispatch ended with error")
			}
			p.mu.Lock()
			delete(p.pending, orderID)
			p.mu.Unlock()
		}
	}
}
