package commands

import (
	"context"
	"fmt"
	"time"

	"marketplace/internal/core/ports"
)

// RequeueStaleDispatchesCommandHandler makes dispatch at-least-once: a request
// lost with a crashed worker or a full queue is enqueued again once the
// order has been ready to collect for long enough.
type RequeueStaleDispatchesCommandHandler struct {
	uowFactory DispatchUoWFactory
	queue      ports.DispatchQueue
}

func NewRequeueStaleDispatchesCommandHandler(
	uowFactory DispatchUoWFactory,
	queue ports.DispatchQueue,
) RequeueStaleDispatchesCommandHandler {
	return RequeueStaleDispatchesCommandHandler{
		uowFactory: uowFactory,
		queue:      queue,
	}
}

// Handle returns how many orders were enqueued. It stops at the first
// enqueue error; the rest are picked up by the next run.
func (h RequeueStaleDispatchesCommandHandler) Handle(ctx context.Context, cmd RequeueStaleDispatchesCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	before := time.Now().UTC().Add(-cmd.StaleAfter())
	ids, err := uow.OrderRepository().GetStaleReadyToCollect(ctx, before, cmd.Limit())
	if err != nil {
		return 0, err
	}
	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	for i, id := range ids {
		if err = h.queue.Enqueue(ctx, id); err != nil {
			return i, fmt.Errorf("requeue order %s: %w", id, err)
		}
	}
	return len(ids), nil
}
