package commands

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// RequestDispatchCommandHandler enqueues a dispatch for an order that can
// still become or already is ReadyToCollect. Open dispatch failures of the
// order are resolved first: the operator has acted on them.
type RequestDispatchCommandHandler struct {
	uowFactory DispatchUoWFactory
	queue      ports.DispatchQueue
}

func NewRequestDispatchCommandHandler(uowFactory DispatchUoWFactory, queue ports.DispatchQueue) RequestDispatchCommandHandler {
	return RequestDispatchCommandHandler{
		uowFactory: uowFactory,
		queue:      queue,
	}
}

// Handle returns how many open failures were resolved.
func (h RequestDispatchCommandHandler) Handle(ctx context.Context, cmd RequestDispatchCommand) (int64, error) {
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

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return 0, orderNotFound(cmd.OrderID())
	}
	if err != nil {
		return 0, err
	}

	if o.Status().IsPastReadiness() {
		return 0, NewNotReadyError(o.ID(), o.Status())
	}

	resolved, err := uow.DispatchFailureRepository().ResolveOpen(ctx, o.ID(), time.Now().UTC())
	if err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	if err = h.queue.Enqueue(ctx, o.ID()); err != nil {
		return resolved, err
	}
	return resolved, nil
}
