package commands

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/sirupsen/logrus"
)

// AdvanceOrderCommandHandler applies customer, shop and driver status changes.
//
// Before a submit, an unresolved drop-off address is filled from the
// customer's profile. Once an order reaches ReadyToCollect and the change is
// committed, a dispatch request is enqueued. A failed enqueue does not undo
// the status change; the sweep job picks such orders up later.
type AdvanceOrderCommandHandler struct {
	uowFactory OrderingUoWFactory
	queue      ports.DispatchQueue
	logger     logrus.FieldLogger
}

func NewAdvanceOrderCommandHandler(
	uowFactory OrderingUoWFactory,
	queue ports.DispatchQueue,
	logger logrus.FieldLogger,
) AdvanceOrderCommandHandler {
	return AdvanceOrderCommandHandler{
		uowFactory: uowFactory,
		queue:      queue,
		logger:     logger,
	}
}

func (h AdvanceOrderCommandHandler) Handle(ctx context.Context, cmd AdvanceOrderCommand) (order.Status, error) {
	if err := cmd.Validate(); err != nil {
		return order.Unknown, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return order.Unknown, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ordersRepo := uow.OrderRepository()

	o, err := ordersRepo.GetForUpdate(ctx, cmd.OrderID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return order.Unknown, orderNotFound(cmd.OrderID())
	}
	if err != nil {
		return order.Unknown, err
	}

	if cmd.Target() == order.Submitted && o.Dropoff().IsEmpty() && o.CustomerID() != nil && o.IsEditable() {
		customer, getErr := uow.UserRepository().Get(ctx, *o.CustomerID())
		if getErr != nil {
			return order.Unknown, getErr
		}
		if addr := customer.Address(); !addr.IsEmpty() {
			if err = o.SetDropoff(addr); err != nil {
				return order.Unknown, err
			}
		}
	}

	if err = o.Advance(cmd.Target(), cmd.Actor()); err != nil {
		return order.Unknown, err
	}

	if err = ordersRepo.Update(ctx, o); err != nil {
		return order.Unknown, err
	}

	if err = uow.Commit(ctx); err != nil {
		return order.Unknown, err
	}

	if o.Status() == order.ReadyToCollect {
		if err = h.queue.Enqueue(ctx, o.ID()); err != nil {
			h.logger.WithError(err).WithField("order_id", o.ID().String()).
				Warn("order is ready to collect but dispatch was not queued")
		}
	}

	return o.Status(), nil
}
