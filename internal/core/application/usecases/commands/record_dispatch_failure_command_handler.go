package commands

import (
	"context"

	"marketplace/internal/core/domain/model/dispatch"
	"marketplace/internal/core/ports"

	"github.com/sirupsen/logrus"
)

// RecordDispatchFailureCommandHandler stores a terminal dispatch failure and,
// when a dead-letter sink is configured, mirrors it there after commit.
// The order itself is not touched and stays ReadyToCollect.
type RecordDispatchFailureCommandHandler struct {
	uowFactory DispatchUoWFactory
	sink       ports.DeadLetterSink
	logger     logrus.FieldLogger
}

// NewRecordDispatchFailureCommandHandler accepts a nil sink.
func NewRecordDispatchFailureCommandHandler(
	uowFactory DispatchUoWFactory,
	sink ports.DeadLetterSink,
	logger logrus.FieldLogger,
) RecordDispatchFailureCommandHandler {
	return RecordDispatchFailureCommandHandler{
		uowFactory: uowFactory,
		sink:       sink,
		logger:     logger,
	}
}

func (h RecordDispatchFailureCommandHandler) Handle(ctx context.Context, cmd RecordDispatchFailureCommand) (*dispatch.Failure, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	failure, err := dispatch.NewFailure(cmd.OrderID(), cmd.Attempts(), cmd.Cause())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.DispatchFailureRepository().Add(ctx, failure); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	if h.sink != nil {
		if err = h.sink.Send(ctx, failure); err != nil {
			h.logger.WithError(err).WithField("order_id", failure.OrderID().String()).
				Error("failed to mirror dispatch failure to dead letter sink")
		}
	}

	return failure, nil
}
