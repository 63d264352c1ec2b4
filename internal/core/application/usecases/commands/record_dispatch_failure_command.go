package commands

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrRecordDispatchFailureCommandIsNotConstructed = errors.New(
	"RecordDispatchFailureCommand must be created via NewRecordDispatchFailureCommand constructor",
)

// RecordDispatchFailureCommand reports a dispatch that ran out of retries.
type RecordDispatchFailureCommand struct {
	orderID  kernel.UUID
	attempts int
	cause    error

	guard guard.ConstructorGuard
}

func NewRecordDispatchFailureCommand(orderID kernel.UUID, attempts int, cause error) (RecordDispatchFailureCommand, error) {
	var attemptsErr, causeErr error
	if attempts <= 0 {
		attemptsErr = errs.NewValueIsInvalidErrorWithCause("attempts", fmt.Errorf("%d is not greater than 0", attempts))
	}
	if cause == nil {
		causeErr = errs.NewValueIsRequiredError("cause")
	}
	if err := errors.Join(orderID.Validate(), attemptsErr, causeErr); err != nil {
		return RecordDispatchFailureCommand{}, err
	}

	return RecordDispatchFailureCommand{
		orderID:  orderID,
		attempts: attempts,
		cause:    cause,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c RecordDispatchFailureCommand) Validate() error {
	return c.guard.Validate(ErrRecordDispatchFailureCommandIsNotConstructed)
}

func (c RecordDispatchFailureCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c RecordDispatchFailureCommand) Attempts() int {
	return c.attempts
}

func (c RecordDispatchFailureCommand) Cause() error {
	return c.cause
}
