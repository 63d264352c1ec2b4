package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrRequestDispatchCommandIsNotConstructed = errors.New(
	"RequestDispatchCommand must be created via NewRequestDispatchCommand constructor",
)

// RequestDispatchCommand is the explicit dispatch trigger. It only enqueues.
type RequestDispatchCommand struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewRequestDispatchCommand(orderID kernel.UUID) (RequestDispatchCommand, error) {
	if err := orderID.Validate(); err != nil {
		return RequestDispatchCommand{}, err
	}
	return RequestDispatchCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c RequestDispatchCommand) Validate() error {
	return c.guard.Validate(ErrRequestDispatchCommandIsNotConstructed)
}

func (c RequestDispatchCommand) OrderID() kernel.UUID {
	return c.orderID
}
