package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/guard"
)

var ErrAdvanceOrderCommandIsNotConstructed = errors.New(
	"AdvanceOrderCommand must be created via NewAdvanceOrderCommand constructor",
)

// AdvanceOrderCommand asks to move an order to target on behalf of actor.
// Whether the move is legal is decided by the aggregate, not here.
type AdvanceOrderCommand struct {
	orderID kernel.UUID
	target  order.Status
	actor   order.Actor

	guard guard.ConstructorGuard
}

func NewAdvanceOrderCommand(orderID kernel.UUID, target order.Status, actor order.Actor) (AdvanceOrderCommand, error) {
	if err := errors.Join(orderID.Validate(), target.Validate(), actor.Validate()); err != nil {
		return AdvanceOrderCommand{}, err
	}

	return AdvanceOrderCommand{
		orderID: orderID,
		target:  target,
		actor:   actor,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c AdvanceOrderCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceOrderCommandIsNotConstructed)
}

func (c AdvanceOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AdvanceOrderCommand) Target() order.Status {
	return c.target
}

func (c AdvanceOrderCommand) Actor() order.Actor {
	return c.actor
}
