package commands

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrUpdateOrderItemCommandIsNotConstructed = errors.New(
	"UpdateOrderItemCommand must be created via NewUpdateOrderItemCommand constructor",
)

// UpdateOrderItemCommand sets a new quantity on an existing order line.
type UpdateOrderItemCommand struct {
	orderID  kernel.UUID
	itemID   kernel.UUID
	quantity int

	guard guard.ConstructorGuard
}

func NewUpdateOrderItemCommand(orderID, itemID kernel.UUID, quantity int) (UpdateOrderItemCommand, error) {
	var quantityErr error
	if quantity <= 0 {
		quantityErr = errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}

	if err := errors.Join(orderID.Validate(), itemID.Validate(), quantityErr); err != nil {
		return UpdateOrderItemCommand{}, err
	}

	return UpdateOrderItemCommand{
		orderID:  orderID,
		itemID:   itemID,
		quantity: quantity,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateOrderItemCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderItemCommandIsNotConstructed)
}

func (c UpdateOrderItemCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c UpdateOrderItemCommand) ItemID() kernel.UUID {
	return c.itemID
}

func (c UpdateOrderItemCommand) Quantity() int {
	return c.quantity
}
