package commands

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrAddOrderItemCommandIsNotConstructed = errors.New(
	"AddOrderItemCommand must be created via NewAddOrderItemCommand constructor",
)

// AddOrderItemCommand puts quantity units of a product into the customer's
// open order with the product's shop.
//
// Example:
//
//	cmd, err := NewAddOrderItemCommand(customerID, productID, 2)
//	if err != nil {
//	    return err // validation error, quantity <= 0
//	}
//	result, err := handler.Handle(ctx, cmd)
type AddOrderItemCommand struct {
	customerID kernel.UUID
	productID  kernel.UUID
	quantity   int

	guard guard.ConstructorGuard
}

func NewAddOrderItemCommand(customerID, productID kernel.UUID, quantity int) (AddOrderItemCommand, error) {
	var quantityErr error
	if quantity <= 0 {
		quantityErr = errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}

	if err := errors.Join(
		customerID.Validate(),
		productID.Validate(),
		quantityErr,
	); err != nil {
		return AddOrderItemCommand{}, err
	}

	return AddOrderItemCommand{
		customerID: customerID,
		productID:  productID,
		quantity:   quantity,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c AddOrderItemCommand) Validate() error {
	return c.guard.Validate(ErrAddOrderItemCommandIsNotConstructed)
}

func (c AddOrderItemCommand) CustomerID() kernel.UUID {
	return c.customerID
}

func (c AddOrderItemCommand) ProductID() kernel.UUID {
	return c.productID
}

func (c AddOrderItemCommand) Quantity() int {
	return c.quantity
}
