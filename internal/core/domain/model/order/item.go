package order

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

// MaxItemQuantity caps a single line.
const MaxItemQuantity = 1000

// ErrItemIsNotConstructed is returned when an Item did not come from NewItem or RestoreItem.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Item is one product line of an order. Unit price and unit weight are
// snapshots of the product taken when the line was created or last updated,
// so later catalog changes do not move the order totals.
type Item struct {
	id         kernel.UUID
	productID  kernel.UUID
	quantity   int
	unitPrice  kernel.Money
	unitWeight kernel.Weight
	lineTotal  kernel.Money
	guard      guard.ConstructorGuard
}

// NewItem snapshots a product line. lineTotal = quantity × unitPrice.
func NewItem(id, productID kernel.UUID, quantity int, unitPrice kernel.Money, unitWeight kernel.Weight) (*Item, error) {
	item := &Item{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		id.Validate(),
		productID.Validate(),
		validateQuantity(quantity),
	); err != nil {
		return nil, err
	}

	item.id = id
	item.productID = productID
	item.snapshot(quantity, unitPrice, unitWeight)
	return item, nil
}

// RestoreItem rebuilds a stored line. The stored line total is kept as is.
func RestoreItem(
	id, productID kernel.UUID,
	quantity int,
	unitPrice kernel.Money,
	unitWeight kernel.Weight,
	lineTotal kernel.Money,
) (*Item, error) {
	item, err := NewItem(id, productID, quantity, unitPrice, unitWeight)
	if err != nil {
		return nil, err
	}
	item.lineTotal = lineTotal
	return item, nil
}

func (i *Item) Validate() error {
	if i == nil {
		return ErrItemIsNotConstructed
	}
	return i.guard.Validate(ErrItemIsNotConstructed)
}

func (i *Item) ID() kernel.UUID {
	return i.id
}

func (i *Item) ProductID() kernel.UUID {
	return i.productID
}

func (i *Item) Quantity() int {
	return i.quantity
}

func (i *Item) UnitPrice() kernel.Money {
	return i.unitPrice
}

func (i *Item) UnitWeight() kernel.Weight {
	return i.unitWeight
}

func (i *Item) LineTotal() kernel.Money {
	return i.lineTotal
}

// LineWeight is quantity × unit weight.
func (i *Item) LineWeight() kernel.Weight {
	return i.unitWeight.Mul(i.quantity)
}

func (i *Item) snapshot(quantity int, unitPrice kernel.Money, unitWeight kernel.Weight) {
	i.quantity = quantity
	i.unitPrice = unitPrice
	i.unitWeight = unitWeight
	i.lineTotal = unitPrice.Mul(quantity)
}

func validateQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	if quantity > MaxItemQuantity {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, MaxItemQuantity)
	}
	return nil
}
