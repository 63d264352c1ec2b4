package catalog

import (
	"errors"
	"fmt"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

// MaxProductWeight is the heaviest single product a shop may list, in kilograms.
var MaxProductWeight = kernel.MustWeight("100")

var (
	ErrProductIsNotConstructed = errors.New("Product must be created via NewProduct constructor")
	// ErrProductIsNotAvailable is returned when an inactive product or a
	// product of another shop is put into an order.
	ErrProductIsNotAvailable = errors.New("product is not available")
)

// Category groups products.
type Category struct {
	id   kernel.UUID
	name string
}

func NewCategory(id kernel.UUID, name string) (Category, error) {
	name = strings.TrimSpace(name)
	if err := id.Validate(); err != nil {
		return Category{}, err
	}
	if name == "" {
		return Category{}, errs.NewValueIsRequiredError("category name")
	}
	return Category{id: id, name: name}, nil
}

func (c Category) ID() kernel.UUID {
	return c.id
}

func (c Category) Name() string {
	return c.name
}

// Product is a shop's listing.
type Product struct {
	id         kernel.UUID
	name       string
	categoryID *kernel.UUID
	price      kernel.Money
	weight     kernel.Weight
	shopID     kernel.UUID
	active     bool
	guard      guard.ConstructorGuard
}

// NewProduct validates a listing: positive price, weight within
// [0, MaxProductWeight], owned by a shop.
func NewProduct(
	id kernel.UUID,
	name string,
	categoryID *kernel.UUID,
	price kernel.Money,
	weight kernel.Weight,
	shopID kernel.UUID,
	active bool,
) (*Product, error) {
	name = strings.TrimSpace(name)

	var nameErr, priceErr, weightErr error
	if name == "" {
		nameErr = errs.NewValueIsRequiredError("product name")
	}
	if !price.IsPositive() {
		priceErr = errs.NewValueIsInvalidErrorWithCause("price", fmt.Errorf("%s is not greater than 0", price))
	}
	if weight.IsGreaterThan(MaxProductWeight) {
		weightErr = errs.NewValueIsOutOfRangeError("weight", weight, 0, MaxProductWeight)
	}

	if err := errors.Join(
		id.Validate(),
		nameErr,
		priceErr,
		weightErr,
		shopID.Validate(),
	); err != nil {
		return nil, err
	}

	p := &Product{
		id:     id,
		name:   name,
		price:  price,
		weight: weight,
		shopID: shopID,
		active: active,
		guard:  guard.NewConstructorGuard(),
	}
	if categoryID != nil {
		c := *categoryID
		p.categoryID = &c
	}
	return p, nil
}

func (p *Product) Validate() error {
	if p == nil {
		return ErrProductIsNotConstructed
	}
	return p.guard.Validate(ErrProductIsNotConstructed)
}

func (p *Product) ID() kernel.UUID {
	return p.id
}

func (p *Product) Name() string {
	return p.name
}

func (p *Product) CategoryID() *kernel.UUID {
	return p.categoryID
}

func (p *Product) Price() kernel.Money {
	return p.price
}

func (p *Product) Weight() kernel.Weight {
	return p.weight
}

func (p *Product) ShopID() kernel.UUID {
	return p.shopID
}

func (p *Product) IsActive() bool {
	return p.active
}

// CheckAvailableFor returns ErrProductIsNotAvailable unless the product is
// active and sold by shopID.
func (p *Product) CheckAvailableFor(shopID kernel.UUID) error {
	if !p.active {
		return fmt.Errorf("%w: product %s is inactive", ErrProductIsNotAvailable, p.id)
	}
	if !p.shopID.IsEqual(shopID) {
		return fmt.Errorf("%w: product %s is not sold by shop %s", ErrProductIsNotAvailable, p.id, shopID)
	}
	return nil
}
