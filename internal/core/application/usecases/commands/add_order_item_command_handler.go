package commands

import (
	"context"
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/pkg/errs"
)

// AddOrderItemResult identifies the order the item landed in.
type AddOrderItemResult struct {
	OrderID  kernel.UUID
	ItemID   kernel.UUID
	NewOrder bool
}

// AddOrderItemCommandHandler appends an item to the customer's open order
// for the product's shop, opening one if needed. The customer row is locked
// first so two concurrent requests cannot open two orders for the same shop,
// then the open order row is locked for the item write.
type AddOrderItemCommandHandler struct {
	uowFactory OrderingUoWFactory
}

func NewAddOrderItemCommandHandler(uowFactory OrderingUoWFactory) AddOrderItemCommandHandler {
	return AddOrderItemCommandHandler{uowFactory: uowFactory}
}

func (h AddOrderItemCommandHandler) Handle(ctx context.Context, cmd AddOrderItemCommand) (AddOrderItemResult, error) {
	if err := cmd.Validate(); err != nil {
		return AddOrderItemResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return AddOrderItemResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	usersRepo := uow.UserRepository()
	productsRepo := uow.ProductRepository()
	ordersRepo := uow.OrderRepository()

	customer, err := usersRepo.GetForUpdate(ctx, cmd.CustomerID())
	if err != nil {
		return AddOrderItemResult{}, err
	}
	if !customer.HasRole(user.RoleCustomer) {
		return AddOrderItemResult{}, errs.NewValueIsInvalidErrorWithCause(
			"customer", fmt.Errorf("user %s is a %s", customer.ID(), customer.Role()))
	}

	product, err := productsRepo.Get(ctx, cmd.ProductID())
	if err != nil {
		return AddOrderItemResult{}, err
	}

	shop, err := usersRepo.Get(ctx, product.ShopID())
	if err != nil {
		return AddOrderItemResult{}, err
	}
	if !shop.HasRole(user.RoleShop) {
		return AddOrderItemResult{}, errs.NewValueIsInvalidErrorWithCause(
			"shop", fmt.Errorf("user %s is a %s", shop.ID(), shop.Role()))
	}
	if err = product.CheckAvailableFor(shop.ID()); err != nil {
		return AddOrderItemResult{}, errs.NewValueIsInvalidErrorWithCause("product", err)
	}

	result := AddOrderItemResult{ItemID: kernel.NewUUID()}

	o, err := ordersRepo.FindOpenForUpdate(ctx, customer.ID(), shop.ID())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		if shop.Address().IsEmpty() {
			return AddOrderItemResult{}, errs.NewValueIsRequiredErrorWithCause(
				"shop address", fmt.Errorf("shop %s has no pickup address", shop.ID()))
		}
		o, err = order.NewOrder(kernel.NewUUID(), shop.ID(), customer.ID(), shop.Address(), customer.Address())
		if err != nil {
			return AddOrderItemResult{}, err
		}
		result.NewOrder = true
	case err != nil:
		return AddOrderItemResult{}, err
	}

	if _, err = o.AddItem(result.ItemID, product.ID(), cmd.Quantity(), product.Price(), product.Weight()); err != nil {
		return AddOrderItemResult{}, err
	}

	if result.NewOrder {
		err = ordersRepo.Add(ctx, o)
	} else {
		err = ordersRepo.Update(ctx, o)
	}
	if err != nil {
		return AddOrderItemResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return AddOrderItemResult{}, err
	}

	result.OrderID = o.ID()
	return result, nil
}
