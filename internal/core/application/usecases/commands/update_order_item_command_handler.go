package commands

import (
	"context"
	"errors"

	"marketplace/internal/pkg/errs"
)

// UpdateOrderItemCommandHandler changes a line's quantity under the order row
// lock and re-snapshots price and weight from the product as it is now.
type UpdateOrderItemCommandHandler struct {
	uowFactory OrderingUoWFactory
}

func NewUpdateOrderItemCommandHandler(uowFactory OrderingUoWFactory) UpdateOrderItemCommandHandler {
	return UpdateOrderItemCommandHandler{uowFactory: uowFactory}
}

func (h UpdateOrderItemCommandHandler) Handle(ctx context.Context, cmd UpdateOrderItemCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ordersRepo := uow.OrderRepository()
	productsRepo := uow.ProductRepository()

	o, err := ordersRepo.GetForUpdate(ctx, cmd.OrderID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return orderNotFound(cmd.OrderID())
	}
	if err != nil {
		return err
	}

	item, ok := o.Item(cmd.ItemID())
	if !ok {
		return errs.NewObjectNotFoundError("item", cmd.ItemID().String())
	}

	product, err := productsRepo.Get(ctx, item.ProductID())
	if err != nil {
		return err
	}

	if _, err = o.UpdateItemQuantity(item.ID(), cmd.Quantity(), product.Price(), product.Weight()); err != nil {
		return err
	}

	if err = ordersRepo.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
