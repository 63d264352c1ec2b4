// Package queries contains read operations. Handlers read with SQL straight
// from the tables and return read models, bypassing the aggregates.
package queries

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderQueryResponse is an order with its lines in insertion order.
type GetOrderQueryResponse struct {
	ID          kernel.UUID
	ShopID      kernel.UUID
	CustomerID  *kernel.UUID
	DriverID    *kernel.UUID
	Pickup      string
	Dropoff     string
	Status      order.Status
	TotalAmount kernel.Money
	TotalWeight kernel.Weight
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Items       []OrderItemResponse
}

type OrderItemResponse struct {
	ID         kernel.UUID
	ProductID  kernel.UUID
	Quantity   int
	UnitPrice  kernel.Money
	UnitWeight kernel.Weight
	LineTotal  kernel.Money
}
