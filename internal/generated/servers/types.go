// Package servers holds the HTTP contract described by openapi.yaml: wire
// types, the server interface and its echo binding.
package servers

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Error defines model for Error.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// AddOrderItemRequest defines model for AddOrderItemRequest.
type AddOrderItemRequest struct {
	CustomerId openapi_types.UUID `json:"customerId" validate:"required"`
	ProductId  openapi_types.UUID `json:"productId" validate:"required"`
	Quantity   int                `json:"quantity" validate:"gte=1,lte=1000"`
}

// AddOrderItemResponse defines model for AddOrderItemResponse.
type AddOrderItemResponse struct {
	ItemId   openapi_types.UUID `json:"itemId"`
	NewOrder bool               `json:"newOrder"`
	OrderId  openapi_types.UUID `json:"orderId"`
}

// UpdateOrderItemRequest defines model for UpdateOrderItemRequest.
type UpdateOrderItemRequest struct {
	Quantity int `json:"quantity" validate:"gte=1,lte=1000"`
}

// AdvanceOrderRequest defines model for AdvanceOrderRequest.
type AdvanceOrderRequest struct {
	Actor  string `json:"actor" validate:"required,oneof=customer shop driver"`
	Target string `json:"target" validate:"required"`
}

// AdvanceOrderResponse defines model for AdvanceOrderResponse.
type AdvanceOrderResponse struct {
	Status string `json:"status"`
}

// RequestDispatchResponse defines model for RequestDispatchResponse.
type RequestDispatchResponse struct {
	ResolvedFailures int64 `json:"resolvedFailures"`
}

// OrderItem defines model for OrderItem.
type OrderItem struct {
	Id         openapi_types.UUID `json:"id"`
	LineTotal  string             `json:"lineTotal"`
	ProductId  openapi_types.UUID `json:"productId"`
	Quantity   int                `json:"quantity"`
	UnitPrice  string             `json:"unitPrice"`
	UnitWeight string             `json:"unitWeight"`
}

// Order defines model for Order.
type Order struct {
	CreatedAt      time.Time           `json:"createdAt"`
	CustomerId     *openapi_types.UUID `json:"customerId,omitempty"`
	DriverId       *openapi_types.UUID `json:"driverId,omitempty"`
	DropoffAddress string              `json:"dropoffAddress"`
	Id             openapi_types.UUID  `json:"id"`
	Items          []OrderItem         `json:"items"`
	PickupAddress  string              `json:"pickupAddress"`
	ShopId         openapi_types.UUID  `json:"shopId"`
	Status         string              `json:"status"`
	TotalAmount    string              `json:"totalAmount"`
	TotalWeight    string              `json:"totalWeight"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

// ActiveOrder defines model for ActiveOrder.
type ActiveOrder struct {
	DriverId    *openapi_types.UUID `json:"driverId,omitempty"`
	Id          openapi_types.UUID  `json:"id"`
	ShopId      openapi_types.UUID  `json:"shopId"`
	Status      string              `json:"status"`
	TotalAmount string              `json:"totalAmount"`
	TotalWeight string              `json:"totalWeight"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// DispatchFailure defines model for DispatchFailure.
type DispatchFailure struct {
	Attempts    int                `json:"attempts"`
	FailedAt    time.Time          `json:"failedAt"`
	Id          openapi_types.UUID `json:"id"`
	LastError   string             `json:"lastError"`
	OrderId     openapi_types.UUID `json:"orderId"`
	OrderStatus string             `json:"orderStatus"`
	ResolvedAt  *time.Time         `json:"resolvedAt,omitempty"`
}

// GetDispatchFailuresParams defines parameters for GetDispatchFailures.
type GetDispatchFailuresParams struct {
	IncludeResolved *bool `form:"includeResolved,omitempty" json:"includeResolved,omitempty"`
}
