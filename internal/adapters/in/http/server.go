package http

import (
	"context"
	"net/http"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/generated/servers"
	"marketplace/internal/pkg/errs"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

var _ servers.ServerInterface = &Server{}

type (
	addOrderItemHandler interface {
		Handle(ctx context.Context, cmd commands.AddOrderItemCommand) (commands.AddOrderItemResult, error)
	}
	updateOrderItemHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateOrderItemCommand) error
	}
	advanceOrderHandler interface {
		Handle(ctx context.Context, cmd commands.AdvanceOrderCommand) (order.Status, error)
	}
	requestDispatchHandler interface {
		Handle(ctx context.Context, cmd commands.RequestDispatchCommand) (int64, error)
	}
	getOrderHandler interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.GetOrderQueryResponse, error)
	}
	getActiveOrdersHandler interface {
		Handle(ctx context.Context, query queries.GetActiveOrdersQuery) ([]queries.GetActiveOrdersQueryResponse, error)
	}
	getDispatchFailuresHandler interface {
		Handle(ctx context.Context, query queries.GetDispatchFailuresQuery) ([]queries.GetDispatchFailuresQueryResponse, error)
	}
)

// Handlers groups the use cases the server exposes.
type Handlers struct {
	AddOrderItem        addOrderItemHandler
	UpdateOrderItem     updateOrderItemHandler
	AdvanceOrder        advanceOrderHandler
	RequestDispatch     requestDispatchHandler
	GetOrder            getOrderHandler
	GetActiveOrders     getActiveOrdersHandler
	GetDispatchFailures getDispatchFailuresHandler
}

// Server implements servers.ServerInterface on top of the application use cases.
type Server struct {
	h      Handlers
	logger logrus.FieldLogger
}

func NewServer(h Handlers, logger logrus.FieldLogger) *Server {
	return &Server{
		h:      h,
		logger: logger.WithField("component", "http_server"),
	}
}

// AddOrderItem handles POST /api/v1/orders/items.
func (s *Server) AddOrderItem(ctx echo.Context) error {
	var req servers.AddOrderItemRequest
	if err := s.bind(ctx, &req); err != nil {
		return err
	}

	customerID, err := toKernelID("customerId", req.CustomerId)
	if err != nil {
		return s.problem(ctx, err)
	}
	productID, err := toKernelID("productId", req.ProductId)
	if err != nil {
		return s.problem(ctx, err)
	}

	cmd, err := commands.NewAddOrderItemCommand(customerID, productID, req.Quantity)
	if err != nil {
		return s.problem(ctx, err)
	}

	result, err := s.h.AddOrderItem.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.problem(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, servers.AddOrderItemResponse{
		OrderId:  result.OrderID.Bytes(),
		ItemId:   result.ItemID.Bytes(),
		NewOrder: result.NewOrder,
	})
}

// UpdateOrderItem handles PATCH /api/v1/orders/{orderId}/items/{itemId}.
func (s *Server) UpdateOrderItem(ctx echo.Context, orderId openapi_types.UUID, itemId openapi_types.UUID) error {
	var req servers.UpdateOrderItemRequest
	if err := s.bind(ctx, &req); err != nil {
		return err
	}

	orderID, err := toKernelID("orderId", orderId)
	if err != nil {
		return s.problem(ctx, err)
	}
	itemID, err := toKernelID("itemId", itemId)
	if err != nil {
		return s.problem(ctx, err)
	}

	cmd, err := commands.NewUpdateOrderItemCommand(orderID, itemID, req.Quantity)
	if err != nil {
		return s.problem(ctx, err)
	}
	if err = s.h.UpdateOrderItem.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.problem(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AdvanceOrder handles POST /api/v1/orders/{orderId}/transitions.
func (s *Server) AdvanceOrder(ctx echo.Context, orderId openapi_types.UUID) error {
	var req servers.AdvanceOrderRequest
	if err := s.bind(ctx, &req); err != nil {
		return err
	}

	orderID, err := toKernelID("orderId", orderId)
	if err != nil {
		return s.problem(ctx, err)
	}
	target, err := order.ParseStatus(req.Target)
	if err != nil {
		return s.problem(ctx, err)
	}
	actor, err := order.ParseActor(req.Actor)
	if err != nil {
		return s.problem(ctx, err)
	}

	cmd, err := commands.NewAdvanceOrderCommand(orderID, target, actor)
	if err != nil {
		return s.problem(ctx, err)
	}
	status, err := s.h.AdvanceOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.problem(ctx, err)
	}

	return ctx.JSON(http.StatusOK, servers.AdvanceOrderResponse{Status: status.String()})
}

// RequestDispatch handles POST /api/v1/orders/{orderId}/dispatch.
func (s *Server) RequestDispatch(ctx echo.Context, orderId openapi_types.UUID) error {
	orderID, err := toKernelID("orderId", orderId)
	if err != nil {
		return s.problem(ctx, err)
	}

	cmd, err := commands.NewRequestDispatchCommand(orderID)
	if err != nil {
		return s.problem(ctx, err)
	}
	resolved, err := s.h.RequestDispatch.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.problem(ctx, err)
	}

	return ctx.JSON(http.StatusAccepted, servers.RequestDispatchResponse{ResolvedFailures: resolved})
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(ctx echo.Context, orderId openapi_types.UUID) error {
	orderID, err := toKernelID("orderId", orderId)
	if err != nil {
		return s.problem(ctx, err)
	}
	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return s.problem(ctx, err)
	}

	o, err := s.h.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.problem(ctx, err)
	}

	response := servers.Order{
		Id:             o.ID.Bytes(),
		ShopId:         o.ShopID.Bytes(),
		CustomerId:     optionalID(o.CustomerID),
		DriverId:       optionalID(o.DriverID),
		PickupAddress:  o.Pickup,
		DropoffAddress: o.Dropoff,
		Status:         o.Status.String(),
		TotalAmount:    o.TotalAmount.String(),
		TotalWeight:    o.TotalWeight.String(),
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
		Items:          make([]servers.OrderItem, len(o.Items)),
	}
	for i, item := range o.Items {
		response.Items[i] = servers.OrderItem{
			Id:         item.ID.Bytes(),
			ProductId:  item.ProductID.Bytes(),
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice.String(),
			UnitWeight: item.UnitWeight.String(),
			LineTotal:  item.LineTotal.String(),
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetActiveOrders handles GET /api/v1/orders/active.
func (s *Server) GetActiveOrders(ctx echo.Context) error {
	orders, err := s.h.GetActiveOrders.Handle(ctx.Request().Context(), queries.NewGetActiveOrdersQuery())
	if err != nil {
		return s.problem(ctx, err)
	}

	response := make([]servers.ActiveOrder, len(orders))
	for i, o := range orders {
		response[i] = servers.ActiveOrder{
			Id:          o.ID.Bytes(),
			ShopId:      o.ShopID.Bytes(),
			DriverId:    optionalID(o.DriverID),
			Status:      o.Status.String(),
			TotalAmount: o.TotalAmount.String(),
			TotalWeight: o.TotalWeight.String(),
			UpdatedAt:   o.UpdatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetDispatchFailures handles GET /api/v1/dispatch-failures.
func (s *Server) GetDispatchFailures(ctx echo.Context, params servers.GetDispatchFailuresParams) error {
	includeResolved := params.IncludeResolved != nil && *params.IncludeResolved

	failures, err := s.h.GetDispatchFailures.Handle(
		ctx.Request().Context(),
		queries.NewGetDispatchFailuresQuery(includeResolved),
	)
	if err != nil {
		return s.problem(ctx, err)
	}

	response := make([]servers.DispatchFailure, len(failures))
	for i, f := range failures {
		response[i] = servers.DispatchFailure{
			Id:          f.ID.Bytes(),
			OrderId:     f.OrderID.Bytes(),
			OrderStatus: f.OrderStatus,
			Attempts:    f.Attempts,
			LastError:   f.LastError,
			FailedAt:    f.FailedAt,
			ResolvedAt:  f.ResolvedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// bind decodes and validates the body. Failures are returned as
// *echo.HTTPError and rendered by ErrorHandler.
func (s *Server) bind(ctx echo.Context, req any) error {
	if err := ctx.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := ctx.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func toKernelID(name string, id openapi_types.UUID) (kernel.UUID, error) {
	converted, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return converted, nil
}

func optionalID(id *kernel.UUID) *openapi_types.UUID {
	if id == nil {
		return nil
	}
	converted := id.Bytes()
	return &converted
}
