package servers

import (
	"fmt"
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// GetDispatchFailures handles (GET /api/v1/dispatch-failures)
	GetDispatchFailures(ctx echo.Context, params GetDispatchFailuresParams) error
	// GetActiveOrders handles (GET /api/v1/orders/active)
	GetActiveOrders(ctx echo.Context) error
	// AddOrderItem handles (POST /api/v1/orders/items)
	AddOrderItem(ctx echo.Context) error
	// GetOrder handles (GET /api/v1/orders/{orderId})
	GetOrder(ctx echo.Context, orderId openapi_types.UUID) error
	// RequestDispatch handles (POST /api/v1/orders/{orderId}/dispatch)
	RequestDispatch(ctx echo.Context, orderId openapi_types.UUID) error
	// UpdateOrderItem handles (PATCH /api/v1/orders/{orderId}/items/{itemId})
	UpdateOrderItem(ctx echo.Context, orderId openapi_types.UUID, itemId openapi_types.UUID) error
	// AdvanceOrder handles (POST /api/v1/orders/{orderId}/transitions)
	AdvanceOrder(ctx echo.Context, orderId openapi_types.UUID) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) GetDispatchFailures(ctx echo.Context) error {
	var params GetDispatchFailuresParams

	err := runtime.BindQueryParameter("form", true, false, "includeResolved", ctx.QueryParams(), &params.IncludeResolved)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter includeResolved: %s", err))
	}

	return w.Handler.GetDispatchFailures(ctx, params)
}

func (w *ServerInterfaceWrapper) GetActiveOrders(ctx echo.Context) error {
	return w.Handler.GetActiveOrders(ctx)
}

func (w *ServerInterfaceWrapper) AddOrderItem(ctx echo.Context) error {
	return w.Handler.AddOrderItem(ctx)
}

func (w *ServerInterfaceWrapper) GetOrder(ctx echo.Context) error {
	orderId, err := bindUUID(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.GetOrder(ctx, orderId)
}

func (w *ServerInterfaceWrapper) RequestDispatch(ctx echo.Context) error {
	orderId, err := bindUUID(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.RequestDispatch(ctx, orderId)
}

func (w *ServerInterfaceWrapper) UpdateOrderItem(ctx echo.Context) error {
	orderId, err := bindUUID(ctx, "orderId")
	if err != nil {
		return err
	}
	itemId, err := bindUUID(ctx, "itemId")
	if err != nil {
		return err
	}
	return w.Handler.UpdateOrderItem(ctx, orderId, itemId)
}

func (w *ServerInterfaceWrapper) AdvanceOrder(ctx echo.Context) error {
	orderId, err := bindUUID(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.AdvanceOrder(ctx, orderId)
}

func bindUUID(ctx echo.Context, name string) (openapi_types.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return id, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return id, nil
}

// EchoRouter is satisfied by *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	router.GET(baseURL+"/api/v1/dispatch-failures", wrapper.GetDispatchFailures)
	router.GET(baseURL+"/api/v1/orders/active", wrapper.GetActiveOrders)
	router.POST(baseURL+"/api/v1/orders/items", wrapper.AddOrderItem)
	router.GET(baseURL+"/api/v1/orders/:orderId", wrapper.GetOrder)
	router.POST(baseURL+"/api/v1/orders/:orderId/dispatch", wrapper.RequestDispatch)
	router.PATCH(baseURL+"/api/v1/orders/:orderId/items/:itemId", wrapper.UpdateOrderItem)
	router.POST(baseURL+"/api/v1/orders/:orderId/transitions", wrapper.AdvanceOrder)
}
