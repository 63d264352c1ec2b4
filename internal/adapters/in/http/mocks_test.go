package http

import (
	"context"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/order"

	"github.com/stretchr/testify/mock"
)

type addOrderItemMock struct{ mock.Mock }

func (m *addOrderItemMock) Handle(ctx context.Context, cmd commands.AddOrderItemCommand) (commands.AddOrderItemResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.AddOrderItemResult), args.Error(1)
}

type updateOrderItemMock struct{ mock.Mock }

func (m *updateOrderItemMock) Handle(ctx context.Context, cmd commands.UpdateOrderItemCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type advanceOrderMock struct{ mock.Mock }

func (m *advanceOrderMock) Handle(ctx context.Context, cmd commands.AdvanceOrderCommand) (order.Status, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(order.Status), args.Error(1)
}

type requestDispatchMock struct{ mock.Mock }

func (m *requestDispatchMock) Handle(ctx context.Context, cmd commands.RequestDispatchCommand) (int64, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(int64), args.Error(1)
}

type getOrderMock struct{ mock.Mock }

func (m *getOrderMock) Handle(ctx context.Context, query queries.GetOrderQuery) (queries.GetOrderQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.GetOrderQueryResponse), args.Error(1)
}

type getActiveOrdersMock struct{ mock.Mock }

func (m *getActiveOrdersMock) Handle(ctx context.Context, query queries.GetActiveOrdersQuery) ([]queries.GetActiveOrdersQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]queries.GetActiveOrdersQueryResponse), args.Error(1)
}

type getDispatchFailuresMock struct{ mock.Mock }

func (m *getDispatchFailuresMock) Handle(ctx context.Context, query queries.GetDispatchFailuresQuery) ([]queries.GetDispatchFailuresQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]queries.GetDispatchFailuresQueryResponse), args.Error(1)
}
