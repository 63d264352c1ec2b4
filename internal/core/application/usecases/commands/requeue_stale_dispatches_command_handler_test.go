package commands_test

import (
	"testing"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRequeueStaleDispatchesCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	first, second, third := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()
	cmd, err := commands.NewRequeueStaleDispatchesCommand(time.Minute, 10)
	require.NoError(t, err)

	orders := new(MockOrderRepository)
	uow := new(MockUoW)
	factory := new(MockDispatchUoWFactory)
	queue := new(MockDispatchQueue)

	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orders).Once()
	orders.On("GetStaleReadyToCollect", ctx, mock.MatchedBy(func(before time.Time) bool {
		return before.Before(time.Now().Add(-59 * time.Second))
	}), 10).Return([]kernel.UUID{first, second, third}, nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	queue.On("Enqueue", ctx, first).Return(nil).Once()
	queue.On("Enqueue", ctx, second).Return(ports.ErrDispatchQueueFull).Once()

	n, err := commands.NewRequeueStaleDispatchesCommandHandler(factory, queue).Handle(ctx, cmd)

	require.ErrorIs(t, err, ports.ErrDispatchQueueFull)
	assert.Equal(t, 1, n)
	queue.AssertNotCalled(t, "Enqueue", ctx, third)
}

func TestNewRequeueStaleDispatchesCommand_Validation(t *testing.T) {
	_, err := commands.NewRequeueStaleDispatchesCommand(0, 0)

	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}
