package jobs

import (
	"context"
	"sync"
	"testing"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchPool_RejectsWhenFull(t *testing.T) {
	logger, _ := test.NewNullLogger()
	pool := NewDispatchPool(runnerFunc(func(context.Context, kernel.UUID) error { return nil }), 1, 1, logger)

	first := kernel.NewUUID()
	require.NoError(t, pool.Enqueue(t.Context(), first))

	err := pool.Enqueue(t.Context(), kernel.NewUUID())

	assert.ErrorIs(t, err, ports.ErrDispatchQueueFull)
}

func TestDispatchPool_IgnoresDuplicates(t *testing.T) {
	logger, _ := test.NewNullLogger()
	pool := NewDispatchPool(runnerFunc(func(context.Context, kernel.UUID) error { return nil }), 1, 1, logger)

	orderID := kernel.NewUUID()
	require.NoError(t, pool.Enqueue(t.Context(), orderID))

	assert.NoError(t, pool.Enqueue(t.Context(), orderID))
	assert.Len(t, pool.queue, 1)
}

func TestDispatchPool_WorkersRunQueuedOrders(t *testing.T) {
	logger, _ := test.NewNullLogger()

	var mu sync.Mutex
	seen := map[kernel.UUID]int{}
	done := make(chan struct{}, 3)
	pool := NewDispatchPool(runnerFunc(func(_ context.Context, id kernel.UUID) error {
		mu.Lock()
		seen[id]++
		mu.Unlock()
		done <- struct{}{}
		return nil
	}), 2, 3, logger)

	ids := []kernel.UUID{kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()}
	for _, id := range ids {
		require.NoError(t, pool.Enqueue(t.Context(), id))
	}
	require.NoError(t, pool.Start(t.Context()))
	defer pool.Stop()

	for range ids {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("dispatch was not run")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	for _, id := range ids {
		assert.Equal(t, 1, seen[id])
	}
}

func TestDispatchPool_OrderCanBeQueuedAgainAfterRun(t *testing.T) {
	logger, _ := test.NewNullLogger()
	done := make(chan struct{}, 2)
	pool := NewDispatchPool(runnerFunc(func(context.Context, kernel.UUID) error {
		done <- struct{}{}
		return nil
	}), 1, 1, logger)
	require.NoError(t, pool.Start(t.Context()))
	defer pool.Stop()

	orderID := kernel.NewUUID()
	require.NoError(t, pool.Enqueue(t.Context(), orderID))
	<-done

	assert.Eventually(t, func() bool {
		pool.mu.Lock()
		defer pool.mu.Unlock()
		return len(pool.pending) == 0
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, pool.Enqueue(t.Context(), orderID))
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatch was not run twice")
	}
}

func TestDispatchPool_StopCancelsRunningDispatch(t *testing.T) {
	logger, _ := test.NewNullLogger()
	started := make(chan struct{})
	pool := NewDispatchPool(runnerFunc(func(ctx context.Context, _ kernel.UUID) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}), 1, 1, logger)
	require.NoError(t, pool.Start(t.Context()))

	require.NoError(t, pool.Enqueue(t.Context(), kernel.NewUUID()))
	<-started

	pool.Stop()

	assert.ErrorIs(t, pool.Enqueue(t.Context(), kernel.NewUUID()), ErrPoolStopped)
}
