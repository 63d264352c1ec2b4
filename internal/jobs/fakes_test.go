package jobs

import (
	"context"
	"sync"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/dispatch"
	"marketplace/internal/core/domain/model/kernel"
)

type fakeDispatcher struct {
	mu      sync.Mutex
	results []error
	calls   int
	driver  kernel.UUID
	hook    func(call int)
}

func (f *fakeDispatcher) Handle(_ context.Context, _ commands.DispatchOrderCommand) (kernel.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.hook != nil {
		f.hook(f.calls)
	}
	if len(f.results) == 0 {
		return f.driver, nil
	}
	err := f.results[0]
	if len(f.results) > 1 {
		f.results = f.results[1:]
	}
	if err != nil {
		return kernel.UUID{}, err
	}
	return f.driver, nil
}

type fakeRecorder struct {
	mu       sync.Mutex
	recorded []commands.RecordDispatchFailureCommand
	err      error
}

func (f *fakeRecorder) Handle(_ context.Context, cmd commands.RecordDispatchFailureCommand) (*dispatch.Failure, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recorded = append(f.recorded, cmd)
	return nil, f.err
}

type runnerFunc func(ctx context.Context, orderID kernel.UUID) error

func (f runnerFunc) Run(ctx context.Context, orderID kernel.UUID) error {
	return f(ctx, orderID)
}
