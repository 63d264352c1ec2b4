package jobs

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy(retries uint64) RetryPolicy {
	return RetryPolicy{
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		Multiplier:      2,
		MaxRetries:      retries,
	}
}

func newRunner(d *fakeDispatcher, r *fakeRecorder, retries uint64) (*DispatchRunner, *test.Hook) {
	logger, hook := test.NewNullLogger()
	return NewDispatchRunner(d, r, fastPolicy(retries), logger), hook
}

func TestDispatchRunner_AssignsOnFirstAttempt(t *testing.T) {
	d := &fakeDispatcher{driver: kernel.NewUUID()}
	r := &fakeRecorder{}
	runner, _ := newRunner(d, r, 3)

	err := runner.Run(t.Context(), kernel.NewUUID())

	require.NoError(t, err)
	assert.Equal(t, 1, d.calls)
	assert.Empty(t, r.recorded)
}

func TestDispatchRunner_RetriesUntilDriverFreesUp(t *testing.T) {
	d := &fakeDispatcher{
		driver:  kernel.NewUUID(),
		results: []error{commands.ErrNoDriverAvailable, commands.ErrNoDriverAvailable, nil},
	}
	r := &fakeRecorder{}
	runner, hook := newRunner(d, r, 3)

	err := runner.Run(t.Context(), kernel.NewUUID())

	require.NoError(t, err)
	assert.Equal(t, 3, d.calls)
	assert.Empty(t, r.recorded)

	warnings := 0
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warnings++
		}
	}
	assert.Equal(t, 2, warnings)
}

func TestDispatchRunner_RecordsFailureWhenRetriesAreExhausted(t *testing.T) {
	d := &fakeDispatcher{results: []error{commands.ErrNoDriverAvailable}}
	r := &fakeRecorder{}
	runner, _ := newRunner(d, r, 2)
	orderID := kernel.NewUUID()

	err := runner.Run(t.Context(), orderID)

	require.ErrorIs(t, err, commands.ErrNoDriverAvailable)
	assert.Equal(t, 3, d.calls)
	require.Len(t, r.recorded, 1)
	assert.Equal(t, orderID, r.recorded[0].OrderID())
	assert.Equal(t, 3, r.recorded[0].Attempts())
	assert.ErrorIs(t, r.recorded[0].Cause(), commands.ErrNoDriverAvailable)
}

func TestDispatchRunner_SettledOrderEndsQuietly(t *testing.T) {
	orderID := kernel.NewUUID()
	d := &fakeDispatcher{results: []error{commands.NewNotReadyError(orderID, order.Delivered)}}
	r := &fakeRecorder{}
	runner, _ := newRunner(d, r, 5)

	err := runner.Run(t.Context(), orderID)

	require.NoError(t, err)
	assert.Equal(t, 1, d.calls)
	assert.Empty(t, r.recorded)
}

func TestDispatchRunner_NotYetReadyIsRetried(t *testing.T) {
	orderID := kernel.NewUUID()
	d := &fakeDispatcher{
		driver:  kernel.NewUUID(),
		results: []error{commands.NewNotReadyError(orderID, order.Pending), nil},
	}
	r := &fakeRecorder{}
	runner, _ := newRunner(d, r, 5)

	require.NoError(t, runner.Run(t.Context(), orderID))
	assert.Equal(t, 2, d.calls)
}

func TestDispatchRunner_PermanentErrorIsRecordedWithoutRetry(t *testing.T) {
	d := &fakeDispatcher{results: []error{errs.NewValueIsInvalidError("order")}}
	r := &fakeRecorder{}
	runner, _ := newRunner(d, r, 5)

	err := runner.Run(t.Context(), kernel.NewUUID())

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Equal(t, 1, d.calls)
	require.Len(t, r.recorded, 1)
	assert.Equal(t, 1, r.recorded[0].Attempts())
}

func TestDispatchRunner_CancelledContextRecordsNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	d := &fakeDispatcher{
		results: []error{commands.ErrNoDriverAvailable},
		hook:    func(int) { cancel() },
	}
	r := &fakeRecorder{}
	runner, _ := newRunner(d, r, 5)

	err := runner.Run(ctx, kernel.NewUUID())

	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, r.recorded)
}

func TestDispatchRunner_RecorderErrorIsLogged(t *testing.T) {
	d := &fakeDispatcher{results: []error{commands.ErrNoDriverAvailable}}
	r := &fakeRecorder{err: assert.AnError}
	runner, hook := newRunner(d, r, 0)

	err := runner.Run(t.Context(), kernel.NewUUID())

	require.ErrorIs(t, err, commands.ErrNoDriverAvailable)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "failed to record dispatch failure", hook.LastEntry().Message)
}

func TestDispatchRunner_RejectsZeroOrderID(t *testing.T) {
	runner, _ := newRunner(&fakeDispatcher{}, &fakeRecorder{}, 0)

	err := runner.Run(t.Context(), kernel.UUID{})

	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}
