package jobs

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/dispatch"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

// RetryPolicy configures the exponential backoff between dispatch attempts.
type RetryPolicy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	// MaxRetries counts retries after the first attempt.
	MaxRetries uint64
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		InitialInterval: time.Second,
		MaxInterval:     30 * time.Second,
		Multiplier:      2,
		MaxRetries:      5,
	}
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.InitialInterval
	exp.MaxInterval = p.MaxInterval
	if p.Multiplier > 0 {
		exp.Multiplier = p.Multiplier
	}
	exp.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(exp, p.MaxRetries), ctx)
}

type dispatchHandler interface {
	Handle(ctx context.Context, cmd commands.DispatchOrderCommand) (kernel.UUID, error)
}

type failureRecorder interface {
	Handle(ctx context.Context, cmd commands.RecordDispatchFailureCommand) (*dispatch.Failure, error)
}

// DispatchRunner carries one dispatch request to its end: an assigned
// driver, a settled order, or a recorded failure.
type DispatchRunner struct {
	dispatcher dispatchHandler
	recorder   failureRecorder
	policy     RetryPolicy
	logger     logrus.FieldLogger
}

func NewDispatchRunner(
	dispatcher dispatchHandler,
	recorder failureRecorder,
	policy RetryPolicy,
	logger logrus.FieldLogger,
) *DispatchRunner {
	return &DispatchRunner{
		dispatcher: dispatcher,
		recorder:   recorder,
		policy:     policy,
		logger:     logger.WithField("component", "dispatch_runner"),
	}
}

// Run retries retryable failures with backoff. Once retries are exhausted, or
// on an error that retrying cannot fix, the failure is recorded for
// operators and returned. The order is left ready to collect.
//
// An order that is already past readiness is settled: Run returns nil.
// Cancelling ctx stops retrying without recording anything.
func (r *DispatchRunner) Run(ctx context.Context, orderID kernel.UUID) error {
	cmd, err := commands.NewDispatchOrderCommand(orderID)
	if err != nil {
		return err
	}

	log := r.logger.WithField("order_id", orderID.String())
	attempts := 0

	operation := func() error {
		attempts++
		driverID, opErr := r.dispatcher.Handle(ctx, cmd)
		if opErr == nil {
			log.WithFields(logrus.Fields{
				"driver_id": driverID.String(),
				"attempts":  attempts,
			}).Info("order assigned to driver")
			return nil
		}
		if !commands.IsRetryable(opErr) {
			return backoff.Permanent(opErr)
		}
		return opErr
	}
	notify := func(opErr error, wait time.Duration) {
		log.WithError(opErr).WithFields(logrus.Fields{
			"attempt": attempts,
			"retry":   wait.String(),
		}).Warn("dispatch attempt failed")
	}

	err = backoff.RetryNotify(operation, r.policy.backOff(ctx), notify)
	if err == nil {
		return nil
	}

	var notReady *commands.NotReadyError
	if errors.As(err, &notReady) && notReady.IsSettled() {
		log.WithField("status", notReady.Status.String()).Info("dispatch request settled")
		return nil
	}
	if ctx.Err() != nil {
		log.WithError(err).Info("dispatch interrupted")
		return ctx.Err()
	}

	log.WithError(err).WithField("attempts", attempts).Error("dispatch failed")
	record, recErr := commands.NewRecordDispatchFailureCommand(orderID, attempts, err)
	if recErr == nil {
		_, recErr = r.recorder.Handle(context.WithoutCancel(ctx), record)
	}
	if recErr != nil {
		log.WithError(recErr).Error("failed to record dispatch failure")
	}
	return err
}
