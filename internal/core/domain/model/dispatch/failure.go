// Package dispatch records dispatches that ran out of retries. Failures are the
// operator channel: they are listed for humans and resolved when an operator
// requests the dispatch again.
package dispatch

import (
	"errors"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// MaxErrorLength bounds the stored error text.
const MaxErrorLength = 1024

// Failure is a terminal dispatch failure for one order.
type Failure struct {
	id         kernel.UUID
	orderID    kernel.UUID
	attempts   int
	lastError  string
	failedAt   time.Time
	resolvedAt *time.Time
}

// NewFailure records that dispatching orderID gave up after attempts tries.
func NewFailure(orderID kernel.UUID, attempts int, lastErr error) (*Failure, error) {
	var attemptsErr, causeErr error
	if attempts <= 0 {
		attemptsErr = errs.NewValueIsOutOfRangeError("attempts", attempts, 1, "unbounded")
	}
	if lastErr == nil {
		causeErr = errs.NewValueIsRequiredError("last error")
	}
	if err := errors.Join(orderID.Validate(), attemptsErr, causeErr); err != nil {
		return nil, err
	}

	return &Failure{
		id:        kernel.NewUUID(),
		orderID:   orderID,
		attempts:  attempts,
		lastError: truncate(lastErr.Error()),
		failedAt:  time.Now().UTC(),
	}, nil
}

// RestoreFailure rebuilds a stored failure.
func RestoreFailure(id, orderID kernel.UUID, attempts int, lastError string, failedAt time.Time, resolvedAt *time.Time) (*Failure, error) {
	if err := errors.Join(id.Validate(), orderID.Validate()); err != nil {
		return nil, err
	}
	return &Failure{
		id:         id,
		orderID:    orderID,
		attempts:   attempts,
		lastError:  lastError,
		failedAt:   failedAt,
		resolvedAt: resolvedAt,
	}, nil
}

func (f *Failure) ID() kernel.UUID {
	return f.id
}

func (f *Failure) OrderID() kernel.UUID {
	return f.orderID
}

func (f *Failure) Attempts() int {
	return f.attempts
}

func (f *Failure) LastError() string {
	return f.lastError
}

func (f *Failure) FailedAt() time.Time {
	return f.failedAt
}

func (f *Failure) ResolvedAt() *time.Time {
	return f.resolvedAt
}

func (f *Failure) IsResolved() bool {
	return f.resolvedAt != nil
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= MaxErrorLength {
		return s
	}
	return s[:MaxErrorLength]
}
