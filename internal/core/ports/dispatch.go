package ports

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/dispatch"
	"marketplace/internal/core/domain/model/kernel"
)

// ErrDispatchQueueFull is returned when a queue cannot take more work right now.
var ErrDispatchQueueFull = errors.New("dispatch queue is full")

// DispatchQueue accepts dispatch requests for asynchronous processing.
// Delivery is at least once; Enqueue never waits for the dispatch itself.
type DispatchQueue interface {
	Enqueue(ctx context.Context, orderID kernel.UUID) error
}

// DispatchFailureRepository stores terminal dispatch failures.
type DispatchFailureRepository interface {
	Add(ctx context.Context, failure *dispatch.Failure) error

	// ResolveOpen marks every open failure of the order as resolved and
	// returns how many were open.
	ResolveOpen(ctx context.Context, orderID kernel.UUID, at time.Time) (int64, error)

	// List returns failures, newest first. Resolved ones are included on request.
	List(ctx context.Context, includeResolved bool) ([]*dispatch.Failure, error)
}

// DeadLetterSink mirrors terminal failures to an external operator channel.
type DeadLetterSink interface {
	Send(ctx context.Context, failure *dispatch.Failure) error
}
