package commands

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrRequeueStaleDispatchesCommandIsNotConstructed = errors.New(
	"RequeueStaleDispatchesCommand must be created via NewRequeueStaleDispatchesCommand constructor",
)

// RequeueStaleDispatchesCommand finds orders that have been waiting for a
// driver longer than staleAfter and are not parked on the operator channel.
type RequeueStaleDispatchesCommand struct {
	staleAfter time.Duration
	limit      int

	guard guard.ConstructorGuard
}

func NewRequeueStaleDispatchesCommand(staleAfter time.Duration, limit int) (RequeueStaleDispatchesCommand, error) {
	var staleErr, limitErr error
	if staleAfter <= 0 {
		staleErr = errs.NewValueIsInvalidErrorWithCause("stale after", fmt.Errorf("%s is not positive", staleAfter))
	}
	if limit <= 0 {
		limitErr = errs.NewValueIsInvalidErrorWithCause("limit", fmt.Errorf("%d is not greater than 0", limit))
	}
	if err := errors.Join(staleErr, limitErr); err != nil {
		return RequeueStaleDispatchesCommand{}, err
	}

	return RequeueStaleDispatchesCommand{
		staleAfter: staleAfter,
		limit:      limit,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c RequeueStaleDispatchesCommand) Validate() error {
	return c.guard.Validate(ErrRequeueStaleDispatchesCommandIsNotConstructed)
}

func (c RequeueStaleDispatchesCommand) StaleAfter() time.Duration {
	return c.staleAfter
}

func (c RequeueStaleDispatchesCommand) Limit() int {
	return c.limit
}
