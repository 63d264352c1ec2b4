package commands

import (
	"context"
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// DefaultMaxDispatchConflicts bounds how often one attempt restarts the
// driver search after losing a race.
const DefaultMaxDispatchConflicts = 3

// DispatchOrderCommandHandler assigns a ready order to an eligible driver.
//
// One attempt runs in one transaction:
//  1. lock the order row; it must be ReadyToCollect
//  2. query candidates (active drivers with enough capacity, by id)
//  3. let the matcher pick the lowest eligible id
//  4. lock the chosen driver row and re-read its active deliveries
//  5. re-check eligibility on the locked data and write the assignment
//     conditionally on the order still being ReadyToCollect
//
// Losing a race in step 4 or 5, or a commit aborted by the database, rolls
// the attempt back and restarts the search, at most maxConflicts times.
type DispatchOrderCommandHandler struct {
	uowFactory   DispatchUoWFactory
	matcher      services.DriverMatcher
	maxConflicts int
}

func NewDispatchOrderCommandHandler(uowFactory DispatchUoWFactory, maxConflicts int) DispatchOrderCommandHandler {
	if maxConflicts <= 0 {
		maxConflicts = DefaultMaxDispatchConflicts
	}
	return DispatchOrderCommandHandler{
		uowFactory:   uowFactory,
		matcher:      services.NewDriverMatcher(),
		maxConflicts: maxConflicts,
	}
}

// Handle returns the id of the assigned driver.
func (h DispatchOrderCommandHandler) Handle(ctx context.Context, cmd DispatchOrderCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	var err error
	for range h.maxConflicts {
		var driverID kernel.UUID
		driverID, err = h.attempt(ctx, cmd.OrderID())
		if !errors.Is(err, ErrConcurrencyConflict) {
			return driverID, err
		}
	}
	return kernel.UUID{}, err
}

func (h DispatchOrderCommandHandler) attempt(ctx context.Context, orderID kernel.UUID) (kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ordersRepo := uow.OrderRepository()
	usersRepo := uow.UserRepository()

	o, err := ordersRepo.GetForUpdate(ctx, orderID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return kernel.UUID{}, orderNotFound(orderID)
	}
	if err != nil {
		return kernel.UUID{}, err
	}

	if o.Status() != order.ReadyToCollect {
		return kernel.UUID{}, NewNotReadyError(o.ID(), o.Status())
	}

	candidates, err := usersRepo.FindDriverCandidates(ctx, o.TotalWeight())
	if err != nil {
		return kernel.UUID{}, err
	}

	chosen, err := h.matcher.SelectDriver(o, candidates)
	if err != nil {
		return kernel.UUID{}, err
	}

	locked, err := usersRepo.LockDriverCandidate(ctx, chosen.ID())
	if err != nil {
		return kernel.UUID{}, err
	}

	driver, err := h.matcher.Dispatch(o, []services.DriverCandidate{locked})
	if errors.Is(err, services.ErrNoDriverAvailable) {
		return kernel.UUID{}, fmt.Errorf("%w: driver %s was claimed", ErrConcurrencyConflict, chosen.ID())
	}
	if err != nil {
		return kernel.UUID{}, err
	}

	err = ordersRepo.AssignDriver(ctx, o)
	if errors.Is(err, ports.ErrConditionFailed) {
		return kernel.UUID{}, fmt.Errorf("%w: order %s changed", ErrConcurrencyConflict, o.ID())
	}
	if err != nil {
		return kernel.UUID{}, err
	}

	err = uow.Commit(ctx)
	if errors.Is(err, ports.ErrTransactionConflict) {
		return kernel.UUID{}, fmt.Errorf("%w: %w", ErrConcurrencyConflict, err)
	}
	if err != nil {
		return kernel.UUID{}, err
	}

	return driver.ID(), nil
}
