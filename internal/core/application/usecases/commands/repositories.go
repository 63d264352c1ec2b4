// Package commands contains business operations that modify system state.
// Every handler follows the same shape: validate the command, open a unit of
// work, load and lock what it mutates, apply domain methods, write, commit.
package commands

import (
	"context"

	"marketplace/internal/core/ports"
)

type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	UserRepoFactory interface {
		UserRepository() ports.UserRepository
	}

	ProductRepoFactory interface {
		ProductRepository() ports.ProductRepository
	}

	DispatchFailureRepoFactory interface {
		DispatchFailureRepository() ports.DispatchFailureRepository
	}

	// OrderingUoW serves customer and shop actions on an order: item changes
	// and status changes. It reads the directory and the catalog.
	OrderingUoW interface {
		TxManager
		OrderRepoFactory
		UserRepoFactory
		ProductRepoFactory
	}

	OrderingUoWFactory interface {
		Create() OrderingUoW
	}

	// DispatchUoW serves the driver matcher and the operator channel.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   o, err := uow.OrderRepository().GetForUpdate(ctx, orderID)
	//   candidates, err := uow.UserRepository().FindDriverCandidates(ctx, o.TotalWeight())
	//   // ... select, lock, assign
	//
	//   err = uow.Commit(ctx)
	DispatchUoW interface {
		TxManager
		OrderRepoFactory
		UserRepoFactory
		DispatchFailureRepoFactory
	}

	DispatchUoWFactory interface {
		Create() DispatchUoW
	}
)
