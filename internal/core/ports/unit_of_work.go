package ports

import (
	"context"
	"errors"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary. Repositories obtained from it
// after Begin share the transaction. Events of the aggregates written through
// it are published after a successful Commit.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	UserRepository() UserRepository
	ProductRepository() ProductRepository
	DispatchFailureRepository() DispatchFailureRepository
}

// ErrTransactionConflict is returned by Commit when the database aborted the
// transaction because of a concurrent one. Running the operation again may succeed.
var ErrTransactionConflict = errors.New("transaction conflict")
