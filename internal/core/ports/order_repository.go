package ports

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// ErrConditionFailed is returned by conditional writes whose precondition no
// longer holds because another transaction changed the row.
var ErrConditionFailed = errors.New("conditional update matched no rows")

// OrderRepository stores Order aggregates together with their items.
// Not found lookups return errs.ObjectNotFoundError.
type OrderRepository interface {
	// Add stores a new order and its items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes the order row (status, totals, addresses) and upserts its items
	// in the same statement batch.
	Update(ctx context.Context, aggregate *order.Order) error

	// AssignDriver writes driver and status only if the stored status is still
	// ready_to_collect. Returns ErrConditionFailed otherwise.
	AssignDriver(ctx context.Context, aggregate *order.Order) error

	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate loads the order and locks its row until the transaction ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// FindOpenForUpdate returns the customer's order in Created status for the
	// given shop, locked, or an ObjectNotFoundError.
	FindOpenForUpdate(ctx context.Context, customerID, shopID kernel.UUID) (*order.Order, error)

	// GetActive returns every order that is neither delivered nor cancelled,
	// oldest first.
	GetActive(ctx context.Context) ([]*order.Order, error)

	// GetStaleReadyToCollect returns ids of orders that have been ready to
	// collect since before the given time and have no open dispatch failure.
	GetStaleReadyToCollect(ctx context.Context, before time.Time, limit int) ([]kernel.UUID, error)
}
