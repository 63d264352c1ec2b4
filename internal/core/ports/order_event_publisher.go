package ports

import (
	"context"

	"marketplace/internal/core/domain/model/order"
)

// OrderEventPublisher delivers committed order status changes to subscribers.
// Publishing is best effort: the change is already durable.
type OrderEventPublisher interface {
	Publish(ctx context.Context, events ...order.StatusChanged) error
}
