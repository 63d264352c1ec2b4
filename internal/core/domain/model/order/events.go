package order

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
)

// StatusChanged is recorded by the aggregate on every status change and
// published once the unit of work that stored the change has committed.
type StatusChanged struct {
	EventID    kernel.UUID
	OrderID    kernel.UUID
	ShopID     kernel.UUID
	CustomerID *kernel.UUID
	DriverID   *kernel.UUID
	From       Status
	To         Status
	Actor      Actor
	OccurredAt time.Time
}

// RoutingKey names the event for topic based transports, e.g. "order.ready_to_collect".
func (e StatusChanged) RoutingKey() string {
	return "order." + e.To.String()
}
