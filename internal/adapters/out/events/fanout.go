package events

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
)

var _ ports.OrderEventPublisher = Fanout{}

// Fanout delivers every event to all publishers, even when some fail.
type Fanout []ports.OrderEventPublisher

func (f Fanout) Publish(ctx context.Context, events ...order.StatusChanged) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, events...); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
