// Package events fans committed order status changes out to subscribers.
package events

import (
	"time"

	"marketplace/internal/core/domain/model/order"
)

// StatusChangedMessage is the wire form of order.StatusChanged shared by
// every transport.
type StatusChangedMessage struct {
	EventID    string    `json:"event_id"`
	OrderID    string    `json:"order_id"`
	ShopID     string    `json:"shop_id"`
	CustomerID *string   `json:"customer_id,omitempty"`
	DriverID   *string   `json:"driver_id,omitempty"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Actor      string    `json:"actor"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewStatusChangedMessage(e order.StatusChanged) StatusChangedMessage {
	msg := StatusChangedMessage{
		EventID:    e.EventID.String(),
		OrderID:    e.OrderID.String(),
		ShopID:     e.ShopID.String(),
		From:       e.From.String(),
		To:         e.To.String(),
		Actor:      e.Actor.String(),
		OccurredAt: e.OccurredAt,
	}
	if e.CustomerID != nil {
		id := e.CustomerID.String()
		msg.CustomerID = &id
	}
	if e.DriverID != nil {
		id := e.DriverID.String()
		msg.DriverID = &id
	}
	return msg
}
