// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"time"

	"github.com/iliyamo/cinema-seat-booking/internal/model"
)

// OrdersConfirmedQueue is the durable queue confirmed orders are published to.
const OrdersConfirmedQueue = "orders.confirmed"

// OrderConfirmedEvent is published when a reservation is successfully confirmed.
// It contains enough information for downstream consumers to log, notify, or
// trigger analytics without querying the order store.
type OrderConfirmedEvent struct {
	OrderID       uint64   `json:"order_id"`
	MovieID       uint64   `json:"movie_id"`
	MovieTitle    string   `json:"movie_title"`
	Showtime      string   `json:"showtime"`
	TicketClass   string   `json:"ticket_class"`
	Seats         []string `json:"seats"`
	CustomerName  string   `json:"customer_name"`
	CustomerEmail string   `json:"customer_email"`
	Membership    string   `json:"membership"`
	Total         int64    `json:"total"`
	PaymentMethod string   `json:"payment_method"`
	ConfirmedAt   string   `json:"confirmed_at"`
}

// NewOrderConfirmedEvent builds the event for a stored order.
func NewOrderConfirmedEvent(o model.Order) OrderConfirmedEvent {
	return OrderConfirmedEvent{
		OrderID:       o.ID,
		MovieID:       o.MovieID,
		MovieTitle:    o.MovieTitle,
		Showtime:      o.Showtime,
		TicketClass:   string(o.TicketClass),
		Seats:         append([]string(nil), o.Seats...),
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		Membership:    string(o.Membership),
		Total:         o.Total,
		PaymentMethod: o.PaymentMethod,
		ConfirmedAt:   o.CreatedAt.UTC().Format(time.RFC3339),
	}
}
