package model

import "time"

// Order is a confirmed reservation.  It is append-only: once the order
// store has assigned an ID the record is never mutated.
type Order struct {
	ID             uint64         `json:"id"`
	MovieID        uint64         `json:"movie_id"`
	MovieTitle     string         `json:"movie_title"`
	Showtime       string         `json:"showtime"`
	TicketClass    TicketClass    `json:"ticket_class"`
	Seats          []string       `json:"seats"`
	CustomerName   string         `json:"customer_name"`
	CustomerEmail  string         `json:"customer_email"`
	Membership     MembershipTier `json:"membership"`
	TicketSubtotal int64          `json:"ticket_subtotal"`
	AdminFee       int64          `json:"admin_fee"`
	Total          int64          `json:"total"`
	SnackIncluded  bool           `json:"snack_included"`
	PaymentMethod  string         `json:"payment_method"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Key returns the showtime the order belongs to.
func (o Order) Key() ShowtimeKey {
	return ShowtimeKey{MovieID: o.MovieID, Showtime: o.Showtime}
}
