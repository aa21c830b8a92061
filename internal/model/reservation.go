package model

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// ReservationState is the lifecycle state of one booking attempt.
//
//	DRAFT -> HELD -> CONFIRMED
//	DRAFT | HELD -> ABANDONED
type ReservationState string

const (
	StateDraft     ReservationState = "DRAFT"
	StateHeld      ReservationState = "HELD"
	StateConfirmed ReservationState = "CONFIRMED"
	StateAbandoned ReservationState = "ABANDONED"
)

// Terminal reports whether no further transition is allowed.
func (s ReservationState) Terminal() bool {
	return s == StateConfirmed || s == StateAbandoned
}

// DefaultPaymentMethod is recorded when confirmation carries no method.
const DefaultPaymentMethod = "N/A"

// Stored field limits, in characters.
const (
	MaxPaymentMethodLen = 255
	MaxCustomerNameLen  = 120
	MaxCustomerEmailLen = 190
)

// PriceBreakdown is the itemized price of a reservation in the smallest
// currency unit.  Total = TicketSubtotal + AdminFee.
type PriceBreakdown struct {
	UnitPrice      int64 `json:"unit_price"` // per seat, after membership discount
	TicketSubtotal int64 `json:"ticket_subtotal"`
	AdminFee       int64 `json:"admin_fee"`
	Total          int64 `json:"total"`
	SnackIncluded  bool  `json:"snack_included"`
}

// Reservation is the unit of work for one customer action.  It is owned by
// the requesting session until confirmed, at which point an Order is
// derived from it and the working copy is discarded.
//
// Fields:
//
//	ID          – opaque reservation reference returned to the client.
//	Customer    – requester identity and membership tier.
//	Showtime    – movie and showtime label being booked.
//	TicketClass – Regular or VIP; selects the occupancy namespace.
//	Seats       – ordered, unique, non-empty once held.
//	Price       – nil while DRAFT, resolved once HELD.
//	ExpiresAt   – when an unconfirmed hold is implicitly abandoned.
type Reservation struct {
	ID            string           `json:"id"`
	Customer      Customer         `json:"customer"`
	Showtime      ShowtimeKey      `json:"showtime"`
	MovieTitle    string           `json:"movie_title"`
	TicketClass   TicketClass      `json:"ticket_class"`
	Seats         []string         `json:"seats"`
	Price         *PriceBreakdown  `json:"price,omitempty"`
	PaymentMethod string           `json:"payment_method,omitempty"`
	State         ReservationState `json:"state"`
	OrderID       uint64           `json:"order_id,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	ExpiresAt     time.Time        `json:"expires_at"`
}

// NewDraft starts a reservation in DRAFT.  Seats are normalized but not
// validated against the ledger.
func NewDraft(id string, customer Customer, key ShowtimeKey, title string, class TicketClass, seats []string, now time.Time) *Reservation {
	return &Reservation{
		ID:          id,
		Customer:    customer,
		Showtime:    key,
		MovieTitle:  title,
		TicketClass: class,
		Seats:       NormalizeSeats(seats),
		State:       StateDraft,
		CreatedAt:   now.UTC(),
	}
}

// Hold moves DRAFT -> HELD with the computed price.  A held reservation
// always has seats and a price.
func (r *Reservation) Hold(price PriceBreakdown, expiresAt time.Time) error {
	if r.State != StateDraft {
		return fmt.Errorf("%w: hold from %s", ErrInvalidTransition, r.State)
	}
	if len(r.Seats) == 0 {
		return ErrNoSeatsSelected
	}
	r.Price = &price
	r.ExpiresAt = expiresAt.UTC()
	r.State = StateHeld
	return nil
}

// Expired reports whether a held reservation outlived its hold window.
func (r *Reservation) Expired(now time.Time) bool {
	return r.State == StateHeld && !r.ExpiresAt.IsZero() && !now.Before(r.ExpiresAt)
}

// PendingOrder builds the Order that confirming this reservation would
// write.  The reservation itself is not modified; the ID is left for the
// order store to assign.
func (r *Reservation) PendingOrder(paymentMethod string, now time.Time) (Order, error) {
	if r.State != StateHeld || r.Price == nil {
		return Order{}, fmt.Errorf("%w: confirm from %s", ErrInvalidTransition, r.State)
	}
	paymentMethod = strings.TrimSpace(paymentMethod)
	if paymentMethod == "" {
		paymentMethod = DefaultPaymentMethod
	}
	if utf8.RuneCountInString(paymentMethod) > MaxPaymentMethodLen {
		return Order{}, fmt.Errorf("%w: payment method longer than %d characters", ErrInvalidInput, MaxPaymentMethodLen)
	}
	seats := make([]string, len(r.Seats))
	copy(seats, r.Seats)
	return Order{
		MovieID:        r.Showtime.MovieID,
		MovieTitle:     r.MovieTitle,
		Showtime:       r.Showtime.Showtime,
		TicketClass:    r.TicketClass,
		Seats:          seats,
		CustomerName:   r.Customer.Name,
		CustomerEmail:  r.Customer.Email,
		Membership:     r.Customer.Membership,
		TicketSubtotal: r.Price.TicketSubtotal,
		AdminFee:       r.Price.AdminFee,
		Total:          r.Price.Total,
		SnackIncluded:  r.Price.SnackIncluded,
		PaymentMethod:  paymentMethod,
		CreatedAt:      now.UTC(),
	}, nil
}

// MarkConfirmed records the persisted order and makes the reservation
// terminal.
func (r *Reservation) MarkConfirmed(o Order) error {
	if r.State != StateHeld {
		return fmt.Errorf("%w: confirm from %s", ErrInvalidTransition, r.State)
	}
	r.OrderID = o.ID
	r.PaymentMethod = o.PaymentMethod
	r.State = StateConfirmed
	return nil
}

// Abandon discards a DRAFT or HELD reservation.
func (r *Reservation) Abandon() error {
	if r.State.Terminal() {
		return fmt.Errorf("%w: abandon from %s", ErrInvalidTransition, r.State)
	}
	r.State = StateAbandoned
	return nil
}
