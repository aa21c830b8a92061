package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/iliyamo/cinema-seat-booking/internal/model"
)

// MemoryOrderRepo is an in-process order store.  It starts empty, grows
// only by Append and lives as long as the process.  Like the MySQL store
// it refuses an order that would sell an already sold seat.
type MemoryOrderRepo struct {
	mu     sync.RWMutex
	orders []model.Order
	sold   map[seatKey]uint64
	nextID uint64
}

type seatKey struct {
	key   model.ShowtimeKey
	class model.TicketClass
	seat  string
}

// NewMemoryOrderRepo returns an empty store.
func NewMemoryOrderRepo() *MemoryOrderRepo {
	return &MemoryOrderRepo{sold: make(map[seatKey]uint64), nextID: 1}
}

// Append assigns the next ID and stores a copy of o.
func (r *MemoryOrderRepo) Append(_ context.Context, o model.Order) (model.Order, error) {
	if len(o.Seats) == 0 {
		return model.Order{}, model.ErrNoSeatsSelected
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var conflicts []string
	for _, s := range o.Seats {
		if _, taken := r.sold[seatKey{o.Key(), o.TicketClass, s}]; taken {
			conflicts = append(conflicts, s)
		}
	}
	if len(conflicts) > 0 {
		return model.Order{}, &model.SeatsUnavailableError{Seats: conflicts}
	}

	o.ID = r.nextID
	r.nextID++
	o.Seats = append([]string(nil), o.Seats...)
	for _, s := range o.Seats {
		r.sold[seatKey{o.Key(), o.TicketClass, s}] = o.ID
	}
	r.orders = append(r.orders, o)
	return cloneOrder(o), nil
}

// ListAll returns every order, newest first.
func (r *MemoryOrderRepo) ListAll(_ context.Context) ([]model.Order, error) {
	return r.filter(func(model.Order) bool { return true }), nil
}

// ListByCustomerEmail returns orders placed with email, newest first.
func (r *MemoryOrderRepo) ListByCustomerEmail(_ context.Context, email string) ([]model.Order, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.filter(func(o model.Order) bool { return strings.ToLower(o.CustomerEmail) == email }), nil
}

// ListByShowtime returns the orders for one showtime and class.
func (r *MemoryOrderRepo) ListByShowtime(_ context.Context, key model.ShowtimeKey, class model.TicketClass) ([]model.Order, error) {
	return r.filter(func(o model.Order) bool { return o.Key() == key && o.TicketClass == class }), nil
}

func (r *MemoryOrderRepo) filter(keep func(model.Order) bool) []model.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []model.Order{}
	for i := len(r.orders) - 1; i >= 0; i-- {
		if keep(r.orders[i]) {
			out = append(out, cloneOrder(r.orders[i]))
		}
	}
	return out
}

func cloneOrder(o model.Order) model.Order {
	o.Seats = append([]string(nil), o.Seats...)
	return o
}
