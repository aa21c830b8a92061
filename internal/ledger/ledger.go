// Package ledger is the authority on which seats are sold.  The booked set
// of a showtime and ticket class is derived from the confirmed orders; it
// is never stored separately.  Claiming seats recomputes the booked set
// and appends the order while holding a lock keyed by the showtime and
// class, so two claims on overlapping seats can never both win.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/iliyamo/cinema-seat-booking/internal/model"
)

// OrderStore is the append-only order log the ledger reads and writes.
type OrderStore interface {
	Append(ctx context.Context, o model.Order) (model.Order, error)
	ListByShowtime(ctx context.Context, key model.ShowtimeKey, class model.TicketClass) ([]model.Order, error)
}

// Locker serialises claims that share a key.  The returned unlock must be
// called exactly once.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// Ledger derives booked seats from an OrderStore and admits new orders.
type Ledger struct {
	store  OrderStore
	locker Locker
	log    *zap.Logger
}

// New returns a Ledger.  A nil locker uses an in-process KeyedMutex and a
// nil logger discards output.
func New(store OrderStore, locker Locker, log *zap.Logger) *Ledger {
	if locker == nil {
		locker = NewKeyedMutex()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Ledger{store: store, locker: locker, log: log}
}

// LockKey is the key claims on (key, class) are serialised under.
func LockKey(key model.ShowtimeKey, class model.TicketClass) string {
	return "seats:" + strconv.FormatUint(key.MovieID, 10) + ":" + key.Showtime + ":" + string(class)
}

// ListBooked returns every seat sold for the showtime and class, in the
// order the orders sold them.  Each seat appears once.
func (l *Ledger) ListBooked(ctx context.Context, key model.ShowtimeKey, class model.TicketClass) ([]string, error) {
	orders, err := l.store.ListByShowtime(ctx, key, class)
	if err != nil {
		return nil, fmt.Errorf("%w: list orders: %v", model.ErrPersistence, err)
	}
	return bookedSeats(orders), nil
}

// TryClaim appends o when none of its seats is already sold for its
// showtime and class.  On conflict it returns *model.SeatsUnavailableError
// naming every conflicting requested seat, and nothing is appended.
func (l *Ledger) TryClaim(ctx context.Context, o model.Order) (model.Order, error) {
	o.Seats = model.NormalizeSeats(o.Seats)
	if len(o.Seats) == 0 {
		return model.Order{}, model.ErrNoSeatsSelected
	}
	if !o.TicketClass.Valid() {
		return model.Order{}, model.ErrUnknownTicketClass
	}

	lockKey := LockKey(o.Key(), o.TicketClass)
	unlock, err := l.locker.Lock(ctx, lockKey)
	if err != nil {
		return model.Order{}, fmt.Errorf("%w: acquire %s: %v", model.ErrPersistence, lockKey, err)
	}
	defer unlock()

	booked, err := l.ListBooked(ctx, o.Key(), o.TicketClass)
	if err != nil {
		return model.Order{}, err
	}
	if conflicts := intersect(o.Seats, booked); len(conflicts) > 0 {
		l.log.Info("seat claim rejected",
			zap.String("lock", lockKey),
			zap.Strings("unavailable", conflicts))
		return model.Order{}, &model.SeatsUnavailableError{Seats: conflicts}
	}

	stored, err := l.store.Append(ctx, o)
	if err != nil {
		// The store's own uniqueness guard fired: another process sold
		// the seat between our read and our write.
		if errors.Is(err, model.ErrSeatsUnavailable) {
			return model.Order{}, err
		}
		return model.Order{}, fmt.Errorf("%w: append order: %v", model.ErrPersistence, err)
	}
	l.log.Info("seats claimed",
		zap.Uint64("order_id", stored.ID),
		zap.String("lock", lockKey),
		zap.Strings("seats", stored.Seats))
	return stored, nil
}

func bookedSeats(orders []model.Order) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	// Stores list newest first; walk oldest first so the result follows
	// the sale order.
	for i := len(orders) - 1; i >= 0; i-- {
		for _, s := range orders[i].Seats {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

// intersect returns the members of want found in have, in want's order.
func intersect(want, have []string) []string {
	set := make(map[string]struct{}, len(have))
	for _, s := range have {
		set[s] = struct{}{}
	}
	var out []string
	for _, s := range want {
		if _, ok := set[s]; ok {
			out = append(out, s)
		}
	}
	return out
}
