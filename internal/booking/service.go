// Package booking runs the reservation lifecycle: a booking request is
// validated and priced into a HELD reservation owned by the requesting
// session, and only an explicit confirmation turns it into an order
// through the seat ledger.
package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-seat-booking/internal/catalog"
	"github.com/iliyamo/cinema-seat-booking/internal/ledger"
	"github.com/iliyamo/cinema-seat-booking/internal/model"
	"github.com/iliyamo/cinema-seat-booking/internal/pricing"
)

// DefaultPendingTTL bounds how long a held reservation waits for payment.
const DefaultPendingTTL = 15 * time.Minute

// OrderReader lists confirmed orders for admin and profile views.
type OrderReader interface {
	ListAll(ctx context.Context) ([]model.Order, error)
	ListByCustomerEmail(ctx context.Context, email string) ([]model.Order, error)
}

// PendingStore keeps at most one held reservation per session.
type PendingStore interface {
	Get(ctx context.Context, sessionID string) (*model.Reservation, error)
	Put(ctx context.Context, sessionID string, res *model.Reservation, ttl time.Duration) error
	Delete(ctx context.Context, sessionID string) error
	// DeleteIf removes the hold only while it is still reservation resID.
	DeleteIf(ctx context.Context, sessionID, resID string) (bool, error)
}

// EventPublisher announces confirmed orders.
type EventPublisher interface {
	PublishOrderConfirmed(ctx context.Context, o model.Order) error
}

// Request is a booking submission from the web layer.
type Request struct {
	MovieID     uint64
	Showtime    string
	TicketClass string
	Seats       []string
	Customer    model.Customer
}

// Availability maps each ticket class to its booked seats.  Both classes
// are always present.
type Availability map[model.TicketClass][]string

// Service is safe for concurrent use.
type Service struct {
	catalog catalog.Gateway
	ledger  *ledger.Ledger
	orders  OrderReader
	pending PendingStore
	events  EventPublisher
	log     *zap.Logger

	pendingTTL time.Duration
	now        func() time.Time
	newID      func() string
}

// Option customises a Service.
type Option func(*Service)

// WithEvents publishes confirmed orders to p.
func WithEvents(p EventPublisher) Option { return func(s *Service) { s.events = p } }

// WithPendingTTL sets how long held reservations live.
func WithPendingTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.pendingTTL = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// WithIDGenerator replaces the reservation ID generator.
func WithIDGenerator(f func() string) Option { return func(s *Service) { s.newID = f } }

func New(cat catalog.Gateway, led *ledger.Ledger, orders OrderReader, pending PendingStore, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		catalog:    cat,
		ledger:     led,
		orders:     orders,
		pending:    pending,
		log:        log,
		pendingTTL: DefaultPendingTTL,
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// StartBooking validates req, checks the seats against the ledger, prices
// the selection and stores it as the session's HELD reservation, replacing
// any previous one.  Held seats are not booked: another session may hold
// the same seats and the first to confirm wins.
func (s *Service) StartBooking(ctx context.Context, sessionID string, req Request) (*model.Reservation, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("%w: session id required", model.ErrInvalidInput)
	}
	class, err := model.ParseTicketClass(req.TicketClass)
	if err != nil {
		return nil, err
	}
	seats := model.NormalizeSeats(req.Seats)
	if len(seats) == 0 {
		return nil, model.ErrNoSeatsSelected
	}
	if err := model.CheckSeatIDs(seats); err != nil {
		return nil, err
	}
	customer, err := normalizeCustomer(req.Customer)
	if err != nil {
		return nil, err
	}

	movie, err := s.lookupShowtime(ctx, req.MovieID, req.Showtime)
	if err != nil {
		return nil, err
	}
	key := model.ShowtimeKey{MovieID: movie.ID, Showtime: req.Showtime}

	res := model.NewDraft(s.newID(), customer, key, movie.Title, class, seats, s.now())

	booked, err := s.ledger.ListBooked(ctx, key, class)
	if err != nil {
		return nil, err
	}
	if conflicts := unavailable(res.Seats, booked); len(conflicts) > 0 {
		_ = res.Abandon()
		return nil, &model.SeatsUnavailableError{Seats: conflicts}
	}

	price, err := pricing.ForMovie(movie, class, customer.Membership, len(res.Seats))
	if err != nil {
		return nil, err
	}
	if err := res.Hold(price, s.now().Add(s.pendingTTL)); err != nil {
		return nil, err
	}
	if err := s.pending.Put(ctx, sessionID, res, s.pendingTTL); err != nil {
		return nil, fmt.Errorf("%w: store pending reservation: %v", model.ErrPersistence, err)
	}

	s.log.Info("reservation held",
		zap.String("reservation_id", res.ID),
		zap.Uint64("movie_id", key.MovieID),
		zap.String("showtime", key.Showtime),
		zap.String("ticket_class", string(class)),
		zap.Strings("seats", res.Seats),
		zap.Int64("total", price.Total))
	return res, nil
}

// ConfirmBooking claims the session's held seats and records the order.
// When the seats were sold in the meantime the hold is discarded and the
// customer must start over.  A persistence failure leaves the hold in
// place so the caller can resubmit explicitly.
func (s *Service) ConfirmBooking(ctx context.Context, sessionID, paymentMethod string) (model.Order, error) {
	res, err := s.GetPending(ctx, sessionID)
	if err != nil {
		return model.Order{}, err
	}
	pending, err := res.PendingOrder(paymentMethod, s.now())
	if err != nil {
		return model.Order{}, err
	}

	order, err := s.ledger.TryClaim(ctx, pending)
	if err != nil {
		if model.IsConflictError(err) {
			_ = res.Abandon()
			s.dropPending(ctx, sessionID, res.ID)
			s.log.Info("confirmation lost seat race",
				zap.String("reservation_id", res.ID),
				zap.Error(err))
		} else {
			s.log.Error("confirmation failed",
				zap.String("reservation_id", res.ID),
				zap.Error(err))
		}
		return model.Order{}, err
	}

	if err := res.MarkConfirmed(order); err != nil {
		return model.Order{}, err
	}
	s.dropPending(ctx, sessionID, res.ID)
	s.log.Info("order confirmed",
		zap.Uint64("order_id", order.ID),
		zap.String("reservation_id", res.ID),
		zap.Int64("total", order.Total))

	if s.events != nil {
		if err := s.events.PublishOrderConfirmed(ctx, order); err != nil {
			s.log.Warn("publish order confirmed failed", zap.Uint64("order_id", order.ID), zap.Error(err))
		}
	}
	return order, nil
}

// GetPending returns the session's held reservation.
func (s *Service) GetPending(ctx context.Context, sessionID string) (*model.Reservation, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, model.ErrNoPendingReservation
	}
	res, err := s.pending.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, model.ErrNoPendingReservation) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: load pending reservation: %v", model.ErrPersistence, err)
	}
	if res.Expired(s.now()) {
		s.dropPending(ctx, sessionID, res.ID)
		return nil, model.ErrNoPendingReservation
	}
	return res, nil
}

// CancelBooking abandons the session's held reservation.
func (s *Service) CancelBooking(ctx context.Context, sessionID string) error {
	res, err := s.GetPending(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := res.Abandon(); err != nil {
		return err
	}
	if err := s.pending.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("%w: delete pending reservation: %v", model.ErrPersistence, err)
	}
	s.log.Info("reservation abandoned", zap.String("reservation_id", res.ID))
	return nil
}

// GetAvailability returns the booked seats of one showtime per class.
func (s *Service) GetAvailability(ctx context.Context, movieID uint64, showtime string) (Availability, error) {
	movie, err := s.lookupShowtime(ctx, movieID, showtime)
	if err != nil {
		return nil, err
	}
	return s.availability(ctx, model.ShowtimeKey{MovieID: movie.ID, Showtime: showtime})
}

// GetAvailabilityAll returns GetAvailability for every showtime of the movie.
func (s *Service) GetAvailabilityAll(ctx context.Context, movieID uint64) (map[string]Availability, error) {
	movie, err := s.catalog.GetMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Availability, len(movie.Showtimes))
	for _, st := range movie.Showtimes {
		a, err := s.availability(ctx, model.ShowtimeKey{MovieID: movie.ID, Showtime: st})
		if err != nil {
			return nil, err
		}
		out[st] = a
	}
	return out, nil
}

// ListOrders returns every order, newest first.
func (s *Service) ListOrders(ctx context.Context) ([]model.Order, error) {
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list orders: %v", model.ErrPersistence, err)
	}
	return orders, nil
}

// ListOrdersForCustomer returns the orders placed with email.
func (s *Service) ListOrdersForCustomer(ctx context.Context, email string) ([]model.Order, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email required", model.ErrInvalidInput)
	}
	orders, err := s.orders.ListByCustomerEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: list orders: %v", model.ErrPersistence, err)
	}
	return orders, nil
}

// ListMovies exposes the catalog for the web layer.
func (s *Service) ListMovies(ctx context.Context) ([]model.Movie, error) {
	return s.catalog.ListMovies(ctx)
}

// GetMovie exposes a single catalog entry.
func (s *Service) GetMovie(ctx context.Context, id uint64) (model.Movie, error) {
	return s.catalog.GetMovie(ctx, id)
}

// ListSeats returns the seat grid.
func (s *Service) ListSeats() []string { return s.catalog.ListSeats() }

func (s *Service) availability(ctx context.Context, key model.ShowtimeKey) (Availability, error) {
	out := make(Availability, len(model.TicketClasses))
	for _, class := range model.TicketClasses {
		booked, err := s.ledger.ListBooked(ctx, key, class)
		if err != nil {
			return nil, err
		}
		out[class] = booked
	}
	return out, nil
}

func (s *Service) lookupShowtime(ctx context.Context, movieID uint64, showtime string) (model.Movie, error) {
	movie, err := s.catalog.GetMovie(ctx, movieID)
	if err != nil {
		return model.Movie{}, err
	}
	if !movie.HasShowtime(showtime) {
		return model.Movie{}, fmt.Errorf("showtime %q of movie %d: %w", showtime, movieID, model.ErrNotFound)
	}
	return movie, nil
}

// dropPending removes the session's hold if it is still resID.  A newer
// submission stored meanwhile is left alone.
func (s *Service) dropPending(ctx context.Context, sessionID, resID string) {
	if _, err := s.pending.DeleteIf(ctx, sessionID, resID); err != nil {
		s.log.Warn("drop pending reservation failed",
			zap.String("reservation_id", resID),
			zap.Error(err))
	}
}

func normalizeCustomer(c model.Customer) (model.Customer, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	if c.Name == "" || c.Email == "" {
		return model.Customer{}, fmt.Errorf("%w: customer name and email required", model.ErrInvalidInput)
	}
	if utf8.RuneCountInString(c.Name) > model.MaxCustomerNameLen || utf8.RuneCountInString(c.Email) > model.MaxCustomerEmailLen {
		return model.Customer{}, fmt.Errorf("%w: customer name or email too long", model.ErrInvalidInput)
	}
	c.Membership = model.ParseMembershipTier(string(c.Membership))
	return c, nil
}

func unavailable(want, booked []string) []string {
	set := make(map[string]struct{}, len(booked))
	for _, s := range booked {
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
