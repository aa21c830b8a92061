package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-seat-booking/internal/booking"
	"github.com/iliyamo/cinema-seat-booking/internal/middleware"
	"github.com/iliyamo/cinema-seat-booking/internal/model"
)

// BookingService is what BookingHandler needs from the booking core.
type BookingService interface {
	StartBooking(ctx context.Context, sessionID string, req booking.Request) (*model.Reservation, error)
	ConfirmBooking(ctx context.Context, sessionID, paymentMethod string) (model.Order, error)
	GetPending(ctx context.Context, sessionID string) (*model.Reservation, error)
	CancelBooking(ctx context.Context, sessionID string) error
}

// BookingHandler drives the reservation lifecycle for the calling session.
// The Session middleware must run first; OptionalJWT lets signed-in
// customers book under their token identity and membership.
type BookingHandler struct {
	Svc BookingService
	Log *zap.Logger
}

func NewBookingHandler(svc BookingService, log *zap.Logger) *BookingHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &BookingHandler{Svc: svc, Log: log}
}

// SeatInput accepts seats either as a JSON array or as a single
// comma-separated string such as "A1, A2".
type SeatInput []string

func (s *SeatInput) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*s = model.NormalizeSeats(list)
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return errors.New("seats must be an array or a comma-separated string")
	}
	*s = model.ParseSeatList(raw)
	return nil
}

type startBookingRequest struct {
	Showtime    string    `json:"showtime"`
	TicketClass string    `json:"ticket_class"`
	Seats       SeatInput `json:"seats"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
}

type confirmRequest struct {
	PaymentMethod string `json:"payment_method"`
}

// Start handles POST /v1/movies/:id/bookings.  It validates the seat
// selection against confirmed orders, prices it and stores it as the
// session's held reservation.  Returns 201 with the reservation, 409 with
// the unavailable seats when any is already sold.
func (h *BookingHandler) Start(c echo.Context) error {
	movieID, ok := parseMovieID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	var body startBookingRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	customer, authed := middleware.CustomerFromContext(c)
	if !authed {
		// Guests identify themselves per booking and never get a discount.
		customer = model.Customer{Name: body.Name, Email: body.Email, Membership: model.TierGuest}
	}

	res, err := h.Svc.StartBooking(c.Request().Context(), middleware.SessionID(c), booking.Request{
		MovieID:     movieID,
		Showtime:    body.Showtime,
		TicketClass: body.TicketClass,
		Seats:       body.Seats,
		Customer:    customer,
	})
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, res)
}

// Pending handles GET /v1/bookings/pending.
func (h *BookingHandler) Pending(c echo.Context) error {
	res, err := h.Svc.GetPending(c.Request().Context(), middleware.SessionID(c))
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, res)
}

// Cancel handles DELETE /v1/bookings/pending and abandons the hold.
func (h *BookingHandler) Cancel(c echo.Context) error {
	if err := h.Svc.CancelBooking(c.Request().Context(), middleware.SessionID(c)); err != nil {
		return respondError(c, h.Log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Confirm handles POST /v1/bookings/confirm.  The body may carry a
// payment_method; it defaults to "N/A".  Returns 201 with the order.
func (h *BookingHandler) Confirm(c echo.Context) error {
	var body confirmRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	order, err := h.Svc.ConfirmBooking(c.Request().Context(), middleware.SessionID(c), body.PaymentMethod)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, order)
}
