package model

import (
	"errors"
	"strings"
)

// Error taxonomy shared by the pricing engine, seat ledger and booking
// lifecycle.  Handlers translate these into HTTP status codes.
var (
	// ErrInvalidInput is returned synchronously for malformed requests; no
	// side effects have happened when it is seen.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoSeatsSelected is an InvalidInput for an empty seat selection.
	ErrNoSeatsSelected = wrapInvalid("no seats selected")
	// ErrUnknownTicketClass is an InvalidInput for an unrecognised class.
	ErrUnknownTicketClass = wrapInvalid("unknown ticket class")
	// ErrInvalidSeatCount is an InvalidInput for a non-positive seat count.
	ErrInvalidSeatCount = wrapInvalid("seat count must be greater than zero")

	// ErrSeatsUnavailable is matched by *SeatsUnavailableError.
	ErrSeatsUnavailable = errors.New("seats unavailable")
	// ErrNotFound covers unknown movies and showtimes.
	ErrNotFound = errors.New("not found")
	// ErrNoPendingReservation means the session holds nothing to confirm.
	ErrNoPendingReservation = errors.New("no pending reservation")
	// ErrPersistence wraps order store failures.  Never retried here.
	ErrPersistence = errors.New("persistence failure")
	// ErrInvalidTransition is returned when a reservation is moved out of
	// a state that does not allow it.
	ErrInvalidTransition = errors.New("invalid reservation state transition")
)

type invalidInput struct{ msg string }

func (e *invalidInput) Error() string { return e.msg }
func (e *invalidInput) Unwrap() error { return ErrInvalidInput }

func wrapInvalid(msg string) error { return &invalidInput{msg: msg} }

// SeatsUnavailableError names the requested seats that are already booked.
type SeatsUnavailableError struct {
	Seats []string
}

func (e *SeatsUnavailableError) Error() string {
	return "seats unavailable: " + strings.Join(e.Seats, ", ")
}

// Is lets errors.Is(err, ErrSeatsUnavailable) match.
func (e *SeatsUnavailableError) Is(target error) bool { return target == ErrSeatsUnavailable }

// UnavailableSeats extracts the conflicting seats from err, if any.
func UnavailableSeats(err error) ([]string, bool) {
	var su *SeatsUnavailableError
	if errors.As(err, &su) {
		return su.Seats, true
	}
	return nil, false
}

// IsValidationError reports whether err belongs to the InvalidInput family.
func IsValidationError(err error) bool { return errors.Is(err, ErrInvalidInput) }

// IsConflictError reports whether err is a seat conflict.
func IsConflictError(err error) bool { return errors.Is(err, ErrSeatsUnavailable) }

// IsNotFoundError reports whether err is a lookup miss.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrNoPendingReservation)
}
