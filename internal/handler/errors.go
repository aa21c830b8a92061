package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-seat-booking/internal/model"
)

// respondError maps the booking error taxonomy onto HTTP.  Unexpected
// errors are logged and hidden behind a generic 500.
func respondError(c echo.Context, log *zap.Logger, err error) error {
	if seats, ok := model.UnavailableSeats(err); ok {
		return c.JSON(http.StatusConflict, echo.Map{"error": "seats unavailable", "unavailable": seats})
	}
	switch {
	case model.IsValidationError(err):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, model.ErrNoPendingReservation):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no pending reservation"})
	case model.IsNotFoundError(err):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, model.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	log.Error("request failed",
		zap.String("method", c.Request().Method),
		zap.String("route", c.Path()),
		zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// parseMovieID reads the :id path parameter.
func parseMovieID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
