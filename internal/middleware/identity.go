package middleware

// identity.go resolves who is calling: the requester session that owns a
// held reservation, and the customer identity carried by a token.

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-seat-booking/internal/model"
)

// SessionHeader carries the requester session in both directions.
const SessionHeader = "X-Session-ID"

const ctxSession = "session_id"

// Session reads X-Session-ID or, when absent, issues a new one.  The
// effective value is always echoed back in the response header so a
// client can keep using it for the confirmation call.
func Session() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := strings.TrimSpace(c.Request().Header.Get(SessionHeader))
			if id == "" || len(id) > 128 {
				id = uuid.NewString()
			}
			c.Set(ctxSession, id)
			c.Response().Header().Set(SessionHeader, id)
			return next(c)
		}
	}
}

// SessionID returns the session resolved by Session.
func SessionID(c echo.Context) string {
	s, _ := c.Get(ctxSession).(string)
	return s
}

// CustomerFromContext returns the token identity of an authenticated
// caller.
func CustomerFromContext(c echo.Context) (model.Customer, bool) {
	cl, ok := ClaimsFrom(c)
	if !ok || cl.Email == "" {
		return model.Customer{}, false
	}
	return cl.Customer(), true
}

// userID extracts a user identifier for rate limiting.  It returns "guest"
// when no user is authenticated.
func userID(c echo.Context) string {
	if v, ok := c.Get(ctxUserID).(string); ok && v != "" {
		return v
	}
	return "guest"
}
