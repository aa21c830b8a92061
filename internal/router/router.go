package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-seat-booking/internal/handler"
	"github.com/iliyamo/cinema-seat-booking/internal/middleware"
	"github.com/iliyamo/cinema-seat-booking/internal/model"
)

// RegisterRoutes registers routes that do not touch the booking core:
// liveness and readiness probes.
func RegisterRoutes(e *echo.Echo, ready *handler.ReadyHandler) {
	e.GET("/healthz", handler.Health)
	if ready != nil {
		e.GET("/readyz", ready.Ready)
	}
}

// RegisterCatalog registers the browse endpoints.  Movie data never
// changes while the process runs, so those two routes go through the
// response cache; availability moves with every order and is never cached.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, cache echo.MiddlewareFunc) {
	cache = orPassThrough(cache)
	e.GET("/v1/movies", h.ListMovies, cache)
	e.GET("/v1/movies/:id", h.GetMovie, cache)
	e.GET("/v1/seats", h.ListSeats)
	e.GET("/v1/movies/:id/availability", h.Availability)
}

// RegisterBooking registers the reservation lifecycle.  Every route is
// bound to the caller's session; a bearer token is optional and, when
// present, supplies the customer identity.  Creating and confirming a
// booking are rate limited.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	limiter = orPassThrough(limiter)
	session := middleware.Session()
	identity := middleware.OptionalJWT(jwtSecret)
	e.POST("/v1/movies/:id/bookings", h.Start, session, identity, limiter)
	e.GET("/v1/bookings/pending", h.Pending, session, identity)
	e.DELETE("/v1/bookings/pending", h.Cancel, session, identity)
	e.POST("/v1/bookings/confirm", h.Confirm, session, identity, limiter)
}

// RegisterOrders registers the order views.  Both require a valid token;
// the full list additionally requires the ADMIN role.
func RegisterOrders(e *echo.Echo, h *handler.OrderHandler, jwtSecret string) {
	auth := middleware.JWTAuth(jwtSecret)
	e.GET("/v1/me/orders", h.Mine, auth)
	e.GET("/v1/admin/orders", h.All, auth, middleware.RequireRole(model.RoleAdmin))
}

func orPassThrough(m echo.MiddlewareFunc) echo.MiddlewareFunc {
	if m != nil {
		return m
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
}
