package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-seat-booking/internal/booking"
	"github.com/iliyamo/cinema-seat-booking/internal/model"
)

// CatalogService is what CatalogHandler needs from the booking core.
type CatalogService interface {
	ListMovies(ctx context.Context) ([]model.Movie, error)
	GetMovie(ctx context.Context, id uint64) (model.Movie, error)
	ListSeats() []string
	GetAvailability(ctx context.Context, movieID uint64, showtime string) (booking.Availability, error)
	GetAvailabilityAll(ctx context.Context, movieID uint64) (map[string]booking.Availability, error)
}

// CatalogHandler serves the read-only browse endpoints.  None of them
// requires authentication.
type CatalogHandler struct {
	Svc CatalogService
	Log *zap.Logger
}

func NewCatalogHandler(svc CatalogService, log *zap.Logger) *CatalogHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogHandler{Svc: svc, Log: log}
}

// ListMovies handles GET /v1/movies.
func (h *CatalogHandler) ListMovies(c echo.Context) error {
	movies, err := h.Svc.ListMovies(c.Request().Context())
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"movies": movies})
}

// GetMovie handles GET /v1/movies/:id.
func (h *CatalogHandler) GetMovie(c echo.Context) error {
	id, ok := parseMovieID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	m, err := h.Svc.GetMovie(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, m)
}

// ListSeats handles GET /v1/seats and returns the seat grid.
func (h *CatalogHandler) ListSeats(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"seats": h.Svc.ListSeats()})
}

// Availability handles GET /v1/movies/:id/availability.  With ?showtime=
// it returns the booked seats of that showtime per ticket class;
// without it, the same map for every showtime of the movie.
func (h *CatalogHandler) Availability(c echo.Context) error {
	id, ok := parseMovieID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	ctx := c.Request().Context()
	if st := c.QueryParam("showtime"); st != "" {
		avail, err := h.Svc.GetAvailability(ctx, id, st)
		if err != nil {
			return respondError(c, h.Log, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"movie_id": id, "showtime": st, "booked": avail})
	}
	all, err := h.Svc.GetAvailabilityAll(ctx, id)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"movie_id": id, "booked_by_showtime": all})
}
