package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-seat-booking/internal/middleware"
	"github.com/iliyamo/cinema-seat-booking/internal/model"
)

// OrderService is what OrderHandler needs from the booking core.
type OrderService interface {
	ListOrders(ctx context.Context) ([]model.Order, error)
	ListOrdersForCustomer(ctx context.Context, email string) ([]model.Order, error)
}

// OrderHandler serves the profile and admin order views.  Both routes sit
// behind JWTAuth.
type OrderHandler struct {
	Svc OrderService
	Log *zap.Logger
}

func NewOrderHandler(svc OrderService, log *zap.Logger) *OrderHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderHandler{Svc: svc, Log: log}
}

// Mine handles GET /v1/me/orders.
func (h *OrderHandler) Mine(c echo.Context) error {
	cust, ok := middleware.CustomerFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orders, err := h.Svc.ListOrdersForCustomer(c.Request().Context(), cust.Email)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}

// All handles GET /v1/admin/orders.
func (h *OrderHandler) All(c echo.Context) error {
	orders, err := h.Svc.ListOrders(c.Request().Context())
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}
