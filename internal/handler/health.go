package handler // declare the package name; contains HTTP handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
)

// Health is a simple liveness endpoint used by load balancers and
// monitoring systems to verify that the process is serving.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// Check probes one dependency.
type Check func(ctx context.Context) error

// ReadyHandler reports whether every configured backend answers.  Only
// the backends actually wired are registered, so the in-memory setup is
// always ready.
type ReadyHandler struct {
	Checks  map[string]Check
	Timeout time.Duration
}

// Ready handles GET /readyz.  It returns 503 with the failing checks when
// any dependency is down.
func (h *ReadyHandler) Ready(c echo.Context) error {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
	defer cancel()

	names := make([]string, 0, len(h.Checks))
	for name := range h.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	results := make(map[string]string, len(names))
	for _, name := range names {
		if err := h.Checks[name](ctx); err != nil {
			status = http.StatusServiceUnavailable
			results[name] = err.Error()
			continue
		}
		results[name] = "ok"
	}
	return c.JSON(status, echo.Map{"checks": results})
}
