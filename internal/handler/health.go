package handler // declare the package name; contains HTTP handlers

import (
	"context"
	"net/http" // net/http provides status codes and response helpers
	"time"

	"github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// Pinger is a dependency that can report whether it is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports liveness and the state of optional dependencies.
// Dependencies are named so operators can see which one is down.
type HealthHandler struct {
	Checks map[string]Pinger
}

// Health is the health‑check endpoint used by load balancers and
// monitoring systems. It answers 200 with "ok" when every dependency
// responds, and 503 listing the failing ones otherwise. The server keeps
// serving the catalog without Redis or MySQL, but the check still reports
// them.
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	failing := map[string]string{}
	for name, p := range h.Checks {
		if err := p.PingContext(ctx); err != nil {
			failing[name] = err.Error()
		}
	}
	if len(failing) > 0 {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "degraded", "failing": failing})
	}
	return c.String(http.StatusOK, "ok")
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

// PingContext calls f.
func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }
