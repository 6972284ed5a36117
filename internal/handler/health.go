package handler // declare the package name; contains HTTP handlers

import (
    "context"
    "database/sql"
    "net/http" // net/http provides status codes and response helpers
    "time"

    "github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// HealthHandler reports liveness plus database reachability.
type HealthHandler struct {
    DB *sql.DB
}

// Health is used by load balancers and monitoring systems.  It returns
// "ok" with 200 when the database answers a ping within two seconds and
// 503 otherwise.
func (h *HealthHandler) Health(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
    defer cancel()
    if err := h.DB.PingContext(ctx); err != nil {
        return c.String(http.StatusServiceUnavailable, "database unavailable")
    }
    return c.String(http.StatusOK, "ok")
}
