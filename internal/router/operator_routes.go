package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/Its-SakshamR/Bus-Reservation/internal/handler"    // catalog handlers
	"github.com/Its-SakshamR/Bus-Reservation/internal/middleware" // JWT + role middlewares
	"github.com/Its-SakshamR/Bus-Reservation/internal/model"
)

// RegisterOperator registers OPERATOR-scoped endpoints under /v1/operator.
// All routes require a valid JWT and the OPERATOR role.
func RegisterOperator(e *echo.Echo, h *handler.CatalogHandler, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group(
		"/v1/operator",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleOperator),
	)
	g.POST("/routes", h.CreateRoute)
	g.POST("/buses", h.CreateBus)
	g.POST("/users", a.CreateUser) // any role, including OPERATOR
}
