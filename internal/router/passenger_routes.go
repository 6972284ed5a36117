package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Its-SakshamR/Bus-Reservation/internal/handler"
	"github.com/Its-SakshamR/Bus-Reservation/internal/middleware"
	"github.com/Its-SakshamR/Bus-Reservation/internal/model"
)

// RegisterTickets registers booking endpoints under /v1.  All routes
// require a valid JWT; operators may book too.  Booking is rate limited
// per user.
func RegisterTickets(e *echo.Echo, h *handler.TicketHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RolePassenger, model.RoleOperator),
	)
	g.POST("/tickets", h.Book, limiter)
	g.GET("/my-tickets", h.MyTickets)
	g.DELETE("/tickets/:id", h.Cancel, limiter)
}
