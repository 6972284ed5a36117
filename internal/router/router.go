package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/Its-SakshamR/Bus-Reservation/internal/handler"    // handlers that implement each endpoint
	"github.com/Its-SakshamR/Bus-Reservation/internal/middleware" // JWT authentication and role enforcement
	"github.com/Its-SakshamR/Bus-Reservation/internal/model"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler) {
	e.GET("/healthz", h.Health)
}

// RegisterAuth registers all authentication-related routes.  Session
// creation and exchange live under /v1/auth without a token; /v1/me needs
// one.  Logout accepts either a refresh token or a bearer token and so
// sits outside the JWT group.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh) // rotates the refresh token
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RolePassenger, model.RoleOperator),
	)
	auth.GET("/me", a.Me)
}

// RegisterPublic registers unauthenticated browse endpoints.  Only the
// route list goes through the response cache; bus listings and seat views
// report live availability and are always served from the database.
func RegisterPublic(e *echo.Echo, h *handler.CatalogHandler, cache echo.MiddlewareFunc) {
	e.GET("/v1/routes", h.ListRoutes, cache)
	e.GET("/v1/routes/:name/buses", h.ListBuses)
	e.GET("/v1/buses/:id/seats", h.SeatMap)
	e.GET("/v1/buses/:id/seats/available", h.AvailableSeats)
}
