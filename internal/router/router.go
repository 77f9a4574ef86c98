// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/restaurant-table-reservation/internal/config"
	"github.com/iliyamo/restaurant-table-reservation/internal/handler"
	"github.com/iliyamo/restaurant-table-reservation/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the unauthenticated read endpoints: the
// slot sequence and the per-date availability and occupancy views.
// These are the routes a booking widget polls, so they carry the rate
// limiter.
func RegisterPublic(e *echo.Echo, a *handler.AvailabilityHandler, rl config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/v1")
	g.Use(middleware.RateLimit(rl, rdb))
	g.GET("/slots", a.GetSlots)
	g.GET("/availability", a.GetAvailability)
	g.GET("/occupancy", a.GetOccupancy)
}

// RegisterReservations registers the authenticated booking surface.
// All routes verify the identity service's access token; the staff
// group additionally requires the STAFF role for day listings, visit
// completion and table administration.
func RegisterReservations(e *echo.Echo, r *handler.ReservationHandler, t *handler.TableHandler, cl *handler.ClientHandler, jwtSecret string) {
	auth := e.Group("/v1")
	auth.Use(middleware.Auth(jwtSecret))

	auth.POST("/reservations", r.Create)
	auth.GET("/reservations/:id", r.Get)
	auth.PATCH("/reservations/:id", r.Reschedule)
	auth.POST("/reservations/:id/cancel", r.Cancel)

	auth.POST("/clients", cl.Create)
	auth.GET("/clients/:id", cl.Get)
	auth.GET("/clients/:id/reservations", r.ListByClient)

	staff := auth.Group("")
	staff.Use(middleware.RequireStaff())
	staff.GET("/reservations", r.ListByDate)
	staff.POST("/reservations/:id/complete", r.Complete)
	staff.POST("/tables", t.Create)
	staff.PATCH("/tables/:id", t.Update)
	staff.GET("/tables", t.List)
}
