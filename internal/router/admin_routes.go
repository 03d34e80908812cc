package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/handler"
	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/middleware"
)

// RegisterAdmin registers the back-office endpoints under /api/admin.  Every
// route requires a valid JWT whose user is an admin in the store right now.
func RegisterAdmin(e *echo.Echo, grounds *handler.GroundHandler, bookings *handler.BookingHandler, users middleware.UserLookup, jwtSecret string) {
	g := e.Group(
		"/api/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireAdmin(users),
	)
	g.POST("/grounds", grounds.Create)
	g.PATCH("/grounds/:id/status", grounds.SetStatus)

	g.GET("/bookings", bookings.ListAll)
	g.PATCH("/bookings/:id/verify", bookings.Verify)
	g.PATCH("/bookings/:id/cancel", bookings.Cancel)
}
