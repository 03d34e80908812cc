package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/handler"
	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/middleware"
)

// RegisterCustomer registers the booking endpoints of signed-in users under
// /api/bookings.  Ownership of a single booking is checked by the service.
func RegisterCustomer(e *echo.Echo, h *handler.BookingHandler, jwtSecret string) {
	g := e.Group("/api/bookings", middleware.JWTAuth(jwtSecret))
	g.POST("", h.Create)
	g.GET("", h.ListMine)
	g.GET("/:id", h.Get)
	g.POST("/:id/payment", h.SubmitPayment)
}
