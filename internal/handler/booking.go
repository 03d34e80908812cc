package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/model"
	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/service"
)

// BookingHandler exposes the booking ledger to customers and admins.
type BookingHandler struct {
	base
	Bookings *service.BookingService
}

func NewBookingHandler(bookings *service.BookingService, log *slog.Logger, timeout time.Duration) *BookingHandler {
	return &BookingHandler{base: base{Log: log, Timeout: timeout}, Bookings: bookings}
}

type createBookingReq struct {
	GroundID  uint64 `json:"groundId"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Create books one slot and returns the payment instructions.
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	r, err := h.Bookings.Create(ctx, identity(c), service.CreateBookingInput{
		GroundID: req.GroundID, Date: req.Date, StartTime: req.StartTime, EndTime: req.EndTime,
	})
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toReceipt(r))
}

// ListMine returns the caller's bookings with their grounds.
func (h *BookingHandler) ListMine(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()

	list, err := h.Bookings.ListMine(ctx, identity(c))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingDetails(list))
}

// Get returns one booking to its owner or an admin.
func (h *BookingHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid booking id")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	b, err := h.Bookings.Get(ctx, identity(c), id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, toBooking(b))
}

// SubmitPayment accepts the payment screenshot ("screenshot" file field) and
// an optional "transactionId".
func (h *BookingHandler) SubmitPayment(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid booking id")
	}
	fh, err := c.FormFile("screenshot")
	if err != nil {
		return badRequest(c, "screenshot is required")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	b, err := h.Bookings.SubmitPayment(ctx, identity(c), id, fh, c.FormValue("transactionId"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, toBooking(b))
}

// ListAll returns every booking with user and ground details.
func (h *BookingHandler) ListAll(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()

	list, err := h.Bookings.ListAll(ctx, identity(c))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingDetails(list))
}

// Verify confirms a booking after reviewing its payment.
func (h *BookingHandler) Verify(c echo.Context) error {
	return h.review(c, h.Bookings.Verify)
}

// Cancel releases a booking's slot.
func (h *BookingHandler) Cancel(c echo.Context) error {
	return h.review(c, h.Bookings.Cancel)
}

type reviewFunc = func(ctx context.Context, caller service.Identity, id uint64) (model.Booking, error)

func (h *BookingHandler) review(c echo.Context, fn reviewFunc) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid booking id")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	b, err := fn(ctx, identity(c), id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, toBooking(b))
}
